// Package money implements the fixed-precision decimal value used for every
// balance and amount in the ledger.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxDecimalPlaces bounds the configurable precision.
const MaxDecimalPlaces = 8

const (
	maxInputLen   = 64
	maxIntDigits  = 16
	maxFracDigits = 32
	minExponent   = -64
)

// MaxBalanceDigits is the number of integer digits every storage backend can
// hold (NUMERIC(30, 8) in Postgres).
const MaxBalanceDigits = 22

// BalanceLimit is the exclusive upper bound of a balance.
var BalanceLimit = Money{d: decimal.New(1, MaxBalanceDigits)}

var (
	ErrParse            = errors.New("malformed amount")
	ErrOutOfRange       = errors.New("amount out of range")
	ErrInvalidPrecision = errors.New("invalid decimal places")
)

var half = decimal.New(5, -1)

// Money is an immutable decimal quantity. The zero value is 0.
type Money struct {
	d decimal.Decimal
}

// Zero is 0.
var Zero = Money{}

func New(d decimal.Decimal) Money {
	return Money{d: d}
}

func FromInt(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

// Parse reads a decimal amount. Leading zeros, a leading plus sign and excess
// fractional digits are accepted; rounding is the caller's concern.
func Parse(text string) (Money, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Money{}, fmt.Errorf("%w: empty", ErrParse)
	}

	s = trimFraction(s)

	if len(s) > maxInputLen {
		return Money{}, fmt.Errorf("%w: %w: %d characters", ErrParse, ErrOutOfRange, len(s))
	}

	s = strings.TrimPrefix(s, "+")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrParse, text)
	}

	if !d.IsZero() && (d.Exponent() < minExponent || int(d.Exponent())+d.NumDigits() > maxIntDigits) {
		return Money{}, fmt.Errorf("%w: %w: %q", ErrParse, ErrOutOfRange, text)
	}

	return Money{d: d}, nil
}

// trimFraction cuts a plain fractional part down to maxFracDigits digits. When
// any dropped digit is non-zero a trailing 1 is kept in its place, so half-up
// rounding to any supported precision gives the same result for either sign.
func trimFraction(s string) string {
	if strings.ContainsAny(s, "eE") {
		return s
	}

	dot := strings.IndexByte(s, '.')
	if dot < 0 || len(s)-dot-1 <= maxFracDigits {
		return s
	}

	kept, dropped := s[:dot+1+maxFracDigits], s[dot+1+maxFracDigits:]

	sticky := false

	for _, c := range dropped {
		if c < '0' || c > '9' {
			return s
		}

		if c != '0' {
			sticky = true
		}
	}

	if sticky {
		return kept + "1"
	}

	return kept
}

// Decode reads a balance written by a storage backend. Unlike Parse it puts
// no bound on the number of digits, so everything the ledger held can be
// read back.
func Decode(text string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrParse, text)
	}

	return Money{d: d}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(text string) Money {
	m, err := Parse(text)
	if err != nil {
		panic(err)
	}

	return m
}

// ValidatePlaces reports whether places is a supported precision.
func ValidatePlaces(places int32) error {
	if places < 0 || places > MaxDecimalPlaces {
		return fmt.Errorf("%w: %d (allowed 0..%d)", ErrInvalidPrecision, places, MaxDecimalPlaces)
	}

	return nil
}

// Round rounds half-up (towards positive infinity on a tie) to places
// fractional digits.
func (m Money) Round(places int32) Money {
	shifted := m.d.Shift(places).Add(half).Floor()

	return Money{d: shifted.Shift(-places)}
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }

func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

func (m Money) Neg() Money { return Money{d: m.d.Neg()} }

func (m Money) Abs() Money { return Money{d: m.d.Abs()} }

func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

func (m Money) LessThan(o Money) bool { return m.d.LessThan(o.d) }

func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }

func (m Money) IsNegative() bool { return m.d.IsNegative() }

func (m Money) IsZero() bool { return m.d.IsZero() }

func (m Money) IsPositive() bool { return m.d.IsPositive() }

// Decimal exposes the underlying value for storage drivers.
func (m Money) Decimal() decimal.Decimal { return m.d }

// String returns the exact value without trailing-zero padding.
func (m Money) String() string { return m.d.String() }

// StringFixed renders exactly places fractional digits after rounding half-up.
func (m Money) StringFixed(places int32) string {
	return m.Round(places).d.StringFixed(places)
}

func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.d.String()), nil
}

func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}
