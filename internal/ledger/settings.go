package ledger

import (
	"fmt"

	"github.com/fastprodman/moneyd/internal/money"
)

type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// Settings are the process-wide ledger rules.
type Settings struct {
	DecimalPlaces int32
	StartBalance  money.Money
	Mode          Mode
	DefaultScope  string
}

func (s Settings) Validate() error {
	err := money.ValidatePlaces(s.DecimalPlaces)
	if err != nil {
		return fmt.Errorf("decimal places: %w", err)
	}

	if s.StartBalance.IsNegative() {
		return fmt.Errorf("start balance %s: %w", s.StartBalance, ErrNegativeBalance)
	}

	if !s.StartBalance.Round(s.DecimalPlaces).LessThan(money.BalanceLimit) {
		return fmt.Errorf("start balance %s: %w", s.StartBalance, ErrBalanceLimit)
	}

	if s.Mode != ModeSingle && s.Mode != ModeMulti {
		return fmt.Errorf("invalid scoping mode %q", s.Mode)
	}

	if s.DefaultScope == "" {
		return fmt.Errorf("default scope is empty")
	}

	return nil
}

// Multi reports whether balances are kept per scope.
func (s Settings) Multi() bool {
	return s.Mode == ModeMulti
}

func (s Settings) scope(requested string) string {
	if s.Mode == ModeSingle || requested == "" {
		return s.DefaultScope
	}

	return requested
}
