package pgutils

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUniqueViolation = errors.New("unique violation")
	ErrCheckViolation  = errors.New("check violation")
)

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
)

// Describe maps constraint failures reported by Postgres onto sentinel errors
// and returns any other error unchanged.
func Describe(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w (%s): %w", ErrUniqueViolation, pgErr.ConstraintName, err)
	case codeCheckViolation:
		return fmt.Errorf("%w (%s): %w", ErrCheckViolation, pgErr.ConstraintName, err)
	default:
		return err
	}
}
