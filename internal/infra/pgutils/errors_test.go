package pgutils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	plain := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, want: ErrUniqueViolation},
		{name: "check_wrapped", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23514"}), want: ErrCheckViolation},
		{name: "other_pg_error", err: &pgconn.PgError{Code: "40001"}},
		{name: "not_pg_error", err: plain, want: plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Describe(tt.err)

			if !errors.Is(got, tt.err) {
				t.Fatalf("original error lost: %v", got)
			}

			if tt.want != nil && !errors.Is(got, tt.want) {
				t.Fatalf("Describe() = %v, want %v in chain", got, tt.want)
			}

			if tt.want == nil && (errors.Is(got, ErrUniqueViolation) || errors.Is(got, ErrCheckViolation)) {
				t.Fatalf("unexpected sentinel in %v", got)
			}
		})
	}
}
