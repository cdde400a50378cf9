package accounts

import (
	"context"

	"github.com/google/uuid"

	"github.com/fastprodman/moneyd/internal/money"
)

// Record is the persisted form of one account: every scope with an explicitly
// stored balance.
type Record struct {
	ID       uuid.UUID
	Balances map[string]money.Money
}

// Accounts is the persistence port of the ledger.
type Accounts interface {
	// Load returns every stored account. Malformed entries are skipped, not
	// reported as errors.
	Load(ctx context.Context) ([]Record, error)
	// Store replaces the stored balances of one account.
	Store(ctx context.Context, rec Record) error
	// Name is a human-readable backend type used in logs and metric labels.
	Name() string
}
