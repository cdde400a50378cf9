package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"

	"github.com/fastprodman/moneyd/internal/infra/pgutils"
	"github.com/fastprodman/moneyd/internal/repos/accounts"
)

// Store upserts every scope of the account in one transaction.
func (r *balancesRepo) Store(ctx context.Context, rec accounts.Record) error {
	err := pgutils.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, scope := range slices.Sorted(maps.Keys(rec.Balances)) {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO balances (account_id, scope, balance)
				VALUES ($1, $2, $3)
				ON CONFLICT (account_id, scope) DO UPDATE SET balance = EXCLUDED.balance
			`, rec.ID.String(), scope, rec.Balances[scope].String())
			if err != nil {
				return fmt.Errorf("upsert %s: %w", scope, pgutils.Describe(err))
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("store account %s: %w", rec.ID, err)
	}

	return nil
}
