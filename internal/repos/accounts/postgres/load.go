package postgres

import (
	"context"
	"fmt"

	"github.com/fastprodman/moneyd/internal/repos/accounts"
)

func (r *balancesRepo) Load(ctx context.Context) ([]accounts.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT account_id::text, scope, balance::text
		FROM balances
		ORDER BY account_id, scope
	`)
	if err != nil {
		return nil, fmt.Errorf("query balances: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	recs, err := accounts.ScanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("load balances: %w", err)
	}

	return recs, nil
}
