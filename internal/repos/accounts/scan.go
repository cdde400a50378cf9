package accounts

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fastprodman/moneyd/internal/money"
)

// ScanRecords groups (account_id, scope, balance) rows into records, keeping
// the order in which accounts first appear. Rows with an invalid id or balance
// are skipped with a warning.
func ScanRecords(rows *sql.Rows) ([]Record, error) {
	var (
		out   []Record
		index = make(map[uuid.UUID]int)
	)

	for rows.Next() {
		var rawID, scope, rawBalance string

		err := rows.Scan(&rawID, &scope, &rawBalance)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		id, err := uuid.Parse(rawID)
		if err != nil {
			slog.Warn("skipping row with invalid account id", "account_id", rawID, "error", err)

			continue
		}

		balance, err := money.Decode(rawBalance)
		if err != nil {
			slog.Warn("skipping unparseable balance", "account_id", id, "scope", scope, "error", err)

			continue
		}

		if balance.IsNegative() {
			slog.Warn("negative balance stored, using zero", "account_id", id, "scope", scope)

			balance = money.Zero
		}

		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, Record{ID: id, Balances: make(map[string]money.Money)})
		}

		out[i].Balances[scope] = balance
	}

	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return out, nil
}
