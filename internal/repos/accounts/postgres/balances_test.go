package postgres

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/fastprodman/moneyd/internal/infra/pgtestutil"
	"github.com/fastprodman/moneyd/internal/money"
	"github.com/fastprodman/moneyd/internal/repos/accounts"
)

func TestBalances_StoreAndLoad_TableDriven(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	type tc struct {
		name string
		seed func(db *sql.DB, t *testing.T)
		rec  accounts.Record
		want map[string]string
	}

	tests := []tc{
		{
			name: "ok_insert_new_account",
			rec:  accounts.Record{ID: id, Balances: map[string]money.Money{"world": money.MustParse("12.34")}},
			want: map[string]string{"world": "12.34"},
		},
		{
			name: "ok_upsert_keeps_other_scopes",
			seed: func(db *sql.DB, t *testing.T) {
				_, err := db.Exec(`
					INSERT INTO balances (account_id, scope, balance)
					VALUES ($1, 'world', 1), ($1, 'nether', 9)
				`, id.String())
				if err != nil {
					t.Fatalf("seed balances: %v", err)
				}
			},
			rec:  accounts.Record{ID: id, Balances: map[string]money.Money{"world": money.FromInt(5)}},
			want: map[string]string{"world": "5", "nether": "9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seed != nil {
				tt.seed(db, t)
			}

			repo := New(db)
			ctx := t.Context()

			err := repo.Store(ctx, tt.rec)
			if err != nil {
				t.Fatalf("store: %v", err)
			}

			recs, err := repo.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}

			if len(recs) != 1 {
				t.Fatalf("records: want 1, got %d", len(recs))
			}

			got := recs[0].Balances
			if len(got) != len(tt.want) {
				t.Fatalf("balances: want %v, got %v", tt.want, got)
			}

			for scope, want := range tt.want {
				if !got[scope].Equal(money.MustParse(want)) {
					t.Fatalf("%s: want %s, got %s", scope, want, got[scope])
				}
			}
		})
	}
}
