// Package sqlite stores balances in a single SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/fastprodman/moneyd/internal/repos/accounts"
	"github.com/fastprodman/moneyd/internal/repos/accounts/sqlite/migrations"
)

var ErrBusy = errors.New("sqlite database is busy")

const upsertBalance = `
	INSERT INTO balances (account_id, scope, balance)
	VALUES (?, ?, ?)
	ON CONFLICT (account_id, scope) DO UPDATE SET balance = excluded.balance
`

type sqliteRepo struct {
	db *sql.DB
}

// Open opens the database at path and applies the embedded migrations.
func Open(path string) (*sqliteRepo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)

	err = db.Ping()
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	err = applyMigrations(db)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &sqliteRepo{db: db}, nil
}

func applyMigrations(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("init sqlite driver: %w", err)
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("m.Up: %w", err)
	}

	return nil
}

func (r *sqliteRepo) Name() string {
	return "SQLite"
}

func (r *sqliteRepo) Close() error {
	return r.db.Close()
}

func (r *sqliteRepo) Load(ctx context.Context) ([]accounts.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT account_id, scope, balance
		FROM balances
		ORDER BY account_id, scope
	`)
	if err != nil {
		return nil, fmt.Errorf("query balances: %w", describe(err))
	}
	//nolint:errcheck
	defer rows.Close()

	recs, err := accounts.ScanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("load balances: %w", err)
	}

	return recs, nil
}

func (r *sqliteRepo) Store(ctx context.Context, rec accounts.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", describe(err))
	}

	for _, scope := range slices.Sorted(maps.Keys(rec.Balances)) {
		_, err = tx.ExecContext(ctx, upsertBalance, rec.ID.String(), scope, rec.Balances[scope].String())
		if err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("upsert balance %s/%s: %w", rec.ID, scope, describe(err))
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit tx: %w", describe(err))
	}

	return nil
}

// describe marks lock contention so callers can tell it from other failures.
func describe(err error) error {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	code := sqliteErr.Code()
	if code == sqlite3lib.SQLITE_BUSY || code == sqlite3lib.SQLITE_LOCKED {
		return fmt.Errorf("%w: %w", ErrBusy, err)
	}

	return err
}
