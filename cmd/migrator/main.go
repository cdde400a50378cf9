package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fastprodman/moneyd/internal/infra/logging"
	"github.com/fastprodman/moneyd/internal/repos/accounts/postgres/migrations"
	"github.com/fastprodman/moneyd/pkg/envconf"
)

type migratorConfig struct {
	DSN      string     `env:"PG_DSN,required"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	Down     bool       `env:"MIGRATE_DOWN" envDefault:"false"`
}

func main() {
	err := migrateAll()
	if err != nil {
		slog.Error("migration run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("migration run finished successfully")
}

func migrateAll() error {
	cfg := new(migratorConfig)

	err := envconf.LoadWithDotenv(cfg, ".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	//nolint:errcheck
	defer db.Close()

	err = db.Ping()
	if err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("init postgres driver: %w", err)
	}

	err = runMigrations(driver, migrations.FS, cfg.Down)
	if err != nil {
		return fmt.Errorf("balance migrations failed: %w", err)
	}

	slog.Info("balance migrations applied", "down", cfg.Down)

	return nil
}

func runMigrations(driver database.Driver, fsys fs.FS, down bool) error {
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}

	if down {
		err = m.Down()
	} else {
		err = m.Up()
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}
