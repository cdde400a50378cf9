package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/fastprodman/moneyd/internal/api"
	"github.com/fastprodman/moneyd/internal/config"
	"github.com/fastprodman/moneyd/internal/directory"
	"github.com/fastprodman/moneyd/internal/infra/logging"
	"github.com/fastprodman/moneyd/internal/infra/pgutils"
	"github.com/fastprodman/moneyd/internal/ledger"
	"github.com/fastprodman/moneyd/internal/messages"
	"github.com/fastprodman/moneyd/internal/metrics"
	"github.com/fastprodman/moneyd/internal/repos/accounts"
	"github.com/fastprodman/moneyd/internal/repos/accounts/flatfile"
	pgaccounts "github.com/fastprodman/moneyd/internal/repos/accounts/postgres"
	sqliteaccounts "github.com/fastprodman/moneyd/internal/repos/accounts/sqlite"
	"github.com/fastprodman/moneyd/internal/resolver"
	"github.com/fastprodman/moneyd/internal/services/balance"
	"github.com/fastprodman/moneyd/pkg/envconf"
	"github.com/fastprodman/moneyd/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.LoadWithDotenv(cfg, ".env")
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	queue := shutdownqueue.New()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := queue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Directory and messages ---
	dir, err := openDirectory(cfg)
	if err != nil {
		return fmt.Errorf("init directory: %w", err)
	}

	catalog, err := messages.Load(cfg.MessagesFile)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	// --- Storage ---
	repo, err := openRepo(ctx, cfg.Storage, queue)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	// --- Ledger ---
	var (
		store  *ledger.Store
		writer *ledger.Writer
	)

	m := metrics.New(
		func() int { return store.Len() },
		func() int { return writer.Depth() },
	)

	writer = ledger.NewWriter(repo, ledger.WithObserver(m.ObservePersistence))

	settings := cfg.Ledger.Settings(dir.DefaultScope())

	store, err = ledger.NewStore(settings, writer)
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}

	records, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}

	err = store.BulkLoad(records)
	if err != nil {
		return fmt.Errorf("bulk load accounts: %w", err)
	}

	slog.Info("accounts loaded", "backend", repo.Name(), "count", len(records), "mode", settings.Mode)

	res := resolver.New(resolver.Config{
		Multi:         settings.Multi(),
		DecimalPlaces: settings.DecimalPlaces,
	}, dir, dir)

	balanceSrv := balance.New(store, res, catalog, cfg.Format.Formatter(settings.DecimalPlaces), dir)

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, api.Deps{
		Balance:   balanceSrv,
		Directory: dir,
		Metrics:   m,
	})

	// Tasks run in reverse: the server stops taking commands before the
	// writer is flushed, and the backend closes last.
	queue.Add("flush writer", writer.Flush)
	queue.Add("http server", func(c context.Context) error {
		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return writer.Run(gctx)
	})

	g.Go(func() error {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		return queue.Shutdown(shutdownCtx)
	})

	slog.Info("API started", "port", cfg.Port)

	err = g.Wait()
	if err != nil {
		return fmt.Errorf("run api: %w", err)
	}

	return nil
}

func openDirectory(cfg *apiConfig) (*directory.Directory, error) {
	if cfg.DirectoryFile == "" {
		return directory.New(cfg.DefaultScope, nil)
	}

	return directory.Load(cfg.DirectoryFile)
}

func openRepo(ctx context.Context, cfg config.StorageConfig, queue *shutdownqueue.Queue) (accounts.Accounts, error) {
	switch cfg.Backend() {
	case config.StorageSQLite:
		repo, err := sqliteaccounts.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}

		queue.Add("close sqlite", func(context.Context) error {
			return repo.Close()
		})

		return repo, nil
	case config.StoragePostgres:
		db, err := pgutils.OpenDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}

		queue.Add("close postgres", func(context.Context) error {
			return db.Close()
		})

		return pgaccounts.New(db), nil
	default:
		err := os.MkdirAll(cfg.DataDir, 0o755)
		if err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}

		return flatfile.New(cfg.DataDir), nil
	}
}
