// Package flatfile stores each account in its own text file named by the
// account id, one "scope:balance" line per scope.
package flatfile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fastprodman/moneyd/internal/money"
	"github.com/fastprodman/moneyd/internal/repos/accounts"
)

const loadConcurrency = 8

type flatFileRepo struct {
	dir string
}

func New(dir string) *flatFileRepo {
	return &flatFileRepo{dir: dir}
}

func (r *flatFileRepo) Name() string {
	return "Flat File"
}

func (r *flatFileRepo) Load(ctx context.Context) ([]accounts.Record, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read data dir: %w", err)
	}

	results := make([]*accounts.Record, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)

	for i, entry := range entries {
		if entry.IsDir() {
			continue
		}

		g.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return err
			}

			rec, ok, err := r.loadFile(entry.Name())
			if err != nil {
				return fmt.Errorf("load %s: %w", entry.Name(), err)
			}

			if ok {
				results[i] = &rec
			}

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	out := make([]accounts.Record, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			out = append(out, *rec)
		}
	}

	return out, nil
}

func (r *flatFileRepo) loadFile(name string) (accounts.Record, bool, error) {
	id, err := uuid.Parse(name)
	if err != nil || len(name) != 36 {
		slog.Warn("skipping file with non-account name", "file", name)

		return accounts.Record{}, false, nil
	}

	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return accounts.Record{}, false, fmt.Errorf("read file: %w", err)
	}

	balances := parseLines(id, data)
	if len(balances) == 0 {
		slog.Warn("skipping account file without balances", "account_id", id)

		return accounts.Record{}, false, nil
	}

	return accounts.Record{ID: id, Balances: balances}, true, nil
}

func parseLines(id uuid.UUID, data []byte) map[string]money.Money {
	balances := make(map[string]money.Money)

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}

		// scope names may contain colons
		idx := strings.LastIndex(line, ":")
		if idx == -1 || idx == len(line)-1 {
			slog.Warn("skipping malformed balance line", "account_id", id, "line", line)

			continue
		}

		scope, raw := line[:idx], line[idx+1:]

		balance, err := money.Decode(raw)
		if err != nil {
			slog.Warn("skipping unparseable balance", "account_id", id, "scope", scope, "error", err)

			continue
		}

		if balance.IsNegative() {
			slog.Warn("negative balance stored, using zero", "account_id", id, "scope", scope)

			balance = money.Zero
		}

		balances[scope] = balance
	}

	return balances
}

// Store rewrites the account file through a temp file and rename so readers
// never observe a partial write.
func (r *flatFileRepo) Store(_ context.Context, rec accounts.Record) error {
	err := os.MkdirAll(r.dir, 0o755)
	if err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	var buf bytes.Buffer
	for _, scope := range slices.Sorted(maps.Keys(rec.Balances)) {
		fmt.Fprintf(&buf, "%s:%s\n", scope, rec.Balances[scope].String())
	}

	tmp, err := os.CreateTemp(r.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmp.Name()

	_, err = tmp.Write(buf.Bytes())
	if err == nil {
		err = tmp.Sync()
	}

	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("write temp file: %w", err)
	}

	err = os.Rename(tmpName, filepath.Join(r.dir, rec.ID.String()))
	if err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("rename account file: %w", err)
	}

	return nil
}
