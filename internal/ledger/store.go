// Package ledger keeps the authoritative in-memory balances of every account
// and hands each change to a write-behind persister.
package ledger

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/fastprodman/moneyd/internal/money"
	"github.com/fastprodman/moneyd/internal/repos/accounts"
)

// Sink receives account snapshots after every successful mutation. Enqueue
// must not block.
type Sink interface {
	Enqueue(rec accounts.Record)
}

type Store struct {
	settings Settings
	sink     Sink

	mu       sync.RWMutex
	accounts map[uuid.UUID]*Account
	loaded   bool
}

// NewStore validates settings and returns an empty store. sink may be nil,
// in which case nothing is persisted.
func NewStore(settings Settings, sink Sink) (*Store, error) {
	err := settings.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	return &Store{
		settings: settings,
		sink:     sink,
		accounts: make(map[uuid.UUID]*Account),
	}, nil
}

func (s *Store) Settings() Settings {
	return s.settings
}

// GetOrCreate returns the account for id, creating it with the start balance
// on first use. Creation is not persisted.
func (s *Store) GetOrCreate(id uuid.UUID) *Account {
	s.mu.RLock()
	acc, ok := s.accounts[id]
	s.mu.RUnlock()

	if ok {
		return acc
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok = s.accounts[id]
	if !ok {
		acc = newAccount(id, s.settings, s.sink)
		s.accounts[id] = acc
	}

	return acc
}

// Lookup returns the account for id without creating it.
func (s *Store) Lookup(id uuid.UUID) (*Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]

	return acc, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.accounts)
}

// BulkLoad merges stored accounts into the store. It may run only once.
// Accounts already created in memory have their balances overwritten in place
// so callers holding them keep seeing the same object.
func (s *Store) BulkLoad(records []accounts.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return ErrAlreadyLoaded
	}

	s.loaded = true

	for _, rec := range records {
		balances := make(map[string]money.Money, len(rec.Balances))

		for scope, balance := range rec.Balances {
			if balance.IsNegative() {
				slog.Warn("negative stored balance clamped to zero",
					"account_id", rec.ID, "scope", scope, "balance", balance.String())

				balance = money.Zero
			}

			balances[scope] = balance
		}

		acc, ok := s.accounts[rec.ID]
		if !ok {
			acc = newAccount(rec.ID, s.settings, s.sink)
			s.accounts[rec.ID] = acc
		}

		acc.replace(balances)
	}

	return nil
}
