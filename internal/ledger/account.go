package ledger

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/fastprodman/moneyd/internal/money"
	"github.com/fastprodman/moneyd/internal/repos/accounts"
)

// Account holds one player's balances. All mutations are serialized on the
// account and each successful one enqueues exactly one snapshot for
// persistence, in mutation order.
type Account struct {
	id       uuid.UUID
	settings Settings
	sink     Sink

	mu       sync.Mutex
	balances map[string]money.Money
}

func newAccount(id uuid.UUID, settings Settings, sink Sink) *Account {
	return &Account{
		id:       id,
		settings: settings,
		sink:     sink,
		balances: map[string]money.Money{
			settings.DefaultScope: settings.StartBalance.Round(settings.DecimalPlaces),
		},
	}
}

func (a *Account) ID() uuid.UUID {
	return a.id
}

// Balance returns the stored balance for scope, or the start balance when
// nothing was stored there.
func (a *Account) Balance(scope string) money.Money {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.balanceLocked(a.settings.scope(scope))
}

// SetBalance stores amount rounded to the configured precision.
func (a *Account) SetBalance(scope string, amount money.Money) (money.Money, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.setLocked(a.settings.scope(scope), amount)
}

// Deposit adds amount, which may be negative as long as the result is not.
func (a *Account) Deposit(scope string, amount money.Money) (money.Money, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := a.settings.scope(scope)

	balance, err := a.setLocked(key, a.balanceLocked(key).Add(amount))
	if err != nil {
		return money.Zero, fmt.Errorf("deposit %s: %w", amount, err)
	}

	return balance, nil
}

func (a *Account) Withdraw(scope string, amount money.Money) (money.Money, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := a.settings.scope(scope)

	balance, err := a.setLocked(key, a.balanceLocked(key).Sub(amount))
	if err != nil {
		if errors.Is(err, ErrNegativeBalance) {
			return money.Zero, fmt.Errorf("withdraw %s: %w", amount, ErrInsufficientFunds)
		}

		return money.Zero, fmt.Errorf("withdraw %s: %w", amount, err)
	}

	return balance, nil
}

// Snapshot returns the explicitly stored balances.
func (a *Account) Snapshot() accounts.Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.snapshotLocked()
}

func (a *Account) balanceLocked(key string) money.Money {
	balance, ok := a.balances[key]
	if !ok {
		balance = a.settings.StartBalance
	}

	return balance.Round(a.settings.DecimalPlaces)
}

func (a *Account) setLocked(key string, amount money.Money) (money.Money, error) {
	if amount.IsNegative() {
		return money.Zero, fmt.Errorf("set %s to %s: %w", key, amount, ErrNegativeBalance)
	}

	rounded := amount.Round(a.settings.DecimalPlaces)
	if !rounded.LessThan(money.BalanceLimit) {
		return money.Zero, fmt.Errorf("set %s to %s: %w", key, rounded, ErrBalanceLimit)
	}

	a.balances[key] = rounded

	if a.sink != nil {
		a.sink.Enqueue(a.snapshotLocked())
	}

	return rounded, nil
}

func (a *Account) snapshotLocked() accounts.Record {
	return accounts.Record{ID: a.id, Balances: maps.Clone(a.balances)}
}

// replace overwrites the balances with loaded values without persisting.
func (a *Account) replace(balances map[string]money.Money) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.balances = make(map[string]money.Money, len(balances))
	for scope, balance := range balances {
		a.balances[scope] = balance.Round(a.settings.DecimalPlaces)
	}
}
