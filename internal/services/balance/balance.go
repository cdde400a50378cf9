package balance

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fastprodman/moneyd/internal/ledger"
	"github.com/fastprodman/moneyd/internal/messages"
	"github.com/fastprodman/moneyd/internal/money"
	"github.com/fastprodman/moneyd/internal/resolver"
)

// CommandLabel is the name of the money command as shown in help output.
const CommandLabel = "money"

// Presence tells whether a player can receive notices right now.
type Presence interface {
	IsOnline(id uuid.UUID) bool
}

type BalanceService struct {
	store    *ledger.Store
	resolver *resolver.Resolver
	catalog  *messages.Catalog
	format   money.Formatter
	presence Presence
}

func New(
	store *ledger.Store,
	res *resolver.Resolver,
	catalog *messages.Catalog,
	format money.Formatter,
	presence Presence,
) *BalanceService {
	return &BalanceService{
		store:    store,
		resolver: res,
		catalog:  catalog,
		format:   format,
		presence: presence,
	}
}

// Execute resolves the raw arguments of the money command and applies the
// result.
func (s *BalanceService) Execute(caller resolver.Caller, args []string) Outcome {
	return s.Apply(caller, s.resolver.ResolveArgs(caller, args))
}

// Apply carries out a resolved intent against the ledger.
func (s *BalanceService) Apply(caller resolver.Caller, intent resolver.Intent) Outcome {
	switch in := intent.(type) {
	case resolver.ViewBalance:
		return s.view(caller, in)
	case resolver.Transfer:
		return s.transfer(caller, in)
	case resolver.SetBalance:
		return s.set(caller, in)
	case resolver.Adjust:
		return s.adjust(caller, in)
	case resolver.Reject:
		return Outcome{
			Intent:  in,
			Kind:    rejectionKind(in.Reason),
			Replies: []string{s.rejectionText(in)},
		}
	default:
		return Outcome{
			Intent:  intent,
			Kind:    KindHelp,
			Replies: s.catalog.Help(CommandLabel, caller, s.multi()),
		}
	}
}

func (s *BalanceService) Complete(caller resolver.Caller, args []string) []string {
	return s.resolver.Complete(caller, args)
}

// Balance reads a balance without going through the command surface. An
// account the ledger does not hold reads as the start balance and is not
// created.
func (s *BalanceService) Balance(id uuid.UUID, scope string) money.Money {
	settings := s.store.Settings()

	if scope == "" {
		scope = settings.DefaultScope
	}

	account, ok := s.store.Lookup(id)
	if !ok {
		return settings.StartBalance.Round(settings.DecimalPlaces)
	}

	return account.Balance(scope)
}

func (s *BalanceService) Format(m money.Money) string {
	return s.format.Format(m)
}

func (s *BalanceService) Places() int32 {
	return s.store.Settings().DecimalPlaces
}

func (s *BalanceService) multi() bool {
	return s.store.Settings().Multi()
}

// inCurrentScope reports whether a scoped message can say "this scope".
func (s *BalanceService) inCurrentScope(c resolver.Caller, scope string) bool {
	return c.Interactive && c.Scope == scope
}

func (s *BalanceService) view(c resolver.Caller, in resolver.ViewBalance) Outcome {
	shown := s.Format(s.store.GetOrCreate(in.Subject.ID).Balance(in.Scope))

	var text string

	switch {
	case in.ViewerIsSubject && !s.multi():
		text = s.catalog.Format("balance-self", shown)
	case in.ViewerIsSubject && s.inCurrentScope(c, in.Scope):
		text = s.catalog.Format("balance-self-current-world", shown)
	case in.ViewerIsSubject:
		text = s.catalog.Format("balance-self-in-world", in.Scope, shown)
	case !s.multi():
		text = s.catalog.Format("balance-player", in.Subject.Name, shown)
	case s.inCurrentScope(c, in.Scope):
		text = s.catalog.Format("balance-player-current-world", in.Subject.Name, shown)
	default:
		text = s.catalog.Format("balance-player-in-world", in.Subject.Name, in.Scope, shown)
	}

	return s.ok(in, text)
}

// transfer debits the sender before crediting the recipient. A minted
// transfer has no sender.
func (s *BalanceService) transfer(c resolver.Caller, in resolver.Transfer) Outcome {
	var from *ledger.Account

	if !in.Minted {
		from = s.store.GetOrCreate(in.From.ID)

		_, err := from.Withdraw(in.Scope, in.Amount)
		if err != nil {
			return s.failed(in, KindInsufficientFunds, "not-enough-money", err)
		}
	}

	_, err := s.store.GetOrCreate(in.To.ID).Deposit(in.Scope, in.Amount)
	if err != nil {
		slog.Error("credit transfer recipient", "account_id", in.To.ID, "scope", in.Scope, "error", err)

		if from != nil {
			_, refundErr := from.Deposit(in.Scope, in.Amount)
			if refundErr != nil {
				slog.Error("refund transfer sender", "account_id", in.From.ID, "scope", in.Scope, "error", refundErr)
			}
		}

		if errors.Is(err, ledger.ErrBalanceLimit) {
			return s.failed(in, KindBalanceLimit, "balance-limit", err)
		}

		return s.failed(in, KindRejected, "not-enough-money", err)
	}

	amount := s.Format(in.Amount)
	out := s.ok(in, s.catalog.Format("send-sent", amount, in.To.Name))

	if in.Minted {
		s.notify(&out, c, in.To.ID, s.catalog.Format("send-received-anonymous", amount))
	} else {
		s.notify(&out, c, in.To.ID, s.catalog.Format("send-received", amount, in.From.Name))
	}

	return out
}

func (s *BalanceService) set(c resolver.Caller, in resolver.SetBalance) Outcome {
	balance, err := s.store.GetOrCreate(in.Subject.ID).SetBalance(in.Scope, in.Amount)
	if err != nil {
		if errors.Is(err, ledger.ErrBalanceLimit) {
			return s.failed(in, KindBalanceLimit, "balance-limit", err)
		}

		return s.failed(in, KindNegativeAmount, "cannot-set-negative", err)
	}

	shown := s.Format(balance)

	if in.CallerTargetsSelf {
		return s.ok(in, s.selfText(c, "set-your-balance", in.Scope, shown))
	}

	if !s.multi() {
		out := s.ok(in, s.catalog.Format("set-player-balance", in.Subject.Name, shown))
		s.notify(&out, c, in.Subject.ID, s.catalog.Format("set-notice", shown))

		return out
	}

	out := s.ok(in, s.catalog.Format("set-player-balance-in-world", in.Subject.Name, in.Scope, shown))
	s.notify(&out, c, in.Subject.ID, s.catalog.Format("set-notice-in-world", in.Scope, shown))

	return out
}

// adjust applies give (positive delta) and take (negative delta).
func (s *BalanceService) adjust(c resolver.Caller, in resolver.Adjust) Outcome {
	account := s.store.GetOrCreate(in.Subject.ID)
	amount := in.Delta.Abs()
	prefix := string(in.Verb())

	var err error
	if in.Delta.IsNegative() {
		_, err = account.Withdraw(in.Scope, amount)
	} else {
		_, err = account.Deposit(in.Scope, amount)
	}

	switch {
	case errors.Is(err, ledger.ErrBalanceLimit):
		return s.failed(in, KindBalanceLimit, "balance-limit", err)
	case err != nil:
		return s.failed(in, KindInsufficientFunds, "cannot-take", err)
	}

	shown := s.Format(amount)

	if in.CallerTargetsSelf {
		return s.ok(in, s.selfText(c, prefix+"-your-balance", in.Scope, shown))
	}

	if !s.multi() {
		out := s.ok(in, s.catalog.Format(prefix+"-player-balance", in.Subject.Name, shown))
		s.notify(&out, c, in.Subject.ID, s.catalog.Format(prefix+"-your-balance", shown))

		return out
	}

	out := s.ok(in, s.catalog.Format(prefix+"-player-balance-in-world", in.Subject.Name, in.Scope, shown))
	s.notify(&out, c, in.Subject.ID, s.catalog.Format(prefix+"-your-balance-in-world", in.Scope, shown))

	return out
}

// selfText picks between the unscoped, current-scope and named-scope
// variants of key.
func (s *BalanceService) selfText(c resolver.Caller, key, scope, shown string) string {
	switch {
	case !s.multi():
		return s.catalog.Format(key, shown)
	case s.inCurrentScope(c, scope):
		return s.catalog.Format(key+"-current-world", shown)
	default:
		return s.catalog.Format(key+"-in-world", scope, shown)
	}
}

func (s *BalanceService) ok(in resolver.Intent, reply string) Outcome {
	return Outcome{Intent: in, Kind: KindOK, Replies: []string{reply}}
}

func (s *BalanceService) failed(in resolver.Intent, kind, key string, err error) Outcome {
	if !errors.Is(err, ledger.ErrInsufficientFunds) && !errors.Is(err, ledger.ErrNegativeBalance) &&
		!errors.Is(err, ledger.ErrBalanceLimit) {
		slog.Error("apply command", "verb", in.Verb(), "error", err)
	}

	return Outcome{Intent: in, Kind: kind, Replies: []string{s.catalog.Format(key)}}
}

// notify tells an online player other than the caller about a change to
// their balance.
func (s *BalanceService) notify(out *Outcome, c resolver.Caller, to uuid.UUID, text string) {
	if c.Interactive && c.ID == to {
		return
	}

	if !s.presence.IsOnline(to) {
		return
	}

	out.Notices = append(out.Notices, Notice{To: to, Text: text})
}

func (s *BalanceService) rejectionText(r resolver.Reject) string {
	tokens := r.Reason.Tokens
	first := ""
	if len(tokens) > 0 {
		first = tokens[0]
	}

	switch rejectionKind(r.Reason) {
	case KindNoPermission:
		return s.catalog.Format("no-permission")
	case KindAccountNotFound:
		return s.catalog.Format("cannot-find-player", first)
	case KindScopeNotFound:
		return s.catalog.Format("cannot-find-world", first)
	case KindUnresolvedToken:
		return s.catalog.Format("cannot-find-player-or-world", first)
	case KindNoImplicitScope:
		return s.catalog.Format("no-current-world")
	case KindSelfTransfer:
		return s.catalog.Format("cannot-send-self")
	case KindParseError:
		return s.catalog.Format("cannot-parse-amount", strings.Join(tokens, " / "))
	case KindNegativeAmount:
		return s.catalog.Format("cannot-" + string(r.For) + "-negative")
	case KindNonPositiveAmount:
		amount, err := money.Parse(first)
		if err == nil && amount.IsNegative() {
			return s.catalog.Format("cannot-" + string(r.For) + "-negative")
		}

		return s.catalog.Format("cannot-" + string(r.For) + "-zero")
	default:
		return r.Reason.Error()
	}
}
