package balance

import (
	"errors"

	"github.com/google/uuid"

	"github.com/fastprodman/moneyd/internal/money"
	"github.com/fastprodman/moneyd/internal/resolver"
)

// Outcome kinds. Rejections use the kind of their reason.
const (
	KindOK                = "ok"
	KindHelp              = "help"
	KindInsufficientFunds = "insufficient_funds"
	KindBalanceLimit      = "balance_limit"
	KindNoPermission      = "no_permission"
	KindAccountNotFound   = "account_not_found"
	KindScopeNotFound     = "scope_not_found"
	KindUnresolvedToken   = "unresolved_token"
	KindNoImplicitScope   = "no_implicit_scope"
	KindSelfTransfer      = "self_transfer"
	KindParseError        = "parse_error"
	KindNegativeAmount    = "negative_amount"
	KindNonPositiveAmount = "non_positive_amount"
	KindRejected          = "rejected"
)

// Notice is a message for a player other than the caller.
type Notice struct {
	To   uuid.UUID
	Text string
}

// Outcome is the result of one command: the resolved intent, what the caller
// is told and who else is notified.
type Outcome struct {
	Intent  resolver.Intent
	Kind    string
	Replies []string
	Notices []Notice
}

func (o Outcome) Verb() resolver.Verb {
	return o.Intent.Verb()
}

var rejectionKinds = []struct {
	err  error
	kind string
}{
	{resolver.ErrNoPermission, KindNoPermission},
	{resolver.ErrAccountNotFound, KindAccountNotFound},
	{resolver.ErrScopeNotFound, KindScopeNotFound},
	{resolver.ErrUnresolvedToken, KindUnresolvedToken},
	{resolver.ErrNoImplicitScope, KindNoImplicitScope},
	{resolver.ErrSelfTransfer, KindSelfTransfer},
	{money.ErrParse, KindParseError},
	{resolver.ErrNegativeAmount, KindNegativeAmount},
	{resolver.ErrNonPositiveAmount, KindNonPositiveAmount},
}

func rejectionKind(err error) string {
	for _, rk := range rejectionKinds {
		if errors.Is(err, rk.err) {
			return rk.kind
		}
	}

	return KindRejected
}
