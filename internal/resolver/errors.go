package resolver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrScopeNotFound     = errors.New("scope not found")
	ErrUnresolvedToken   = errors.New("neither an account nor a scope")
	ErrNoImplicitScope   = errors.New("caller has no current scope")
	ErrSelfTransfer      = errors.New("cannot transfer to self")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrNoPermission      = errors.New("no permission")
)

// Rejection explains why a command could not be resolved. Tokens are the
// offending arguments, in the order the user typed them.
type Rejection struct {
	Err    error
	Tokens []string
}

func (r *Rejection) Error() string {
	if len(r.Tokens) == 0 {
		return r.Err.Error()
	}

	return fmt.Sprintf("%s: %s", r.Err, strings.Join(r.Tokens, " / "))
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

func reject(verb Verb, err error, tokens ...string) Reject {
	return Reject{For: verb, Reason: &Rejection{Err: err, Tokens: tokens}}
}
