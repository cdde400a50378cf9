// Package resolver turns the untyped arguments of the money command into a
// typed intent. Every (verb, token count, caller kind, scoping mode)
// combination maps to exactly one outcome; when no form matches, the result
// is Help.
package resolver

import (
	"slices"
	"strings"

	"github.com/fastprodman/moneyd/internal/money"
)

const maxTokens = 3

type Config struct {
	Multi         bool
	DecimalPlaces int32
}

type Resolver struct {
	multi   bool
	places  int32
	players Players
	scopes  Scopes
}

func New(cfg Config, players Players, scopes Scopes) *Resolver {
	return &Resolver{
		multi:   cfg.Multi,
		places:  cfg.DecimalPlaces,
		players: players,
		scopes:  scopes,
	}
}

// attempt inspects the tokens and returns an intent when its form applies.
type attempt func(c Caller, t []string) (Intent, bool)

// Dispatch splits raw command arguments into a verb and its tokens. A first
// argument naming a sub-command (case-insensitively) selects it; anything
// else is a balance view.
func Dispatch(args []string) (Verb, []string) {
	if len(args) > 0 {
		for _, sub := range SubCommands {
			if strings.EqualFold(args[0], string(sub)) {
				return sub, args[1:]
			}
		}
	}

	return VerbView, args
}

// ResolveArgs is Dispatch followed by Resolve.
func (r *Resolver) ResolveArgs(c Caller, args []string) Intent {
	verb, tokens := Dispatch(args)

	return r.Resolve(c, verb, tokens)
}

func (r *Resolver) Resolve(c Caller, verb Verb, tokens []string) Intent {
	if len(tokens) > maxTokens {
		return Help{}
	}

	switch verb {
	case VerbView:
		return r.first(c, tokens,
			r.viewSelf,
			r.viewOwnScope,
			r.viewPlayer,
			r.viewUnresolved,
			r.viewPlayerInScope,
		)
	case VerbSend:
		return r.send(c, tokens)
	case VerbSet, VerbGive, VerbTake:
		return r.amountVerb(c, verb, tokens)
	default:
		return Help{}
	}
}

func (r *Resolver) first(c Caller, t []string, attempts ...attempt) Intent {
	for _, try := range attempts {
		intent, ok := try(c, t)
		if ok {
			return intent
		}
	}

	return Help{}
}

func (r *Resolver) knownScope(name string) bool {
	return slices.Contains(r.scopes.Scopes(), name)
}

// currentScope is where a command without a scope token applies.
func (r *Resolver) currentScope(c Caller) string {
	if c.Interactive && c.Scope != "" {
		return c.Scope
	}

	return r.scopes.DefaultScope()
}

// scopeAt returns the scope named by t[i], or the current scope when the
// token is absent.
func (r *Resolver) scopeAt(c Caller, t []string, i int) (string, *Rejection) {
	if i < 0 || i >= len(t) {
		return r.currentScope(c), nil
	}

	if !r.knownScope(t[i]) {
		return "", &Rejection{Err: ErrScopeNotFound, Tokens: []string{t[i]}}
	}

	return t[i], nil
}

// parseAmount parses an amount token and rounds it to the ledger precision.
func (r *Resolver) parseAmount(token string) (raw, rounded money.Money, ok bool) {
	raw, err := money.Parse(token)
	if err != nil {
		return money.Zero, money.Zero, false
	}

	return raw, raw.Round(r.places), true
}
