package resolver

import (
	"slices"
	"strconv"
	"strings"

	"github.com/fastprodman/moneyd/internal/money"
)

// Complete suggests values for the last of args, the full argument list of
// the money command including any sub-command name. Suggestions are limited
// to what the caller may use and filtered by the typed prefix.
func (r *Resolver) Complete(c Caller, args []string) []string {
	if len(args) == 0 {
		args = []string{""}
	}

	var out []string

	if len(args) == 1 {
		for _, sub := range SubCommands {
			if permitted(c, sub) {
				out = append(out, string(sub))
			}
		}
	}

	verb, tokens := Dispatch(args)
	if verb == VerbView || len(args) == 1 || !permitted(c, verb) {
		out = append(out, r.completeView(c, args)...)
	} else {
		switch verb {
		case VerbSend:
			out = append(out, r.completeSend(c, tokens)...)
		case VerbSet, VerbGive, VerbTake:
			out = append(out, r.completeAmountVerb(c, tokens)...)
		}
	}

	return filterPrefix(out, args[len(args)-1])
}

func permitted(c Caller, verb Verb) bool {
	switch verb {
	case VerbSend:
		return c.Caps.Send
	case VerbSet, VerbGive, VerbTake:
		return c.Caps.SetSelf || c.Caps.SetOther
	default:
		return true
	}
}

func (r *Resolver) completeView(c Caller, t []string) []string {
	switch len(t) {
	case 1:
		var out []string
		if r.multi && c.Interactive {
			out = append(out, r.scopes.Scopes()...)
		}

		if c.Caps.ViewOther {
			out = append(out, r.players.Names()...)
		}

		return out
	case 2:
		if r.multi && c.Caps.ViewOther && !r.knownScope(t[0]) {
			return r.scopes.Scopes()
		}
	}

	return nil
}

func (r *Resolver) completeSend(c Caller, t []string) []string {
	switch len(t) {
	case 1:
		return slices.DeleteFunc(slices.Clone(r.players.Names()), func(name string) bool {
			return c.Interactive && strings.EqualFold(name, c.Name)
		})
	case 2:
		return CompleteAmount(r.places, t[1])
	case 3:
		if r.multi {
			return r.scopes.Scopes()
		}
	}

	return nil
}

func (r *Resolver) completeAmountVerb(c Caller, t []string) []string {
	if !c.Interactive {
		if !c.Caps.SetOther {
			return nil
		}

		switch len(t) {
		case 1:
			return r.players.Names()
		case 2:
			return CompleteAmount(r.places, t[1])
		case 3:
			if r.multi {
				return r.scopes.Scopes()
			}
		}

		return nil
	}

	self, other := c.Caps.SetSelf, c.Caps.SetOther

	switch len(t) {
	case 1:
		if other {
			return r.players.Names()
		}

		return CompleteAmount(r.places, t[0])
	case 2:
		return r.completeSecondToken(self, other, t)
	case 3:
		if other && r.multi {
			return r.scopes.Scopes()
		}
	}

	return nil
}

// completeSecondToken follows the shape rules of amountVerb: token 1 is an
// amount after a player and a scope after an amount.
func (r *Resolver) completeSecondToken(self, other bool, t []string) []string {
	var scopes []string
	if r.multi {
		scopes = r.scopes.Scopes()
	}

	switch {
	case self && !other:
		return scopes
	case other && !self:
		return CompleteAmount(r.places, t[1])
	}

	if !r.parses(t[0]) {
		return CompleteAmount(r.places, t[1])
	}

	if _, ok := r.players.Lookup(t[0]); !ok {
		return scopes
	}

	// numeric player name: suggest scopes only once one is being typed
	if len(filterPrefix(scopes, t[1])) > 0 {
		return scopes
	}

	return CompleteAmount(r.places, t[1])
}

// CompleteAmount suggests the typed amount followed by each digit while the
// fractional part is shorter than places. A leading zero is not suggested.
func CompleteAmount(places int32, typed string) []string {
	if typed != "" {
		_, err := money.Parse(strings.TrimSuffix(typed, "."))
		if err != nil || strings.HasSuffix(typed, "..") {
			return nil
		}
	}

	dot := strings.Index(typed, ".")
	if dot != -1 && len(typed)-dot > int(places) {
		return nil
	}

	skipZero := strings.ReplaceAll(typed, "0.", "") == ""

	out := make([]string, 0, 10)

	for digit := range 10 {
		if digit == 0 && skipZero {
			continue
		}

		out = append(out, typed+strconv.Itoa(digit))
	}

	return out
}

func filterPrefix(values []string, prefix string) []string {
	prefix = strings.ToLower(prefix)

	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), prefix) {
			out = append(out, v)
		}
	}

	return out
}
