package resolver

import "github.com/fastprodman/moneyd/internal/money"

const absent = -1

// shape says which token plays which role in set/give/take. A shape with a
// non-nil fail ends resolution with that intent.
type shape struct {
	self   bool
	player int
	amount int
	scope  int
	fail   Intent
}

type shapeAttempt func(c Caller, verb Verb, t []string) (shape, bool)

// amountVerb resolves set, give and take:
//
//	<amount> [<scope>]
//	<player> <amount> [<scope>]
//
// Token 1 is tried as the amount first, so "5 10" means player "5" gets 10.
// Permission is checked against the resolved shape.
func (r *Resolver) amountVerb(c Caller, verb Verb, t []string) Intent {
	if !r.amountArity(c, len(t)) {
		return Help{}
	}

	if !c.Caps.SetSelf && !c.Caps.SetOther {
		return reject(verb, ErrNoPermission)
	}

	sh := r.firstShape(c, verb, t,
		r.shapeNonInteractive,
		r.shapeAmountOnly,
		r.shapePlayerAmount,
		r.shapeBadSecondOfThree,
		r.shapeAmountScope,
		r.shapeNeitherParses,
	)
	if sh.fail != nil {
		return sh.fail
	}

	if (sh.self && !c.Caps.SetSelf) || (!sh.self && !c.Caps.SetOther) {
		return reject(verb, ErrNoPermission)
	}

	subject := c.player()
	if !sh.self {
		p, ok := r.players.Lookup(t[sh.player])
		if !ok {
			return reject(verb, ErrAccountNotFound, t[sh.player])
		}

		subject = p
	}

	raw, amount, ok := r.parseAmount(t[sh.amount])
	if !ok {
		return reject(verb, money.ErrParse, t[sh.amount])
	}

	if raw.IsNegative() {
		return reject(verb, ErrNegativeAmount, t[sh.amount])
	}

	if verb != VerbSet && !amount.IsPositive() {
		return reject(verb, ErrNonPositiveAmount, t[sh.amount])
	}

	scope, rej := r.scopeAt(c, t, sh.scope)
	if rej != nil {
		return Reject{For: verb, Reason: rej}
	}

	targetsSelf := c.is(subject)

	switch verb {
	case VerbGive:
		return Adjust{Subject: subject, Delta: amount, Scope: scope, CallerTargetsSelf: targetsSelf}
	case VerbTake:
		return Adjust{Subject: subject, Delta: amount.Neg(), Scope: scope, CallerTargetsSelf: targetsSelf}
	default:
		return SetBalance{Subject: subject, Amount: amount, Scope: scope, CallerTargetsSelf: targetsSelf}
	}
}

func (r *Resolver) amountArity(c Caller, n int) bool {
	switch {
	case !c.Interactive && r.multi:
		return n == 3
	case !c.Interactive:
		return n == 2
	case r.multi:
		return n >= 1 && n <= 3
	default:
		return n == 1 || n == 2
	}
}

func (r *Resolver) firstShape(c Caller, verb Verb, t []string, attempts ...shapeAttempt) shape {
	for _, try := range attempts {
		sh, ok := try(c, verb, t)
		if ok {
			return sh
		}
	}

	return shape{fail: Help{}}
}

func (r *Resolver) parses(token string) bool {
	_, err := money.Parse(token)

	return err == nil
}

// Non-interactive callers always name the player; the scope is positional in
// multi-scope mode.
func (r *Resolver) shapeNonInteractive(c Caller, _ Verb, _ []string) (shape, bool) {
	if c.Interactive {
		return shape{}, false
	}

	sh := shape{player: 0, amount: 1, scope: absent}
	if r.multi {
		sh.scope = 2
	}

	return sh, true
}

func (r *Resolver) shapeAmountOnly(_ Caller, _ Verb, t []string) (shape, bool) {
	if len(t) != 1 {
		return shape{}, false
	}

	return shape{self: true, player: absent, amount: 0, scope: absent}, true
}

func (r *Resolver) shapePlayerAmount(_ Caller, _ Verb, t []string) (shape, bool) {
	if len(t) < 2 || !r.parses(t[1]) {
		return shape{}, false
	}

	sh := shape{player: 0, amount: 1, scope: absent}
	if len(t) == 3 {
		sh.scope = 2
	}

	return sh, true
}

func (r *Resolver) shapeBadSecondOfThree(_ Caller, verb Verb, t []string) (shape, bool) {
	if len(t) != 3 {
		return shape{}, false
	}

	return shape{fail: reject(verb, money.ErrParse, t[1])}, true
}

// <amount> <scope>; without scopes the second token has no meaning.
func (r *Resolver) shapeAmountScope(_ Caller, _ Verb, t []string) (shape, bool) {
	if len(t) != 2 || !r.parses(t[0]) {
		return shape{}, false
	}

	if !r.multi {
		return shape{fail: Help{}}, true
	}

	return shape{self: true, player: absent, amount: 0, scope: 1}, true
}

func (r *Resolver) shapeNeitherParses(_ Caller, verb Verb, t []string) (shape, bool) {
	if len(t) != 2 {
		return shape{}, false
	}

	return shape{fail: reject(verb, money.ErrParse, t[0], t[1])}, true
}
