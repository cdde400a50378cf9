package resolver

import "github.com/fastprodman/moneyd/internal/money"

// send <player> <amount> [<scope>]
//
// The scope token is optional for interactive callers in multi-scope mode and
// mandatory for everyone else there; single-scope mode takes no scope token.
func (r *Resolver) send(c Caller, t []string) Intent {
	if !r.sendArity(c, len(t)) {
		return Help{}
	}

	if !c.Caps.Send {
		return reject(VerbSend, ErrNoPermission)
	}

	to, ok := r.players.Lookup(t[0])
	if !ok {
		return reject(VerbSend, ErrAccountNotFound, t[0])
	}

	if c.is(to) {
		return reject(VerbSend, ErrSelfTransfer, t[0])
	}

	raw, amount, ok := r.parseAmount(t[1])
	if !ok {
		return reject(VerbSend, money.ErrParse, t[1])
	}

	if !raw.IsPositive() || !amount.IsPositive() {
		return reject(VerbSend, ErrNonPositiveAmount, t[1])
	}

	scope, rej := r.scopeAt(c, t, 2)
	if rej != nil {
		return Reject{For: VerbSend, Reason: rej}
	}

	var from Player
	if c.Interactive {
		from = c.player()
	}

	return Transfer{From: from, To: to, Amount: amount, Scope: scope, Minted: !c.Interactive}
}

func (r *Resolver) sendArity(c Caller, n int) bool {
	switch {
	case !r.multi:
		return n == 2
	case c.Interactive:
		return n == 2 || n == 3
	default:
		return n == 3
	}
}
