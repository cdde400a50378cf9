package resolver

// money
func (r *Resolver) viewSelf(c Caller, t []string) (Intent, bool) {
	if len(t) != 0 {
		return nil, false
	}

	if !c.Interactive {
		return reject(VerbView, ErrNoImplicitScope), true
	}

	return ViewBalance{Subject: c.player(), Scope: c.Scope, ViewerIsSubject: true}, true
}

// money <scope>, multi-scope only. A scope name wins over a player name.
func (r *Resolver) viewOwnScope(c Caller, t []string) (Intent, bool) {
	if len(t) != 1 || !r.multi {
		return nil, false
	}

	if !c.Interactive {
		return reject(VerbView, ErrNoImplicitScope, t[0]), true
	}

	if !r.knownScope(t[0]) {
		return nil, false
	}

	return ViewBalance{Subject: c.player(), Scope: t[0], ViewerIsSubject: true}, true
}

// money <player>
func (r *Resolver) viewPlayer(c Caller, t []string) (Intent, bool) {
	if len(t) != 1 {
		return nil, false
	}

	if !c.Caps.ViewOther {
		if r.multi {
			return nil, false
		}

		return reject(VerbView, ErrNoPermission), true
	}

	p, ok := r.players.Lookup(t[0])
	if !ok {
		if r.multi {
			return nil, false
		}

		return reject(VerbView, ErrAccountNotFound, t[0]), true
	}

	return ViewBalance{Subject: p, Scope: r.currentScope(c), ViewerIsSubject: c.is(p)}, true
}

// A single multi-scope token that is neither. Callers who may not view other
// accounts only learn that no such scope exists.
func (r *Resolver) viewUnresolved(c Caller, t []string) (Intent, bool) {
	if len(t) != 1 || !r.multi {
		return nil, false
	}

	if !c.Caps.ViewOther {
		return reject(VerbView, ErrScopeNotFound, t[0]), true
	}

	return reject(VerbView, ErrUnresolvedToken, t[0]), true
}

// money <player> <scope>, multi-scope only.
func (r *Resolver) viewPlayerInScope(c Caller, t []string) (Intent, bool) {
	if len(t) != 2 || !r.multi {
		return nil, false
	}

	if !c.Caps.ViewOther {
		return reject(VerbView, ErrNoPermission), true
	}

	p, ok := r.players.Lookup(t[0])
	if !ok {
		return reject(VerbView, ErrAccountNotFound, t[0]), true
	}

	if !r.knownScope(t[1]) {
		return reject(VerbView, ErrScopeNotFound, t[1]), true
	}

	return ViewBalance{Subject: p, Scope: t[1], ViewerIsSubject: c.is(p)}, true
}
