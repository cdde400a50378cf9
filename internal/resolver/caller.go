package resolver

import "github.com/google/uuid"

// Player is an account owner as known to the identity provider.
type Player struct {
	ID   uuid.UUID
	Name string
}

// Players resolves names to accounts. Lookup is case-insensitive.
type Players interface {
	Lookup(name string) (Player, bool)
	IsOnline(id uuid.UUID) bool
	Names() []string
}

// Scopes lists the valid scope names. Names are case-sensitive.
type Scopes interface {
	Scopes() []string
	DefaultScope() string
}

// Caps are the permission flags of a caller.
type Caps struct {
	ViewOther bool
	Send      bool
	SetSelf   bool
	SetOther  bool
}

// Caller issues a command. Interactive callers are players standing in a
// scope; non-interactive callers (consoles, automation) have neither an
// account nor a current scope.
type Caller struct {
	ID          uuid.UUID
	Name        string
	Scope       string
	Interactive bool
	Caps        Caps
}

func (c Caller) player() Player {
	return Player{ID: c.ID, Name: c.Name}
}

func (c Caller) is(p Player) bool {
	return c.Interactive && c.ID == p.ID
}
