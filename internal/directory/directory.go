// Package directory is the identity provider and scope registry of the
// service, backed by a YAML file and updated at runtime as players come and go.
package directory

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/fastprodman/moneyd/internal/resolver"
)

var (
	ErrInvalidName  = errors.New("player name must not be empty")
	ErrNameTaken    = errors.New("player name is used by another account")
	ErrUnknownScope = errors.New("default scope is not a listed scope")
)

type playerEntry struct {
	ID     uuid.UUID `yaml:"id"`
	Name   string    `yaml:"name"`
	Online bool      `yaml:"online"`
}

type document struct {
	Players      []playerEntry `yaml:"players"`
	Scopes       []string      `yaml:"scopes"`
	DefaultScope string        `yaml:"default_scope"`
}

type Directory struct {
	mu           sync.RWMutex
	players      []playerEntry
	byID         map[uuid.UUID]int
	byName       map[string]int
	scopes       []string
	defaultScope string
}

// New returns a directory without players. An empty scope list means the
// default scope is the only one.
func New(defaultScope string, scopes []string) (*Directory, error) {
	return build(document{Scopes: scopes, DefaultScope: defaultScope})
}

// Load reads a directory from a YAML file:
//
//	default_scope: world
//	scopes: [world, world_nether]
//	players:
//	  - {id: 7c9e6679-7425-40de-944b-e07fc1f90ae7, name: Steve, online: true}
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Directory, error) {
	var doc document

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("parse directory: %w", err)
	}

	return build(doc)
}

func build(doc document) (*Directory, error) {
	if strings.TrimSpace(doc.DefaultScope) == "" {
		return nil, fmt.Errorf("default scope is required")
	}

	scopes := slices.Clone(doc.Scopes)
	if len(scopes) == 0 {
		scopes = []string{doc.DefaultScope}
	}

	if !slices.Contains(scopes, doc.DefaultScope) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, doc.DefaultScope)
	}

	d := &Directory{
		byID:         make(map[uuid.UUID]int, len(doc.Players)),
		byName:       make(map[string]int, len(doc.Players)),
		scopes:       scopes,
		defaultScope: doc.DefaultScope,
	}

	for _, p := range doc.Players {
		err := d.upsertLocked(p)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", p.ID, err)
		}
	}

	return d, nil
}

func (d *Directory) Lookup(name string) (resolver.Player, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i, ok := d.byName[strings.ToLower(name)]
	if !ok {
		return resolver.Player{}, false
	}

	p := d.players[i]

	return resolver.Player{ID: p.ID, Name: p.Name}, true
}

// Player returns the account holder with the given id.
func (d *Directory) Player(id uuid.UUID) (resolver.Player, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i, ok := d.byID[id]
	if !ok {
		return resolver.Player{}, false
	}

	return resolver.Player{ID: id, Name: d.players[i].Name}, true
}

func (d *Directory) IsOnline(id uuid.UUID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i, ok := d.byID[id]

	return ok && d.players[i].Online
}

// Names lists the players currently online, in the order they became known.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.players))
	for _, p := range d.players {
		if p.Online {
			names = append(names, p.Name)
		}
	}

	return names
}

func (d *Directory) Scopes() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return slices.Clone(d.scopes)
}

func (d *Directory) DefaultScope() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.defaultScope
}

// Upsert records a player's current name and presence. A rename releases the
// old name.
func (d *Directory) Upsert(id uuid.UUID, name string, online bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.upsertLocked(playerEntry{ID: id, Name: name, Online: online})
}

func (d *Directory) upsertLocked(p playerEntry) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}

	key := strings.ToLower(p.Name)

	owner, taken := d.byName[key]
	if taken && d.players[owner].ID != p.ID {
		return fmt.Errorf("%w: %s", ErrNameTaken, p.Name)
	}

	i, known := d.byID[p.ID]
	if !known {
		d.byID[p.ID] = len(d.players)
		d.byName[key] = len(d.players)
		d.players = append(d.players, p)

		return nil
	}

	delete(d.byName, strings.ToLower(d.players[i].Name))

	d.players[i] = p
	d.byName[key] = i

	return nil
}
