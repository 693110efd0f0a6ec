package actor

import (
	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

// Roster is the arena of registered actors, addressed by unique name and
// kept in registration order.
type Roster struct {
	players     []*Player
	adversaries []*Adversary
	kinds       map[string]Kind
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{kinds: make(map[string]Kind)}
}

func (r *Roster) claim(name string, kind Kind) error {
	if name == "" {
		return errors.Registration("name must not be empty")
	}
	if _, taken := r.kinds[name]; taken {
		return errors.Registrationf("name %q is already registered", name).WithMeta("name", name)
	}
	r.kinds[name] = kind
	return nil
}

// AddPlayer registers a player with the given starting health.
func (r *Roster) AddPlayer(name string, health int) (*Player, error) {
	if err := r.claim(name, KindPlayer); err != nil {
		return nil, err
	}
	p := &Player{Name: name, Health: health}
	r.players = append(r.players, p)
	return p, nil
}

// AddAdversary registers an adversary.
func (r *Roster) AddAdversary(name string, kind AdversaryKind) (*Adversary, error) {
	if err := r.claim(name, KindAdversary); err != nil {
		return nil, err
	}
	a := &Adversary{Name: name, Kind: kind}
	r.adversaries = append(r.adversaries, a)
	return a, nil
}

// KindOf returns which side the named actor is on.
func (r *Roster) KindOf(name string) (Kind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// Player looks up a player by name.
func (r *Roster) Player(name string) (*Player, bool) {
	for _, p := range r.players {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Adversary looks up an adversary by name.
func (r *Roster) Adversary(name string) (*Adversary, bool) {
	for _, a := range r.adversaries {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Players returns the players in registration order.
func (r *Roster) Players() []*Player {
	return r.players
}

// Adversaries returns the adversaries in registration order.
func (r *Roster) Adversaries() []*Adversary {
	return r.adversaries
}

// PlayerNames returns player names in registration order.
func (r *Roster) PlayerNames() []string {
	names := make([]string, len(r.players))
	for i, p := range r.players {
		names[i] = p.Name
	}
	return names
}

// TurnOrder returns every actor name: players first, then adversaries, each
// in registration order.
func (r *Roster) TurnOrder() []string {
	names := r.PlayerNames()
	for _, a := range r.adversaries {
		names = append(names, a.Name)
	}
	return names
}
