// Package actor holds the canonical records of every registered player and
// adversary. Levels refer to actors by name only; the Roster owns them.
package actor

import (
	"strings"

	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

// Kind separates the two sides of the game.
type Kind int

const (
	KindPlayer Kind = iota
	KindAdversary
)

func (k Kind) String() string {
	if k == KindPlayer {
		return "player"
	}
	return "adversary"
}

// Opposes reports whether a and b are on different sides.
func (k Kind) Opposes(other Kind) bool {
	return k != other
}

// AdversaryKind only affects which movement policy drives an adversary.
type AdversaryKind int

const (
	Zombie AdversaryKind = iota
	Ghost
)

func (k AdversaryKind) String() string {
	switch k {
	case Zombie:
		return "zombie"
	case Ghost:
		return "ghost"
	default:
		return "unknown"
	}
}

// ParseAdversaryKind is the inverse of AdversaryKind.String.
func ParseAdversaryKind(s string) (AdversaryKind, error) {
	switch strings.ToLower(s) {
	case "zombie":
		return Zombie, nil
	case "ghost":
		return Ghost, nil
	default:
		return 0, errors.Registrationf("unknown adversary kind %q", s)
	}
}

// Player is a human (or scripted) participant. Health and the cumulative
// counters persist across levels; the flags describe the current level only.
type Player struct {
	Name   string
	Health int

	KeyFound  bool
	HasExited bool
	IsEjected bool

	// Eliminated players sit out every remaining level: they were ejected
	// in an earlier level or disconnected.
	Eliminated bool

	KeysFound int
	Exits     int
	Ejections int
}

// ResetForLevel clears the per-level flags before the next level starts.
func (p *Player) ResetForLevel() {
	p.KeyFound = false
	p.HasExited = false
	p.IsEjected = false
}

// Active reports whether the player still takes turns in the current level.
func (p *Player) Active() bool {
	return !p.Eliminated && !p.HasExited && !p.IsEjected
}

// Adversary is a non-player actor.
type Adversary struct {
	Name string
	Kind AdversaryKind
}
