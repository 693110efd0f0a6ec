// Package rules validates and applies actor moves against a level.
//
// Validation never mutates; ApplyMove assumes a move that already passed
// ValidateMove and panics otherwise.
package rules

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/tui-dungeon/internal/actor"
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
	"github.com/vovakirdan/tui-dungeon/internal/level"
)

const DefaultMoveBound = 2

// Checker holds the movement parameters of the engine.
type Checker struct {
	// MoveBound is the maximum path distance of a single move.
	MoveBound int
	// Diagonal allows diagonal steps when computing reachability.
	Diagonal bool
	// Collisions lets an actor step onto an opposing-kind actor, which
	// ejects the player involved. When false every occupied tile is blocked.
	Collisions bool
}

// NewChecker returns a checker with the default move bound and strict
// occupancy.
func NewChecker() *Checker {
	return &Checker{MoveBound: DefaultMoveBound}
}

func (c *Checker) steps() []core.Dir {
	if c.Diagonal {
		return core.Diagonal
	}
	return core.Orthogonal
}

// ValidateMove returns nil when name may move to dst, or an INVALID_ACTION
// error naming the reason.
func (c *Checker) ValidateMove(lvl *level.Level, roster *actor.Roster, name string, dst core.Point) error {
	if lvl.Status() != level.StatusActive {
		return errors.InvalidActionf("level %d is %s", lvl.Index, lvl.Status())
	}
	src, ok := lvl.PositionOf(name)
	if !ok {
		return errors.InvalidActionf("%q is not in the level", name)
	}
	tile, ok := lvl.Layout.TileAt(dst)
	if !ok {
		return errors.InvalidActionf("%v is outside the level", dst).WithMeta("destination", dst)
	}
	if !tile.Traversable() {
		return errors.InvalidActionf("%v is a wall", dst).WithMeta("destination", dst)
	}
	if other, taken := lvl.OccupantAt(dst); taken && other != name {
		if !c.Collisions || !opposing(roster, name, other) {
			return errors.InvalidActionf("%v is occupied by %q", dst, other).WithMeta("destination", dst)
		}
	}
	if _, ok := c.reachable(lvl.Layout, src)[dst]; !ok {
		return errors.InvalidActionf("%v is not reachable from %v within %d steps", dst, src, c.MoveBound).
			WithMeta("destination", dst)
	}
	return nil
}

// Destinations lists every valid destination for name in row-major order,
// including its current tile.
func (c *Checker) Destinations(lvl *level.Level, roster *actor.Roster, name string) []core.Point {
	src, ok := lvl.PositionOf(name)
	if !ok || lvl.Status() != level.StatusActive {
		return nil
	}

	var out []core.Point
	for p := range c.reachable(lvl.Layout, src) {
		if other, taken := lvl.OccupantAt(p); taken && other != name {
			if !c.Collisions || !opposing(roster, name, other) {
				continue
			}
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b core.Point) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return out
}

// reachable runs a bounded breadth-first search from src over traversable
// tiles. Actors do not block passage, walls do.
func (c *Checker) reachable(layout *level.Layout, src core.Point) map[core.Point]int {
	dist := map[core.Point]int{src: 0}
	frontier := []core.Point{src}
	for d := 1; d <= c.MoveBound && len(frontier) > 0; d++ {
		var next []core.Point
		for _, p := range frontier {
			for _, dir := range c.steps() {
				n := p.Add(dir)
				if _, seen := dist[n]; seen {
					continue
				}
				if !layout.Traversable(n) || !layout.Connected(p, n) {
					continue
				}
				dist[n] = d
				next = append(next, n)
			}
		}
		frontier = next
	}
	return dist
}

func opposing(roster *actor.Roster, a, b string) bool {
	ka, ok := roster.KindOf(a)
	if !ok {
		return false
	}
	kb, ok := roster.KindOf(b)
	if !ok {
		return false
	}
	return ka.Opposes(kb)
}

// Outcome describes what a single applied move did.
type Outcome struct {
	Actor    string
	From     core.Point
	To       core.Point
	Moved    bool
	KeyFound bool
	Exited   bool
	Ejected  []string
}

// ApplyMove performs a validated move and resolves its effects in order:
// relocation, key pickup, exit, collision. It panics if the level is not
// active or the move is invalid.
func (c *Checker) ApplyMove(lvl *level.Level, roster *actor.Roster, name string, dst core.Point) Outcome {
	if lvl.Status() != level.StatusActive {
		panic(fmt.Sprintf("rules: move of %q on %s level %d", name, lvl.Status(), lvl.Index))
	}
	if err := c.ValidateMove(lvl, roster, name, dst); err != nil {
		panic(fmt.Sprintf("rules: apply of invalid move: %v", err))
	}

	src, _ := lvl.PositionOf(name)
	out := Outcome{Actor: name, From: src, To: dst, Moved: src != dst}
	kind, _ := roster.KindOf(name)

	other, occupied := lvl.OccupantAt(dst)
	occupied = occupied && other != name

	if kind == actor.KindAdversary {
		if occupied {
			// An adversary landing on a player ejects it before taking the tile.
			out.Ejected = append(out.Ejected, c.eject(lvl, roster, other))
		}
		lvl.Move(name, dst)
		return out
	}

	player, _ := roster.Player(name)
	if occupied {
		// The tile stays with the adversary; the player leaves its old tile
		// and only gets to resolve the destination's items.
		lvl.Remove(name)
	} else {
		lvl.Move(name, dst)
	}

	if key, unclaimed := lvl.Key(); unclaimed && key == dst {
		lvl.ClaimKey(name)
		player.KeyFound = true
		player.KeysFound++
		out.KeyFound = true
	}

	if dst == lvl.Exit() && player.KeyFound {
		player.HasExited = true
		player.Exits++
		lvl.Remove(name)
		out.Exited = true
		return out
	}

	if occupied {
		out.Ejected = append(out.Ejected, c.eject(lvl, roster, name))
	}
	return out
}

func (c *Checker) eject(lvl *level.Level, roster *actor.Roster, name string) string {
	p, ok := roster.Player(name)
	if !ok {
		panic(fmt.Sprintf("rules: eject of non-player %q", name))
	}
	p.IsEjected = true
	p.Ejections++
	lvl.Remove(name)
	return name
}
