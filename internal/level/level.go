package level

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
	"github.com/vovakirdan/tui-dungeon/internal/level/formats"
)

// Status is the lifecycle state of a level or a whole game.
type Status int

const (
	StatusNotStarted Status = iota
	StatusActive
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not-started"
	case StatusActive:
		return "active"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is WON or LOST.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, bool) {
	for _, st := range []Status{StatusNotStarted, StatusActive, StatusWon, StatusLost} {
		if st.String() == s {
			return st, true
		}
	}
	return 0, false
}

// Level is the mutable state of one level: its geometry, the key and exit,
// and which actor stands where. Actors are referenced by name only; their
// records live in the dungeon's roster.
type Level struct {
	Index  int
	Layout *Layout
	Spawns *formats.Spawns

	key       core.Point
	keyTaken  bool
	keyFinder string
	exit      core.Point

	positions map[string]core.Point
	occupants map[core.Point]string
	status    Status
}

// New builds a level from its parsed specification.
func New(index int, spec formats.Level) (*Level, error) {
	layout, err := Build(spec)
	if err != nil {
		return nil, errors.Wrapf(err, "level %d", index).WithMeta("level", index)
	}

	for _, item := range []struct {
		name string
		p    core.Point
	}{{"key", spec.Key}, {"exit", spec.Exit}} {
		c, ok := layout.ComponentAt(item.p)
		if !ok || c.Kind() != ComponentRoom {
			return nil, errors.MalformedLevelf("level %d: %s %v is not inside a room", index, item.name, item.p).
				WithMeta("level", index)
		}
		if !layout.Traversable(item.p) {
			return nil, errors.MalformedLevelf("level %d: %s %v is on a wall", index, item.name, item.p).
				WithMeta("level", index)
		}
	}

	return &Level{
		Index:     index,
		Layout:    layout,
		Spawns:    spec.Spawns,
		key:       spec.Key,
		exit:      spec.Exit,
		positions: make(map[string]core.Point),
		occupants: make(map[core.Point]string),
	}, nil
}

// Status returns the level's lifecycle state.
func (l *Level) Status() Status {
	return l.status
}

// Start moves the level from NOT_STARTED to ACTIVE.
func (l *Level) Start() {
	if l.status != StatusNotStarted {
		panic(fmt.Sprintf("level %d: Start in state %s", l.Index, l.status))
	}
	l.status = StatusActive
}

// Finish moves an ACTIVE level to a terminal state. A level becomes terminal
// exactly once; any other transition is a programmer error.
func (l *Level) Finish(s Status) {
	if l.status != StatusActive || !s.Terminal() {
		panic(fmt.Sprintf("level %d: Finish(%s) in state %s", l.Index, s, l.status))
	}
	l.status = s
}

// Key returns the key position while it is still unclaimed.
func (l *Level) Key() (core.Point, bool) {
	return l.key, !l.keyTaken
}

// KeyFinder returns the name of the player who claimed the key, if any.
func (l *Level) KeyFinder() string {
	return l.keyFinder
}

// ClaimKey removes the key from the level on behalf of the named player.
func (l *Level) ClaimKey(name string) {
	l.keyTaken = true
	l.keyFinder = name
}

// Exit returns the exit position.
func (l *Level) Exit() core.Point {
	return l.exit
}

// Place puts an actor on a free traversable tile.
func (l *Level) Place(name string, p core.Point) error {
	if _, ok := l.positions[name]; ok {
		return errors.Internalf("actor %q already placed in level %d", name, l.Index)
	}
	if !l.Layout.Traversable(p) {
		return errors.InvalidActionf("cannot place %q on non-traversable tile %v", name, p)
	}
	if other, ok := l.occupants[p]; ok {
		return errors.InvalidActionf("cannot place %q on %v: occupied by %q", name, p, other)
	}
	l.positions[name] = p
	l.occupants[p] = name
	return nil
}

// Move relocates a placed actor. The caller has already validated the move;
// any actor still standing on dst must have been removed first.
func (l *Level) Move(name string, dst core.Point) {
	src, ok := l.positions[name]
	if !ok {
		panic(fmt.Sprintf("level %d: move of unplaced actor %q", l.Index, name))
	}
	if other, ok := l.occupants[dst]; ok && other != name {
		panic(fmt.Sprintf("level %d: move of %q onto %q at %v", l.Index, name, other, dst))
	}
	delete(l.occupants, src)
	l.positions[name] = dst
	l.occupants[dst] = name
}

// Remove takes an actor off the level. Removing an absent actor is a no-op.
func (l *Level) Remove(name string) {
	p, ok := l.positions[name]
	if !ok {
		return
	}
	delete(l.positions, name)
	if l.occupants[p] == name {
		delete(l.occupants, p)
	}
}

// PositionOf returns where the named actor stands.
func (l *Level) PositionOf(name string) (core.Point, bool) {
	p, ok := l.positions[name]
	return p, ok
}

// OccupantAt returns the actor standing on p.
func (l *Level) OccupantAt(p core.Point) (string, bool) {
	name, ok := l.occupants[p]
	return name, ok
}

// Occupants returns a copy of the position of every placed actor.
func (l *Level) Occupants() map[string]core.Point {
	return maps.Clone(l.positions)
}

// Placed returns the names of placed actors in sorted order.
func (l *Level) Placed() []string {
	return slices.Sorted(maps.Keys(l.positions))
}

// PlayerSpawns returns up to n free tiles for players, scanning rooms from the
// first one in row-major order and skipping the key and exit.
func (l *Level) PlayerSpawns(n int) []core.Point {
	return l.spawns(n, l.Layout.Rooms)
}

// AdversarySpawns returns up to n free tiles for adversaries, scanning rooms
// from the last one so that adversaries start away from the players.
func (l *Level) AdversarySpawns(n int) []core.Point {
	rooms := slices.Clone(l.Layout.Rooms)
	slices.Reverse(rooms)
	return l.spawns(n, rooms)
}

func (l *Level) spawns(n int, rooms []*Room) []core.Point {
	var pts []core.Point
	for _, room := range rooms {
		for _, p := range room.Points() {
			if len(pts) == n {
				return pts
			}
			t, _ := room.TileAt(p)
			if t.Kind != TileSpace || p == l.key || p == l.exit {
				continue
			}
			if _, taken := l.occupants[p]; taken {
				continue
			}
			pts = append(pts, p)
		}
	}
	return pts
}
