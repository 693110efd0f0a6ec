// Package dungeon sequences levels into a game and drives the turn loop.
//
// A Dungeon owns the levels and the canonical actor records. The Controller
// is the only code that mutates it, one action at a time; agents and
// observers only ever receive copies.
package dungeon

import (
	"fmt"

	"github.com/vovakirdan/tui-dungeon/internal/actor"
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
	"github.com/vovakirdan/tui-dungeon/internal/level"
	"github.com/vovakirdan/tui-dungeon/internal/rules"
	"github.com/vovakirdan/tui-dungeon/internal/visibility"
)

// ModelView is the read-only surface handed to renderers and adapters.
type ModelView interface {
	CurrentLevelIndex() int
	IsPlayerActive(name string) bool
	PlayerNames() []string
	Status() level.Status
}

// Dungeon is the authoritative state of one game.
type Dungeon struct {
	Levels  []*level.Level
	Roster  *actor.Roster
	Checker *rules.Checker
	Vis     *visibility.Engine

	current int
	status  level.Status
	retired map[string]bool
}

var _ ModelView = (*Dungeon)(nil)

// New creates a game over the given levels and registered actors.
func New(levels []*level.Level, roster *actor.Roster, checker *rules.Checker, vis *visibility.Engine) (*Dungeon, error) {
	if len(levels) == 0 {
		return nil, errors.Internal("dungeon needs at least one level")
	}
	if len(roster.Players()) == 0 {
		return nil, errors.Registration("no players registered")
	}
	if checker == nil {
		checker = rules.NewChecker()
	}
	if vis == nil {
		vis = visibility.NewEngine()
	}
	return &Dungeon{
		Levels:  levels,
		Roster:  roster,
		Checker: checker,
		Vis:     vis,
		status:  level.StatusActive,
		retired: make(map[string]bool),
	}, nil
}

// CurrentLevelIndex returns the index of the level being played.
func (d *Dungeon) CurrentLevelIndex() int {
	return d.current
}

// CurrentLevel returns the level being played.
func (d *Dungeon) CurrentLevel() *level.Level {
	return d.Levels[d.current]
}

// Status returns the game-wide state.
func (d *Dungeon) Status() level.Status {
	return d.status
}

// PlayerNames returns every registered player in registration order.
func (d *Dungeon) PlayerNames() []string {
	return d.Roster.PlayerNames()
}

// IsPlayerActive reports whether the player is still taking turns in the
// current level.
func (d *Dungeon) IsPlayerActive(name string) bool {
	p, ok := d.Roster.Player(name)
	if !ok || !p.Active() {
		return false
	}
	_, placed := d.CurrentLevel().PositionOf(name)
	return placed
}

// InLevel reports whether the named actor is placed in the current level.
func (d *Dungeon) InLevel(name string) bool {
	_, ok := d.CurrentLevel().PositionOf(name)
	return ok
}

// StartLevel places the participating actors on the current level and makes
// it active. Players eliminated earlier sit out. Adversaries are limited to
// the level's spawn counts per kind when the level file gives them.
func (d *Dungeon) StartLevel() error {
	if d.status != level.StatusActive {
		return errors.Internalf("cannot start a level in a %s game", d.status)
	}
	lvl := d.CurrentLevel()

	var players []string
	for _, p := range d.Roster.Players() {
		p.ResetForLevel()
		if !p.Eliminated {
			players = append(players, p.Name)
		}
	}
	if err := placeAll(lvl, players, lvl.PlayerSpawns(len(players))); err != nil {
		return err
	}

	adversaries := d.participatingAdversaries(lvl)
	if err := placeAll(lvl, adversaries, lvl.AdversarySpawns(len(adversaries))); err != nil {
		return err
	}

	lvl.Start()
	return nil
}

func (d *Dungeon) participatingAdversaries(lvl *level.Level) []string {
	var names []string
	zombies, ghosts := -1, -1
	if lvl.Spawns != nil {
		zombies, ghosts = lvl.Spawns.Zombies, lvl.Spawns.Ghosts
	}
	for _, a := range d.Roster.Adversaries() {
		if d.retired[a.Name] {
			continue
		}
		switch a.Kind {
		case actor.Zombie:
			if zombies == 0 {
				continue
			}
			zombies--
		case actor.Ghost:
			if ghosts == 0 {
				continue
			}
			ghosts--
		}
		names = append(names, a.Name)
	}
	return names
}

func placeAll(lvl *level.Level, names []string, spawns []core.Point) error {
	if len(spawns) < len(names) {
		return errors.MalformedLevelf("level %d has room for %d actors, need %d", lvl.Index, len(spawns), len(names)).
			WithMeta("level", lvl.Index)
	}
	for i, name := range names {
		if err := lvl.Place(name, spawns[i]); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMove checks a move on the current level.
func (d *Dungeon) ValidateMove(name string, dst core.Point) error {
	return d.Checker.ValidateMove(d.CurrentLevel(), d.Roster, name, dst)
}

// ApplyMove applies a validated move on the current level.
func (d *Dungeon) ApplyMove(name string, dst core.Point) rules.Outcome {
	return d.Checker.ApplyMove(d.CurrentLevel(), d.Roster, name, dst)
}

// Destinations lists the valid destinations of the named actor.
func (d *Dungeon) Destinations(name string) []core.Point {
	return d.Checker.Destinations(d.CurrentLevel(), d.Roster, name)
}

// LevelStatus evaluates the current level without changing it.
func (d *Dungeon) LevelStatus() level.Status {
	return rules.LevelStatus(d.CurrentLevel(), d.Roster)
}

// ViewFor computes the named player's view of the current level.
func (d *Dungeon) ViewFor(name string) (visibility.View, error) {
	return d.Vis.ComputeView(d.CurrentLevel(), d.Roster, name)
}

// ObserverView renders the whole current level.
func (d *Dungeon) ObserverView() visibility.View {
	return d.Vis.ObserverView(d.CurrentLevel(), d.Roster)
}

// Eliminate takes an actor out for the rest of the game, as happens on
// disconnect.
func (d *Dungeon) Eliminate(name string) {
	if p, ok := d.Roster.Player(name); ok {
		p.Eliminated = true
	}
	d.retired[name] = true
	d.CurrentLevel().Remove(name)
}

// FinishLevel makes the current level terminal and advances the game: a lost
// level loses the game, winning the last level wins it. Players ejected in
// this level sit out the rest of the game.
func (d *Dungeon) FinishLevel(s level.Status) LevelEndEvent {
	lvl := d.CurrentLevel()
	lvl.Finish(s)

	evt := LevelEndEvent{LevelIndex: lvl.Index, Status: s, KeyFinder: lvl.KeyFinder()}
	for _, p := range d.Roster.Players() {
		switch {
		case p.HasExited:
			evt.Exited = append(evt.Exited, p.Name)
		case p.IsEjected:
			evt.Ejected = append(evt.Ejected, p.Name)
			p.Eliminated = true
		}
	}

	switch {
	case s == level.StatusLost:
		d.status = level.StatusLost
	case d.current == len(d.Levels)-1:
		d.status = level.StatusWon
	default:
		d.current++
	}
	return evt
}

// Stats returns every player's cumulative counters in registration order.
func (d *Dungeon) Stats() []PlayerStats {
	players := d.Roster.Players()
	stats := make([]PlayerStats, len(players))
	for i, p := range players {
		stats[i] = PlayerStats{Name: p.Name, KeysFound: p.KeysFound, Exits: p.Exits, Ejections: p.Ejections}
	}
	return stats
}

// StateFor builds the state update for one player.
func (d *Dungeon) StateFor(name string) (StateUpdateEvent, error) {
	p, ok := d.Roster.Player(name)
	if !ok {
		return StateUpdateEvent{}, fmt.Errorf("state for %q: not a player", name)
	}
	evt := StateUpdateEvent{
		LevelIndex: d.current,
		Health:     p.Health,
		KeyFound:   p.KeyFound,
		HasExited:  p.HasExited,
		IsEjected:  p.IsEjected,
	}
	if pos, placed := d.CurrentLevel().PositionOf(name); placed {
		view, err := d.ViewFor(name)
		if err != nil {
			return StateUpdateEvent{}, err
		}
		evt.Position = pos
		evt.View = view
	}
	return evt, nil
}
