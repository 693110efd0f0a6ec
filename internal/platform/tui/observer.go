package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
)

// Spectator is an observer that prints the whole level after every action.
type Spectator struct {
	mu sync.Mutex
	w  io.Writer
}

var _ dungeon.Observer = (*Spectator)(nil)

// NewSpectator creates a spectator writing to w.
func NewSpectator(w io.Writer) *Spectator {
	return &Spectator{w: w}
}

// Notify prints evt.
func (s *Spectator) Notify(evt dungeon.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := evt.(type) {
	case dungeon.LevelStartEvent:
		fmt.Fprintf(s.w, "== level %d: %v\n", e.LevelIndex+1, e.PlayerNames)
	case dungeon.ObservationEvent:
		out := e.Outcome
		switch {
		case e.Round == 0:
			fmt.Fprintf(s.w, "-- %s left the game\n", out.Actor)
		case out.Moved:
			fmt.Fprintf(s.w, "-- round %d: %s %s -> %s\n", e.Round, out.Actor, out.From, out.To)
		default:
			fmt.Fprintf(s.w, "-- round %d: %s stays at %s\n", e.Round, out.Actor, out.To)
		}
		fmt.Fprintln(s.w, RenderView(e.View))
	case dungeon.LevelEndEvent:
		fmt.Fprintf(s.w, "== level %d %s (key: %q, exited: %v, ejected: %v)\n",
			e.LevelIndex+1, e.Status, e.KeyFinder, e.Exited, e.Ejected)
	case dungeon.GameEndEvent:
		fmt.Fprintf(s.w, "== game %s\n", e.Status)
		for _, p := range e.Players {
			fmt.Fprintf(s.w, "   %-12s keys %d  exits %d  ejected %d\n", p.Name, p.KeysFound, p.Exits, p.Ejections)
		}
	}
}
