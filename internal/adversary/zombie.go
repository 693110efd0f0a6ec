// Package adversary implements the built-in adversary policies and the agent
// that runs them inside the server or a headless client.
package adversary

import (
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/registry"
	"github.com/vovakirdan/tui-dungeon/internal/visibility"
)

func init() {
	registry.Register("zombie", func(int64) registry.Policy { return Zombie{} })
}

// Zombie shuffles toward the nearest player it can see and waits otherwise.
type Zombie struct{}

func (Zombie) ID() string    { return "zombie" }
func (Zombie) Title() string { return "Zombie: chases the nearest visible player" }

// Choose picks the destination closest to the nearest visible player.
func (Zombie) Choose(req dungeon.TurnRequest) core.Point {
	target, ok := nearestPlayer(req.View, req.Position)
	if !ok {
		return req.Position
	}

	best, bestDist := req.Position, req.Position.Manhattan(target)
	for _, p := range req.Destinations {
		if d := p.Manhattan(target); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

func nearestPlayer(v visibility.View, from core.Point) (core.Point, bool) {
	var (
		best  core.Point
		found bool
	)
	for r, row := range v.Grid {
		for c, e := range row {
			if e != visibility.Player {
				continue
			}
			p := core.Pt(v.Origin.Row+r, v.Origin.Col+c)
			if !found || p.Manhattan(from) < best.Manhattan(from) {
				best, found = p, true
			}
		}
	}
	return best, found
}
