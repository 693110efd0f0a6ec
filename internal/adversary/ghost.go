package adversary

import (
	"math/rand"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/registry"
)

func init() {
	registry.Register("ghost", func(seed int64) registry.Policy { return NewGhost(seed) })
}

// Ghost drifts to a random valid destination every turn.
type Ghost struct {
	rng *rand.Rand
}

// NewGhost creates a ghost policy with its own random source.
func NewGhost(seed int64) *Ghost {
	return &Ghost{rng: rand.New(rand.NewSource(seed))}
}

func (g *Ghost) ID() string    { return "ghost" }
func (g *Ghost) Title() string { return "Ghost: wanders at random" }

// Choose picks any destination offered.
func (g *Ghost) Choose(req dungeon.TurnRequest) core.Point {
	if len(req.Destinations) == 0 {
		return req.Position
	}
	return req.Destinations[g.rng.Intn(len(req.Destinations))]
}
