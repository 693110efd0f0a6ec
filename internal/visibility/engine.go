package visibility

import (
	"slices"

	"github.com/vovakirdan/tui-dungeon/internal/actor"
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
	"github.com/vovakirdan/tui-dungeon/internal/level"
)

const DefaultLitRadius = 2

// KindLookup resolves which side an actor is on. *actor.Roster implements it.
type KindLookup interface {
	KindOf(name string) (actor.Kind, bool)
}

// Engine computes views. It holds no state besides its configuration.
type Engine struct {
	LitRadius int
}

// NewEngine returns an engine with the default lit radius.
func NewEngine() *Engine {
	return &Engine{LitRadius: DefaultLitRadius}
}

// View is an immutable snapshot of what one observer sees. Grid[r][c]
// describes the level tile at Origin + (r, c).
type View struct {
	Origin core.Point
	Center core.Point
	Grid   [][]EntityType
}

// Rows returns the grid height.
func (v View) Rows() int { return len(v.Grid) }

// Cols returns the grid width.
func (v View) Cols() int {
	if len(v.Grid) == 0 {
		return 0
	}
	return len(v.Grid[0])
}

// At returns the entity at the level point p, or Empty outside the grid.
func (v View) At(p core.Point) EntityType {
	r, c := p.Row-v.Origin.Row, p.Col-v.Origin.Col
	if r < 0 || r >= v.Rows() || c < 0 || c >= v.Cols() {
		return Empty
	}
	return v.Grid[r][c]
}

// Names returns the grid as entity names, the form sent over the wire.
func (v View) Names() [][]string {
	out := make([][]string, len(v.Grid))
	for r, row := range v.Grid {
		out[r] = make([]string, len(row))
		for c, e := range row {
			out[r][c] = e.String()
		}
	}
	return out
}

// Equal reports whether two views show the same cells at the same place.
func (v View) Equal(o View) bool {
	if v.Origin != o.Origin || v.Center != o.Center || len(v.Grid) != len(o.Grid) {
		return false
	}
	for r := range v.Grid {
		if !slices.Equal(v.Grid[r], o.Grid[r]) {
			return false
		}
	}
	return true
}

// ComputeView returns the (2r+1)x(2r+1) view centred on the named actor.
// Tiles outside the actor's component, and outside the lit part of the halls
// leaving its room, are Empty. The level is not modified.
func (e *Engine) ComputeView(lvl *level.Level, kinds KindLookup, name string) (View, error) {
	center, ok := lvl.PositionOf(name)
	if !ok {
		return View{}, errors.InvalidActionf("%q is not in level %d", name, lvl.Index)
	}
	comp, ok := lvl.Layout.ComponentAt(center)
	if !ok {
		return View{}, errors.Internalf("%q stands outside every component at %v", name, center)
	}

	visible := make(map[core.Point]struct{})
	for _, p := range comp.Points() {
		visible[p] = struct{}{}
	}
	if room, isRoom := comp.(*level.Room); isRoom {
		for _, door := range room.Doors {
			t, _ := room.TileAt(door)
			if t.Hall < 0 || t.Hall >= len(lvl.Layout.Halls) {
				continue
			}
			for _, p := range lvl.Layout.Halls[t.Hall].Near(door, e.LitRadius) {
				visible[p] = struct{}{}
			}
		}
	}

	bounds := core.Centered(center, e.LitRadius)
	return render(lvl, kinds, bounds, func(p core.Point) bool {
		_, ok := visible[p]
		return ok
	}, center), nil
}

// ObserverView returns the whole level with nothing hidden.
func (e *Engine) ObserverView(lvl *level.Level, kinds KindLookup) View {
	b := lvl.Layout.Bounds()
	return render(lvl, kinds, b, func(core.Point) bool { return true }, b.Origin)
}

func render(lvl *level.Level, kinds KindLookup, bounds core.Rect, visible func(core.Point) bool, center core.Point) View {
	grid := make([][]EntityType, bounds.Rows)
	for r := range grid {
		grid[r] = make([]EntityType, bounds.Cols)
		for c := range grid[r] {
			p := core.Pt(bounds.Origin.Row+r, bounds.Origin.Col+c)
			if visible(p) {
				grid[r][c] = entityAt(lvl, kinds, p)
			}
		}
	}
	return View{Origin: bounds.Origin, Center: center, Grid: grid}
}

func entityAt(lvl *level.Level, kinds KindLookup, p core.Point) EntityType {
	comp, ok := lvl.Layout.ComponentAt(p)
	if !ok {
		return Empty
	}
	tile, _ := comp.TileAt(p)

	var e EntityType
	switch comp.Kind() {
	case level.ComponentRoom:
		switch tile.Kind {
		case level.TileWall:
			e = Wall
		case level.TileSpace:
			e = Space
		case level.TileDoor:
			e = Door
		}
	case level.ComponentHall:
		if tile.Kind == level.TileWall {
			e = Wall
		} else {
			e = Hall
		}
	}

	if p == lvl.Exit() {
		e = Max(e, Exit)
	}
	if key, unclaimed := lvl.Key(); unclaimed && key == p {
		e = Max(e, Key)
	}
	if name, ok := lvl.OccupantAt(p); ok {
		if k, ok := kinds.KindOf(name); ok && k == actor.KindPlayer {
			e = Max(e, Player)
		} else {
			e = Max(e, Adversary)
		}
	}
	return e
}
