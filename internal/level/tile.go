// Package level provides the dungeon's geometry model (rooms, halls, doors)
// and the mutable per-level state built on top of it.
//
// Geometry is immutable once Build returns. Level state is mutated only
// through the rules package, one action at a time.
package level

import (
	"github.com/vovakirdan/tui-dungeon/internal/core"
)

// TileKind is the closed set of tile variants.
type TileKind uint8

const (
	TileWall TileKind = iota
	TileSpace
	TileDoor
)

func (k TileKind) String() string {
	switch k {
	case TileWall:
		return "wall"
	case TileSpace:
		return "space"
	case TileDoor:
		return "door"
	default:
		return "unknown"
	}
}

// Tile is a single grid cell of a component.
// Hall is the index of the hall a door connects to and is -1 for every
// other kind.
type Tile struct {
	Kind TileKind
	Hall int
}

var (
	wallTile  = Tile{Kind: TileWall, Hall: -1}
	spaceTile = Tile{Kind: TileSpace, Hall: -1}
)

// Traversable reports whether an actor may stand on the tile.
func (t Tile) Traversable() bool {
	switch t.Kind {
	case TileSpace, TileDoor:
		return true
	case TileWall:
		return false
	}
	return false
}

// ComponentKind tags the two component variants.
type ComponentKind uint8

const (
	ComponentRoom ComponentKind = iota
	ComponentHall
)

func (k ComponentKind) String() string {
	if k == ComponentRoom {
		return "room"
	}
	return "hall"
}

// Component is a structural building block of a level: a *Room or a *Hall.
// The set of implementations is closed.
type Component interface {
	Kind() ComponentKind
	Index() int
	Origin() core.Point
	Contains(p core.Point) bool
	TileAt(p core.Point) (Tile, bool)
	Points() []core.Point

	component()
}
