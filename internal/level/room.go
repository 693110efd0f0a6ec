package level

import (
	stderrors "errors"

	"github.com/vovakirdan/tui-dungeon/internal/core"
)

// ErrPointNotInRoom is returned when a room is queried about a point outside it.
var ErrPointNotInRoom = stderrors.New("level: point not in room")

// Room is a rectangular grid of tiles with doors on its boundary.
type Room struct {
	index  int
	Bounds core.Rect
	Doors  []core.Point
	tiles  [][]Tile
}

// NewRoom creates a room from its origin and a grid of tiles.
// The grid must be rectangular; Build checks that before calling.
func NewRoom(index int, origin core.Point, tiles [][]Tile) *Room {
	cols := 0
	if len(tiles) > 0 {
		cols = len(tiles[0])
	}
	r := &Room{
		index:  index,
		Bounds: core.NewRect(origin, len(tiles), cols),
		tiles:  tiles,
	}
	for row := range tiles {
		for col, t := range tiles[row] {
			if t.Kind == TileDoor {
				r.Doors = append(r.Doors, core.Pt(origin.Row+row, origin.Col+col))
			}
		}
	}
	return r
}

func (r *Room) component() {}

// Kind returns ComponentRoom.
func (r *Room) Kind() ComponentKind { return ComponentRoom }

// Index returns the room's position in the level's room list.
func (r *Room) Index() int { return r.index }

// Origin returns the top-left corner.
func (r *Room) Origin() core.Point { return r.Bounds.Origin }

// Contains reports whether p lies within the room's bounds.
func (r *Room) Contains(p core.Point) bool {
	return r.Bounds.Contains(p)
}

// TileAt returns the tile at p.
func (r *Room) TileAt(p core.Point) (Tile, bool) {
	if !r.Bounds.Contains(p) {
		return Tile{}, false
	}
	row, col := r.Bounds.Local(p)
	return r.tiles[row][col], true
}

// Points returns every point of the room in row-major order.
func (r *Room) Points() []core.Point {
	pts := make([]core.Point, 0, r.Bounds.Rows*r.Bounds.Cols)
	for row := r.Bounds.Origin.Row; row < r.Bounds.Bottom(); row++ {
		for col := r.Bounds.Origin.Col; col < r.Bounds.Right(); col++ {
			pts = append(pts, core.Pt(row, col))
		}
	}
	return pts
}

// Moves returns the orthogonal neighbours of p that are inside the room and
// traversable, in N, E, S, W order.
func (r *Room) Moves(p core.Point) ([]core.Point, error) {
	if !r.Contains(p) {
		return nil, ErrPointNotInRoom
	}

	var moves []core.Point
	for _, d := range core.Orthogonal {
		n := p.Add(d)
		if t, ok := r.TileAt(n); ok && t.Traversable() {
			moves = append(moves, n)
		}
	}
	return moves, nil
}

func (r *Room) setDoorHall(p core.Point, hall int) {
	row, col := r.Bounds.Local(p)
	r.tiles[row][col].Hall = hall
}
