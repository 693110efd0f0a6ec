package level

import (
	"slices"

	"github.com/vovakirdan/tui-dungeon/internal/core"
)

// Hall connects two doors of distinct rooms along a path of axis-aligned
// segments. Its tiles are the path (excluding the two doors, which belong to
// their rooms) plus the wall padding around it.
type Hall struct {
	index     int
	From      core.Point
	To        core.Point
	Waypoints []core.Point
	FromRoom  int
	ToRoom    int

	path  []core.Point
	step  map[core.Point]int // 1-based position along path, counted from From
	tiles map[core.Point]Tile
}

func newHall(index int, from, to core.Point, waypoints []core.Point) *Hall {
	return &Hall{
		index:     index,
		From:      from,
		To:        to,
		Waypoints: slices.Clone(waypoints),
		step:      make(map[core.Point]int),
		tiles:     make(map[core.Point]Tile),
	}
}

func (h *Hall) component() {}

// Kind returns ComponentHall.
func (h *Hall) Kind() ComponentKind { return ComponentHall }

// Index returns the hall's position in the level's hall list.
func (h *Hall) Index() int { return h.index }

// Origin returns the top-left corner of the hall's bounding box.
func (h *Hall) Origin() core.Point {
	first := true
	var o core.Point
	for p := range h.tiles {
		if first || p.Row < o.Row {
			o.Row = p.Row
		}
		if first || p.Col < o.Col {
			o.Col = p.Col
		}
		first = false
	}
	return o
}

// Contains reports whether p is a path or padding tile of the hall.
func (h *Hall) Contains(p core.Point) bool {
	_, ok := h.tiles[p]
	return ok
}

// TileAt returns the tile at p.
func (h *Hall) TileAt(p core.Point) (Tile, bool) {
	t, ok := h.tiles[p]
	return t, ok
}

// Path returns the walkable tiles from the From side to the To side.
func (h *Hall) Path() []core.Point {
	return slices.Clone(h.path)
}

// OnPath reports whether p is one of the hall's walkable tiles.
func (h *Hall) OnPath(p core.Point) bool {
	_, ok := h.step[p]
	return ok
}

// Points returns every tile of the hall in row-major order.
func (h *Hall) Points() []core.Point {
	pts := make([]core.Point, 0, len(h.tiles))
	for p := range h.tiles {
		pts = append(pts, p)
	}
	slices.SortFunc(pts, comparePoints)
	return pts
}

// DistanceFrom returns the path distance from door to p, or false if door is
// not one of the hall's endpoints or p is not on the path.
func (h *Hall) DistanceFrom(door, p core.Point) (int, bool) {
	s, ok := h.step[p]
	if !ok {
		return 0, false
	}
	switch door {
	case h.From:
		return s, true
	case h.To:
		return len(h.path) + 1 - s, true
	}
	return 0, false
}

// Near returns the hall tiles within radius path steps of door: the path
// tiles themselves plus their adjacent padding.
func (h *Hall) Near(door core.Point, radius int) []core.Point {
	seen := make(map[core.Point]struct{})
	for _, p := range h.path {
		d, ok := h.DistanceFrom(door, p)
		if !ok || d > radius {
			continue
		}
		seen[p] = struct{}{}
		for _, dir := range core.Diagonal {
			n := p.Add(dir)
			if t, ok := h.tiles[n]; ok && t.Kind == TileWall {
				seen[n] = struct{}{}
			}
		}
	}

	pts := make([]core.Point, 0, len(seen))
	for p := range seen {
		pts = append(pts, p)
	}
	slices.SortFunc(pts, comparePoints)
	return pts
}

// Other returns the endpoint opposite door.
func (h *Hall) Other(door core.Point) core.Point {
	if door == h.From {
		return h.To
	}
	return h.From
}

func comparePoints(a, b core.Point) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}
