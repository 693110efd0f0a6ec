package level

import (
	"fmt"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
	"github.com/vovakirdan/tui-dungeon/internal/level/formats"
)

// Layout is the immutable geometry of one level.
type Layout struct {
	Rooms []*Room
	Halls []*Hall

	index  map[core.Point]Component
	bounds core.Rect
}

// ComponentAt returns the component owning p.
func (l *Layout) ComponentAt(p core.Point) (Component, bool) {
	c, ok := l.index[p]
	return c, ok
}

// TileAt returns the tile at p in whichever component owns it.
func (l *Layout) TileAt(p core.Point) (Tile, bool) {
	c, ok := l.index[p]
	if !ok {
		return Tile{}, false
	}
	return c.TileAt(p)
}

// Traversable reports whether p is inside the level and not a wall.
func (l *Layout) Traversable(p core.Point) bool {
	t, ok := l.TileAt(p)
	return ok && t.Traversable()
}

// Bounds returns the smallest rectangle holding every component tile.
func (l *Layout) Bounds() core.Rect {
	return l.bounds
}

// Connected reports whether an actor may step directly between the two
// adjacent traversable tiles a and b. Steps inside a component are always
// allowed; crossing between components only happens through a door and the
// hall it leads to.
func (l *Layout) Connected(a, b core.Point) bool {
	ca, ok := l.index[a]
	if !ok {
		return false
	}
	cb, ok := l.index[b]
	if !ok {
		return false
	}
	if ca == cb {
		return true
	}
	return l.throughDoor(ca, a, cb, b) || l.throughDoor(cb, b, ca, a)
}

func (l *Layout) throughDoor(room Component, door core.Point, other Component, p core.Point) bool {
	if room.Kind() != ComponentRoom {
		return false
	}
	t, _ := room.TileAt(door)
	if t.Kind != TileDoor || t.Hall < 0 {
		return false
	}
	switch other.Kind() {
	case ComponentHall:
		return other.Index() == t.Hall
	case ComponentRoom:
		// Doors facing each other across an empty hall.
		ot, _ := other.TileAt(p)
		return ot.Kind == TileDoor && ot.Hall == t.Hall
	}
	return false
}

// Build constructs the geometry of a level, enforcing every structural
// invariant. Failures are MALFORMED_LEVEL errors carrying the room or hall
// index in their metadata.
func Build(spec formats.Level) (*Layout, error) {
	l := &Layout{index: make(map[core.Point]Component)}

	if len(spec.Rooms) == 0 {
		return nil, errors.MalformedLevel("level has no rooms")
	}

	if err := l.buildRooms(spec.Rooms); err != nil {
		return nil, err
	}
	if err := l.buildHalls(spec.Halls); err != nil {
		return nil, err
	}
	if err := l.checkDoors(); err != nil {
		return nil, err
	}
	l.computeBounds()
	return l, nil
}

func (l *Layout) buildRooms(specs []formats.Room) error {
	for i, rs := range specs {
		if rs.Rows <= 0 || rs.Cols <= 0 {
			return roomErr(i, "bounds must be positive, got %dx%d", rs.Rows, rs.Cols)
		}
		if len(rs.Layout) != rs.Rows {
			return roomErr(i, "layout has %d rows, bounds say %d", len(rs.Layout), rs.Rows)
		}

		tiles := make([][]Tile, rs.Rows)
		for row, codes := range rs.Layout {
			if len(codes) != rs.Cols {
				return roomErr(i, "layout row %d has %d columns, bounds say %d", row, len(codes), rs.Cols)
			}
			tiles[row] = make([]Tile, rs.Cols)
			for col, code := range codes {
				switch code {
				case formats.CodeWall:
					tiles[row][col] = wallTile
				case formats.CodeSpace:
					tiles[row][col] = spaceTile
				case formats.CodeDoor:
					tiles[row][col] = Tile{Kind: TileDoor, Hall: -1}
				default:
					return roomErr(i, "unknown tile code %d at row %d column %d", code, row, col)
				}
			}
		}

		room := NewRoom(i, rs.Origin, tiles)
		for _, other := range l.Rooms {
			if room.Bounds.Intersects(other.Bounds) {
				return roomErr(i, "overlaps room %d", other.index)
			}
		}
		for _, d := range room.Doors {
			if !room.Bounds.OnBorder(d) {
				return roomErr(i, "door %v is not on the room boundary", d)
			}
		}

		l.Rooms = append(l.Rooms, room)
		for _, p := range room.Points() {
			l.index[p] = room
		}
	}
	return nil
}

func (l *Layout) buildHalls(specs []formats.Hall) error {
	onPath := make(map[core.Point]int)

	for i, hs := range specs {
		h := newHall(i, hs.From, hs.To, hs.Waypoints)

		from, ok := l.doorRoom(hs.From)
		if !ok {
			return hallErr(i, "from %v is not a door of any room", hs.From)
		}
		to, ok := l.doorRoom(hs.To)
		if !ok {
			return hallErr(i, "to %v is not a door of any room", hs.To)
		}
		if from == to {
			return hallErr(i, "connects room %d to itself", from.index)
		}
		h.FromRoom, h.ToRoom = from.index, to.index

		path, err := walk(hs.From, hs.Waypoints, hs.To)
		if err != nil {
			return hallErr(i, "%v", err)
		}
		for _, p := range path {
			if c, ok := l.index[p]; ok {
				t, _ := c.TileAt(p)
				if t.Kind == TileWall {
					return hallErr(i, "path crosses a wall of room %d at %v", c.Index(), p)
				}
				return hallErr(i, "path passes through room %d at %v", c.Index(), p)
			}
			if other, ok := onPath[p]; ok && other != i {
				return hallErr(i, "path intersects hall %d at %v", other, p)
			}
			onPath[p] = i
			h.step[p] = len(h.path) + 1
			h.path = append(h.path, p)
			h.tiles[p] = spaceTile
		}

		l.Halls = append(l.Halls, h)
		for _, p := range h.path {
			l.index[p] = h
		}
	}

	// Padding goes in only once every path is known, so a hall never walls
	// off another hall's path.
	for _, h := range l.Halls {
		for _, p := range h.path {
			for _, d := range core.Diagonal {
				n := p.Add(d)
				if _, taken := l.index[n]; taken {
					continue
				}
				h.tiles[n] = wallTile
				l.index[n] = h
			}
		}
	}
	return nil
}

// walk expands from → waypoints → to into the tiles strictly between the two
// doors, rejecting segments that are not axis-aligned.
func walk(from core.Point, waypoints []core.Point, to core.Point) ([]core.Point, error) {
	stops := make([]core.Point, 0, len(waypoints)+2)
	stops = append(stops, from)
	stops = append(stops, waypoints...)
	stops = append(stops, to)

	var path []core.Point
	seen := make(map[core.Point]bool)
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if a.Row != b.Row && a.Col != b.Col {
			return nil, fmt.Errorf("segment %v to %v is not axis-aligned", a, b)
		}
		step := core.Dir{DRow: core.Sign(b.Row - a.Row), DCol: core.Sign(b.Col - a.Col)}
		for p := a; p != b; {
			p = p.Add(step)
			if p == from || p == to || seen[p] {
				continue
			}
			seen[p] = true
			path = append(path, p)
		}
	}
	return path, nil
}

func (l *Layout) doorRoom(p core.Point) (*Room, bool) {
	c, ok := l.index[p]
	if !ok || c.Kind() != ComponentRoom {
		return nil, false
	}
	room := c.(*Room)
	t, _ := room.TileAt(p)
	return room, t.Kind == TileDoor
}

// checkDoors requires every door to be an endpoint of exactly one hall and
// records that hall on the door tile.
func (l *Layout) checkDoors() error {
	refs := make(map[core.Point][]int)
	for _, h := range l.Halls {
		refs[h.From] = append(refs[h.From], h.index)
		refs[h.To] = append(refs[h.To], h.index)
	}

	for _, room := range l.Rooms {
		for _, d := range room.Doors {
			halls := refs[d]
			switch len(halls) {
			case 1:
				room.setDoorHall(d, halls[0])
			case 0:
				return roomErr(room.index, "door %v is not connected to any hall", d)
			default:
				return roomErr(room.index, "door %v is an endpoint of %d halls", d, len(halls))
			}
		}
	}
	return nil
}

func (l *Layout) computeBounds() {
	first := true
	var minRow, minCol, maxRow, maxCol int
	for p := range l.index {
		if first {
			minRow, maxRow, minCol, maxCol = p.Row, p.Row, p.Col, p.Col
			first = false
			continue
		}
		minRow = min(minRow, p.Row)
		maxRow = max(maxRow, p.Row)
		minCol = min(minCol, p.Col)
		maxCol = max(maxCol, p.Col)
	}
	l.bounds = core.NewRect(core.Pt(minRow, minCol), maxRow-minRow+1, maxCol-minCol+1)
}

func roomErr(i int, format string, args ...any) *errors.Error {
	return errors.MalformedLevelf("room %d: "+format, append([]any{i}, args...)...).WithMeta("room", i)
}

func hallErr(i int, format string, args ...any) *errors.Error {
	return errors.MalformedLevelf("hall %d: "+format, append([]any{i}, args...)...).WithMeta("hall", i)
}
