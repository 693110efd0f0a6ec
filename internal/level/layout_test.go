package level_test

import (
	"slices"
	"testing"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/errors"
	"github.com/vovakirdan/tui-dungeon/internal/level"
	"github.com/vovakirdan/tui-dungeon/internal/level/formats"
	"github.com/vovakirdan/tui-dungeon/internal/level/leveltest"
)

func allSpace(rows, cols int) [][]level.Tile {
	tiles := make([][]level.Tile, rows)
	for r := range tiles {
		tiles[r] = make([]level.Tile, cols)
		for c := range tiles[r] {
			tiles[r][c] = level.Tile{Kind: level.TileSpace, Hall: -1}
		}
	}
	return tiles
}

func TestRoomMoves(t *testing.T) {
	room := level.NewRoom(0, core.Pt(0, 0), allSpace(4, 6))

	moves, err := room.Moves(core.Pt(1, 1))
	if err != nil {
		t.Fatalf("Moves() failed: %v", err)
	}

	expected := []core.Point{core.Pt(0, 1), core.Pt(1, 2), core.Pt(2, 1), core.Pt(1, 0)}
	if !slices.Equal(moves, expected) {
		t.Errorf("Moves((1, 1)) = %v, expected %v", moves, expected)
	}
}

func TestRoomMovesOutsideRoom(t *testing.T) {
	room := level.NewRoom(0, core.Pt(0, 0), allSpace(4, 6))

	tests := []core.Point{core.Pt(4, 0), core.Pt(0, 6), core.Pt(-1, 2), core.Pt(10, 10)}
	for _, p := range tests {
		moves, err := room.Moves(p)
		if err != level.ErrPointNotInRoom {
			t.Errorf("Moves(%v) error = %v, expected ErrPointNotInRoom", p, err)
		}
		if moves != nil {
			t.Errorf("Moves(%v) = %v, expected nil", p, moves)
		}
	}
}

func TestRoomMovesSkipsWalls(t *testing.T) {
	tiles := allSpace(3, 3)
	tiles[0][1] = level.Tile{Kind: level.TileWall, Hall: -1}
	room := level.NewRoom(0, core.Pt(5, 5), tiles)

	moves, err := room.Moves(core.Pt(6, 6))
	if err != nil {
		t.Fatalf("Moves() failed: %v", err)
	}
	if len(moves) != 3 {
		t.Errorf("Moves() = %v, expected 3 moves around the wall", moves)
	}
	if slices.Contains(moves, core.Pt(5, 6)) {
		t.Error("Moves() should not include the wall tile")
	}
}

func TestBuildTwoRooms(t *testing.T) {
	layout, err := level.Build(leveltest.TwoRooms())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if len(layout.Rooms) != 2 || len(layout.Halls) != 1 {
		t.Fatalf("Build() = %d rooms, %d halls, expected 2 and 1", len(layout.Rooms), len(layout.Halls))
	}

	hall := layout.Halls[0]
	expectedPath := []core.Point{core.Pt(2, 5), core.Pt(2, 6), core.Pt(2, 7), core.Pt(2, 8), core.Pt(2, 9)}
	if !slices.Equal(hall.Path(), expectedPath) {
		t.Errorf("Path() = %v, expected %v", hall.Path(), expectedPath)
	}
	if hall.FromRoom != 0 || hall.ToRoom != 1 {
		t.Errorf("hall rooms = %d -> %d, expected 0 -> 1", hall.FromRoom, hall.ToRoom)
	}

	// Door tiles record their hall.
	for _, d := range []core.Point{core.Pt(2, 4), core.Pt(2, 10)} {
		tile, ok := layout.TileAt(d)
		if !ok || tile.Kind != level.TileDoor || tile.Hall != 0 {
			t.Errorf("TileAt(%v) = %+v, expected door of hall 0", d, tile)
		}
	}

	// Padding above and below the path is hall-owned wall.
	for _, p := range []core.Point{core.Pt(1, 6), core.Pt(3, 9)} {
		c, ok := layout.ComponentAt(p)
		if !ok || c.Kind() != level.ComponentHall {
			t.Errorf("ComponentAt(%v) should be the hall", p)
			continue
		}
		tile, _ := c.TileAt(p)
		if tile.Kind != level.TileWall {
			t.Errorf("TileAt(%v) = %v, expected wall padding", p, tile.Kind)
		}
	}

	if layout.Bounds() != core.NewRect(core.Pt(0, 0), 5, 15) {
		t.Errorf("Bounds() = %+v, expected 5x15 at origin", layout.Bounds())
	}
}

func TestBuildBentHall(t *testing.T) {
	layout, err := level.Build(leveltest.Bent())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	path := layout.Halls[0].Path()
	if path[0] != core.Pt(4, 1) || path[len(path)-1] != core.Pt(7, 7) {
		t.Errorf("Path() endpoints = %v .. %v, expected (4, 1) .. (7, 7)", path[0], path[len(path)-1])
	}
	// (4,1) (5,1) (5,2)..(5,7) (6,7) (7,7)
	if len(path) != 10 {
		t.Errorf("len(Path()) = %d, expected 10", len(path))
	}

	hall := layout.Halls[0]
	if d, ok := hall.DistanceFrom(core.Pt(3, 1), core.Pt(5, 1)); !ok || d != 2 {
		t.Errorf("DistanceFrom(from door) = %d, %v, expected 2", d, ok)
	}
	if d, ok := hall.DistanceFrom(core.Pt(8, 7), core.Pt(5, 1)); !ok || d != 9 {
		t.Errorf("DistanceFrom(to door) = %d, %v, expected 9", d, ok)
	}
}

func TestLayoutConnected(t *testing.T) {
	layout, err := level.Build(leveltest.TwoRooms())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	tests := []struct {
		name     string
		a, b     core.Point
		expected bool
	}{
		{"inside a room", core.Pt(1, 1), core.Pt(1, 2), true},
		{"door to hall", core.Pt(2, 4), core.Pt(2, 5), true},
		{"hall to door", core.Pt(2, 9), core.Pt(2, 10), true},
		{"along the hall", core.Pt(2, 6), core.Pt(2, 7), true},
		{"outside the level", core.Pt(2, 9), core.Pt(20, 20), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := layout.Connected(tc.a, tc.b); got != tc.expected {
				t.Errorf("Connected(%v, %v) = %v, expected %v", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func TestBuildDoorsReferencedOnce(t *testing.T) {
	for name, spec := range map[string]formats.Level{
		"two rooms": leveltest.TwoRooms(),
		"bent":      leveltest.Bent(),
	} {
		t.Run(name, func(t *testing.T) {
			layout, err := level.Build(spec)
			if err != nil {
				t.Fatalf("Build() failed: %v", err)
			}
			refs := make(map[core.Point]int)
			for _, h := range layout.Halls {
				refs[h.From]++
				refs[h.To]++
			}
			for i, room := range layout.Rooms {
				for _, d := range room.Doors {
					if refs[d] != 1 {
						t.Errorf("room %d door %v referenced %d times", i, d, refs[d])
					}
				}
				for j, other := range layout.Rooms {
					if i != j && room.Bounds.Intersects(other.Bounds) {
						t.Errorf("rooms %d and %d overlap", i, j)
					}
				}
			}
		})
	}
}

func TestBuildMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*formats.Level)
		meta   string
	}{
		{
			name: "no rooms",
			mutate: func(l *formats.Level) {
				l.Rooms = nil
			},
		},
		{
			name: "layout rows mismatch bounds",
			mutate: func(l *formats.Level) {
				l.Rooms[0].Rows = 6
			},
			meta: "room",
		},
		{
			name: "layout columns mismatch bounds",
			mutate: func(l *formats.Level) {
				l.Rooms[1].Layout[3] = []int{0, 1, 1}
			},
			meta: "room",
		},
		{
			name: "unknown tile code",
			mutate: func(l *formats.Level) {
				l.Rooms[0].Layout[1][1] = 7
			},
			meta: "room",
		},
		{
			name: "overlapping rooms",
			mutate: func(l *formats.Level) {
				l.Rooms[1].Origin = core.Pt(2, 2)
			},
			meta: "room",
		},
		{
			name: "from is not a door",
			mutate: func(l *formats.Level) {
				l.Halls[0].From = core.Pt(2, 3)
			},
			meta: "hall",
		},
		{
			name: "to is outside every room",
			mutate: func(l *formats.Level) {
				l.Halls[0].To = core.Pt(20, 20)
			},
			meta: "hall",
		},
		{
			name: "hall connects a room to itself",
			mutate: func(l *formats.Level) {
				l.Rooms[0].Layout[4][2] = formats.CodeDoor
				l.Halls[0].To = core.Pt(4, 2)
				l.Halls[0].Waypoints = []core.Point{core.Pt(2, 6), core.Pt(6, 6), core.Pt(6, 2)}
			},
			meta: "hall",
		},
		{
			name: "diagonal segment",
			mutate: func(l *formats.Level) {
				l.Halls[0].Waypoints = []core.Point{core.Pt(3, 6)}
			},
			meta: "hall",
		},
		{
			name: "path crosses a room wall",
			mutate: func(l *formats.Level) {
				l.Halls[0].Waypoints = []core.Point{core.Pt(2, 6), core.Pt(0, 6), core.Pt(0, 12), core.Pt(2, 12)}
			},
			meta: "hall",
		},
		{
			name: "door without a hall",
			mutate: func(l *formats.Level) {
				l.Rooms[0].Layout[0][2] = formats.CodeDoor
			},
			meta: "room",
		},
		{
			name: "door inside the room",
			mutate: func(l *formats.Level) {
				l.Rooms[0].Layout[2][2] = formats.CodeDoor
			},
			meta: "room",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := leveltest.TwoRooms()
			tc.mutate(&spec)

			_, err := level.Build(spec)
			if err == nil {
				t.Fatal("Build() succeeded, expected MALFORMED_LEVEL")
			}
			if !errors.IsMalformedLevel(err) {
				t.Errorf("Build() error = %v, expected MALFORMED_LEVEL", err)
			}
			if tc.meta != "" {
				if _, ok := errors.GetMeta(err)[tc.meta]; !ok {
					t.Errorf("Build() error meta = %v, expected %q location", errors.GetMeta(err), tc.meta)
				}
			}
		})
	}
}

func TestNewLevelItems(t *testing.T) {
	tests := []struct {
		name string
		key  core.Point
		exit core.Point
	}{
		{"key on a wall", core.Pt(0, 0), core.Pt(3, 13)},
		{"exit in a hall", core.Pt(1, 1), core.Pt(2, 7)},
		{"exit outside the level", core.Pt(1, 1), core.Pt(30, 30)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := leveltest.TwoRooms()
			spec.Key, spec.Exit = tc.key, tc.exit

			if _, err := level.New(0, spec); !errors.IsMalformedLevel(err) {
				t.Errorf("New() error = %v, expected MALFORMED_LEVEL", err)
			}
		})
	}
}
