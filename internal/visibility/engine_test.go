package visibility

import (
	"testing"

	"github.com/vovakirdan/tui-dungeon/internal/actor"
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/level"
	"github.com/vovakirdan/tui-dungeon/internal/level/formats"
	"github.com/vovakirdan/tui-dungeon/internal/level/leveltest"
)

const (
	E = Empty
	S = Space
	W = Wall
	H = Hall
	D = Door
	X = Exit
	K = Key
	A = Adversary
	P = Player
)

func newLevel(t *testing.T, spec formats.Level, players map[string]core.Point, zombies map[string]core.Point) (*level.Level, *actor.Roster) {
	t.Helper()

	lvl := leveltest.MustNew(0, spec)
	roster := actor.NewRoster()
	for name, p := range players {
		roster.AddPlayer(name, 3)
		if err := lvl.Place(name, p); err != nil {
			t.Fatalf("Place(%s) failed: %v", name, err)
		}
	}
	for name, p := range zombies {
		roster.AddAdversary(name, actor.Zombie)
		if err := lvl.Place(name, p); err != nil {
			t.Fatalf("Place(%s) failed: %v", name, err)
		}
	}
	return lvl, roster
}

func assertGrid(t *testing.T, got View, expected [][]EntityType) {
	t.Helper()
	if got.Rows() != len(expected) || got.Cols() != len(expected[0]) {
		t.Fatalf("view is %dx%d, expected %dx%d", got.Rows(), got.Cols(), len(expected), len(expected[0]))
	}
	for r := range expected {
		for c := range expected[r] {
			if got.Grid[r][c] != expected[r][c] {
				t.Errorf("cell (%d, %d) = %v, expected %v", r, c, got.Grid[r][c], expected[r][c])
			}
		}
	}
}

func TestComputeViewRoomWithLitHall(t *testing.T) {
	lvl, roster := newLevel(t, leveltest.TwoRooms(), map[string]core.Point{"alice": core.Pt(2, 3)}, nil)

	view, err := NewEngine().ComputeView(lvl, roster, "alice")
	if err != nil {
		t.Fatalf("ComputeView() failed: %v", err)
	}

	if view.Origin != core.Pt(0, 1) || view.Center != core.Pt(2, 3) {
		t.Errorf("Origin/Center = %v/%v, expected (0, 1)/(2, 3)", view.Origin, view.Center)
	}
	assertGrid(t, view, [][]EntityType{
		{W, W, W, W, E},
		{K, S, S, W, W},
		{S, S, P, D, H},
		{S, S, S, W, W},
		{W, W, W, W, E},
	})
}

func TestComputeViewFromHall(t *testing.T) {
	lvl, roster := newLevel(t, leveltest.TwoRooms(),
		map[string]core.Point{"alice": core.Pt(2, 6)},
		map[string]core.Point{"z1": core.Pt(2, 3), "z2": core.Pt(2, 8)},
	)

	view, err := NewEngine().ComputeView(lvl, roster, "alice")
	if err != nil {
		t.Fatalf("ComputeView() failed: %v", err)
	}

	// Room tiles, including both doors, stay dark from inside the hall.
	assertGrid(t, view, [][]EntityType{
		{E, E, E, E, E},
		{E, W, W, W, W},
		{E, H, P, H, A},
		{E, W, W, W, W},
		{E, E, E, E, E},
	})
	if view.At(core.Pt(2, 3)) != Empty {
		t.Error("adversary inside the room should not be visible from the hall")
	}
}

func TestComputeViewDimensions(t *testing.T) {
	lvl, roster := newLevel(t, leveltest.OpenRoom(9, 9), map[string]core.Point{
		"corner": core.Pt(0, 0),
		"middle": core.Pt(4, 4),
		"edge":   core.Pt(8, 3),
	}, nil)

	for _, radius := range []int{0, 1, 2, 3} {
		e := &Engine{LitRadius: radius}
		for _, name := range []string{"corner", "middle", "edge"} {
			view, err := e.ComputeView(lvl, roster, name)
			if err != nil {
				t.Fatalf("ComputeView(%s) failed: %v", name, err)
			}
			side := 2*radius + 1
			if view.Rows() != side || view.Cols() != side {
				t.Errorf("radius %d, %s: view is %dx%d, expected %dx%d",
					radius, name, view.Rows(), view.Cols(), side, side)
			}
		}
	}
}

func TestComputeViewIdempotent(t *testing.T) {
	lvl, roster := newLevel(t, leveltest.TwoRooms(),
		map[string]core.Point{"alice": core.Pt(2, 2)},
		map[string]core.Point{"z1": core.Pt(1, 1)},
	)
	e := NewEngine()

	first, _ := e.ComputeView(lvl, roster, "alice")
	second, _ := e.ComputeView(lvl, roster, "alice")
	if !first.Equal(second) {
		t.Fatal("two views of unchanged state should be equal")
	}

	// Adversary standing on the key hides it.
	if first.At(core.Pt(1, 1)) != Adversary {
		t.Errorf("At(1, 1) = %v, expected adversary", first.At(core.Pt(1, 1)))
	}

	first.Grid[0][0] = Player
	third, _ := e.ComputeView(lvl, roster, "alice")
	if !second.Equal(third) {
		t.Error("mutating a returned view should not affect later views")
	}
}

func TestComputeViewPlayerAtFourTwo(t *testing.T) {
	lvl, roster := newLevel(t, leveltest.OpenRoom(7, 6), map[string]core.Point{"alice": core.Pt(4, 2)}, nil)

	expected := [][]EntityType{
		{S, S, S, S, S},
		{S, S, S, S, S},
		{S, S, P, S, S},
		{S, S, S, S, S},
		{S, S, S, S, K},
	}
	e := NewEngine()
	for range 3 {
		view, err := e.ComputeView(lvl, roster, "alice")
		if err != nil {
			t.Fatalf("ComputeView() failed: %v", err)
		}
		assertGrid(t, view, expected)
	}
}

func TestComputeViewUnplaced(t *testing.T) {
	lvl, roster := newLevel(t, leveltest.TwoRooms(), nil, nil)
	if _, err := NewEngine().ComputeView(lvl, roster, "ghost"); err == nil {
		t.Error("ComputeView() for an unplaced actor should fail")
	}
}

func TestObserverView(t *testing.T) {
	lvl, roster := newLevel(t, leveltest.TwoRooms(), map[string]core.Point{"alice": core.Pt(2, 2)}, nil)

	view := NewEngine().ObserverView(lvl, roster)
	if view.Rows() != 5 || view.Cols() != 15 {
		t.Fatalf("ObserverView() is %dx%d, expected 5x15", view.Rows(), view.Cols())
	}
	if view.At(core.Pt(3, 13)) != Exit {
		t.Errorf("At(exit) = %v, expected exit", view.At(core.Pt(3, 13)))
	}
	if view.At(core.Pt(2, 7)) != Hall {
		t.Errorf("At(2, 7) = %v, expected hall", view.At(core.Pt(2, 7)))
	}
	if view.At(core.Pt(0, 7)) != Empty {
		t.Errorf("At(0, 7) = %v, expected empty gap", view.At(core.Pt(0, 7)))
	}
}

func TestEntityTypePriority(t *testing.T) {
	order := []EntityType{Empty, Space, Wall, Hall, Door, Exit, Key, Adversary, Player}
	for i := 1; i < len(order); i++ {
		if Max(order[i-1], order[i]) != order[i] {
			t.Errorf("%v should outrank %v", order[i], order[i-1])
		}
	}

	for _, e := range order {
		parsed, err := ParseEntityType(e.String())
		if err != nil || parsed != e {
			t.Errorf("ParseEntityType(%q) = %v, %v", e.String(), parsed, err)
		}
	}
	if _, err := ParseEntityType("dragon"); err == nil {
		t.Error("ParseEntityType(dragon) should fail")
	}
}
