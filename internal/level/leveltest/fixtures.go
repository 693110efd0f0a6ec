// Package leveltest provides small level specifications shared by tests
// across the engine packages.
package leveltest

import (
	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/level"
	"github.com/vovakirdan/tui-dungeon/internal/level/formats"
)

// TwoRooms is two 5x5 rooms joined by a straight five-tile hall:
//
//	col:  0123456789...14
//	row 0 XXXXX     XXXXX
//	row 1 XK..X=====X...X
//	row 2 X...D.....D...X
//	row 3 X...X=====X..EX
//	row 4 XXXXX     XXXXX
//
// The key is at (1,1) and the exit at (3,13).
func TwoRooms() formats.Level {
	return formats.Level{
		Rooms: []formats.Room{
			{
				Origin: core.Pt(0, 0), Rows: 5, Cols: 5,
				Layout: [][]int{
					{0, 0, 0, 0, 0},
					{0, 1, 1, 1, 0},
					{0, 1, 1, 1, 2},
					{0, 1, 1, 1, 0},
					{0, 0, 0, 0, 0},
				},
			},
			{
				Origin: core.Pt(0, 10), Rows: 5, Cols: 5,
				Layout: [][]int{
					{0, 0, 0, 0, 0},
					{0, 1, 1, 1, 0},
					{2, 1, 1, 1, 0},
					{0, 1, 1, 1, 0},
					{0, 0, 0, 0, 0},
				},
			},
		},
		Halls: []formats.Hall{
			{From: core.Pt(2, 4), To: core.Pt(2, 10)},
		},
		Key:  core.Pt(1, 1),
		Exit: core.Pt(3, 13),
	}
}

// Bent is two 4x4 rooms joined by a hall with two waypoints.
//
// Room 0 sits at (0,0) with its door at (3,1); room 1 sits at (8,6) with
// its door at (8,7). The hall runs (3,1) -> (5,1) -> (5,7) -> (8,7).
func Bent() formats.Level {
	return formats.Level{
		Rooms: []formats.Room{
			{
				Origin: core.Pt(0, 0), Rows: 4, Cols: 4,
				Layout: [][]int{
					{0, 0, 0, 0},
					{0, 1, 1, 0},
					{0, 1, 1, 0},
					{0, 2, 0, 0},
				},
			},
			{
				Origin: core.Pt(8, 6), Rows: 4, Cols: 4,
				Layout: [][]int{
					{0, 2, 0, 0},
					{0, 1, 1, 0},
					{0, 1, 1, 0},
					{0, 0, 0, 0},
				},
			},
		},
		Halls: []formats.Hall{
			{From: core.Pt(3, 1), To: core.Pt(8, 7), Waypoints: []core.Point{core.Pt(5, 1), core.Pt(5, 7)}},
		},
		Key:  core.Pt(2, 2),
		Exit: core.Pt(10, 8),
	}
}

// OpenRoom is a single all-space room with the given dimensions at the origin.
// The key and exit sit in the bottom-right corner region.
func OpenRoom(rows, cols int) formats.Level {
	layout := make([][]int, rows)
	for r := range layout {
		layout[r] = make([]int, cols)
		for c := range layout[r] {
			layout[r][c] = formats.CodeSpace
		}
	}
	return formats.Level{
		Rooms: []formats.Room{{Origin: core.Pt(0, 0), Rows: rows, Cols: cols, Layout: layout}},
		Key:   core.Pt(rows-1, cols-2),
		Exit:  core.Pt(rows-1, cols-1),
	}
}

// MustNew builds a level from spec and panics on failure.
func MustNew(index int, spec formats.Level) *level.Level {
	lvl, err := level.New(index, spec)
	if err != nil {
		panic(err)
	}
	return lvl
}
