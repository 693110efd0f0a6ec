package core

import (
	"strings"
)

// Cell is one character position of a Screen.
type Cell struct {
	Rune  rune
	Color Color
}

var blank = Cell{Rune: ' ', Color: ColorDefault}

// Screen is a 2D character buffer that views are drawn into before they are
// styled for a terminal. It is addressed by Point, row first.
type Screen struct {
	rows  int
	cols  int
	cells [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(rows, cols int) *Screen {
	s := &Screen{
		rows: rows,
		cols: cols,
	}
	s.allocate()
	s.Clear()
	return s
}

func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.rows)
	for r := range s.cells {
		s.cells[r] = make([]Cell, s.cols)
	}
}

// Rows returns the screen height in characters.
func (s *Screen) Rows() int {
	return s.rows
}

// Cols returns the screen width in characters.
func (s *Screen) Cols() int {
	return s.cols
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(rows, cols int) {
	if rows == s.rows && cols == s.cols {
		return
	}

	old := s.cells
	oldRows, oldCols := s.rows, s.cols

	s.rows = rows
	s.cols = cols
	s.allocate()
	s.Clear()

	for r := 0; r < min(oldRows, rows); r++ {
		copy(s.cells[r], old[r][:min(oldCols, cols)])
	}
}

// Clear fills the entire screen with uncolored spaces.
func (s *Screen) Clear() {
	for r := range s.cells {
		for c := range s.cells[r] {
			s.cells[r][c] = blank
		}
	}
}

// Set places a colored rune at p.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(p Point, ch rune, color Color) {
	if p.Row < 0 || p.Row >= s.rows || p.Col < 0 || p.Col >= s.cols {
		return
	}
	s.cells[p.Row][p.Col] = Cell{Rune: ch, Color: color}
}

// Get returns the cell at p, or a blank cell for out-of-bounds coordinates.
func (s *Screen) Get(p Point) Cell {
	if p.Row < 0 || p.Row >= s.rows || p.Col < 0 || p.Col >= s.cols {
		return blank
	}
	return s.cells[p.Row][p.Col]
}

// DrawText writes a string horizontally starting at p.
// Characters that extend beyond screen bounds are clipped.
func (s *Screen) DrawText(p Point, text string, color Color) {
	col := p.Col
	for _, ch := range text {
		s.Set(Point{Row: p.Row, Col: col}, ch, color)
		col++
	}
}

// DrawBox draws a box outline around r using box-drawing characters.
func (s *Screen) DrawBox(r Rect, color Color) {
	top, left := r.Origin.Row, r.Origin.Col
	bottom, right := r.Bottom()-1, r.Right()-1

	s.Set(Pt(top, left), '┌', color)
	s.Set(Pt(top, right), '┐', color)
	s.Set(Pt(bottom, left), '└', color)
	s.Set(Pt(bottom, right), '┘', color)

	for c := left + 1; c < right; c++ {
		s.Set(Pt(top, c), '─', color)
		s.Set(Pt(bottom, c), '─', color)
	}
	for row := top + 1; row < bottom; row++ {
		s.Set(Pt(row, left), '│', color)
		s.Set(Pt(row, right), '│', color)
	}
}

// String converts the screen buffer to plain text, one line per row.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.rows*s.cols + s.rows)

	for r := 0; r < s.rows; r++ {
		if r > 0 {
			sb.WriteRune('\n')
		}
		for c := 0; c < s.cols; c++ {
			sb.WriteRune(s.cells[r][c].Rune)
		}
	}
	return sb.String()
}

// Row returns the runes of row r as a string.
func (s *Screen) Row(r int) string {
	if r < 0 || r >= s.rows {
		return strings.Repeat(" ", s.cols)
	}
	var sb strings.Builder
	for _, cell := range s.cells[r] {
		sb.WriteRune(cell.Rune)
	}
	return sb.String()
}
