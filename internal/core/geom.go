// Package core provides the fundamental grid types shared by every layer of
// the dungeon engine. It has no external dependencies so that geometry,
// rules and visibility stay pure and testable.
package core

import "fmt"

// Point is a (row, column) position on the level grid.
// Points compare by value and are safe to use as map keys.
type Point struct {
	Row int
	Col int
}

// Pt is shorthand for Point{Row: row, Col: col}.
func Pt(row, col int) Point {
	return Point{Row: row, Col: col}
}

// Add returns p translated by the given direction.
func (p Point) Add(d Dir) Point {
	return Point{Row: p.Row + d.DRow, Col: p.Col + d.DCol}
}

// Sub returns the row/column offset from q to p.
func (p Point) Sub(q Point) Point {
	return Point{Row: p.Row - q.Row, Col: p.Col - q.Col}
}

// Manhattan returns the grid distance between p and q.
func (p Point) Manhattan(q Point) int {
	return Abs(p.Row-q.Row) + Abs(p.Col-q.Col)
}

// Less orders points row-major. Used wherever deterministic iteration
// over a set of points is required.
func (p Point) Less(q Point) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Dir is a unit step on the grid.
type Dir struct {
	DRow, DCol int
}

// Cardinal directions.
var (
	North = Dir{DRow: -1}
	South = Dir{DRow: 1}
	West  = Dir{DCol: -1}
	East  = Dir{DCol: 1}
)

// Orthogonal lists the four cardinal steps in a fixed order (N, E, S, W).
var Orthogonal = []Dir{North, East, South, West}

// Diagonal lists the four cardinal steps followed by the four diagonal ones.
var Diagonal = []Dir{
	North, East, South, West,
	{DRow: -1, DCol: -1}, {DRow: -1, DCol: 1},
	{DRow: 1, DCol: -1}, {DRow: 1, DCol: 1},
}

// Rect is an axis-aligned block of tiles anchored at its top-left corner.
type Rect struct {
	Origin Point // Top-left corner
	Rows   int   // Height in tiles
	Cols   int   // Width in tiles
}

// NewRect creates a rectangle from its top-left corner and dimensions.
func NewRect(origin Point, rows, cols int) Rect {
	return Rect{Origin: origin, Rows: rows, Cols: cols}
}

// Bottom returns the row just past the last row of the rectangle.
func (r Rect) Bottom() int {
	return r.Origin.Row + r.Rows
}

// Right returns the column just past the last column of the rectangle.
func (r Rect) Right() int {
	return r.Origin.Col + r.Cols
}

// Intersects returns true if this rectangle overlaps with another.
// Touching edges do not count as overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.Origin.Col >= other.Right() || other.Origin.Col >= r.Right() {
		return false
	}
	if r.Origin.Row >= other.Bottom() || other.Origin.Row >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.Row >= r.Origin.Row && p.Row < r.Bottom() &&
		p.Col >= r.Origin.Col && p.Col < r.Right()
}

// OnBorder returns true if p is one of the outermost tiles of the rectangle.
func (r Rect) OnBorder(p Point) bool {
	if !r.Contains(p) {
		return false
	}
	return p.Row == r.Origin.Row || p.Row == r.Bottom()-1 ||
		p.Col == r.Origin.Col || p.Col == r.Right()-1
}

// Local converts an absolute point into row/column offsets within the rectangle.
func (r Rect) Local(p Point) (row, col int) {
	return p.Row - r.Origin.Row, p.Col - r.Origin.Col
}

// Centered returns the square of the given radius centred on p.
func Centered(p Point, radius int) Rect {
	side := 2*radius + 1
	return Rect{Origin: Point{Row: p.Row - radius, Col: p.Col - radius}, Rows: side, Cols: side}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1 following the sign of x.
func Sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}
