package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-dungeon/internal/core"
	"github.com/vovakirdan/tui-dungeon/internal/visibility"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightCyan:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorDarkGray:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
}

// Glyph is how one entity type is drawn.
type Glyph struct {
	Rune  rune
	Color core.Color
}

// glyphs is indexed by visibility.EntityType.
var glyphs = [...]Glyph{
	visibility.Empty:     {' ', core.ColorDefault},
	visibility.Space:     {'.', core.ColorGray},
	visibility.Wall:      {'#', core.ColorWhite},
	visibility.Hall:      {':', core.ColorDarkGray},
	visibility.Door:      {'+', core.ColorOrange},
	visibility.Exit:      {'>', core.ColorBrightCyan},
	visibility.Key:       {'k', core.ColorBrightYellow},
	visibility.Adversary: {'Z', core.ColorBrightRed},
	visibility.Player:    {'@', core.ColorGreen},
}

// GlyphFor returns the glyph of an entity type.
func GlyphFor(e visibility.EntityType) Glyph {
	if e >= 0 && int(e) < len(glyphs) {
		return glyphs[e]
	}
	return Glyph{'?', core.ColorMagenta}
}

// DrawView draws v with its top-left corner at 'at'.
func DrawView(s *core.Screen, at core.Point, v visibility.View) {
	for r, row := range v.Grid {
		for c, e := range row {
			g := GlyphFor(e)
			s.Set(core.Pt(at.Row+r, at.Col+c), g.Rune, g.Color)
		}
	}
}

// RenderView renders a view on its own.
func RenderView(v visibility.View) string {
	s := core.NewScreen(v.Rows(), v.Cols())
	DrawView(s, core.Pt(0, 0), v)
	return RenderScreen(s)
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Cols()*s.Rows()*2 + s.Rows())

	for r := range s.Rows() {
		if r > 0 {
			sb.WriteRune('\n')
		}

		c := 0
		for c < s.Cols() {
			startColor := s.Get(core.Pt(r, c)).Color

			var run strings.Builder
			for c < s.Cols() {
				cell := s.Get(core.Pt(r, c))
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				c++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
