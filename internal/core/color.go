package core

// Color represents a foreground color for a screen cell.
// The renderer maps each value onto an ANSI 256-color code.
type Color uint8

// Predefined colors for dungeon elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightYellow
	ColorBrightCyan
	ColorOrange
	ColorGray
	ColorDarkGray
)
