// Package draw renders to ANSI terminals using half-block characters.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Color is an xterm-256 palette index. Zero means "no pixel".
type Color uint8

// Palette used by the game screens.
const (
	ColorNone   Color = 0
	ColorPlayer Color = 46  // green
	ColorHead   Color = 226 // yellow
	ColorBot    Color = 208 // orange
	ColorPebble Color = 75  // light blue
	ColorCrumb  Color = 250 // grey
	ColorBorder Color = 240 // dark grey
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
