// Package object holds the simulated entities: snakes, the bots that steer
// them, and pebbles.
package object

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/websnake/internal/draw"
)

// Rand is the random source used for placement. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Millis converts a frame delta to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// RandomInDisk returns a point uniformly distributed over a disk of radius r
// around the origin, with z = 0.
func RandomInDisk(rng Rand, r float64) mgl64.Vec3 {
	d := math.Sqrt(rng.Float64()) * r
	a := rng.Float64() * 2 * math.Pi
	return mgl64.Vec3{d * math.Cos(a), d * math.Sin(a), 0}
}

// Camera represents the viewport position in world space.
type Camera struct {
	X, Y  float64 // Camera center position in world coordinates
	Scale float64 // Canvas pixels per world unit
}

// Follow centers the camera on p.
func (c *Camera) Follow(p mgl64.Vec3) {
	c.X = p.X()
	c.Y = p.Y()
}

// Screen represents canvas dimensions in logical pixels.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen returns a screen of the given size centered on its midpoint.
func NewScreen(width, height int) Screen {
	return Screen{Width: width, Height: height, CenterX: width / 2, CenterY: height / 2}
}

// WorldToScreen projects a world point onto the view. The arena is viewed
// from +z, so growing world x runs toward the left edge and growing world y
// toward the top. The bool is false when the point falls outside the view.
func WorldToScreen(p mgl64.Vec3, cam Camera, view Screen) (draw.Point, bool) {
	scale := cam.Scale
	if scale <= 0 {
		scale = 1
	}
	sx := float64(view.CenterX) - (p.X()-cam.X)*scale
	sy := float64(view.CenterY) - (p.Y()-cam.Y)*scale

	const margin = 2.0
	visible := sx >= -margin && sx <= float64(view.Width)+margin &&
		sy >= -margin && sy <= float64(view.Height)+margin
	return draw.Point{X: sx, Y: sy}, visible
}
