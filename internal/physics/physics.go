// Package physics provides collision detection between snake heads and pebbles.
package physics

import "github.com/go-gl/mathgl/mgl64"

// Box is an axis-aligned rectangle on the xy plane. X and Y are its minimum corner.
type Box struct {
	X, Y, W, H float64
}

// BoxAround returns the square of edge size centered on c.
func BoxAround(c mgl64.Vec3, size float64) Box {
	return Box{X: c.X() - size/2, Y: c.Y() - size/2, W: size, H: size}
}

// Overlaps checks if two boxes share any area. Touching edges do not count.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.X+o.W && o.X < b.X+b.W &&
		b.Y < o.Y+o.H && o.Y < b.Y+b.H
}
