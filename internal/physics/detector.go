package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
)

const (
	tagTarget = "target"
	tagMover  = "mover"

	// DefaultCellSize is the broad-phase cell edge in world units.
	DefaultCellSize = 4
)

// Target is a registered collision target.
type Target struct {
	obj  *resolv.Object
	Data any
}

// Detector finds which targets a moving snake head touches. Targets live in a
// resolv space for the broad phase; candidates are confirmed by box overlap.
// A touched target is removed immediately, so each one is reported once.
type Detector struct {
	space  *resolv.Space
	offset float64
	movers map[int]*resolv.Object
}

// NewDetector covers the square [-halfExtent, halfExtent] on both axes.
// Nothing outside that square is ever reported.
func NewDetector(halfExtent float64, cellSize int) *Detector {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	size := int(math.Ceil(halfExtent * 2))
	return &Detector{
		space:  resolv.NewSpace(size, size, cellSize, cellSize),
		offset: halfExtent,
		movers: make(map[int]*resolv.Object),
	}
}

// AddTarget registers a square target of edge size centered on pos.
func (d *Detector) AddTarget(pos mgl64.Vec3, size float64, data any) *Target {
	b := d.toSpace(BoxAround(pos, size))
	obj := resolv.NewObject(b.X, b.Y, b.W, b.H, tagTarget)
	t := &Target{obj: obj, Data: data}
	obj.Data = t
	d.space.Add(obj)
	return t
}

// RemoveTarget unregisters t. Removing twice is harmless.
func (d *Detector) RemoveTarget(t *Target) {
	if t.obj.Space != nil {
		d.space.Remove(t.obj)
	}
}

// Touching moves mover id to pos and returns the data of every target its
// square overlaps, removing those targets from the detector.
func (d *Detector) Touching(id int, pos mgl64.Vec3, size float64) []any {
	b := d.toSpace(BoxAround(pos, size))
	mover, ok := d.movers[id]
	if !ok {
		mover = resolv.NewObject(b.X, b.Y, b.W, b.H, tagMover)
		d.space.Add(mover)
		d.movers[id] = mover
	} else {
		mover.X, mover.Y, mover.W, mover.H = b.X, b.Y, b.W, b.H
		mover.Update()
	}

	c := mover.Check(0, 0, tagTarget)
	if c == nil {
		return nil
	}

	var hits []any
	seen := make(map[*resolv.Object]bool, len(c.Objects))
	for _, o := range c.Objects {
		if seen[o] {
			continue
		}
		seen[o] = true
		if !b.Overlaps(Box{X: o.X, Y: o.Y, W: o.W, H: o.H}) {
			continue
		}
		t := o.Data.(*Target)
		d.space.Remove(o)
		hits = append(hits, t.Data)
	}
	return hits
}

// Forget drops the mover for id, e.g. when its snake is removed.
func (d *Detector) Forget(id int) {
	if mover, ok := d.movers[id]; ok {
		d.space.Remove(mover)
		delete(d.movers, id)
	}
}

// Targets is the number of registered targets.
func (d *Detector) Targets() int {
	n := 0
	for _, o := range d.space.Objects() {
		if o.HasTags(tagTarget) {
			n++
		}
	}
	return n
}

func (d *Detector) toSpace(b Box) Box {
	b.X += d.offset
	b.Y += d.offset
	return b
}
