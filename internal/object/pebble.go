package object

import "github.com/go-gl/mathgl/mgl64"

const (
	// DefaultPebbleCount is how many pebbles a field keeps.
	DefaultPebbleCount = 10
	// DefaultPebbleRadius bounds pebble placement around the origin.
	DefaultPebbleRadius = 10.0
	// PebbleSize is the edge length of a pebble.
	PebbleSize = 1.0
)

// Pebble is a stationary resource that grows whoever touches it.
type Pebble struct {
	ID       int
	Position mgl64.Vec3
	Consumed bool
}

// Consume marks the pebble as eaten.
func (p *Pebble) Consume() {
	p.Consumed = true
}

// PebbleField keeps the pebble population at a target level.
type PebbleField struct {
	target  int
	radius  float64
	respawn bool
	rng     Rand
	nextID  int
	pebbles []*Pebble
}

// NewPebbleField creates a field that holds target pebbles within radius.
// With respawn off, eaten pebbles are not replaced after the first fill.
func NewPebbleField(rng Rand, target int, radius float64, respawn bool) *PebbleField {
	if target < 0 {
		target = 0
	}
	return &PebbleField{
		target:  target,
		radius:  radius,
		respawn: respawn,
		rng:     rng,
	}
}

// Fill places pebbles until the target count is reached and returns the new ones.
func (f *PebbleField) Fill() []*Pebble {
	var spawned []*Pebble
	for len(f.pebbles) < f.target {
		f.nextID++
		p := &Pebble{ID: f.nextID, Position: RandomInDisk(f.rng, f.radius)}
		f.pebbles = append(f.pebbles, p)
		spawned = append(spawned, p)
	}
	return spawned
}

// Sweep drops consumed pebbles, returning them, and refills if respawn is on.
func (f *PebbleField) Sweep() (eaten, spawned []*Pebble) {
	kept := f.pebbles[:0]
	for _, p := range f.pebbles {
		if p.Consumed {
			eaten = append(eaten, p)
			continue
		}
		kept = append(kept, p)
	}
	clear(f.pebbles[len(kept):])
	f.pebbles = kept

	if len(eaten) == 0 {
		return nil, nil
	}
	if f.respawn {
		spawned = f.Fill()
	} else {
		f.target = len(f.pebbles)
	}
	return eaten, spawned
}

// Pebbles returns the live pebbles. The slice is owned by the field.
func (f *PebbleField) Pebbles() []*Pebble {
	return f.pebbles
}

// Len is the number of live pebbles.
func (f *PebbleField) Len() int {
	return len(f.pebbles)
}
