package object

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultSpeed is the player's speed in world units per millisecond.
	DefaultSpeed = 0.005

	// moveNoiseSq is the squared per-frame displacement treated as standing still.
	moveNoiseSq = 0.0001

	// followFactor is how far a segment closes on the one ahead each frame.
	followFactor = 0.1

	// SegmentSize is the edge length of one body segment.
	SegmentSize = 1.0
)

// Kind tells the local player apart from bots.
type Kind int

const (
	KindPlayer Kind = iota
	KindBot
)

func (k Kind) String() string {
	if k == KindBot {
		return "bot"
	}
	return "player"
}

// Snake is a chain of segments; index 0 is the head.
type Snake struct {
	ID        int
	Kind      Kind
	Speed     float64    // World units per millisecond
	MoveInput mgl64.Vec2 // Desired direction, magnitude <= 1

	body    []mgl64.Vec3
	removed bool
}

// NewSnake creates a one-segment snake with its head at head.
func NewSnake(id int, kind Kind, head mgl64.Vec3, speed float64) *Snake {
	return &Snake{
		ID:    id,
		Kind:  kind,
		Speed: speed,
		body:  []mgl64.Vec3{head},
	}
}

// SetMoveInput stores the movement vector for the next Update.
func (s *Snake) SetMoveInput(v mgl64.Vec2) {
	s.MoveInput = v
}

// Update moves the head by MoveInput scaled by -Speed*dt and lets the body
// follow. Movement below the noise threshold leaves every segment in place.
func (s *Snake) Update(dt time.Duration) {
	if s.removed {
		return
	}
	scaled := s.MoveInput.Mul(-s.Speed * Millis(dt))
	if scaled.Dot(scaled) <= moveNoiseSq {
		return
	}
	s.Relax()
	s.body[0] = s.body[0].Add(scaled.Vec3(0))
}

// Relax pulls every segment behind the head toward the position the segment
// ahead held before this call. Walking tail first keeps those positions intact.
func (s *Snake) Relax() {
	for i := len(s.body) - 1; i > 0; i-- {
		ahead := s.body[i-1]
		s.body[i] = s.body[i].Add(ahead.Sub(s.body[i]).Mul(followFactor))
	}
}

// Head returns the head position.
func (s *Snake) Head() mgl64.Vec3 {
	return s.body[0]
}

// SetHead places the head directly, leaving the body where it is.
func (s *Snake) SetHead(p mgl64.Vec3) {
	s.body[0] = p
}

// Len is the number of segments.
func (s *Snake) Len() int {
	return len(s.body)
}

// Segment returns the position of segment i.
func (s *Snake) Segment(i int) mgl64.Vec3 {
	return s.body[i]
}

// Segments returns a copy of all segment positions, head first.
func (s *Snake) Segments() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(s.body))
	copy(out, s.body)
	return out
}

// Grow appends a segment at the current tail position.
func (s *Snake) Grow() {
	if s.removed {
		return
	}
	s.body = append(s.body, s.body[len(s.body)-1])
}

// Collide consumes p and grows by one segment. A pebble touched twice grows
// twice; deduplication is up to whoever reports touches. A removed snake
// leaves p alone.
func (s *Snake) Collide(p *Pebble) {
	if s.removed {
		return
	}
	p.Consume()
	s.Grow()
}

// Remove invalidates the snake and hands its segments to the caller for
// disposal.
func (s *Snake) Remove() []mgl64.Vec3 {
	released := s.body
	s.body = nil
	s.removed = true
	return released
}

// Removed reports whether Remove was called.
func (s *Snake) Removed() bool {
	return s.removed
}
