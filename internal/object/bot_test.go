package object

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// fixedRand replays a fixed sequence of values.
type fixedRand struct {
	vals []float64
	i    int
}

func (r *fixedRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func TestBotReachesQuarterOrbit(t *testing.T) {
	b := &Bot{Radius: BotOrbitRadius, Rate: 1}
	s := NewSnake(2, KindBot, b.Target(), 0)

	ms := float64(time.Millisecond)
	quarter := time.Duration(1900 * (math.Pi / 2) * ms)
	b.Drive(s, quarter)

	want := mgl64.Vec3{10, 0, 0}
	if got := s.Head(); !near3(got, want, 1e-6) {
		t.Fatalf("head = %v, want %v", got, want)
	}
}

func TestBotInFrameStepsMatchesSingleStep(t *testing.T) {
	a := &Bot{Radius: BotOrbitRadius, Rate: -0.75, Center: mgl64.Vec3{1, -2, 0}}
	b := *a
	sa := NewSnake(2, KindBot, a.Target(), 0)
	sb := NewSnake(3, KindBot, b.Target(), 0)

	for i := 0; i < 100; i++ {
		a.Drive(sa, frame)
	}
	b.Drive(sb, 100*frame)

	if !near3(sa.Head(), sb.Head(), 1e-9) {
		t.Fatalf("stepped head %v != single-step head %v", sa.Head(), sb.Head())
	}
}

func TestBotStaysWithinOrbitBox(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 20; n++ {
		b := NewBot(rng, BotCenterRadius, BotOrbitRadius)
		if c := b.Center; c.Vec2().Len() > BotCenterRadius+1e-9 || c.Z() != 0 {
			t.Fatalf("center %v outside disk of radius %v", c, BotCenterRadius)
		}
		if r := math.Abs(b.Rate); r < 0.5 || r > 1 {
			t.Fatalf("rate %v outside [0.5, 1]", b.Rate)
		}

		s := NewSnake(n, KindBot, b.Target(), 0)
		for i := 0; i < 2000; i++ {
			b.Drive(s, time.Duration(1+rng.Intn(40))*time.Millisecond)
			h := s.Head()
			for axis := 0; axis < 2; axis++ {
				lo, hi := b.Center[axis]-b.Radius, b.Center[axis]+b.Radius
				if h[axis] < lo-1e-9 || h[axis] > hi+1e-9 {
					t.Fatalf("bot %d frame %d: head %v outside [%v, %v] on axis %d", n, i, h, lo, hi, axis)
				}
			}
			if h.Z() != 0 {
				t.Fatalf("head left the plane: %v", h)
			}
		}
	}
}

func TestBotRelaxesEveryFrame(t *testing.T) {
	b := &Bot{Radius: BotOrbitRadius, Rate: 1}
	s := NewSnake(2, KindBot, b.Target(), 0)
	s.Grow()
	s.SetHead(mgl64.Vec3{5, 5, 0})
	tail := s.Segment(1)

	// A zero-length step moves nothing on the head but still relaxes the body.
	b.Drive(s, 0)
	want := tail.Add(mgl64.Vec3{5, 5, 0}.Sub(tail).Mul(followFactor))
	if got := s.Segment(1); !near3(got, want, 1e-12) {
		t.Fatalf("tail = %v, want %v", got, want)
	}
}

func TestNewBotDirection(t *testing.T) {
	// center u, center angle, rate, direction
	cw := NewBot(&fixedRand{vals: []float64{0.25, 0, 0.5, 0.9}}, 10, 10)
	if cw.Rate != 0.75 {
		t.Fatalf("rate = %v, want 0.75", cw.Rate)
	}
	if !near3(cw.Center, mgl64.Vec3{5, 0, 0}, 1e-12) {
		t.Fatalf("center = %v, want (5, 0, 0)", cw.Center)
	}

	ccw := NewBot(&fixedRand{vals: []float64{0, 0, 1, 0.1}}, 10, 10)
	if ccw.Rate != -1 {
		t.Fatalf("rate = %v, want -1", ccw.Rate)
	}
}
