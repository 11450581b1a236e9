package object

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// BotOrbitRadius is the radius of a bot's circular path.
	BotOrbitRadius = 10.0
	// BotCenterRadius bounds where orbit centers are placed.
	BotCenterRadius = 10.0

	// botPeriodDivisor converts accumulated phase (ms scaled by rate) to radians.
	botPeriodDivisor = 1900.0

	botMinRate = 0.5
	botMaxRate = 1.0
)

// Bot steers a snake around a fixed orbit. It never reads input.
type Bot struct {
	Center mgl64.Vec3 // Orbit center
	Radius float64    // Orbit radius
	Rate   float64    // Signed phase rate
	Phase  float64    // Accumulated phase
}

// NewBot picks a random orbit: center uniform in a disk of centerRadius,
// rate magnitude uniform in [0.5, 1] with a random direction.
func NewBot(rng Rand, centerRadius, orbitRadius float64) *Bot {
	center := RandomInDisk(rng, centerRadius)
	rate := botMinRate + rng.Float64()*(botMaxRate-botMinRate)
	if rng.Float64() < 0.5 {
		rate = -rate
	}
	return &Bot{
		Center: center,
		Radius: orbitRadius,
		Rate:   rate,
	}
}

// Target is the head position for the current phase.
func (b *Bot) Target() mgl64.Vec3 {
	a := b.Phase / botPeriodDivisor
	return b.Center.Add(mgl64.Vec3{math.Sin(a), math.Cos(a), 0}.Mul(b.Radius))
}

// Drive advances the phase by dt, relaxes the body and moves the head onto
// the orbit. Relaxation runs every frame regardless of how far the head moves.
func (b *Bot) Drive(s *Snake, dt time.Duration) {
	if s.Removed() {
		return
	}
	b.Phase += Millis(dt) * b.Rate
	s.Relax()
	s.SetHead(b.Target())
}
