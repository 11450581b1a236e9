package object

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// particlePool recycles particles released by finished effects.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect, e.g. crumbs of an eaten pebble.
type Particle struct {
	Position    mgl64.Vec3
	Velocity    mgl64.Vec3 // World units per second
	Lifetime    float64    // Seconds remaining
	MaxLifetime float64    // Initial lifetime (for fade calculation)
	Drag        float64    // Velocity decay (1.0 = no drag)
}

// NewParticle creates a single particle from the pool.
func NewParticle(pos, vel mgl64.Vec3, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	p.Position = pos
	p.Velocity = vel
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.9
	return p
}

// Release returns the particle to the pool for reuse.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Burst creates count particles flying out of pos in random directions.
func Burst(rng Rand, pos mgl64.Vec3, count int, speed, lifetime float64) []*Particle {
	out := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		// Speed varies 50% to 150%, lifetime 50% to 100%.
		spd := speed * (0.5 + rng.Float64())
		life := lifetime * (0.5 + rng.Float64()*0.5)
		vel := mgl64.Vec3{math.Cos(angle) * spd, math.Sin(angle) * spd, 0}
		out = append(out, NewParticle(pos, vel, life))
	}
	return out
}

// Update moves the particle. It returns true once the particle has expired.
func (p *Particle) Update(dtSeconds float64) bool {
	p.Lifetime -= dtSeconds
	if p.Lifetime <= 0 {
		return true
	}
	p.Velocity = p.Velocity.Mul(math.Pow(p.Drag, dtSeconds*60))
	p.Position = p.Position.Add(p.Velocity.Mul(dtSeconds))
	return false
}

// Visible reports whether the particle has not yet faded (under 25% life left).
func (p *Particle) Visible() bool {
	return p.MaxLifetime <= 0 || p.Lifetime/p.MaxLifetime >= 0.25
}
