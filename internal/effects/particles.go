// Package effects runs the decorative particle field driven by gesture events.
package effects

import (
	"math"
	"math/rand"

	"github.com/ayusman/ushma/internal/visual"
)

// Particle tuning. Positions and velocities use the same normalized
// coordinate space as landmarks (velocities per second).
const (
	// RaiseBurstSize is the particle count spawned when a hand is raised.
	RaiseBurstSize = 16
	// MergeBurstSize is the particle count spawned when hands merge.
	MergeBurstSize = 48
	// ParticleMinSpeed is the minimum initial particle speed.
	ParticleMinSpeed = 0.08
	// ParticleMaxSpeed is the maximum initial particle speed.
	ParticleMaxSpeed = 0.25
	// ParticleGravity is the downward acceleration applied every step.
	ParticleGravity = 0.15
	// ParticleDrag is the per-second velocity damping factor.
	ParticleDrag = 1.2
	// ParticleMinLife is the minimum particle lifetime in seconds.
	ParticleMinLife = 0.6
	// ParticleMaxLife is the maximum particle lifetime in seconds.
	ParticleMaxLife = 1.4
)

// Particle is one decorative spark. Alpha follows the remaining life so the
// presentation layer can fade particles out without extra state.
type Particle struct {
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	VX    float64    `json:"-"`
	VY    float64    `json:"-"`
	Life  float64    `json:"-"`
	TTL   float64    `json:"-"`
	Alpha float64    `json:"alpha"`
	Size  float64    `json:"size"`
	Color visual.RGB `json:"color"`
}

// Field owns the live particles for one session. Like the heat map it is
// single-writer: all mutation stays on the frame-tick goroutine.
type Field struct {
	particles []Particle
	rng       *rand.Rand
}

// NewField creates an empty particle field. The seed makes spawn patterns
// reproducible in tests.
func NewField(seed int64) *Field {
	return &Field{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// SpawnBurst emits count particles radially from (x, y). The burst color is
// taken from the heat ramp at the given heat, with per-particle jitter so
// bursts shimmer instead of rendering as a flat disc.
func (f *Field) SpawnBurst(x, y float64, count int, h float64) {
	for i := 0; i < count; i++ {
		angle := f.rng.Float64() * 2 * math.Pi
		speed := ParticleMinSpeed + f.rng.Float64()*(ParticleMaxSpeed-ParticleMinSpeed)
		life := ParticleMinLife + f.rng.Float64()*(ParticleMaxLife-ParticleMinLife)

		f.particles = append(f.particles, Particle{
			X:     x,
			Y:     y,
			VX:    speed * math.Cos(angle),
			VY:    speed * math.Sin(angle),
			Life:  life,
			TTL:   life,
			Alpha: 1,
			Size:  1 + f.rng.Float64()*2,
			Color: visual.ColorFor(h + (f.rng.Float64()-0.5)*0.2),
		})
	}
}

// Step advances the field by dt seconds: integrates velocity with gravity
// and drag, burns lifetime, and drops expired particles.
func (f *Field) Step(dt float64) {
	if dt <= 0 {
		return
	}

	alive := f.particles[:0]
	for _, p := range f.particles {
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}

		p.VY += ParticleGravity * dt
		damp := 1 - ParticleDrag*dt
		if damp < 0 {
			damp = 0
		}
		p.VX *= damp
		p.VY *= damp

		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.Alpha = p.Life / p.TTL

		alive = append(alive, p)
	}
	f.particles = alive
}

// Particles returns a copy of the live particles.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

// Len returns the number of live particles.
func (f *Field) Len() int {
	return len(f.particles)
}

// Clear removes all particles. Called when the session stops or resets.
func (f *Field) Clear() {
	f.particles = nil
}
