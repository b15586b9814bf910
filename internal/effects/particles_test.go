package effects

import (
	"math"
	"testing"
)

func TestField_SpawnBurst(t *testing.T) {
	f := NewField(1)

	f.SpawnBurst(0.5, 0.3, MergeBurstSize, 0.8)

	if f.Len() != MergeBurstSize {
		t.Errorf("Len() = %d, want %d", f.Len(), MergeBurstSize)
	}

	for _, p := range f.Particles() {
		if p.X != 0.5 || p.Y != 0.3 {
			t.Errorf("particle spawned at (%f, %f), want burst origin", p.X, p.Y)
		}
		speed := math.Hypot(p.VX, p.VY)
		if speed < ParticleMinSpeed || speed > ParticleMaxSpeed {
			t.Errorf("particle speed %f outside [%f, %f]", speed, ParticleMinSpeed, ParticleMaxSpeed)
		}
		if p.Life < ParticleMinLife || p.Life > ParticleMaxLife {
			t.Errorf("particle life %f outside [%f, %f]", p.Life, ParticleMinLife, ParticleMaxLife)
		}
		if p.Alpha != 1 {
			t.Errorf("fresh particle alpha = %f, want 1", p.Alpha)
		}
	}
}

func TestField_StepMovesParticles(t *testing.T) {
	f := NewField(2)
	f.SpawnBurst(0.5, 0.5, 8, 0.5)

	before := f.Particles()
	f.Step(0.033)
	after := f.Particles()

	if len(after) != len(before) {
		t.Fatalf("particles lost after one short step: %d -> %d", len(before), len(after))
	}

	moved := 0
	for i := range after {
		if after[i].X != before[i].X || after[i].Y != before[i].Y {
			moved++
		}
		if after[i].Alpha >= before[i].Alpha {
			t.Errorf("alpha should fade with life: %f -> %f", before[i].Alpha, after[i].Alpha)
		}
	}
	if moved == 0 {
		t.Error("no particle moved after a step")
	}
}

func TestField_ParticlesExpire(t *testing.T) {
	f := NewField(3)
	f.SpawnBurst(0.5, 0.5, 32, 0.5)

	// Step past the maximum lifetime.
	for i := 0; i < 40; i++ {
		f.Step(0.05)
	}

	if f.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after all lifetimes elapsed", f.Len())
	}
}

func TestField_ZeroStepIsNoop(t *testing.T) {
	f := NewField(4)
	f.SpawnBurst(0.5, 0.5, 8, 0.5)

	before := f.Particles()
	f.Step(0)
	after := f.Particles()

	for i := range after {
		if after[i] != before[i] {
			t.Errorf("particle %d changed on zero-dt step", i)
		}
	}
}

func TestField_Clear(t *testing.T) {
	f := NewField(5)
	f.SpawnBurst(0.5, 0.5, 16, 0.5)

	f.Clear()

	if f.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after Clear", f.Len())
	}
}

func TestField_DeterministicWithSeed(t *testing.T) {
	a := NewField(42)
	b := NewField(42)

	a.SpawnBurst(0.5, 0.5, 8, 0.5)
	b.SpawnBurst(0.5, 0.5, 8, 0.5)

	pa := a.Particles()
	pb := b.Particles()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d differs across identically seeded fields", i)
		}
	}
}
