package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/ushma/internal/detector"
	"github.com/ayusman/ushma/internal/effects"
	"github.com/ayusman/ushma/internal/gesture"
	"github.com/ayusman/ushma/internal/heat"
	"github.com/ayusman/ushma/internal/store"
)

func TestApp_SetSettings_Clamped(t *testing.T) {
	app := New(Config{})

	app.SetSettings(Settings{Sensitivity: 150, DecayRate: -3, TargetFPS: 0})

	got := app.Settings()
	if got.Sensitivity != 100 {
		t.Errorf("Sensitivity = %f, want clamped to 100", got.Sensitivity)
	}
	if got.DecayRate != 0 {
		t.Errorf("DecayRate = %f, want clamped to 0", got.DecayRate)
	}
	if got.TargetFPS != store.DefaultTargetFPS {
		t.Errorf("TargetFPS = %f, want default %f", got.TargetFPS, store.DefaultTargetFPS)
	}
}

func TestApp_SettingsPersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	app := New(Config{Store: s})
	app.SetSettings(Settings{Sensitivity: 80, DecayRate: 12, TargetFPS: 24})

	// A fresh App against the same store picks up the persisted values.
	app2 := New(Config{Store: s})
	got := app2.Settings()
	if got.Sensitivity != 80 || got.DecayRate != 12 || got.TargetFPS != 24 {
		t.Errorf("reloaded settings = %+v, want {80 12 24}", got)
	}
}

func TestApp_TickInterval(t *testing.T) {
	app := New(Config{})

	app.SetSettings(Settings{Sensitivity: 50, DecayRate: 5, TargetFPS: 20})
	if got := app.tickInterval(); got != 50*time.Millisecond {
		t.Errorf("tickInterval() = %v, want 50ms", got)
	}
}

func TestApp_SpawnGestureEffects(t *testing.T) {
	t.Run("raise transition bursts once per wrist", func(t *testing.T) {
		app := New(Config{})
		pose := detector.RaisedHandsPose()
		g := gesture.Detect(pose)

		app.spawnGestureEffects(g, pose, heat.Snapshot{})
		app.lastGesture = g

		if got := app.particles.Len(); got != 2*effects.RaiseBurstSize {
			t.Fatalf("particle count = %d, want %d", got, 2*effects.RaiseBurstSize)
		}

		// Holding the gesture spawns nothing more.
		app.spawnGestureEffects(g, pose, heat.Snapshot{})
		if got := app.particles.Len(); got != 2*effects.RaiseBurstSize {
			t.Errorf("held gesture spawned particles: count = %d", got)
		}
	})

	t.Run("merge transition bursts at midpoint only", func(t *testing.T) {
		app := New(Config{})
		pose := detector.MergedHandsPose()
		g := gesture.Detect(pose)

		if !g.HandsTogether {
			t.Fatal("preset pose should count as hands together")
		}

		app.spawnGestureEffects(g, pose, heat.Snapshot{})

		if got := app.particles.Len(); got != effects.MergeBurstSize {
			t.Errorf("particle count = %d, want %d (merge suppresses raise bursts)",
				got, effects.MergeBurstSize)
		}
	})

	t.Run("no pose spawns nothing", func(t *testing.T) {
		app := New(Config{})
		app.spawnGestureEffects(gesture.Result{}, nil, heat.Snapshot{})
		if app.particles.Len() != 0 {
			t.Error("spawned particles without a pose")
		}
	})
}

func TestApp_ResetHeat(t *testing.T) {
	app := New(Config{})

	pose := detector.RaisedHandsPose()
	app.spawnGestureEffects(gesture.Detect(pose), pose, heat.Snapshot{})
	if app.particles.Len() == 0 {
		t.Fatal("setup: expected particles")
	}

	app.ResetHeat()

	if app.particles.Len() != 0 {
		t.Error("ResetHeat() left particles behind")
	}
	if app.heat.Len() != 0 {
		t.Error("ResetHeat() left heat behind")
	}
	if app.prev != nil {
		t.Error("ResetHeat() kept the frame baseline")
	}
}

func TestApp_Subscribe(t *testing.T) {
	app := New(Config{})

	ch, cancel := app.Subscribe()
	defer cancel()

	app.Publish(FrameResult{Frame: 7})

	select {
	case result := <-ch:
		if result.Frame != 7 {
			t.Errorf("Frame = %d, want 7", result.Frame)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame result")
	}
}

func TestApp_Subscribe_SlowConsumerDropsFrames(t *testing.T) {
	app := New(Config{})

	ch, cancel := app.Subscribe()
	defer cancel()

	// Nobody reads; both publishes must return without blocking.
	app.Publish(FrameResult{Frame: 1})
	app.Publish(FrameResult{Frame: 2})

	result := <-ch
	if result.Frame != 1 {
		t.Errorf("Frame = %d, want 1 (second publish dropped)", result.Frame)
	}
}

func TestApp_Enabled(t *testing.T) {
	app := New(Config{})

	if app.IsEnabled() {
		t.Error("new app should start disabled")
	}

	app.SetEnabled(true)
	if !app.IsEnabled() {
		t.Error("SetEnabled(true) did not stick")
	}
}
