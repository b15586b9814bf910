package app

import (
	"log"
	"time"

	"github.com/ayusman/ushma/internal/capture"
	"github.com/ayusman/ushma/internal/detector"
	"github.com/ayusman/ushma/internal/effects"
	"github.com/ayusman/ushma/internal/gesture"
	"github.com/ayusman/ushma/internal/heat"
	"github.com/ayusman/ushma/internal/motion"
	"github.com/ayusman/ushma/internal/store"
	"github.com/ayusman/ushma/internal/visual"
)

// runPipeline is the visualization loop: capture, detect, analyze, render.
// It runs until the stop channel closes. The tick interval follows the
// TargetFPS setting and is re-checked every tick so rate changes apply live.
func (a *App) runPipeline(stop chan struct{}) {
	interval := a.tickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if next := a.tickInterval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}
			a.processFrame(interval.Seconds())
		}
	}
}

func (a *App) tickInterval() time.Duration {
	fps := a.Settings().TargetFPS
	if fps <= 0 {
		fps = store.DefaultTargetFPS
	}
	return time.Duration(float64(time.Second) / fps)
}

// processFrame runs one pipeline tick. Camera read and pose detection happen
// outside the state lock since both block on IO.
func (a *App) processFrame(dt float64) {
	a.mu.RLock()
	enabled := a.enabled
	camera := a.camera
	det := a.detector
	settings := a.settings
	a.mu.RUnlock()

	if !enabled {
		return
	}

	frame, err := camera.ReadFrame()
	if err != nil {
		if err != capture.ErrCameraNotOpen {
			log.Printf("Frame read error: %v", err)
		}
		return
	}

	pose, err := det.Detect(frame)
	frame.Close()
	if err != nil {
		// A detector hiccup is treated like a frame with no body:
		// heat keeps decaying and the loop keeps running.
		log.Printf("Pose detection error: %v", err)
		pose = nil
	}

	a.mu.Lock()

	summary := motion.Analyze(pose, a.prev, settings.Sensitivity)
	a.prev = pose

	snap := a.heat.Tick(summary, settings.DecayRate/100)

	g := gesture.Detect(pose)
	a.spawnGestureEffects(g, pose, snap)
	a.lastGesture = g

	a.particles.Step(dt)
	particles := a.particles.Particles()

	a.frames++
	result := FrameResult{
		SessionID: a.sessionID,
		Frame:     a.frames,
		Timestamp: time.Now().UnixMilli(),
		Detected:  pose != nil,
		Intensity: summary.Intensity,
		Regions:   summary.Regions,
		Heat:      snap,
		Overlay:   visual.BuildOverlay(snap, summary, capture.DefaultWidth, capture.DefaultHeight),
		Gesture:   g,
		Particles: particles,
	}
	a.lastResult = result

	a.mu.Unlock()

	a.Publish(result)
}

// spawnGestureEffects emits particle bursts on gesture transitions: a small
// burst at each wrist the moment it counts as raised, a large one at the
// midpoint the moment both hands come together. Held gestures emit nothing.
// Caller must hold a.mu.
func (a *App) spawnGestureEffects(g gesture.Result, pose *detector.PoseLandmarks, snap heat.Snapshot) {
	if pose == nil {
		return
	}

	if g.HandsTogether && !a.lastGesture.HandsTogether {
		left := pose.Points[detector.LeftWrist]
		right := pose.Points[detector.RightWrist]
		h := (snap.Value(detector.LeftWrist) + snap.Value(detector.RightWrist)) / 2
		a.particles.SpawnBurst((left.X+right.X)/2, (left.Y+right.Y)/2, effects.MergeBurstSize, h)
		return
	}

	if g.LeftRaised && !a.lastGesture.LeftRaised {
		wrist := pose.Points[detector.LeftWrist]
		a.particles.SpawnBurst(wrist.X, wrist.Y, effects.RaiseBurstSize, snap.Value(detector.LeftWrist))
	}
	if g.RightRaised && !a.lastGesture.RightRaised {
		wrist := pose.Points[detector.RightWrist]
		a.particles.SpawnBurst(wrist.X, wrist.Y, effects.RaiseBurstSize, snap.Value(detector.RightWrist))
	}
}
