// Package app provides the main application logic for the Ushma thermal motion visualizer.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/ushma/internal/capture"
	"github.com/ayusman/ushma/internal/detector"
	"github.com/ayusman/ushma/internal/effects"
	"github.com/ayusman/ushma/internal/gesture"
	"github.com/ayusman/ushma/internal/heat"
	"github.com/ayusman/ushma/internal/motion"
	"github.com/ayusman/ushma/internal/store"
	"github.com/ayusman/ushma/internal/visual"
)

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	CameraID int
}

// Settings are the live-adjustable tuning scalars, re-read every tick.
type Settings struct {
	// Sensitivity (0-100) controls the displacement threshold: higher
	// sensitivity means smaller movements saturate the intensity signal.
	Sensitivity float64 `json:"sensitivity"`
	// DecayRate (0-100) controls per-tick heat decay; the heat map applies
	// DecayRate/100 as its decay factor.
	DecayRate float64 `json:"decay_rate"`
	// TargetFPS is the frame cadence of the visualization loop.
	TargetFPS float64 `json:"target_fps"`
}

// FrameResult is the fully resolved output of one pipeline tick, handed to
// the presentation layer. It is ephemeral: rebuilt every frame, never stored.
type FrameResult struct {
	SessionID string                    `json:"session_id"`
	Frame     int                       `json:"frame"`
	Timestamp int64                     `json:"timestamp"`
	Detected  bool                      `json:"detected"`
	Intensity float64                   `json:"intensity"`
	Regions   map[motion.Region]float64 `json:"regions"`
	Heat      heat.Snapshot             `json:"heat"`
	Overlay   visual.Overlay            `json:"overlay"`
	Gesture   gesture.Result            `json:"gesture"`
	Particles []effects.Particle        `json:"particles"`
}

// App owns the per-session pipeline state: camera, detector, heat map,
// particle field, the previous-frame landmark baseline and the live
// settings. All frame state lives here, never in package globals, so
// concurrent sessions in tests cannot interfere.
type App struct {
	config    Config
	camera    capture.Camera
	detector  detector.Detector
	heat      *heat.Map
	particles *effects.Field

	mu          sync.RWMutex
	settings    Settings
	enabled     bool
	stopCh      chan struct{}
	prev        *detector.PoseLandmarks
	lastGesture gesture.Result
	lastResult  FrameResult
	sessionID   string
	frames      int

	subMu sync.Mutex
	subs  map[chan FrameResult]struct{}
}

// New creates a new App instance with the given configuration. Settings are
// loaded from the store when available, falling back to defaults.
func New(config Config) *App {
	a := &App{
		config:    config,
		camera:    capture.NewCamera(config.CameraID),
		heat:      heat.NewMap(),
		particles: effects.NewField(time.Now().UnixNano()),
		settings: Settings{
			Sensitivity: store.DefaultSensitivity,
			DecayRate:   store.DefaultDecayRate,
			TargetFPS:   store.DefaultTargetFPS,
		},
		subs: make(map[chan FrameResult]struct{}),
	}

	if config.Store != nil {
		settings := config.Store.Settings()
		a.settings.Sensitivity = settings.GetFloat(store.KeySensitivity, store.DefaultSensitivity)
		a.settings.DecayRate = settings.GetFloat(store.KeyDecayRate, store.DefaultDecayRate)
		a.settings.TargetFPS = settings.GetFloat(store.KeyTargetFPS, store.DefaultTargetFPS)
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe pose detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables the visualization without stopping the loop.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether the visualization is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the pose detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Settings returns a copy of the current settings.
func (a *App) Settings() Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings
}

// SetSettings applies new settings to the running pipeline and persists them
// when a store is configured. Out-of-range values are clamped, not rejected.
func (a *App) SetSettings(s Settings) {
	s.Sensitivity = clamp(s.Sensitivity, 0, 100)
	s.DecayRate = clamp(s.DecayRate, 0, 100)
	if s.TargetFPS <= 0 {
		s.TargetFPS = store.DefaultTargetFPS
	}

	a.mu.Lock()
	a.settings = s
	st := a.config.Store
	a.mu.Unlock()

	if st != nil {
		settings := st.Settings()
		if err := settings.SetFloat(store.KeySensitivity, s.Sensitivity); err != nil {
			log.Printf("Failed to persist sensitivity: %v", err)
		}
		if err := settings.SetFloat(store.KeyDecayRate, s.DecayRate); err != nil {
			log.Printf("Failed to persist decay rate: %v", err)
		}
		if err := settings.SetFloat(store.KeyTargetFPS, s.TargetFPS); err != nil {
			log.Printf("Failed to persist target fps: %v", err)
		}
	}
}

// ResetHeat clears the accumulated heat, the particle field and the
// previous-frame baseline without stopping the session.
func (a *App) ResetHeat() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.heat.Clear()
	a.particles.Clear()
	a.prev = nil
	a.lastGesture = gesture.Result{}
}

// LastResult returns the most recent frame result, for polling consumers
// like the tray readout.
func (a *App) LastResult() FrameResult {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastResult
}

// Subscribe registers a frame result channel. The returned cancel function
// must be called to release it. Slow subscribers miss frames rather than
// stalling the pipeline.
func (a *App) Subscribe() (<-chan FrameResult, func()) {
	ch := make(chan FrameResult, 1)

	a.subMu.Lock()
	a.subs[ch] = struct{}{}
	a.subMu.Unlock()

	cancel := func() {
		a.subMu.Lock()
		delete(a.subs, ch)
		a.subMu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a frame result to all subscribers without blocking.
// The pipeline calls this once per tick; tests can call it directly.
func (a *App) Publish(result FrameResult) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	for ch := range a.subs {
		select {
		case ch <- result:
		default:
		}
	}
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the pose detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// SessionID returns the ID of the running session, empty when stopped.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// Start opens the camera and begins the visualization pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.sessionID = uuid.New().String()
	a.frames = 0
	a.prev = nil
	a.lastGesture = gesture.Result{}

	if a.config.Store != nil {
		session := &store.Session{
			ID:        a.sessionID,
			StartedAt: time.Now(),
		}
		if err := a.config.Store.Sessions().Create(session); err != nil {
			log.Printf("Failed to record session: %v", err)
		}
	}

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Printf("Visualization pipeline started (session %s)", a.sessionID)
	return nil
}

// Stop halts the pipeline, clears all per-session state and releases
// resources. Stale heat must never survive into a new video stream.
func (a *App) Stop() {
	a.mu.Lock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.heat.Clear()
	a.particles.Clear()
	a.prev = nil
	a.lastGesture = gesture.Result{}

	sessionID := a.sessionID
	frames := a.frames
	a.sessionID = ""
	a.mu.Unlock()

	if a.config.Store != nil && sessionID != "" {
		if err := a.config.Store.Sessions().Finish(sessionID, time.Now(), frames); err != nil {
			log.Printf("Failed to finish session record: %v", err)
		}
	}

	log.Println("Visualization pipeline stopped")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
