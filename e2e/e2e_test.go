package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/ushma/internal/app"
	"github.com/ayusman/ushma/internal/capture"
	"github.com/ayusman/ushma/internal/detector"
	"github.com/ayusman/ushma/internal/server"
	"github.com/ayusman/ushma/internal/store"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application := app.New(app.Config{Store: s})

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	application.SetCamera(capture.NewMockCamera([]*gocv.Mat{&frame}, true))

	mockDetector := detector.NewMockDetector()
	application.SetDetector(mockDetector)

	srv := server.New(server.Config{Store: s, App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("TuneSettings", func(t *testing.T) {
		req, _ := http.NewRequest(
			http.MethodPut,
			ts.URL+"/api/settings",
			strings.NewReader(`{"sensitivity": 100, "decay_rate": 5, "target_fps": 30}`),
		)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("update settings error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("StartSession", func(t *testing.T) {
		if err := application.Start(); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		application.SetEnabled(true)

		if application.SessionID() == "" {
			t.Fatal("no session ID after start")
		}
	})

	t.Run("MovementProducesHeat", func(t *testing.T) {
		results, cancel := application.Subscribe()
		defer cancel()

		standing := detector.StandingPose()
		mockDetector.SetPose(standing)

		// Alternate between two poses so every frame pair shows movement.
		moved := detector.MovedPose(standing, detector.LeftWrist, 0.05, 0, 0)
		var sawHeat bool
		for i := 0; i < 30 && !sawHeat; i++ {
			if i%2 == 0 {
				mockDetector.SetPose(moved)
			} else {
				mockDetector.SetPose(standing)
			}

			result := <-results
			if result.Heat.Value(detector.LeftWrist) > 0 && result.Intensity > 0 {
				sawHeat = true
			}
		}

		if !sawHeat {
			t.Error("moving wrist never produced heat through the live pipeline")
		}
	})

	t.Run("SessionRecorded", func(t *testing.T) {
		sessionID := application.SessionID()
		application.Stop()

		resp, err := client.Get(ts.URL + "/api/sessions/" + sessionID)
		if err != nil {
			t.Fatalf("get session error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var session struct {
			ID      string `json:"id"`
			EndedAt string `json:"ended_at"`
			Frames  int    `json:"frames"`
		}
		json.NewDecoder(resp.Body).Decode(&session)

		if session.EndedAt == "" {
			t.Error("stopped session has no end time")
		}
		if session.Frames == 0 {
			t.Error("session recorded zero frames")
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after app operations")
		}
		resp.Body.Close()
	})
}

func TestE2E_SettingsSurviveRestart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	s, _ := store.New(dbPath)
	first := app.New(app.Config{Store: s})
	first.SetSettings(app.Settings{Sensitivity: 85, DecayRate: 15, TargetFPS: 24})
	s.Close()

	s2, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() after restart error = %v", err)
	}
	defer s2.Close()

	second := app.New(app.Config{Store: s2})
	got := second.Settings()
	if got.Sensitivity != 85 || got.DecayRate != 15 || got.TargetFPS != 24 {
		t.Errorf("settings after restart = %+v, want {85 15 24}", got)
	}
}
