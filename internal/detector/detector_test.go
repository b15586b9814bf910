package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestDistance3D(t *testing.T) {
	tests := []struct {
		name string
		a    Landmark
		b    Landmark
		want float64
	}{
		{
			name: "identical points",
			a:    Landmark{X: 0.5, Y: 0.5, Z: 0.1},
			b:    Landmark{X: 0.5, Y: 0.5, Z: 0.1},
			want: 0,
		},
		{
			name: "unit x displacement",
			a:    Landmark{X: 0.0, Y: 0.0, Z: 0.0},
			b:    Landmark{X: 1.0, Y: 0.0, Z: 0.0},
			want: 1.0,
		},
		{
			name: "3-4-0 triangle",
			a:    Landmark{X: 0.0, Y: 0.0, Z: 0.0},
			b:    Landmark{X: 0.3, Y: 0.4, Z: 0.0},
			want: 0.5,
		},
		{
			name: "depth contributes",
			a:    Landmark{X: 0.0, Y: 0.0, Z: 0.0},
			b:    Landmark{X: 0.0, Y: 0.0, Z: 0.2},
			want: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance3D(tt.a, tt.b)
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("Distance3D() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestPlanarDistance_IgnoresDepth(t *testing.T) {
	a := Landmark{X: 0.1, Y: 0.2, Z: 0.5}
	b := Landmark{X: 0.1, Y: 0.2, Z: -0.5}

	if got := PlanarDistance(a, b); math.Abs(got) > epsilon {
		t.Errorf("PlanarDistance() = %f, want 0 when only depth differs", got)
	}
}

func TestLandmark_Visible(t *testing.T) {
	tests := []struct {
		name       string
		visibility float64
		want       bool
	}{
		{name: "fully visible", visibility: 1.0, want: true},
		{name: "just above threshold", visibility: 0.51, want: true},
		{name: "exactly at threshold", visibility: 0.5, want: false},
		{name: "occluded", visibility: 0.1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Landmark{Visibility: tt.visibility}
			if got := l.Visible(); got != tt.want {
				t.Errorf("Visible() with visibility %f = %v, want %v", tt.visibility, got, tt.want)
			}
		})
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns no pose by default", func(t *testing.T) {
		mock := NewMockDetector()

		pose, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if pose != nil {
			t.Errorf("expected nil pose, got %v", pose)
		}
	})

	t.Run("returns configured pose", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetPose(StandingPose())

		pose, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if pose == nil {
			t.Fatal("expected a pose, got nil")
		}
		if pose.Score < 0.9 {
			t.Errorf("expected score >= 0.9, got %f", pose.Score)
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		pose, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if pose != nil {
			t.Errorf("expected nil pose when error is set, got %v", pose)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
	})
}

func TestStandingPose(t *testing.T) {
	pose := StandingPose()

	t.Run("all points visible", func(t *testing.T) {
		for i := 0; i < NumLandmarks; i++ {
			if !pose.Points[i].Visible() {
				t.Errorf("landmark %d should be visible, visibility = %f", i, pose.Points[i].Visibility)
			}
		}
	})

	t.Run("wrists below shoulders", func(t *testing.T) {
		// Y grows downward, so hanging wrists have larger Y than shoulders
		if pose.Points[LeftWrist].Y <= pose.Points[LeftShoulder].Y {
			t.Error("left wrist should be below left shoulder")
		}
		if pose.Points[RightWrist].Y <= pose.Points[RightShoulder].Y {
			t.Error("right wrist should be below right shoulder")
		}
	})

	t.Run("head above torso", func(t *testing.T) {
		if pose.Points[Nose].Y >= pose.Points[LeftShoulder].Y {
			t.Error("nose should be above shoulders")
		}
	})
}

func TestRaisedHandsPose(t *testing.T) {
	pose := RaisedHandsPose()

	t.Run("wrists above elbows and shoulders", func(t *testing.T) {
		if pose.Points[LeftWrist].Y >= pose.Points[LeftElbow].Y-0.15 {
			t.Error("left wrist should be at least 0.15 above left elbow")
		}
		if pose.Points[LeftWrist].Y >= pose.Points[LeftShoulder].Y-0.075 {
			t.Error("left wrist should be at least 0.075 above left shoulder")
		}
		if pose.Points[RightWrist].Y >= pose.Points[RightElbow].Y-0.15 {
			t.Error("right wrist should be at least 0.15 above right elbow")
		}
		if pose.Points[RightWrist].Y >= pose.Points[RightShoulder].Y-0.075 {
			t.Error("right wrist should be at least 0.075 above right shoulder")
		}
	})

	t.Run("wrists well apart", func(t *testing.T) {
		d := PlanarDistance(pose.Points[LeftWrist], pose.Points[RightWrist])
		if d < 0.1 {
			t.Errorf("wrists should be at least 0.1 apart, got %f", d)
		}
	})
}

func TestMergedHandsPose(t *testing.T) {
	pose := MergedHandsPose()

	d := PlanarDistance(pose.Points[LeftWrist], pose.Points[RightWrist])
	if d >= 0.1 {
		t.Errorf("merged wrists should be within 0.1, got %f", d)
	}
}

func TestMovedPose(t *testing.T) {
	base := StandingPose()
	moved := MovedPose(base, LeftWrist, 0.1, -0.2, 0.0)

	t.Run("target landmark displaced", func(t *testing.T) {
		if math.Abs(moved.Points[LeftWrist].X-(base.Points[LeftWrist].X+0.1)) > epsilon {
			t.Errorf("X = %f, want %f", moved.Points[LeftWrist].X, base.Points[LeftWrist].X+0.1)
		}
		if math.Abs(moved.Points[LeftWrist].Y-(base.Points[LeftWrist].Y-0.2)) > epsilon {
			t.Errorf("Y = %f, want %f", moved.Points[LeftWrist].Y, base.Points[LeftWrist].Y-0.2)
		}
	})

	t.Run("base unchanged", func(t *testing.T) {
		fresh := StandingPose()
		if base.Points[LeftWrist] != fresh.Points[LeftWrist] {
			t.Error("MovedPose should not mutate the base pose")
		}
	})
}
