package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	pose *PoseLandmarks
	err  error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPose sets the pose that will be returned by Detect.
// Passing nil simulates a frame with no body detected.
func (m *MockDetector) SetPose(pose *PoseLandmarks) {
	m.pose = pose
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured pose or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*PoseLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pose, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// StandingPose returns a preset PoseLandmarks representing a person standing
// upright facing the camera, arms at their sides. All points fully visible.
func StandingPose() *PoseLandmarks {
	p := &PoseLandmarks{Score: 0.95}

	set := func(idx int, x, y, z float64) {
		p.Points[idx] = Landmark{X: x, Y: y, Z: z, Visibility: 0.9}
	}

	// Head
	set(Nose, 0.50, 0.20, -0.05)
	set(LeftEyeInner, 0.51, 0.18, -0.05)
	set(LeftEye, 0.52, 0.18, -0.05)
	set(LeftEyeOuter, 0.53, 0.18, -0.05)
	set(RightEyeInner, 0.49, 0.18, -0.05)
	set(RightEye, 0.48, 0.18, -0.05)
	set(RightEyeOuter, 0.47, 0.18, -0.05)
	set(LeftEar, 0.54, 0.19, -0.02)
	set(RightEar, 0.46, 0.19, -0.02)
	set(MouthLeft, 0.51, 0.22, -0.04)
	set(MouthRight, 0.49, 0.22, -0.04)

	// Torso
	set(LeftShoulder, 0.58, 0.32, 0.0)
	set(RightShoulder, 0.42, 0.32, 0.0)
	set(LeftHip, 0.55, 0.58, 0.0)
	set(RightHip, 0.45, 0.58, 0.0)

	// Arms hanging down
	set(LeftElbow, 0.62, 0.45, 0.0)
	set(RightElbow, 0.38, 0.45, 0.0)
	set(LeftWrist, 0.64, 0.57, 0.0)
	set(RightWrist, 0.36, 0.57, 0.0)
	set(LeftPinky, 0.65, 0.60, 0.0)
	set(RightPinky, 0.35, 0.60, 0.0)
	set(LeftIndex, 0.65, 0.61, 0.0)
	set(RightIndex, 0.35, 0.61, 0.0)
	set(LeftThumb, 0.64, 0.60, 0.0)
	set(RightThumb, 0.36, 0.60, 0.0)

	// Legs
	set(LeftKnee, 0.55, 0.75, 0.0)
	set(RightKnee, 0.45, 0.75, 0.0)
	set(LeftAnkle, 0.55, 0.90, 0.0)
	set(RightAnkle, 0.45, 0.90, 0.0)
	set(LeftHeel, 0.55, 0.92, 0.0)
	set(RightHeel, 0.45, 0.92, 0.0)
	set(LeftFootIndex, 0.56, 0.94, 0.0)
	set(RightFootIndex, 0.44, 0.94, 0.0)

	return p
}

// RaisedHandsPose returns a preset pose with both hands raised overhead,
// wrists well apart. Wrists sit clearly above elbows and shoulders.
func RaisedHandsPose() *PoseLandmarks {
	p := StandingPose()

	raise := func(elbow, wrist, pinky, index, thumb int, x float64) {
		p.Points[elbow] = Landmark{X: x, Y: 0.30, Z: 0.0, Visibility: 0.9}
		p.Points[wrist] = Landmark{X: x, Y: 0.12, Z: 0.0, Visibility: 0.9}
		p.Points[pinky] = Landmark{X: x + 0.01, Y: 0.09, Z: 0.0, Visibility: 0.9}
		p.Points[index] = Landmark{X: x, Y: 0.08, Z: 0.0, Visibility: 0.9}
		p.Points[thumb] = Landmark{X: x - 0.01, Y: 0.10, Z: 0.0, Visibility: 0.9}
	}

	raise(LeftElbow, LeftWrist, LeftPinky, LeftIndex, LeftThumb, 0.64)
	raise(RightElbow, RightWrist, RightPinky, RightIndex, RightThumb, 0.36)

	return p
}

// MergedHandsPose returns a preset pose with both hands raised overhead and
// brought together, wrists within merging distance of each other.
func MergedHandsPose() *PoseLandmarks {
	p := RaisedHandsPose()

	p.Points[LeftWrist].X = 0.52
	p.Points[RightWrist].X = 0.48
	p.Points[LeftElbow].X = 0.58
	p.Points[RightElbow].X = 0.42
	p.Points[LeftPinky].X = 0.52
	p.Points[RightPinky].X = 0.48
	p.Points[LeftIndex].X = 0.52
	p.Points[RightIndex].X = 0.48
	p.Points[LeftThumb].X = 0.51
	p.Points[RightThumb].X = 0.49

	return p
}

// MovedPose returns a copy of base with the landmark at idx displaced by
// (dx, dy, dz). Useful for building frame pairs with known movement.
func MovedPose(base *PoseLandmarks, idx int, dx, dy, dz float64) *PoseLandmarks {
	moved := *base
	moved.Points[idx].X += dx
	moved.Points[idx].Y += dy
	moved.Points[idx].Z += dz
	return &moved
}
