// Package detector provides pose detection interfaces and types for the thermal motion overlay.
package detector

import "math"

// Pose landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// VisibilityThreshold is the minimum visibility score for a landmark to be
// trusted. Landmarks at or below this score are excluded from movement
// analysis and left untouched by heat updates.
const VisibilityThreshold = 0.5

// Landmark is a single tracked body point for one frame. X and Y are
// normalized to [0,1] relative to frame dimensions, Z is a model-defined
// relative depth. Visibility is a confidence score in [0,1], not a guarantee.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Visible reports whether the landmark's visibility exceeds VisibilityThreshold.
func (l Landmark) Visible() bool {
	return l.Visibility > VisibilityThreshold
}

// PoseLandmarks is the fixed-length ordered set of body landmarks for one
// frame. A landmark at a given index refers to the same anatomical point
// across frames while the skeleton stays continuously detected; that
// correspondence is a contract of the landmark provider, not verified here.
type PoseLandmarks struct {
	Points [NumLandmarks]Landmark `json:"points"`
	Score  float64                `json:"score"`
}

// Distance3D calculates the Euclidean distance between two landmarks in
// normalized coordinate space, including the relative depth component.
func Distance3D(a, b Landmark) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PlanarDistance calculates the Euclidean distance between two landmarks
// ignoring depth. Used where depth estimates are too noisy to compare,
// such as the hands-merged check.
func PlanarDistance(a, b Landmark) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
