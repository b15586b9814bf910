// Package gesture classifies hand-raise events from a single pose frame.
package gesture

import (
	"github.com/ayusman/ushma/internal/detector"
)

// Raise thresholds in normalized units. Y grows downward, so "above" means
// a smaller Y value.
const (
	// WristAboveElbow is the minimum height of the wrist over its elbow.
	WristAboveElbow = 0.15
	// WristAboveShoulder is the minimum height of the wrist over its shoulder.
	WristAboveShoulder = 0.075
	// MergeDistance is the maximum planar wrist separation for the
	// hands-merged state.
	MergeDistance = 0.1
)

// State is the mutually exclusive gesture classification for one frame:
// exactly one of left-only, right-only, merged, or none holds.
type State string

const (
	StateNone      State = "none"
	StateLeftOnly  State = "left"
	StateRightOnly State = "right"
	StateBoth      State = "both"
	StateMerged    State = "merged"
)

// Result reports the raw per-hand flags and the exclusive state derived
// from them. When hands merge, the individual flags are suppressed.
type Result struct {
	LeftRaised    bool  `json:"left_raised"`
	RightRaised   bool  `json:"right_raised"`
	HandsTogether bool  `json:"hands_together"`
	State         State `json:"state"`
}

// Detect classifies the hand gestures in a single landmark set. A hand
// counts as raised when its wrist sits above its elbow by at least
// WristAboveElbow and above its shoulder by at least WristAboveShoulder,
// with all three points visible. Both hands raised with wrists within
// MergeDistance of each other merge into a single state that suppresses
// the individual flags.
func Detect(pose *detector.PoseLandmarks) Result {
	r := Result{State: StateNone}
	if pose == nil {
		return r
	}

	left := handRaised(pose, detector.LeftShoulder, detector.LeftElbow, detector.LeftWrist)
	right := handRaised(pose, detector.RightShoulder, detector.RightElbow, detector.RightWrist)

	if left && right {
		d := detector.PlanarDistance(pose.Points[detector.LeftWrist], pose.Points[detector.RightWrist])
		if d < MergeDistance {
			r.HandsTogether = true
			r.State = StateMerged
			return r
		}
	}

	r.LeftRaised = left
	r.RightRaised = right
	switch {
	case left && right:
		r.State = StateBoth
	case left:
		r.State = StateLeftOnly
	case right:
		r.State = StateRightOnly
	}

	return r
}

// handRaised checks the wrist-over-elbow and wrist-over-shoulder conditions
// for one side. Any involved point below the visibility threshold disables
// detection for that side.
func handRaised(pose *detector.PoseLandmarks, shoulder, elbow, wrist int) bool {
	s := pose.Points[shoulder]
	e := pose.Points[elbow]
	w := pose.Points[wrist]

	if !s.Visible() || !e.Visible() || !w.Visible() {
		return false
	}

	return w.Y < e.Y-WristAboveElbow && w.Y < s.Y-WristAboveShoulder
}
