// Package motion computes frame-over-frame movement intensity from pose landmarks.
package motion

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/ushma/internal/detector"
)

// Region identifies a named body-part grouping used to aggregate
// per-point movement.
type Region string

const (
	RegionHead     Region = "head"
	RegionTorso    Region = "torso"
	RegionLeftArm  Region = "left_arm"
	RegionRightArm Region = "right_arm"
	RegionLeftLeg  Region = "left_leg"
	RegionRightLeg Region = "right_leg"
)

// Regions lists all regions in display order.
var Regions = []Region{
	RegionHead, RegionTorso,
	RegionLeftArm, RegionRightArm,
	RegionLeftLeg, RegionRightLeg,
}

// regionIndices maps each region to the fixed landmark indices it aggregates.
// Shoulders and hips count toward the torso, not the limbs.
var regionIndices = map[Region][]int{
	RegionHead: {
		detector.Nose,
		detector.LeftEyeInner, detector.LeftEye, detector.LeftEyeOuter,
		detector.RightEyeInner, detector.RightEye, detector.RightEyeOuter,
		detector.LeftEar, detector.RightEar,
		detector.MouthLeft, detector.MouthRight,
	},
	RegionTorso: {
		detector.LeftShoulder, detector.RightShoulder,
		detector.LeftHip, detector.RightHip,
	},
	RegionLeftArm: {
		detector.LeftElbow, detector.LeftWrist,
		detector.LeftPinky, detector.LeftIndex, detector.LeftThumb,
	},
	RegionRightArm: {
		detector.RightElbow, detector.RightWrist,
		detector.RightPinky, detector.RightIndex, detector.RightThumb,
	},
	RegionLeftLeg: {
		detector.LeftKnee, detector.LeftAnkle,
		detector.LeftHeel, detector.LeftFootIndex,
	},
	RegionRightLeg: {
		detector.RightKnee, detector.RightAnkle,
		detector.RightHeel, detector.RightFootIndex,
	},
}

// Summary is the movement result for one frame pair. It is recomputed every
// frame and never persisted.
type Summary struct {
	// Intensity is the normalized overall movement in [0,1]: the mean
	// qualifying displacement divided by the sensitivity threshold, clamped.
	Intensity float64

	// Regions holds the raw mean displacement per body region. Unlike
	// Intensity these are NOT divided by the sensitivity threshold;
	// normalization is the caller's concern if a bounded value is needed.
	Regions map[Region]float64

	// Current and Previous reference the landmark sets the summary was
	// computed from, for downstream vector geometry.
	Current  *detector.PoseLandmarks
	Previous *detector.PoseLandmarks
}

// Threshold maps a 0-100 sensitivity to the displacement that saturates the
// intensity signal. Sensitivity 100 gives 0.01, sensitivity 0 gives 0.1.
// Out-of-range sensitivities are clamped.
func Threshold(sensitivity float64) float64 {
	s := clamp(sensitivity, 0, 100)
	return 0.01 + (100-s)*0.0009
}

// Analyze compares two landmark sets and returns a movement summary.
//
// Displacement is the 3-D Euclidean distance per landmark index, counted only
// where both frames see the point with visibility above the threshold;
// non-qualifying pairs contribute to neither the numerator nor the
// denominator of any average. With no previous frame the summary is all
// zeros: there is no movement without a comparison baseline.
//
// Analyze is pure. Retaining the previous landmark set between calls is the
// caller's responsibility.
func Analyze(current, previous *detector.PoseLandmarks, sensitivity float64) Summary {
	s := Summary{
		Regions:  make(map[Region]float64, len(Regions)),
		Current:  current,
		Previous: previous,
	}
	for _, r := range Regions {
		s.Regions[r] = 0
	}

	if current == nil || previous == nil {
		return s
	}

	displacements := make([]float64, 0, detector.NumLandmarks)
	for i := 0; i < detector.NumLandmarks; i++ {
		if !qualifies(current.Points[i], previous.Points[i]) {
			continue
		}
		displacements = append(displacements, detector.Distance3D(current.Points[i], previous.Points[i]))
	}

	if len(displacements) > 0 {
		raw := stat.Mean(displacements, nil)
		s.Intensity = clamp(raw/Threshold(sensitivity), 0, 1)
	}

	for region, indices := range regionIndices {
		regionDisp := make([]float64, 0, len(indices))
		for _, i := range indices {
			if !qualifies(current.Points[i], previous.Points[i]) {
				continue
			}
			regionDisp = append(regionDisp, detector.Distance3D(current.Points[i], previous.Points[i]))
		}
		if len(regionDisp) > 0 {
			s.Regions[region] = stat.Mean(regionDisp, nil)
		}
	}

	return s
}

// qualifies reports whether a landmark pair may contribute to movement
// averages: both observations must exceed the visibility threshold.
func qualifies(current, previous detector.Landmark) bool {
	return current.Visible() && previous.Visible()
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
