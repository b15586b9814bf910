// Package visual maps heat values to overlay colors and stroke geometry.
package visual

import (
	"math"

	"github.com/ayusman/ushma/internal/detector"
	"github.com/ayusman/ushma/internal/heat"
	"github.com/ayusman/ushma/internal/motion"
)

// RGB is an 8-bit-per-channel color. Colors are always recomputed from the
// current heat, never stored.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Gradient stops for the heat ramp: blue -> green -> yellow -> red.
// The exact ramp is a visual-parity contract; changing it changes the
// product, not an implementation detail.
var (
	rampCold = RGB{0, 100, 255}
	rampCool = RGB{0, 255, 0}
	rampWarm = RGB{255, 255, 0}
	rampHot  = RGB{255, 0, 0}
)

// ColorFor maps a heat value to an RGB color on the three-segment ramp.
// Defined for any real input; out-of-range heat is clamped to [0,1].
func ColorFor(h float64) RGB {
	c := clamp(h, 0, 1)

	switch {
	case c < 0.33:
		return lerp(rampCold, rampCool, c/0.33)
	case c < 0.66:
		return lerp(rampCool, rampWarm, (c-0.33)/0.33)
	default:
		return lerp(rampWarm, rampHot, (c-0.66)/0.34)
	}
}

// lerp interpolates each channel linearly and floors to an integer.
func lerp(a, b RGB, t float64) RGB {
	return RGB{
		R: uint8(math.Floor(float64(a.R) + (float64(b.R)-float64(a.R))*t)),
		G: uint8(math.Floor(float64(a.G) + (float64(b.G)-float64(a.G))*t)),
		B: uint8(math.Floor(float64(a.B) + (float64(b.B)-float64(a.B))*t)),
	}
}

// StrokeWidth returns the line width for a skeletal connection, in [1,8].
func StrokeWidth(h float64) float64 {
	return 1 + clamp(h, 0, 1)*7
}

// StrokeAlpha returns the opacity for a skeletal connection, in [0.4,1].
func StrokeAlpha(h float64) float64 {
	return 0.4 + clamp(h, 0, 1)*0.6
}

// VectorWidth returns the line width for a movement vector, in [1,4].
func VectorWidth(h float64) float64 {
	return 1 + clamp(h, 0, 1)*3
}

// VectorAlpha returns the opacity for a movement vector, in [0.3,0.8].
func VectorAlpha(h float64) float64 {
	return 0.3 + clamp(h, 0, 1)*0.5
}

// Dead-zone thresholds suppressing jitter-driven vector noise.
const (
	// MinVectorDistance is the minimum pixel displacement for a vector to
	// be drawn.
	MinVectorDistance = 2.0
	// MinVectorHeat is the minimum point heat for a vector to be drawn.
	MinVectorHeat = 0.05
)

// arrowheadAngle is the spread of the two arrowhead lines from the motion
// direction, pi/6 either side.
const arrowheadAngle = math.Pi / 6

// maxArrowheadLength caps arrowhead line length in pixels.
const maxArrowheadLength = 10.0

// Point is a position in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is a resolved drawable line: color, width, alpha and endpoints.
// The presentation layer is responsible for all pixel output.
type Stroke struct {
	From  Point   `json:"from"`
	To    Point   `json:"to"`
	Color RGB     `json:"color"`
	Width float64 `json:"width"`
	Alpha float64 `json:"alpha"`
}

// Vector is a resolved movement arrow from a point's previous position to
// its current one, with two arrowhead lines.
type Vector struct {
	Index int      `json:"index"`
	From  Point    `json:"from"`
	To    Point    `json:"to"`
	Head  [2]Point `json:"head"`
	Color RGB      `json:"color"`
	Width float64  `json:"width"`
	Alpha float64  `json:"alpha"`
}

// MovementVector builds the arrow from a previous to a current pixel
// position for a point with the given heat. Returns false when the movement
// falls inside the dead zones and no vector should be drawn.
func MovementVector(index int, from, to Point, h float64) (Vector, bool) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	distance := math.Hypot(dx, dy)

	if distance <= MinVectorDistance || h <= MinVectorHeat {
		return Vector{}, false
	}

	angle := math.Atan2(dy, dx)
	headLen := math.Min(maxArrowheadLength, distance*0.3)

	return Vector{
		Index: index,
		From:  from,
		To:    to,
		Head: [2]Point{
			{
				X: to.X - headLen*math.Cos(angle-arrowheadAngle),
				Y: to.Y - headLen*math.Sin(angle-arrowheadAngle),
			},
			{
				X: to.X - headLen*math.Cos(angle+arrowheadAngle),
				Y: to.Y - headLen*math.Sin(angle+arrowheadAngle),
			},
		},
		Color: ColorFor(h),
		Width: VectorWidth(h),
		Alpha: VectorAlpha(h),
	}, true
}

// connections pairs the pose landmark indices joined by skeleton lines,
// following the MediaPipe pose topology.
var connections = [][2]int{
	// Face
	{detector.Nose, detector.LeftEyeInner},
	{detector.LeftEyeInner, detector.LeftEye},
	{detector.LeftEye, detector.LeftEyeOuter},
	{detector.LeftEyeOuter, detector.LeftEar},
	{detector.Nose, detector.RightEyeInner},
	{detector.RightEyeInner, detector.RightEye},
	{detector.RightEye, detector.RightEyeOuter},
	{detector.RightEyeOuter, detector.RightEar},
	{detector.MouthLeft, detector.MouthRight},
	// Arms
	{detector.LeftShoulder, detector.RightShoulder},
	{detector.LeftShoulder, detector.LeftElbow},
	{detector.LeftElbow, detector.LeftWrist},
	{detector.LeftWrist, detector.LeftPinky},
	{detector.LeftWrist, detector.LeftIndex},
	{detector.LeftWrist, detector.LeftThumb},
	{detector.LeftPinky, detector.LeftIndex},
	{detector.RightShoulder, detector.RightElbow},
	{detector.RightElbow, detector.RightWrist},
	{detector.RightWrist, detector.RightPinky},
	{detector.RightWrist, detector.RightIndex},
	{detector.RightWrist, detector.RightThumb},
	{detector.RightPinky, detector.RightIndex},
	// Torso
	{detector.LeftShoulder, detector.LeftHip},
	{detector.RightShoulder, detector.RightHip},
	{detector.LeftHip, detector.RightHip},
	// Legs
	{detector.LeftHip, detector.LeftKnee},
	{detector.LeftKnee, detector.LeftAnkle},
	{detector.LeftAnkle, detector.LeftHeel},
	{detector.LeftHeel, detector.LeftFootIndex},
	{detector.LeftAnkle, detector.LeftFootIndex},
	{detector.RightHip, detector.RightKnee},
	{detector.RightKnee, detector.RightAnkle},
	{detector.RightAnkle, detector.RightHeel},
	{detector.RightHeel, detector.RightFootIndex},
	{detector.RightAnkle, detector.RightFootIndex},
}

// Connections returns the skeleton topology as index pairs.
func Connections() [][2]int {
	return connections
}

// Overlay is the full set of drawables resolved for one frame.
type Overlay struct {
	Strokes []Stroke `json:"strokes"`
	Vectors []Vector `json:"vectors"`
}

// BuildOverlay resolves the skeleton strokes and movement vectors for one
// frame. Width and height scale normalized landmark coordinates to pixels.
// Connection heat is the mean of the two endpoint heats.
func BuildOverlay(snap heat.Snapshot, summary motion.Summary, width, height int) Overlay {
	var o Overlay
	if summary.Current == nil {
		return o
	}

	w := float64(width)
	hh := float64(height)

	toPixel := func(l detector.Landmark) Point {
		return Point{X: l.X * w, Y: l.Y * hh}
	}

	for _, conn := range connections {
		a := summary.Current.Points[conn[0]]
		b := summary.Current.Points[conn[1]]
		if !a.Visible() || !b.Visible() {
			continue
		}

		connHeat := (snap.Value(conn[0]) + snap.Value(conn[1])) / 2
		o.Strokes = append(o.Strokes, Stroke{
			From:  toPixel(a),
			To:    toPixel(b),
			Color: ColorFor(connHeat),
			Width: StrokeWidth(connHeat),
			Alpha: StrokeAlpha(connHeat),
		})
	}

	if summary.Previous == nil {
		return o
	}

	for i := 0; i < detector.NumLandmarks; i++ {
		cur := summary.Current.Points[i]
		prev := summary.Previous.Points[i]
		if !cur.Visible() || !prev.Visible() {
			continue
		}

		if v, ok := MovementVector(i, toPixel(prev), toPixel(cur), snap.Value(i)); ok {
			o.Vectors = append(o.Vectors, v)
		}
	}

	return o
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
