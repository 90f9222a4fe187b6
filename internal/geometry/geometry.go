// Package geometry provides distance and joint-extension math over hand landmarks.
//
// All functions are pure. Invalid inputs (NaN, infinities, short landmark
// slices) never panic: distances become +Inf and predicates report false.
package geometry

import (
	"math"

	"github.com/pranaysuyash/advay-learning-sub002/internal/detector"
)

// palmJoints are the wrist and the four finger MCP joints.
var palmJoints = [5]int{
	detector.Wrist,
	detector.IndexMCP,
	detector.MiddleMCP,
	detector.RingMCP,
	detector.PinkyMCP,
}

// Distance returns the Euclidean distance between a and b in normalized
// image space. Depth is ignored.
func Distance(a, b detector.Landmark) float64 {
	if !finite2(a) || !finite2(b) {
		return math.Inf(1)
	}
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// IsExtended reports whether tip lies farther from wrist than pip does by
// more than threshold.
func IsExtended(tip, pip, wrist detector.Landmark, threshold float64) bool {
	return IsExtendedFrom(tip, pip, wrist, threshold)
}

// IsExtendedFrom is IsExtended against an arbitrary anchor. The thumb is tested
// against the palm center because its joints fold sideways relative to the wrist.
func IsExtendedFrom(tip, joint, anchor detector.Landmark, threshold float64) bool {
	dt := Distance(tip, anchor)
	dj := Distance(joint, anchor)
	if math.IsInf(dt, 0) || math.IsInf(dj, 0) || math.IsNaN(threshold) {
		return false
	}
	return dt-dj > threshold
}

// PalmCenter returns the mean of the wrist and the four MCP joints.
// ok is false if the slice is too short or any of those joints is invalid.
func PalmCenter(landmarks []detector.Landmark) (center detector.Landmark, ok bool) {
	if len(landmarks) < detector.NumLandmarks {
		return detector.Landmark{}, false
	}
	var sx, sy float64
	for _, idx := range palmJoints {
		lm := landmarks[idx]
		if !finite2(lm) {
			return detector.Landmark{}, false
		}
		sx += lm.X
		sy += lm.Y
	}
	n := float64(len(palmJoints))
	return detector.Landmark{X: sx / n, Y: sy / n}, true
}

// Clamp01 limits v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func finite2(l detector.Landmark) bool {
	return !math.IsNaN(l.X) && !math.IsNaN(l.Y) && !math.IsInf(l.X, 0) && !math.IsInf(l.Y, 0)
}
