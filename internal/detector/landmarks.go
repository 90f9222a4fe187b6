// Package detector provides the hand landmark data model and the detector
// collaborator interface that feeds the tracking pipeline.
package detector

import (
	"errors"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrMalformedFrame marks a frame with fewer than NumLandmarks points or
// non-numeric coordinates. It is absorbed by the pipeline as "no hand".
var ErrMalformedFrame = errors.New("malformed landmark frame")

// Landmark is one keypoint of a tracked hand. X and Y are normalized to the
// video frame; Z is relative depth and may be absent.
type Landmark struct {
	X float64  `json:"x"`
	Y float64  `json:"y"`
	Z *float64 `json:"z,omitempty"`
}

// Depth returns a pointer suitable for Landmark.Z.
func Depth(z float64) *float64 {
	return &z
}

// Valid reports whether the landmark has finite x and y coordinates and,
// when present, a finite z.
func (l Landmark) Valid() bool {
	if !finite(l.X) || !finite(l.Y) {
		return false
	}
	return l.Z == nil || finite(*l.Z)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// LandmarkFrame is the detector output for one hand at one instant.
// Frames are produced once per tick and never mutated afterwards.
type LandmarkFrame struct {
	Landmarks   []Landmark `json:"landmarks"`
	TimestampMs int64      `json:"timestamp_ms"`
}

// Complete reports whether the frame carries a full hand skeleton.
func (f LandmarkFrame) Complete() bool {
	return len(f.Landmarks) >= NumLandmarks
}

// WithTimestamp returns a copy of the frame carrying timestampMs.
func (f LandmarkFrame) WithTimestamp(timestampMs int64) LandmarkFrame {
	lms := make([]Landmark, len(f.Landmarks))
	copy(lms, f.Landmarks)
	return LandmarkFrame{Landmarks: lms, TimestampMs: timestampMs}
}

// Validate returns ErrMalformedFrame if the frame is incomplete or any of
// its first NumLandmarks points are not numeric.
func (f LandmarkFrame) Validate() error {
	if !f.Complete() {
		return ErrMalformedFrame
	}
	for i := 0; i < NumLandmarks; i++ {
		if !f.Landmarks[i].Valid() {
			return ErrMalformedFrame
		}
	}
	return nil
}

// At returns the landmark at index i, or a zero landmark and false if the
// frame is too short.
func (f LandmarkFrame) At(i int) (Landmark, bool) {
	if i < 0 || i >= len(f.Landmarks) {
		return Landmark{}, false
	}
	return f.Landmarks[i], true
}
