package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []LandmarkFrame
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by DetectForVideoFrame.
func (m *MockDetector) SetHands(hands []LandmarkFrame) {
	m.hands = hands
}

// SetError sets the error that will be returned by DetectForVideoFrame.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times DetectForVideoFrame has been invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// DetectForVideoFrame returns the pre-configured hands stamped with timestampMs,
// or the configured error.
func (m *MockDetector) DetectForVideoFrame(frame *gocv.Mat, timestampMs int64) ([]LandmarkFrame, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.hands == nil {
		return nil, nil
	}
	out := make([]LandmarkFrame, len(m.hands))
	for i, h := range m.hands {
		out[i] = h.WithTimestamp(timestampMs)
	}
	return out, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Fixture poses. All share the wrist at (0.5, 0.8) with the index MCP to the
// right of the pinky MCP in raw camera coordinates; y grows downward.

var (
	fixtureWrist = Landmark{X: 0.5, Y: 0.8}
	fixtureMCP   = [4]Landmark{
		{X: 0.55, Y: 0.68}, // index
		{X: 0.50, Y: 0.66}, // middle
		{X: 0.45, Y: 0.68}, // ring
		{X: 0.40, Y: 0.70}, // pinky
	}
)

type thumbPose int

const (
	thumbCurled thumbPose = iota
	thumbSide
	thumbUp
	thumbDown
)

// buildPose assembles a 21-point hand where extended[i] selects whether the
// index, middle, ring and pinky fingers point straight up from their MCP.
func buildPose(extended [4]bool, thumb thumbPose) LandmarkFrame {
	lms := make([]Landmark, NumLandmarks)
	lms[Wrist] = fixtureWrist

	for f := 0; f < 4; f++ {
		base := IndexMCP + f*4
		mcp := fixtureMCP[f]
		lms[base] = mcp
		if extended[f] {
			lms[base+1] = Landmark{X: mcp.X, Y: mcp.Y - 0.12}
			lms[base+2] = Landmark{X: mcp.X, Y: mcp.Y - 0.22}
			lms[base+3] = Landmark{X: mcp.X, Y: mcp.Y - 0.30}
		} else {
			lms[base+1] = Landmark{X: mcp.X, Y: mcp.Y - 0.04}
			lms[base+2] = Landmark{X: mcp.X - 0.02, Y: mcp.Y}
			lms[base+3] = Landmark{X: mcp.X - 0.01, Y: mcp.Y + 0.04}
		}
	}

	lms[ThumbCMC] = Landmark{X: 0.55, Y: 0.75}
	switch thumb {
	case thumbSide:
		lms[ThumbMCP] = Landmark{X: 0.62, Y: 0.70}
		lms[ThumbIP] = Landmark{X: 0.68, Y: 0.65}
		lms[ThumbTip] = Landmark{X: 0.73, Y: 0.60}
	case thumbUp:
		lms[ThumbMCP] = Landmark{X: 0.58, Y: 0.65}
		lms[ThumbIP] = Landmark{X: 0.58, Y: 0.50}
		lms[ThumbTip] = Landmark{X: 0.58, Y: 0.35}
	case thumbDown:
		lms[ThumbMCP] = Landmark{X: 0.58, Y: 0.80}
		lms[ThumbIP] = Landmark{X: 0.58, Y: 0.92}
		lms[ThumbTip] = Landmark{X: 0.58, Y: 1.00}
	default:
		lms[ThumbMCP] = Landmark{X: 0.58, Y: 0.70}
		lms[ThumbIP] = Landmark{X: 0.56, Y: 0.66}
		lms[ThumbTip] = Landmark{X: 0.52, Y: 0.66}
	}

	return LandmarkFrame{Landmarks: lms}
}

// OpenPalmFrame returns a hand with all five fingers extended.
func OpenPalmFrame() LandmarkFrame {
	return buildPose([4]bool{true, true, true, true}, thumbSide)
}

// FistFrame returns a hand with every finger curled into the palm.
func FistFrame() LandmarkFrame {
	return buildPose([4]bool{}, thumbCurled)
}

// PointFrame returns a hand with only the index finger extended.
func PointFrame() LandmarkFrame {
	return buildPose([4]bool{true, false, false, false}, thumbCurled)
}

// ThumbsUpFrame returns a closed hand with the thumb pointing up.
func ThumbsUpFrame() LandmarkFrame {
	return buildPose([4]bool{}, thumbUp)
}

// ThumbsDownFrame returns a closed hand with the thumb pointing down.
func ThumbsDownFrame() LandmarkFrame {
	return buildPose([4]bool{}, thumbDown)
}

// PeaceSignFrame returns a hand with index and middle fingers extended.
func PeaceSignFrame() LandmarkFrame {
	return buildPose([4]bool{true, true, false, false}, thumbCurled)
}

// RockOnFrame returns a hand with index and pinky fingers extended.
func RockOnFrame() LandmarkFrame {
	return buildPose([4]bool{true, false, false, true}, thumbCurled)
}

// OKSignFrame returns a hand with middle, ring and pinky extended and the
// index tip resting on the thumb tip.
func OKSignFrame() LandmarkFrame {
	f := buildPose([4]bool{false, true, true, true}, thumbSide)
	f.Landmarks[IndexPIP] = Landmark{X: 0.58, Y: 0.60}
	f.Landmarks[IndexDIP] = Landmark{X: 0.62, Y: 0.58}
	f.Landmarks[IndexTip] = Landmark{X: 0.64, Y: 0.60}
	f.Landmarks[ThumbIP] = Landmark{X: 0.66, Y: 0.65}
	f.Landmarks[ThumbTip] = Landmark{X: 0.655, Y: 0.615}
	return f
}

// PinchFrame returns a pointing hand with the thumb and index tips moved to
// the given positions.
func PinchFrame(thumbTip, indexTip Landmark) LandmarkFrame {
	f := PointFrame()
	f.Landmarks[ThumbTip] = thumbTip
	f.Landmarks[IndexTip] = indexTip
	return f
}
