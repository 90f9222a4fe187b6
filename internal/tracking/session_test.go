package tracking

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranaysuyash/advay-learning-sub002/internal/detector"
	"github.com/pranaysuyash/advay-learning-sub002/internal/gesture"
	"github.com/pranaysuyash/advay-learning-sub002/internal/pinch"
	"github.com/pranaysuyash/advay-learning-sub002/internal/stroke"
)

// pinched returns a hand with the thumb and index tips 0.02 apart at x.
func pinched(x float64) []detector.LandmarkFrame {
	return []detector.LandmarkFrame{detector.PinchFrame(
		detector.Landmark{X: x, Y: 0.5},
		detector.Landmark{X: x + 0.02, Y: 0.5},
	)}
}

// apart returns a hand with the tips 0.1 apart at x.
func apart(x float64) []detector.LandmarkFrame {
	return []detector.LandmarkFrame{detector.PinchFrame(
		detector.Landmark{X: x, Y: 0.5},
		detector.Landmark{X: x + 0.1, Y: 0.5},
	)}
}

func TestSession_PinchDrawsAndHandLossReleases(t *testing.T) {
	s := NewSession(DefaultConfig())

	out := s.Process(0, pinched(0.3), nil)
	require.True(t, out.HandDetected)
	assert.Equal(t, pinch.Start, out.Pinch.Transition)
	assert.True(t, out.Pinch.IsPinching)
	require.Len(t, out.StrokePoints, 1)
	assert.InDelta(t, 0.68, out.StrokePoints[0].X, 1e-9)
	assert.InDelta(t, 0.5, out.StrokePoints[0].Y, 1e-9)

	out = s.Process(33, pinched(0.4), nil)
	assert.Equal(t, pinch.Continue, out.Pinch.Transition)
	require.Len(t, out.StrokePoints, 2)
	assert.InDelta(t, 0.645, out.StrokePoints[1].X, 1e-9)

	out = s.Process(66, nil, nil)
	assert.False(t, out.HandDetected)
	assert.Nil(t, out.Gesture)
	assert.Nil(t, out.IndexTip)
	assert.False(t, out.Pinch.IsPinching)
	assert.Equal(t, pinch.Release, out.Pinch.Transition)
	require.Len(t, out.StrokePoints, 3)
	assert.Equal(t, stroke.BreakPoint, out.StrokePoints[2])

	// A second empty frame reports no further transition.
	out = s.Process(100, nil, nil)
	assert.Equal(t, pinch.None, out.Pinch.Transition)
	assert.Len(t, out.StrokePoints, 3)
}

func TestSession_ReleaseEndsStroke(t *testing.T) {
	s := NewSession(DefaultConfig())

	s.Process(0, pinched(0.3), nil)
	s.Process(33, pinched(0.35), nil)
	out := s.Process(66, apart(0.35), nil)

	assert.True(t, out.HandDetected)
	assert.Equal(t, pinch.Release, out.Pinch.Transition)
	require.NotEmpty(t, out.StrokePoints)
	assert.True(t, out.StrokePoints[len(out.StrokePoints)-1].IsBreak)

	// The next pinch starts a separate stroke.
	s.Process(100, pinched(0.6), nil)
	assert.Len(t, s.Strokes(), 2)
}

func TestSession_DrawingDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DrawingEnabled = false
	s := NewSession(cfg)

	out := s.Process(0, pinched(0.3), nil)
	assert.Equal(t, pinch.Start, out.Pinch.Transition)
	assert.True(t, out.Pinch.IsPinching)
	assert.Empty(t, out.StrokePoints)

	out = s.Process(33, pinched(0.5), nil)
	assert.Equal(t, pinch.Continue, out.Pinch.Transition)
	assert.Empty(t, out.StrokePoints)
}

func TestSession_DisableDrawingMidStroke(t *testing.T) {
	s := NewSession(DefaultConfig())

	s.Process(0, pinched(0.3), nil)
	s.Process(33, pinched(0.4), nil)
	s.SetDrawingEnabled(false)

	out := s.Process(66, pinched(0.5), nil)
	require.Len(t, out.StrokePoints, 3)
	assert.True(t, out.StrokePoints[2].IsBreak)
	assert.True(t, out.Pinch.IsPinching)
}

func TestSession_HandLossInputs(t *testing.T) {
	short := detector.OpenPalmFrame()
	short.Landmarks = short.Landmarks[:20]

	nan := detector.OpenPalmFrame()
	nan.Landmarks[detector.IndexTip].X = math.NaN()

	tests := []struct {
		name  string
		hands []detector.LandmarkFrame
		err   error
	}{
		{"detector error", pinched(0.3), errors.New("boom")},
		{"no hands", nil, nil},
		{"short frame", []detector.LandmarkFrame{short}, nil},
		{"non-numeric landmark", []detector.LandmarkFrame{nan}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(DefaultConfig())
			s.Process(0, pinched(0.3), nil)

			out := s.Process(33, tt.hands, tt.err)
			assert.False(t, out.HandDetected)
			assert.Equal(t, pinch.Release, out.Pinch.Transition)
			assert.False(t, out.Pinch.IsPinching)
			assert.Nil(t, out.IndexTip)
		})
	}
}

func TestSession_SkipsMalformedHand(t *testing.T) {
	short := detector.PointFrame()
	short.Landmarks = short.Landmarks[:5]

	s := NewSession(DefaultConfig())
	out := s.Process(0, []detector.LandmarkFrame{short, detector.OpenPalmFrame()}, nil)

	require.True(t, out.HandDetected)
	require.NotNil(t, out.Gesture)
	assert.Equal(t, gesture.OpenPalm, out.Gesture.Gesture)
}

func TestSession_GestureAndCursor(t *testing.T) {
	s := NewSession(DefaultConfig())

	out := s.Process(1000, []detector.LandmarkFrame{detector.OpenPalmFrame()}, nil)
	require.NotNil(t, out.Gesture)
	assert.Equal(t, gesture.OpenPalm, out.Gesture.Gesture)
	assert.Equal(t, int64(0), out.Gesture.DurationMs)
	require.NotNil(t, out.IndexTip)
	assert.InDelta(t, 0.45, out.IndexTip.X, 1e-9)
	assert.InDelta(t, 0.38, out.IndexTip.Y, 1e-9)
	assert.Equal(t, int64(1000), out.TimestampMs)

	out = s.Process(1100, []detector.LandmarkFrame{detector.OpenPalmFrame()}, nil)
	require.NotNil(t, out.Gesture)
	assert.Equal(t, int64(100), out.Gesture.DurationMs)
}

func TestSession_FrameIsSnapshot(t *testing.T) {
	s := NewSession(DefaultConfig())

	first := s.Process(0, pinched(0.3), nil)
	first.StrokePoints[0].X = 42

	second := s.Process(33, pinched(0.4), nil)
	assert.InDelta(t, 0.68, second.StrokePoints[0].X, 1e-9)
	assert.Len(t, first.StrokePoints, 1)
}

func TestSession_Reset(t *testing.T) {
	s := NewSession(DefaultConfig())
	assert.Equal(t, pinch.None, s.Reset())

	s.Process(0, pinched(0.3), nil)
	assert.Equal(t, pinch.Release, s.Reset())
	assert.Equal(t, pinch.None, s.Reset())
}

func TestSession_Independent(t *testing.T) {
	a := NewSession(DefaultConfig())
	b := NewSession(DefaultConfig())

	a.Process(0, pinched(0.3), nil)
	a.Process(33, pinched(0.4), nil)

	out := b.Process(0, apart(0.3), nil)
	assert.False(t, out.Pinch.IsPinching)
	assert.Empty(t, out.StrokePoints)
	assert.Len(t, a.Strokes(), 1)
}

func TestSession_SetConfig(t *testing.T) {
	s := NewSession(DefaultConfig())
	s.Process(0, pinched(0.3), nil)
	s.Process(33, pinched(0.4), nil)

	cfg := DefaultConfig()
	cfg.Pinch.EnterThreshold = 0.01
	cfg.Pinch.ExitThreshold = 0.015
	s.SetConfig(cfg)
	assert.Equal(t, cfg, s.Config())

	// 0.02 apart is now outside the exit threshold.
	out := s.Process(66, pinched(0.4), nil)
	assert.Equal(t, pinch.Release, out.Pinch.Transition)
}

func TestSession_ClearStrokes(t *testing.T) {
	s := NewSession(DefaultConfig())
	s.Process(0, pinched(0.3), nil)
	s.ClearStrokes()

	assert.Empty(t, s.Strokes())
	out := s.Process(33, pinched(0.5), nil)
	assert.Len(t, out.StrokePoints, 1)
}
