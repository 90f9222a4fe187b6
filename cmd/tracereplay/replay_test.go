package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranaysuyash/advay-learning-sub002/internal/detector"
	"github.com/pranaysuyash/advay-learning-sub002/internal/gesture"
	"github.com/pranaysuyash/advay-learning-sub002/internal/tracking"
)

func pinchAt(x float64) []detector.LandmarkFrame {
	return []detector.LandmarkFrame{detector.PinchFrame(
		detector.Landmark{X: x, Y: 0.5},
		detector.Landmark{X: x + 0.02, Y: 0.5},
	)}
}

func recording(t *testing.T) *detector.RecordingReader {
	t.Helper()

	var buf bytes.Buffer
	ts := int64(0)
	write := func(hands []detector.LandmarkFrame) {
		ts += 33
		require.NoError(t, detector.WriteRecord(&buf, ts, hands))
	}

	// First stroke, released by opening the fingers.
	for i := 0; i < 5; i++ {
		write(pinchAt(0.2 + float64(i)*0.05))
	}
	write([]detector.LandmarkFrame{detector.PinchFrame(
		detector.Landmark{X: 0.4, Y: 0.5},
		detector.Landmark{X: 0.6, Y: 0.5},
	)})
	write([]detector.LandmarkFrame{detector.OpenPalmFrame()})

	// A detector error line.
	buf.WriteString(`{"timestamp_ms": 300, "error": "dropped"}` + "\n")
	ts = 300

	// Second stroke, still pinched when the recording ends.
	for i := 0; i < 4; i++ {
		write(pinchAt(0.6 + float64(i)*0.05))
	}

	return detector.NewRecordingReader(&buf)
}

func TestReplay(t *testing.T) {
	sum, err := Replay(recording(t), tracking.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 12, sum.Frames)
	assert.Equal(t, 11, sum.HandFrames)
	assert.Equal(t, 1, sum.DetectorErrors)
	assert.Equal(t, 2, sum.PinchStarts)
	assert.Equal(t, 2, sum.PinchReleases, "the open pinch at the end is force-released")
	assert.Len(t, sum.Strokes, 2)
	assert.Greater(t, sum.Points(), 4)
	assert.Equal(t, 1, sum.Gestures[gesture.OpenPalm])

	out := sum.String()
	assert.Contains(t, out, "strokes:         2")
	assert.Contains(t, out, "OPEN_PALM")
}

func TestReplay_DrawingDisabled(t *testing.T) {
	cfg := tracking.DefaultConfig()
	cfg.DrawingEnabled = false

	sum, err := Replay(recording(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.PinchStarts)
	assert.Empty(t, sum.Strokes)
}

func TestReplay_BadLine(t *testing.T) {
	_, err := Replay(detector.NewRecordingReader(strings.NewReader("{\"timestamp_ms\": 1}\n{")), tracking.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestSavePlot(t *testing.T) {
	sum, err := Replay(recording(t), tracking.DefaultConfig())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "strokes.png")
	require.NoError(t, savePlot(sum.Strokes, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
