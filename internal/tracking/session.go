// Package tracking sequences the per-frame hand pipeline: gesture
// classification, pinch detection and stroke building.
package tracking

import (
	"github.com/pranaysuyash/advay-learning-sub002/internal/detector"
	"github.com/pranaysuyash/advay-learning-sub002/internal/gesture"
	"github.com/pranaysuyash/advay-learning-sub002/internal/monitoring"
	"github.com/pranaysuyash/advay-learning-sub002/internal/pinch"
	"github.com/pranaysuyash/advay-learning-sub002/internal/stroke"
)

// Config aggregates every tunable of the pipeline.
type Config struct {
	Gesture gesture.Config
	Pinch   pinch.Config
	Stroke  stroke.Config
	// DrawingEnabled gates whether pinches produce stroke points.
	DrawingEnabled bool
}

// DefaultConfig returns the stock pipeline configuration with drawing on.
func DefaultConfig() Config {
	return Config{
		Gesture:        gesture.DefaultConfig(),
		Pinch:          pinch.DefaultConfig(),
		Stroke:         stroke.DefaultConfig(),
		DrawingEnabled: true,
	}
}

// PinchStatus is the pinch portion of a tracked frame.
type PinchStatus struct {
	IsPinching bool             `json:"is_pinching"`
	Transition pinch.Transition `json:"transition"`
}

// Frame is the immutable result of one tick, handed to UI and game logic.
// IndexTip is the mirrored and clamped index fingertip, nil with no hand.
type Frame struct {
	TimestampMs  int64                `json:"timestamp_ms"`
	HandDetected bool                 `json:"hand_detected"`
	Gesture      *gesture.Result      `json:"gesture"`
	Pinch        PinchStatus          `json:"pinch"`
	IndexTip     *stroke.Point        `json:"index_tip"`
	StrokePoints []stroke.StrokePoint `json:"stroke_points"`
}

// Session owns all mutable tracking state for one player. Sessions share
// nothing, so several may run side by side. A Session is not safe for
// concurrent use; one goroutine must drive it.
type Session struct {
	config     Config
	classifier *gesture.Classifier
	pinch      *pinch.Detector
	smoother   *stroke.Smoother
	builder    *stroke.Builder
}

// NewSession creates a Session in the freshly reset state.
func NewSession(config Config) *Session {
	return &Session{
		config:     config,
		classifier: gesture.NewClassifier(config.Gesture),
		pinch:      pinch.NewDetector(config.Pinch),
		smoother:   stroke.NewSmoother(config.Stroke.Alpha, config.Stroke.Mirror),
		builder:    stroke.NewBuilder(config.Stroke.MinPointDistance, config.Stroke.MaxPoints),
	}
}

// Config returns the active configuration.
func (s *Session) Config() Config {
	return s.config
}

// SetConfig applies new thresholds. Buffered strokes are kept (and trimmed
// to a smaller cap); the current stroke is ended so it is not smoothed
// across two parameter sets.
func (s *Session) SetConfig(config Config) {
	s.config = config
	s.classifier.SetConfig(config.Gesture)
	s.pinch.SetConfig(config.Pinch)
	s.smoother = stroke.NewSmoother(config.Stroke.Alpha, config.Stroke.Mirror)
	s.builder.SetLimits(config.Stroke.MinPointDistance, config.Stroke.MaxPoints)
	s.builder.Break()
}

// SetDrawingEnabled toggles ink. Disabling ends the current stroke.
func (s *Session) SetDrawingEnabled(enabled bool) {
	if s.config.DrawingEnabled && !enabled {
		s.builder.Break()
		s.smoother.Reset()
	}
	s.config.DrawingEnabled = enabled
}

// Strokes returns the buffered strokes as connected point runs.
func (s *Session) Strokes() [][]stroke.Point {
	return s.builder.Strokes()
}

// ClearStrokes empties the stroke buffer.
func (s *Session) ClearStrokes() {
	s.builder.Clear()
	s.smoother.Reset()
}

// Reset forces a pinch release, ends the current stroke and drops smoothing
// and hold-duration state. It returns the release transition if a pinch was
// active. Call it when tracking stops.
func (s *Session) Reset() pinch.Transition {
	tr := s.pinch.ForceRelease()
	s.builder.Break()
	s.smoother.Reset()
	s.classifier.Reset()
	return tr
}

// Process runs one tick. frames is the detector output for the tick and
// detectErr its error, if any. Errors, empty output and malformed frames
// all yield a "no hand" frame; nothing is returned as an error and a panic
// inside the pipeline is absorbed the same way.
func (s *Session) Process(timestampMs int64, frames []detector.LandmarkFrame, detectErr error) (out Frame) {
	defer func() {
		if r := recover(); r != nil {
			monitoring.Logf("tracking: dropped frame at %dms: %v", timestampMs, r)
			out = s.loseHand(timestampMs)
		}
	}()

	if detectErr != nil {
		monitoring.Debugf("tracking: detector error at %dms: %v", timestampMs, detectErr)
		return s.loseHand(timestampMs)
	}

	hand, ok := pickHand(frames)
	if !ok {
		return s.loseHand(timestampMs)
	}
	if hand.TimestampMs == 0 {
		hand = hand.WithTimestamp(timestampMs)
	}

	result := s.classifier.Classify(hand)
	tr := s.pinch.Update(hand)

	tip := hand.Landmarks[detector.IndexTip]
	switch {
	case tr == pinch.Release:
		s.builder.Break()
		s.smoother.Reset()
	case s.config.DrawingEnabled && tr.Drawing():
		if tr == pinch.Start {
			s.builder.Break()
			s.smoother.Reset()
		}
		s.builder.Add(s.smoother.Smooth(tip.X, tip.Y))
	}

	cursor := s.smoother.Normalize(tip.X, tip.Y)
	return Frame{
		TimestampMs:  timestampMs,
		HandDetected: true,
		Gesture:      result,
		Pinch: PinchStatus{
			IsPinching: s.pinch.State().IsPinching,
			Transition: tr,
		},
		IndexTip:     &cursor,
		StrokePoints: s.builder.Points(),
	}
}

// loseHand handles the present-to-absent transition.
func (s *Session) loseHand(timestampMs int64) Frame {
	tr := s.Reset()
	return Frame{
		TimestampMs: timestampMs,
		Pinch: PinchStatus{
			Transition: tr,
		},
		StrokePoints: s.builder.Points(),
	}
}

// pickHand returns the first well-formed hand. Additional hands are ignored.
func pickHand(frames []detector.LandmarkFrame) (detector.LandmarkFrame, bool) {
	for _, f := range frames {
		if err := f.Validate(); err != nil {
			monitoring.Debugf("tracking: skipping hand: %v", err)
			continue
		}
		return f, true
	}
	return detector.LandmarkFrame{}, false
}
