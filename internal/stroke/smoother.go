// Package stroke turns gated fingertip positions into a de-jittered,
// segmented point stream for ink rendering.
package stroke

import (
	"math"

	"github.com/pranaysuyash/advay-learning-sub002/internal/geometry"
)

// Point is a position in normalized screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config holds smoothing and buffering parameters.
type Config struct {
	// Alpha is the EMA weight of each new raw point, in (0, 1].
	Alpha float64
	// MinPointDistance is the smallest move that appends a new point.
	MinPointDistance float64
	// MaxPoints caps the stroke buffer.
	MaxPoints int
	// Mirror flips x so a selfie-view video reads like a mirror.
	Mirror bool
}

// DefaultConfig returns the stock smoothing parameters.
func DefaultConfig() Config {
	return Config{
		Alpha:            0.35,
		MinPointDistance: 0.002,
		MaxPoints:        6000,
		Mirror:           true,
	}
}

// Smoother is an exponential moving average over cursor positions.
// The cursor is nil until the first point and after Reset, so a hand that
// reappears starts fresh instead of sliding in from its last position.
type Smoother struct {
	alpha  float64
	mirror bool
	cursor *Point
}

// NewSmoother creates a Smoother. Alpha outside (0, 1] falls back to the
// default for non-positive values and is capped at 1.
func NewSmoother(alpha float64, mirror bool) *Smoother {
	switch {
	case math.IsNaN(alpha) || alpha <= 0:
		alpha = DefaultConfig().Alpha
	case alpha > 1:
		alpha = 1
	}
	return &Smoother{alpha: alpha, mirror: mirror}
}

// Normalize mirrors (if enabled) and clamps a raw detector position.
func (s *Smoother) Normalize(rawX, rawY float64) Point {
	x := rawX
	if s.mirror {
		x = 1 - rawX
	}
	return Point{X: geometry.Clamp01(x), Y: geometry.Clamp01(rawY)}
}

// Smooth folds a raw detector position into the cursor and returns the
// smoothed position.
func (s *Smoother) Smooth(rawX, rawY float64) Point {
	p := s.Normalize(rawX, rawY)
	if s.cursor == nil {
		s.cursor = &p
		return p
	}
	s.cursor.X += (p.X - s.cursor.X) * s.alpha
	s.cursor.Y += (p.Y - s.cursor.Y) * s.alpha
	return *s.cursor
}

// Cursor returns a copy of the smoothed position, or nil if there is none.
func (s *Smoother) Cursor() *Point {
	if s.cursor == nil {
		return nil
	}
	c := *s.cursor
	return &c
}

// Reset discards the cursor.
func (s *Smoother) Reset() {
	s.cursor = nil
}
