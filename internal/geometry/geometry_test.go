package geometry

import (
	"math"
	"testing"

	"github.com/pranaysuyash/advay-learning-sub002/internal/detector"
)

const epsilon = 1e-9

func lm(x, y float64) detector.Landmark {
	return detector.Landmark{X: x, Y: y}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b detector.Landmark
		want float64
	}{
		{"same point", lm(0.3, 0.3), lm(0.3, 0.3), 0},
		{"3-4-5 triangle", lm(0, 0), lm(0.3, 0.4), 0.5},
		{"depth ignored", detector.Landmark{X: 0, Y: 0, Z: detector.Depth(5)}, lm(0, 0.1), 0.1},
		{"NaN is infinite", lm(math.NaN(), 0), lm(0, 0), math.Inf(1)},
		{"Inf is infinite", lm(0, 0), lm(0, math.Inf(-1)), math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.IsInf(tt.want, 1) {
				if !math.IsInf(got, 1) {
					t.Errorf("expected +Inf, got %f", got)
				}
				return
			}
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestIsExtended(t *testing.T) {
	wrist := lm(0.5, 0.8)

	t.Run("tip beyond pip by more than threshold", func(t *testing.T) {
		if !IsExtended(lm(0.5, 0.4), lm(0.5, 0.6), wrist, 0.02) {
			t.Error("expected extended finger")
		}
	})

	t.Run("tip folded back toward wrist", func(t *testing.T) {
		if IsExtended(lm(0.5, 0.7), lm(0.5, 0.6), wrist, 0.02) {
			t.Error("expected curled finger")
		}
	})

	t.Run("within threshold is not extended", func(t *testing.T) {
		if IsExtended(lm(0.5, 0.59), lm(0.5, 0.6), wrist, 0.02) {
			t.Error("a 0.01 lead should not count with a 0.02 threshold")
		}
	})

	t.Run("NaN input is not extended", func(t *testing.T) {
		if IsExtended(lm(math.NaN(), 0.4), lm(0.5, 0.6), wrist, 0.02) {
			t.Error("expected false for NaN tip")
		}
		if IsExtended(lm(0.5, 0.4), lm(0.5, 0.6), wrist, math.NaN()) {
			t.Error("expected false for NaN threshold")
		}
	})
}

func TestPalmCenter(t *testing.T) {
	t.Run("averages wrist and MCP joints", func(t *testing.T) {
		c, ok := PalmCenter(detector.OpenPalmFrame().Landmarks)
		if !ok {
			t.Fatal("expected palm center")
		}
		if math.Abs(c.X-0.48) > epsilon || math.Abs(c.Y-0.704) > epsilon {
			t.Errorf("expected (0.48, 0.704), got (%f, %f)", c.X, c.Y)
		}
	})

	t.Run("short slice", func(t *testing.T) {
		if _, ok := PalmCenter(make([]detector.Landmark, 5)); ok {
			t.Error("expected ok=false for short slice")
		}
	})

	t.Run("invalid joint", func(t *testing.T) {
		lms := detector.OpenPalmFrame().Landmarks
		lms[detector.RingMCP].Y = math.NaN()
		if _, ok := PalmCenter(lms); ok {
			t.Error("expected ok=false with NaN MCP")
		}
	})
}

func TestClamp01(t *testing.T) {
	cases := []struct{ in, want float64 }{{-1, 0}, {0.25, 0.25}, {3, 1}, {math.NaN(), 0}}
	for _, c := range cases {
		if got := Clamp01(c.in); got != c.want {
			t.Errorf("Clamp01(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
