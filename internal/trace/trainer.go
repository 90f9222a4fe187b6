package trace

import (
	"encoding/json"
	"fmt"

	"github.com/pranaysuyash/advay-learning-sub002/internal/stroke"
)

// Sample is one recorded tracing of a template.
type Sample struct {
	Strokes   [][]stroke.Point `json:"strokes"`
	Timestamp int64            `json:"timestamp"`
}

// Trainer averages recorded samples into a template path.
type Trainer struct {
	points int
}

// NewTrainer creates a Trainer producing paths of SamplePoints points.
func NewTrainer() *Trainer {
	return &Trainer{points: SamplePoints}
}

// Train parses samples, normalizes and resamples each one, and averages
// them point by point.
func (t *Trainer) Train(samples []json.RawMessage) ([]stroke.Point, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples provided")
	}

	paths := make([][]stroke.Point, 0, len(samples))
	for i, raw := range samples {
		var s Sample
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("failed to parse sample %d: %w", i, err)
		}
		path := Flatten(s.Strokes)
		if len(path) < 2 {
			return nil, fmt.Errorf("sample %d has insufficient path points", i)
		}
		paths = append(paths, Resample(Normalize(path), t.points))
	}

	averaged := make([]stroke.Point, t.points)
	n := float64(len(paths))
	for i := range averaged {
		var sumX, sumY float64
		for _, p := range paths {
			sumX += p[i].X
			sumY += p[i].Y
		}
		averaged[i] = stroke.Point{X: sumX / n, Y: sumY / n}
	}
	return averaged, nil
}
