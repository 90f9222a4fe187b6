// Package trace scores drawn strokes against letter and shape templates
// with Dynamic Time Warping. It reports similarity only; pass/fail policy
// belongs to the game.
package trace

import (
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/pranaysuyash/advay-learning-sub002/internal/stroke"
)

// SamplePoints is the length every path is resampled to before comparison.
const SamplePoints = 64

// MinInputPoints is the shortest drawing that will be scored.
const MinInputPoints = 5

// ErrTooShort is returned when a drawing has too few points to score.
var ErrTooShort = errors.New("trace: drawing has too few points")

// Template is a reference path for a letter or shape.
type Template struct {
	ID   string
	Name string
	// Path is the reference trace in normalized screen coordinates. Multi
	// stroke letters are stored flattened in drawing order.
	Path []stroke.Point
	// Tolerance is the largest DTW distance Match still reports.
	Tolerance float64
}

// Match is a scored comparison between a drawing and a template.
type Match struct {
	Template *Template
	Score    float64 // 1 / (1 + Distance), higher is better
	Distance float64
}

// Matcher holds the loaded templates. It is safe for concurrent use.
type Matcher struct {
	mu        sync.RWMutex
	templates []*Template
	prepared  map[string][]stroke.Point
}

// NewMatcher creates an empty Matcher.
func NewMatcher() *Matcher {
	return &Matcher{prepared: make(map[string][]stroke.Point)}
}

// AddTemplate registers t, replacing any template with the same ID.
func (m *Matcher) AddTemplate(t *Template) {
	if t == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(t.ID)
	m.templates = append(m.templates, t)
	m.prepared[t.ID] = prepare(t.Path)
}

// RemoveTemplate removes a template by its ID.
func (m *Matcher) RemoveTemplate(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(id)
}

func (m *Matcher) removeLocked(id string) {
	for i, t := range m.templates {
		if t.ID == id {
			m.templates = append(m.templates[:i], m.templates[i+1:]...)
			delete(m.prepared, id)
			return
		}
	}
}

// Templates returns the registered templates in insertion order.
func (m *Matcher) Templates() []*Template {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Template, len(m.templates))
	copy(out, m.templates)
	return out
}

// Match scores strokes against every template and returns those within
// tolerance, best first.
func (m *Matcher) Match(strokes [][]stroke.Point) []Match {
	input, err := prepareInput(strokes)
	if err != nil {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []Match
	for _, t := range m.templates {
		ref := m.prepared[t.ID]
		if len(ref) == 0 {
			continue
		}
		d := DTWDistance(input, ref)
		if math.IsInf(d, 1) || d > t.Tolerance {
			continue
		}
		matches = append(matches, Match{Template: t, Score: score(d), Distance: d})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// Score compares strokes against a single template regardless of its
// tolerance.
func Score(strokes [][]stroke.Point, t *Template) (Match, error) {
	input, err := prepareInput(strokes)
	if err != nil {
		return Match{}, err
	}
	ref := prepare(t.Path)
	if len(ref) == 0 {
		return Match{}, errors.New("trace: template has no path")
	}
	d := DTWDistance(input, ref)
	return Match{Template: t, Score: score(d), Distance: d}, nil
}

func prepareInput(strokes [][]stroke.Point) ([]stroke.Point, error) {
	path := Flatten(strokes)
	if len(path) < MinInputPoints {
		return nil, ErrTooShort
	}
	return prepare(path), nil
}

func prepare(path []stroke.Point) []stroke.Point {
	return Resample(Normalize(path), SamplePoints)
}

func score(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}
