package stroke

import "math"

// StrokePoint is one entry in the stroke buffer. Break entries separate
// disjoint strokes and carry out-of-range coordinates.
type StrokePoint struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	IsBreak bool    `json:"is_break"`
}

// BreakPoint is the sentinel appended between strokes.
var BreakPoint = StrokePoint{X: -1, Y: -1, IsBreak: true}

// Builder accumulates smoothed points into a bounded buffer of strokes.
// It is owned by a single session and is not safe for concurrent use.
type Builder struct {
	minDistance float64
	maxPoints   int
	points      []StrokePoint
}

// NewBuilder creates a Builder. A non-positive maxPoints uses the default cap.
func NewBuilder(minDistance float64, maxPoints int) *Builder {
	if maxPoints <= 0 {
		maxPoints = DefaultConfig().MaxPoints
	}
	if math.IsNaN(minDistance) || minDistance < 0 {
		minDistance = 0
	}
	return &Builder{
		minDistance: minDistance,
		maxPoints:   maxPoints,
		points:      make([]StrokePoint, 0, 256),
	}
}

// Add appends p unless it is within the minimum distance of the previous
// point in the same stroke. It reports whether the buffer grew.
func (b *Builder) Add(p Point) bool {
	if last, ok := b.last(); ok && !last.IsBreak {
		if math.Hypot(p.X-last.X, p.Y-last.Y) <= b.minDistance {
			return false
		}
	}
	b.points = append(b.points, StrokePoint{X: p.X, Y: p.Y})
	b.evict()
	return true
}

// Break ends the current stroke. It is a no-op on an empty buffer or when
// the stroke is already terminated, and reports whether a sentinel was added.
func (b *Builder) Break() bool {
	last, ok := b.last()
	if !ok || last.IsBreak {
		return false
	}
	b.points = append(b.points, BreakPoint)
	b.evict()
	return true
}

// Len returns the number of buffered entries, sentinels included.
func (b *Builder) Len() int {
	return len(b.points)
}

// Points returns a copy of the buffer.
func (b *Builder) Points() []StrokePoint {
	out := make([]StrokePoint, len(b.points))
	copy(out, b.points)
	return out
}

// Strokes splits the buffer into connected point runs.
func (b *Builder) Strokes() [][]Point {
	var strokes [][]Point
	var cur []Point
	for _, sp := range b.points {
		if sp.IsBreak {
			if len(cur) > 0 {
				strokes = append(strokes, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, Point{X: sp.X, Y: sp.Y})
	}
	if len(cur) > 0 {
		strokes = append(strokes, cur)
	}
	return strokes
}

// Clear drops every buffered point.
func (b *Builder) Clear() {
	b.points = b.points[:0]
}

func (b *Builder) last() (StrokePoint, bool) {
	if len(b.points) == 0 {
		return StrokePoint{}, false
	}
	return b.points[len(b.points)-1], true
}

// evict trims the buffer back to maxPoints from the oldest end. When an
// older stroke is complete it is dropped whole; a lone stroke loses its
// first points instead.
func (b *Builder) evict() {
	for len(b.points) > b.maxPoints {
		cut := 1
		for i, sp := range b.points[:len(b.points)-1] {
			if sp.IsBreak {
				cut = i + 1
				break
			}
		}
		n := copy(b.points, b.points[cut:])
		b.points = b.points[:n]
	}
}

// SetLimits changes the distance filter and buffer cap, trimming the buffer
// if it is now over the cap.
func (b *Builder) SetLimits(minDistance float64, maxPoints int) {
	nb := NewBuilder(minDistance, maxPoints)
	b.minDistance = nb.minDistance
	b.maxPoints = nb.maxPoints
	b.evict()
}
