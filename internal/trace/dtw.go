package trace

import (
	"math"

	"github.com/pranaysuyash/advay-learning-sub002/internal/stroke"
)

// DTWDistance calculates the Dynamic Time Warping distance between two
// paths, normalized by the longer path length. Returns +Inf if either path
// is empty.
func DTWDistance(a, b []stroke.Point) float64 {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return math.Inf(1)
	}

	// Two rolling rows of the (n+1) x (m+1) cost matrix.
	prev := make([]float64, m+1)
	cur := make([]float64, m+1)
	for j := range prev {
		prev[j] = math.Inf(1)
	}
	prev[0] = 0

	for i := 1; i <= n; i++ {
		cur[0] = math.Inf(1)
		for j := 1; j <= m; j++ {
			cost := pointDistance(a[i-1], b[j-1])
			cur[j] = cost + min(prev[j], cur[j-1], prev[j-1])
		}
		prev, cur = cur, prev
	}

	return prev[m] / float64(max(n, m))
}

func pointDistance(a, b stroke.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Normalize translates the path to the origin and scales it uniformly so
// its larger side spans [0, 1]. Aspect ratio is kept, so a tall "I" does not
// turn into a square. A single point or a path with no extent maps to the
// origin.
func Normalize(path []stroke.Point) []stroke.Point {
	if path == nil {
		return nil
	}
	if len(path) == 0 {
		return []stroke.Point{}
	}

	minX, maxX := path[0].X, path[0].X
	minY, maxY := path[0].Y, path[0].Y
	for _, p := range path[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	scale := math.Max(maxX-minX, maxY-minY)
	out := make([]stroke.Point, len(path))
	for i, p := range path {
		if scale > 0 {
			out[i] = stroke.Point{X: (p.X - minX) / scale, Y: (p.Y - minY) / scale}
		}
	}
	return out
}

// Resample returns n points spaced evenly along the arc length of path, so
// drawing speed does not change the point density.
func Resample(path []stroke.Point, n int) []stroke.Point {
	if len(path) == 0 || n <= 0 {
		return nil
	}
	if len(path) == 1 || n == 1 {
		return []stroke.Point{path[0]}
	}

	total := 0.0
	for i := 1; i < len(path); i++ {
		total += pointDistance(path[i-1], path[i])
	}
	if total == 0 {
		out := make([]stroke.Point, n)
		for i := range out {
			out[i] = path[0]
		}
		return out
	}

	step := total / float64(n-1)
	out := make([]stroke.Point, 0, n)
	out = append(out, path[0])

	walked := 0.0 // arc length up to path[seg]
	seg := 0
	for k := 1; k < n-1; k++ {
		target := float64(k) * step
		for seg < len(path)-2 && walked+pointDistance(path[seg], path[seg+1]) < target {
			walked += pointDistance(path[seg], path[seg+1])
			seg++
		}
		a, b := path[seg], path[seg+1]
		l := pointDistance(a, b)
		frac := 0.0
		if l > 0 {
			frac = math.Min(1, (target-walked)/l)
		}
		out = append(out, stroke.Point{X: a.X + frac*(b.X-a.X), Y: a.Y + frac*(b.Y-a.Y)})
	}
	return append(out, path[len(path)-1])
}

// Flatten joins strokes into one path in drawing order.
func Flatten(strokes [][]stroke.Point) []stroke.Point {
	var out []stroke.Point
	for _, s := range strokes {
		out = append(out, s...)
	}
	return out
}
