package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pranaysuyash/advay-learning-sub002/internal/detector"
	"github.com/pranaysuyash/advay-learning-sub002/internal/gesture"
	"github.com/pranaysuyash/advay-learning-sub002/internal/pinch"
	"github.com/pranaysuyash/advay-learning-sub002/internal/stroke"
	"github.com/pranaysuyash/advay-learning-sub002/internal/tracking"
)

// Summary describes one replayed recording.
type Summary struct {
	Frames         int
	HandFrames     int
	DetectorErrors int
	PinchStarts    int
	PinchReleases  int
	Gestures       map[gesture.Gesture]int
	Strokes        [][]stroke.Point
}

// Replay feeds every record through a fresh session and ends it as a
// stopped runner would.
func Replay(rr *detector.RecordingReader, cfg tracking.Config) (*Summary, error) {
	session := tracking.NewSession(cfg)
	sum := &Summary{Gestures: make(map[gesture.Gesture]int)}

	for {
		rec, err := rr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		out := session.Process(rec.TimestampMs, rec.Hands, rec.Err)
		sum.Frames++
		if rec.Err != nil {
			sum.DetectorErrors++
		}
		if out.HandDetected {
			sum.HandFrames++
		}
		if out.Gesture != nil {
			sum.Gestures[out.Gesture.Gesture]++
		}
		sum.count(out.Pinch.Transition)
	}

	sum.count(session.Reset())
	sum.Strokes = session.Strokes()
	return sum, nil
}

func (s *Summary) count(t pinch.Transition) {
	switch t {
	case pinch.Start:
		s.PinchStarts++
	case pinch.Release:
		s.PinchReleases++
	}
}

// Points returns the number of drawn points across all strokes.
func (s *Summary) Points() int {
	n := 0
	for _, st := range s.Strokes {
		n += len(st)
	}
	return n
}

// String renders the summary for the terminal.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "frames:          %d\n", s.Frames)
	fmt.Fprintf(&b, "hand frames:     %d\n", s.HandFrames)
	fmt.Fprintf(&b, "detector errors: %d\n", s.DetectorErrors)
	fmt.Fprintf(&b, "pinches:         %d started, %d released\n", s.PinchStarts, s.PinchReleases)
	fmt.Fprintf(&b, "strokes:         %d (%d points)\n", len(s.Strokes), s.Points())

	names := make([]string, 0, len(s.Gestures))
	for g := range s.Gestures {
		names = append(names, string(g))
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %-12s %d\n", name, s.Gestures[gesture.Gesture(name)])
	}
	return b.String()
}
