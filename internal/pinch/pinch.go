// Package pinch detects thumb-index pinches, the pipeline's primary "click"
// signal, with hysteresis and optional frame confirmation against flicker.
package pinch

import (
	"math"

	"github.com/pranaysuyash/advay-learning-sub002/internal/detector"
	"github.com/pranaysuyash/advay-learning-sub002/internal/geometry"
)

// Transition is the change in pinch state produced by one frame.
type Transition string

const (
	None     Transition = "none"
	Start    Transition = "start"
	Continue Transition = "continue"
	Release  Transition = "release"
)

// Drawing reports whether the transition feeds points to a stroke.
func (t Transition) Drawing() bool {
	return t == Start || t == Continue
}

// State is the session-owned pinch state. LastDistance is +Inf until a
// frame with a hand has been measured.
type State struct {
	IsPinching   bool
	LastDistance float64
}

// Config holds pinch thresholds.
type Config struct {
	// EnterThreshold is the tip distance below which a pinch begins.
	EnterThreshold float64
	// ExitThreshold is the tip distance at or above which a pinch ends.
	// Values below EnterThreshold are raised to it.
	ExitThreshold float64
	// ConfirmFrames is how many consecutive frames must agree before a start
	// or release is reported. Values below 1 are treated as 1.
	ConfirmFrames int
}

// DefaultConfig returns the stock pinch thresholds.
func DefaultConfig() Config {
	return Config{
		EnterThreshold: 0.05,
		ExitThreshold:  0.06,
		ConfirmFrames:  1,
	}
}

// Detector is a two-point proximity state machine. It is owned by a single
// session and is not safe for concurrent use.
type Detector struct {
	config  Config
	state   State
	pending int
}

// NewDetector creates a Detector in the released state.
func NewDetector(config Config) *Detector {
	return &Detector{config: config, state: State{LastDistance: math.Inf(1)}}
}

// Config returns the active configuration.
func (d *Detector) Config() Config {
	return d.config
}

// SetConfig replaces the thresholds without changing the current state.
func (d *Detector) SetConfig(config Config) {
	d.config = config
	d.pending = 0
}

// State returns a copy of the current state.
func (d *Detector) State() State {
	return d.state
}

// Update feeds one frame and returns the resulting transition.
// Incomplete frames are treated as hand loss.
func (d *Detector) Update(frame detector.LandmarkFrame) Transition {
	if !frame.Complete() {
		return d.ForceRelease()
	}
	dist := geometry.Distance(frame.Landmarks[detector.ThumbTip], frame.Landmarks[detector.IndexTip])
	return d.UpdateDistance(dist)
}

// UpdateDistance feeds a precomputed tip distance.
func (d *Detector) UpdateDistance(dist float64) Transition {
	d.state.LastDistance = dist

	enter, exit := d.thresholds()
	var wants bool
	if d.state.IsPinching {
		// Stay pinched until the gap clears the exit threshold.
		wants = dist < exit
	} else {
		wants = dist < enter
	}

	if wants == d.state.IsPinching {
		d.pending = 0
		if d.state.IsPinching {
			return Continue
		}
		return None
	}

	d.pending++
	if d.pending < d.confirmFrames() {
		if d.state.IsPinching {
			return Continue
		}
		return None
	}

	d.pending = 0
	d.state.IsPinching = wants
	if wants {
		return Start
	}
	return Release
}

// ForceRelease ends any pinch in progress and resets the state. It returns
// Release if a pinch was active and None otherwise.
func (d *Detector) ForceRelease() Transition {
	was := d.state.IsPinching
	d.Reset()
	if was {
		return Release
	}
	return None
}

// Reset returns the detector to its default released state.
func (d *Detector) Reset() {
	d.state = State{LastDistance: math.Inf(1)}
	d.pending = 0
}

func (d *Detector) thresholds() (enter, exit float64) {
	enter, exit = d.config.EnterThreshold, d.config.ExitThreshold
	if exit < enter {
		exit = enter
	}
	return enter, exit
}

func (d *Detector) confirmFrames() int {
	if d.config.ConfirmFrames < 1 {
		return 1
	}
	return d.config.ConfirmFrames
}
