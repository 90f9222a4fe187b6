package gesture

import (
	"math"

	"github.com/pranaysuyash/advay-learning-sub002/internal/detector"
	"github.com/pranaysuyash/advay-learning-sub002/internal/geometry"
)

// Classifier maps landmark frames to gesture results and tracks how long the
// current label has been held. It is owned by a single session and is not
// safe for concurrent use.
type Classifier struct {
	config Config

	tracking   bool
	current    Gesture
	startedAt  int64
	lastLength int64
}

// NewClassifier creates a Classifier with the given configuration.
func NewClassifier(config Config) *Classifier {
	return &Classifier{config: config}
}

// Config returns the active configuration.
func (c *Classifier) Config() Config {
	return c.config
}

// SetConfig replaces the thresholds. Hold tracking is kept.
func (c *Classifier) SetConfig(config Config) {
	c.config = config
}

// Reset clears hold-duration tracking. Call it when the hand is lost.
func (c *Classifier) Reset() {
	c.tracking = false
	c.current = ""
	c.startedAt = 0
	c.lastLength = 0
}

// Classify returns the gesture for frame, or nil when the frame has no hand,
// the pose is ambiguous, or the confidence is below MinConfidence. A nil
// result also clears hold tracking.
func (c *Classifier) Classify(frame detector.LandmarkFrame) *Result {
	if !frame.Complete() {
		c.Reset()
		return nil
	}
	lms := frame.Landmarks[:detector.NumLandmarks]

	g := match(digest(lms, c.config))
	if g == Unknown {
		c.Reset()
		return nil
	}

	conf := Confidence(lms, g, c.config.Weights)
	if conf < c.config.MinConfidence {
		c.Reset()
		return nil
	}

	return &Result{
		Gesture:    g,
		Confidence: conf,
		Hand:       Handedness(lms, c.config.Mirrored),
		DurationMs: c.hold(g, frame.TimestampMs),
	}
}

// hold advances duration tracking and returns the current hold length.
func (c *Classifier) hold(g Gesture, now int64) int64 {
	if !c.tracking || g != c.current {
		c.tracking = true
		c.current = g
		c.startedAt = now
		c.lastLength = 0
		return 0
	}
	// Never report a shorter hold if the clock steps backwards.
	if d := now - c.startedAt; d > c.lastLength {
		c.lastLength = d
	}
	return c.lastLength
}

// Confidence scores a frame for gesture g.
//
// The base score blends the fraction of numeric landmarks with the mean
// depth plausibility 1 - clamp(|z|*DepthScale, 0, 1); a missing z counts as
// fully plausible. Robust poses are boosted, confusable ones penalized, and
// the result is clamped to [0, 1].
func Confidence(lms []detector.Landmark, g Gesture, w Weights) float64 {
	if len(lms) == 0 {
		return 0
	}

	var valid, plausibility float64
	for _, lm := range lms {
		if lm.Valid() {
			valid++
		}
		switch {
		case lm.Z == nil:
			plausibility++
		case math.IsNaN(*lm.Z) || math.IsInf(*lm.Z, 0):
		default:
			plausibility += 1 - geometry.Clamp01(math.Abs(*lm.Z)*w.DepthScale)
		}
	}
	n := float64(len(lms))
	score := w.Validity*(valid/n) + w.Depth*(plausibility/n)

	switch g {
	case OpenPalm, Fist, Point:
		score *= w.Boost
	case ThumbsDown, OKSign, RockOn:
		score *= w.Penalty
	}
	return geometry.Clamp01(score)
}

// Handedness guesses the hand side from the order of the index and pinky
// MCP joints. In the raw camera image a right hand shows its index MCP to
// the left of its pinky MCP; mirrored input flips that.
func Handedness(lms []detector.Landmark, mirrored bool) Hand {
	if len(lms) < detector.NumLandmarks {
		return HandUnknown
	}
	index, pinky := lms[detector.IndexMCP], lms[detector.PinkyMCP]
	if !index.Valid() || !pinky.Valid() || index.X == pinky.X {
		return HandUnknown
	}

	right := index.X < pinky.X
	if mirrored {
		right = !right
	}
	if right {
		return HandRight
	}
	return HandLeft
}
