package gesture

import (
	"github.com/pranaysuyash/advay-learning-sub002/internal/detector"
	"github.com/pranaysuyash/advay-learning-sub002/internal/geometry"
)

// pose is the boolean digest of a frame that the rule table reads.
type pose struct {
	thumb, index, middle, ring, pinky bool

	// thumbUp and thumbDown compare the thumb tip with the thumb MCP. A
	// level thumb is neither.
	thumbUp, thumbDown bool
	// tipsTouch is true when the thumb and index tips are within OKTipDistance.
	tipsTouch bool
}

func (p pose) fingers() (index, middle, ring, pinky bool) {
	return p.index, p.middle, p.ring, p.pinky
}

// rule pairs a gesture with the predicate that selects it.
type rule struct {
	gesture Gesture
	match   func(p pose) bool
}

// rules is evaluated top-down; the first match wins. More specific poses
// come before the poses they would otherwise be shadowed by.
var rules = []rule{
	{Fist, func(p pose) bool {
		return !p.thumb && !p.index && !p.middle && !p.ring && !p.pinky
	}},
	{OKSign, func(p pose) bool {
		return p.tipsTouch && p.middle && p.ring && p.pinky
	}},
	{OpenPalm, func(p pose) bool {
		return p.thumb && p.index && p.middle && p.ring && p.pinky
	}},
	{Point, func(p pose) bool {
		return onlyFingers(p, true, false, false, false)
	}},
	{ThumbsUp, func(p pose) bool {
		return p.thumb && onlyFingers(p, false, false, false, false) && p.thumbUp
	}},
	{ThumbsDown, func(p pose) bool {
		return p.thumb && onlyFingers(p, false, false, false, false) && p.thumbDown
	}},
	{PeaceSign, func(p pose) bool {
		return onlyFingers(p, true, true, false, false)
	}},
	{RockOn, func(p pose) bool {
		return onlyFingers(p, true, false, false, true)
	}},
}

// onlyFingers reports whether the four non-thumb fingers match exactly.
func onlyFingers(p pose, index, middle, ring, pinky bool) bool {
	i, m, r, k := p.fingers()
	return i == index && m == middle && r == ring && k == pinky
}

// match returns the first gesture whose rule accepts p, or Unknown.
func match(p pose) Gesture {
	for _, r := range rules {
		if r.match(p) {
			return r.gesture
		}
	}
	return Unknown
}

// digest computes the pose features for a complete frame.
func digest(lms []detector.Landmark, cfg Config) pose {
	wrist := lms[detector.Wrist]
	ext := func(tip, pip int) bool {
		return geometry.IsExtended(lms[tip], lms[pip], wrist, cfg.ExtensionThreshold)
	}

	p := pose{
		index:  ext(detector.IndexTip, detector.IndexPIP),
		middle: ext(detector.MiddleTip, detector.MiddlePIP),
		ring:   ext(detector.RingTip, detector.RingPIP),
		pinky:  ext(detector.PinkyTip, detector.PinkyPIP),
	}

	if palm, ok := geometry.PalmCenter(lms); ok {
		p.thumb = geometry.IsExtendedFrom(lms[detector.ThumbTip], lms[detector.ThumbIP], palm, cfg.ThumbExtensionThreshold)
	}
	// Smaller y is higher on screen.
	p.thumbUp = lms[detector.ThumbTip].Y < lms[detector.ThumbMCP].Y
	p.thumbDown = lms[detector.ThumbTip].Y > lms[detector.ThumbMCP].Y
	p.tipsTouch = geometry.Distance(lms[detector.ThumbTip], lms[detector.IndexTip]) < cfg.OKTipDistance

	return p
}
