// Package gesture classifies a single hand landmark frame into a discrete
// gesture label with a confidence score and a hold duration.
package gesture

// Gesture is a discrete hand pose label.
type Gesture string

const (
	OpenPalm   Gesture = "OPEN_PALM"
	Fist       Gesture = "FIST"
	ThumbsUp   Gesture = "THUMBS_UP"
	ThumbsDown Gesture = "THUMBS_DOWN"
	Point      Gesture = "POINT"
	OKSign     Gesture = "OK_SIGN"
	PeaceSign  Gesture = "PEACE_SIGN"
	RockOn     Gesture = "ROCK_ON"
	Unknown    Gesture = "UNKNOWN"
)

// Hand is a best-effort guess at which hand is in view.
//
// It is inferred from joint ordering alone and flips when the hand turns
// around, so it is for display only. Gameplay must never branch on it.
type Hand string

const (
	HandLeft    Hand = "left"
	HandRight   Hand = "right"
	HandUnknown Hand = "unknown"
)

// Result is the classification of one frame.
type Result struct {
	Gesture    Gesture `json:"gesture"`
	Confidence float64 `json:"confidence"`
	Hand       Hand    `json:"hand"`
	// DurationMs is how long Gesture has been held continuously. It is 0 on
	// the frame where the label changes.
	DurationMs int64 `json:"duration_ms"`
}

// Weights parameterizes the confidence blend. The defaults were tuned by
// eye on webcam footage and should be revalidated against real sensor data.
type Weights struct {
	// Validity weighs the fraction of landmarks with numeric coordinates.
	Validity float64
	// Depth weighs the mean depth plausibility.
	Depth float64
	// DepthScale maps |z| to implausibility: 1 - clamp(|z|*DepthScale, 0, 1).
	DepthScale float64
	// Boost multiplies confidence for robust poses.
	Boost float64
	// Penalty multiplies confidence for poses that are easy to confuse.
	Penalty float64
}

// Config holds classifier thresholds.
type Config struct {
	// MinConfidence suppresses results below this score.
	MinConfidence float64
	// ExtensionThreshold is the margin by which a fingertip must lead its PIP
	// joint, measured from the wrist, to count as extended.
	ExtensionThreshold float64
	// ThumbExtensionThreshold is the same margin for the thumb tip over the
	// IP joint, measured from the palm center.
	ThumbExtensionThreshold float64
	// OKTipDistance is the maximum thumb-index tip gap for OK_SIGN.
	OKTipDistance float64
	// Mirrored inverts the hand-side heuristic for selfie-mirrored input.
	Mirrored bool
	Weights  Weights
}

// DefaultWeights returns the stock confidence blend.
func DefaultWeights() Weights {
	return Weights{
		Validity:   0.6,
		Depth:      0.4,
		DepthScale: 2,
		Boost:      1.1,
		Penalty:    0.9,
	}
}

// DefaultConfig returns a Config with the stock thresholds.
func DefaultConfig() Config {
	return Config{
		MinConfidence:           0.85,
		ExtensionThreshold:      0.02,
		ThumbExtensionThreshold: 0.03,
		OKTipDistance:           0.05,
		Weights:                 DefaultWeights(),
	}
}
