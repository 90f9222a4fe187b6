// Package config loads pipeline tuning from YAML. Every field is optional;
// unset fields keep the value of the configuration they are applied to, so
// partial files are safe.
package config

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pranaysuyash/advay-learning-sub002/internal/tracking"
)

const maxFileSize = 1 << 20

// Tuning is the on-disk and over-the-wire tuning schema. The same document
// is stored as a preset body.
type Tuning struct {
	Gesture *GestureTuning `yaml:"gesture,omitempty" json:"gesture,omitempty"`
	Pinch   *PinchTuning   `yaml:"pinch,omitempty" json:"pinch,omitempty"`
	Stroke  *StrokeTuning  `yaml:"stroke,omitempty" json:"stroke,omitempty"`

	DrawingEnabled *bool `yaml:"drawing_enabled,omitempty" json:"drawing_enabled,omitempty"`
	// FPS is the capture and tick rate.
	FPS *int `yaml:"fps,omitempty" json:"fps,omitempty"`
}

type GestureTuning struct {
	MinConfidence           *float64 `yaml:"min_confidence,omitempty" json:"min_confidence,omitempty"`
	ExtensionThreshold      *float64 `yaml:"extension_threshold,omitempty" json:"extension_threshold,omitempty"`
	ThumbExtensionThreshold *float64 `yaml:"thumb_extension_threshold,omitempty" json:"thumb_extension_threshold,omitempty"`
	OKTipDistance           *float64 `yaml:"ok_tip_distance,omitempty" json:"ok_tip_distance,omitempty"`
	Mirrored                *bool    `yaml:"mirrored,omitempty" json:"mirrored,omitempty"`

	// Confidence blend.
	ValidityWeight *float64 `yaml:"validity_weight,omitempty" json:"validity_weight,omitempty"`
	DepthWeight    *float64 `yaml:"depth_weight,omitempty" json:"depth_weight,omitempty"`
	DepthScale     *float64 `yaml:"depth_scale,omitempty" json:"depth_scale,omitempty"`
	Boost          *float64 `yaml:"boost,omitempty" json:"boost,omitempty"`
	Penalty        *float64 `yaml:"penalty,omitempty" json:"penalty,omitempty"`
}

type PinchTuning struct {
	EnterThreshold *float64 `yaml:"enter_threshold,omitempty" json:"enter_threshold,omitempty"`
	ExitThreshold  *float64 `yaml:"exit_threshold,omitempty" json:"exit_threshold,omitempty"`
	ConfirmFrames  *int     `yaml:"confirm_frames,omitempty" json:"confirm_frames,omitempty"`
}

type StrokeTuning struct {
	Alpha            *float64 `yaml:"alpha,omitempty" json:"alpha,omitempty"`
	MinPointDistance *float64 `yaml:"min_point_distance,omitempty" json:"min_point_distance,omitempty"`
	MaxPoints        *int     `yaml:"max_points,omitempty" json:"max_points,omitempty"`
	Mirror           *bool    `yaml:"mirror,omitempty" json:"mirror,omitempty"`
}

// Load reads and validates a YAML tuning file.
func Load(path string) (*Tuning, error) {
	clean := filepath.Clean(path)
	if ext := filepath.Ext(clean); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}

	info, err := os.Stat(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML tuning document. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func Parse(data []byte) (*Tuning, error) {
	t := &Tuning{}
	if len(bytes.TrimSpace(data)) == 0 {
		return t, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(t); err != nil {
		return nil, fmt.Errorf("failed to parse tuning YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return t, nil
}

// Marshal encodes t as YAML.
func (t *Tuning) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}

// Validate checks the ranges of every set field.
func (t *Tuning) Validate() error {
	if t.FPS != nil && (*t.FPS < 1 || *t.FPS > 240) {
		return fmt.Errorf("fps must be between 1 and 240, got %d", *t.FPS)
	}

	if g := t.Gesture; g != nil {
		if err := unit("gesture.min_confidence", g.MinConfidence); err != nil {
			return err
		}
		if err := distance("gesture.ok_tip_distance", g.OKTipDistance); err != nil {
			return err
		}
		for _, f := range []struct {
			name string
			v    *float64
		}{
			{"gesture.extension_threshold", g.ExtensionThreshold},
			{"gesture.thumb_extension_threshold", g.ThumbExtensionThreshold},
			{"gesture.validity_weight", g.ValidityWeight},
			{"gesture.depth_weight", g.DepthWeight},
			{"gesture.depth_scale", g.DepthScale},
			{"gesture.boost", g.Boost},
			{"gesture.penalty", g.Penalty},
		} {
			if err := nonNegative(f.name, f.v); err != nil {
				return err
			}
		}
	}

	if p := t.Pinch; p != nil {
		if err := distance("pinch.enter_threshold", p.EnterThreshold); err != nil {
			return err
		}
		if err := distance("pinch.exit_threshold", p.ExitThreshold); err != nil {
			return err
		}
		if p.EnterThreshold != nil && p.ExitThreshold != nil && *p.ExitThreshold < *p.EnterThreshold {
			return fmt.Errorf("pinch.exit_threshold (%f) must not be below pinch.enter_threshold (%f)", *p.ExitThreshold, *p.EnterThreshold)
		}
		if p.ConfirmFrames != nil && *p.ConfirmFrames < 1 {
			return fmt.Errorf("pinch.confirm_frames must be at least 1, got %d", *p.ConfirmFrames)
		}
	}

	if s := t.Stroke; s != nil {
		if s.Alpha != nil && (!finite(*s.Alpha) || *s.Alpha <= 0 || *s.Alpha > 1) {
			return fmt.Errorf("stroke.alpha must be in (0, 1], got %f", *s.Alpha)
		}
		if err := unit("stroke.min_point_distance", s.MinPointDistance); err != nil {
			return err
		}
		if s.MaxPoints != nil && *s.MaxPoints < 1 {
			return fmt.Errorf("stroke.max_points must be positive, got %d", *s.MaxPoints)
		}
	}
	return nil
}

// Apply overlays the set fields of t onto base.
func (t *Tuning) Apply(base tracking.Config) tracking.Config {
	out := base
	if t == nil {
		return out
	}
	setBool(&out.DrawingEnabled, t.DrawingEnabled)

	if g := t.Gesture; g != nil {
		setFloat(&out.Gesture.MinConfidence, g.MinConfidence)
		setFloat(&out.Gesture.ExtensionThreshold, g.ExtensionThreshold)
		setFloat(&out.Gesture.ThumbExtensionThreshold, g.ThumbExtensionThreshold)
		setFloat(&out.Gesture.OKTipDistance, g.OKTipDistance)
		setBool(&out.Gesture.Mirrored, g.Mirrored)
		setFloat(&out.Gesture.Weights.Validity, g.ValidityWeight)
		setFloat(&out.Gesture.Weights.Depth, g.DepthWeight)
		setFloat(&out.Gesture.Weights.DepthScale, g.DepthScale)
		setFloat(&out.Gesture.Weights.Boost, g.Boost)
		setFloat(&out.Gesture.Weights.Penalty, g.Penalty)
	}
	if p := t.Pinch; p != nil {
		setFloat(&out.Pinch.EnterThreshold, p.EnterThreshold)
		setFloat(&out.Pinch.ExitThreshold, p.ExitThreshold)
		setInt(&out.Pinch.ConfirmFrames, p.ConfirmFrames)
	}
	if s := t.Stroke; s != nil {
		setFloat(&out.Stroke.Alpha, s.Alpha)
		setFloat(&out.Stroke.MinPointDistance, s.MinPointDistance)
		setInt(&out.Stroke.MaxPoints, s.MaxPoints)
		setBool(&out.Stroke.Mirror, s.Mirror)
	}
	return out
}

// GetFPS returns the configured rate or fallback.
func (t *Tuning) GetFPS(fallback int) int {
	if t == nil || t.FPS == nil {
		return fallback
	}
	return *t.FPS
}

// FromConfig captures every field of cfg, suitable for saving a preset.
func FromConfig(cfg tracking.Config, fps int) *Tuning {
	g, w := cfg.Gesture, cfg.Gesture.Weights
	return &Tuning{
		Gesture: &GestureTuning{
			MinConfidence:           ptr(g.MinConfidence),
			ExtensionThreshold:      ptr(g.ExtensionThreshold),
			ThumbExtensionThreshold: ptr(g.ThumbExtensionThreshold),
			OKTipDistance:           ptr(g.OKTipDistance),
			Mirrored:                ptr(g.Mirrored),
			ValidityWeight:          ptr(w.Validity),
			DepthWeight:             ptr(w.Depth),
			DepthScale:              ptr(w.DepthScale),
			Boost:                   ptr(w.Boost),
			Penalty:                 ptr(w.Penalty),
		},
		Pinch: &PinchTuning{
			EnterThreshold: ptr(cfg.Pinch.EnterThreshold),
			ExitThreshold:  ptr(cfg.Pinch.ExitThreshold),
			ConfirmFrames:  ptr(cfg.Pinch.ConfirmFrames),
		},
		Stroke: &StrokeTuning{
			Alpha:            ptr(cfg.Stroke.Alpha),
			MinPointDistance: ptr(cfg.Stroke.MinPointDistance),
			MaxPoints:        ptr(cfg.Stroke.MaxPoints),
			Mirror:           ptr(cfg.Stroke.Mirror),
		},
		DrawingEnabled: ptr(cfg.DrawingEnabled),
		FPS:            ptr(fps),
	}
}

func ptr[T any](v T) *T { return &v }

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func unit(name string, v *float64) error {
	if v != nil && (!finite(*v) || *v < 0 || *v > 1) {
		return fmt.Errorf("%s must be between 0 and 1, got %f", name, *v)
	}
	return nil
}

// distance bounds a normalized landmark distance to (0, 1].
func distance(name string, v *float64) error {
	if v != nil && (!finite(*v) || *v <= 0 || *v > 1) {
		return fmt.Errorf("%s must be in (0, 1], got %f", name, *v)
	}
	return nil
}

func nonNegative(name string, v *float64) error {
	if v != nil && (!finite(*v) || *v < 0) {
		return fmt.Errorf("%s must be a non-negative number, got %f", name, *v)
	}
	return nil
}
