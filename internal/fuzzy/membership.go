// Package fuzzy scores how well a reference value matches extracted values,
// smoothing the crisp similarity through four triangular membership
// functions before mapping it onto a category.
package fuzzy

import (
	"fmt"
	"math"
)

// Category is the qualitative label of a score.
type Category string

const (
	Baja   Category = "baja"
	Media  Category = "media"
	Alta   Category = "alta"
	Exacta Category = "exacta"
)

// Categories lists every category from least to most exact.
var Categories = []Category{Baja, Media, Alta, Exacta}

func (c Category) rank() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return -1
}

// MembershipFunction is a triangle over [0,100]. Left == Peak or
// Peak == Right give a shoulder.
type MembershipFunction struct {
	Left  float64 `mapstructure:"left" json:"left"`
	Peak  float64 `mapstructure:"peak" json:"peak"`
	Right float64 `mapstructure:"right" json:"right"`
}

// Degree returns the membership of s, in [0,1].
func (m MembershipFunction) Degree(s float64) float64 {
	switch {
	case s < m.Left || s > m.Right:
		return 0
	case s == m.Peak:
		return 1
	case s < m.Peak:
		return (s - m.Left) / (m.Peak - m.Left)
	default:
		return (m.Right - s) / (m.Right - m.Peak)
	}
}

// Set holds the four membership functions.
type Set struct {
	Baja   MembershipFunction `mapstructure:"baja" json:"baja"`
	Media  MembershipFunction `mapstructure:"media" json:"media"`
	Alta   MembershipFunction `mapstructure:"alta" json:"alta"`
	Exacta MembershipFunction `mapstructure:"exacta" json:"exacta"`
}

// DefaultSet returns functions that form a partition of unity: every input
// has total membership 1 and the centroid of two neighbours reproduces the
// input, so inference never moves a score across a category boundary.
func DefaultSet() Set {
	return Set{
		Baja:   MembershipFunction{0, 0, 50},
		Media:  MembershipFunction{0, 50, 82.5},
		Alta:   MembershipFunction{50, 82.5, 100},
		Exacta: MembershipFunction{82.5, 100, 100},
	}
}

func (s Set) functions() [4]MembershipFunction {
	return [4]MembershipFunction{s.Baja, s.Media, s.Alta, s.Exacta}
}

// Degrees evaluates the four functions at x, ordered baja to exacta.
func (s Set) Degrees(x float64) [4]float64 {
	var out [4]float64
	for i, f := range s.functions() {
		out[i] = f.Degree(x)
	}
	return out
}

// Infer fuzzifies x and defuzzifies it back with the weighted centroid of
// the function peaks. With a single active function x is returned as is.
func (s Set) Infer(x float64) float64 {
	x = clamp(x)
	fns := s.functions()
	var num, den float64
	active := 0
	for i, d := range s.Degrees(x) {
		if d <= 0 {
			continue
		}
		active++
		num += fns[i].Peak * d
		den += d
	}
	if active <= 1 || den == 0 {
		return x
	}
	return clamp(num / den)
}

// Validate checks the shape of every function, that peaks increase, and that
// a function never overlaps the one two places after it.
func (s Set) Validate() error {
	fns := s.functions()
	for i, f := range fns {
		if f.Left < 0 || f.Right > 100 || f.Left > f.Peak || f.Peak > f.Right {
			return fmt.Errorf("membership %s: invalid triangle (%g, %g, %g)", Categories[i], f.Left, f.Peak, f.Right)
		}
		if i > 0 && f.Peak <= fns[i-1].Peak {
			return fmt.Errorf("membership %s: peak %g must exceed %s peak %g", Categories[i], f.Peak, Categories[i-1], fns[i-1].Peak)
		}
		if i > 1 && fns[i-2].Right > f.Left {
			return fmt.Errorf("membership %s overlaps %s", Categories[i-2], Categories[i])
		}
	}
	return nil
}

// Thresholds are the lowest scores of each category above baja.
type Thresholds struct {
	Exacta float64 `mapstructure:"exacta" json:"exacta" validate:"min=0,max=100"`
	Alta   float64 `mapstructure:"alta" json:"alta" validate:"min=0,max=100"`
	Media  float64 `mapstructure:"media" json:"media" validate:"min=0,max=100"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{Exacta: 90, Alta: 70, Media: 40}
}

func (t Thresholds) Categorize(score float64) Category {
	switch {
	case score >= t.Exacta:
		return Exacta
	case score >= t.Alta:
		return Alta
	case score >= t.Media:
		return Media
	default:
		return Baja
	}
}

func (t Thresholds) Validate() error {
	if !(t.Media <= t.Alta && t.Alta <= t.Exacta) {
		return fmt.Errorf("thresholds must satisfy media <= alta <= exacta, got %g, %g, %g", t.Media, t.Alta, t.Exacta)
	}
	return nil
}

func clamp(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(100, x))
}
