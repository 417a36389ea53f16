package tensor

import (
	"github.com/semgate/semgate/internal/vector"
)

// VectorSplit partitions one vector's energy into its algorithmic part
// (control, nesting: complexity you refactor within a function) and
// its architectural part (state, async, coupling: complexity you only
// remove by restructuring module boundaries).
type VectorSplit struct {
	Algorithmic   float64 `json:"algorithmic"`
	Architectural float64 `json:"architectural"`
	Total         float64 `json:"total"`
	Dominant      string  `json:"dominant"`
}

// dominanceShare is the energy share one part must hold before it is
// named dominant rather than balanced.
const dominanceShare = 0.7

// SplitVector computes the algorithmic/architectural energy split for
// a single vector.
func SplitVector(v vector.Vector) VectorSplit {
	algorithmic := v.Control*v.Control + v.Nesting*v.Nesting
	architectural := v.State*v.State + v.Async*v.Async + v.Coupling*v.Coupling
	total := algorithmic + architectural

	dominant := "balanced"
	if total > 0 {
		switch {
		case algorithmic/total >= dominanceShare:
			dominant = "algorithmic"
		case architectural/total >= dominanceShare:
			dominant = "architectural"
		}
	}

	return VectorSplit{
		Algorithmic:   round(algorithmic, 2),
		Architectural: round(architectural, 2),
		Total:         round(total, 2),
		Dominant:      dominant,
	}
}

// FieldDecomposition is the Hodge-style split of a deviation field
// (one deviation vector per function) into a gradient component that
// a single shared cause explains and a residual the shared cause does
// not explain.
//
// The gradient component is the least-squares constant field, which is
// the mean deviation. When the residual carries most of the energy, no
// single refactoring helps every function at once and the advice is
// structural decomposition instead.
type FieldDecomposition struct {
	Gradient       vector.Vector `json:"gradient"`
	GradientEnergy float64       `json:"gradient_energy"`
	ResidualEnergy float64       `json:"residual_energy"`
	TotalEnergy    float64       `json:"total_energy"`
	ResidualRatio  float64       `json:"residual_ratio"`
	Structural     bool          `json:"structural"`
}

// structuralRatio is the residual share above which the field is
// considered structurally divergent.
const structuralRatio = 0.5

// DecomposeField splits a deviation field around its mean. An empty
// field decomposes to all zeros.
func DecomposeField(deviations []vector.Vector) FieldDecomposition {
	if len(deviations) == 0 {
		return FieldDecomposition{}
	}

	mean := vector.Zero()
	for _, d := range deviations {
		mean = mean.Add(d)
	}
	mean = mean.Scale(1 / float64(len(deviations)))

	total := 0.0
	residual := 0.0
	for _, d := range deviations {
		total += d.Dot(d)
		r := d.Sub(mean)
		residual += r.Dot(r)
	}
	gradient := total - residual
	if gradient < 0 {
		gradient = 0
	}

	ratio := 0.0
	if total > 0 {
		ratio = residual / total
	}

	return FieldDecomposition{
		Gradient:       mean,
		GradientEnergy: round(gradient, 2),
		ResidualEnergy: round(residual, 2),
		TotalEnergy:    round(total, 2),
		ResidualRatio:  round(ratio, 3),
		Structural:     ratio > structuralRatio,
	}
}
