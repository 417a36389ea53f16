package canonical

import (
	"math"
	"sort"

	"github.com/semgate/semgate/internal/types"
	"github.com/semgate/semgate/internal/vector"
)

// DefaultMaxDeviation normalizes the convergence rate: a total
// deviation at or beyond this saturates the rate at 0. Policy
// constant, overridable per Analyzer.
const DefaultMaxDeviation = 50.0

// Deviation is the per-dimension difference current − ideal plus the
// aggregate Euclidean distance, both rounded to two decimals so output
// is reproducible across platforms.
type Deviation struct {
	PerDimension vector.Vector `json:"per_dimension"`
	Total        float64       `json:"total"`
}

// ConvergenceResult is the full comparison of a subject against its
// module type's canonical ideal.
type ConvergenceResult struct {
	ModuleType      types.ModuleType `json:"module_type"`
	Current         vector.Vector    `json:"current"`
	Ideal           vector.Vector    `json:"ideal"`
	Deviation       Deviation        `json:"deviation"`
	Direction       vector.Vector    `json:"direction"`
	IsStable        bool             `json:"is_stable"`
	ConvergenceRate float64          `json:"convergence_rate"`
}

// Analyzer compares vectors against canonical profiles. The zero
// value uses the default normalization constant.
type Analyzer struct {
	// MaxDeviation is the saturation point of the convergence rate
	// (0 means DefaultMaxDeviation).
	MaxDeviation float64
}

func (a Analyzer) maxDeviation() float64 {
	if a.MaxDeviation > 0 {
		return a.MaxDeviation
	}
	return DefaultMaxDeviation
}

// Analyze computes the convergence result for a vector under its
// module type's profile.
func (a Analyzer) Analyze(current vector.Vector, moduleType types.ModuleType) ConvergenceResult {
	profile := ProfileFor(moduleType)
	diff := current.Sub(profile.Ideal)

	dev := Deviation{
		PerDimension: roundVector(diff, 2),
		Total:        round(diff.Norm(), 2),
	}

	return ConvergenceResult{
		ModuleType:      moduleType,
		Current:         current,
		Ideal:           profile.Ideal,
		Deviation:       dev,
		Direction:       direction(diff),
		IsStable:        isStable(diff, profile.Tolerance),
		ConvergenceRate: a.rate(dev.Total),
	}
}

// direction normalizes the deviation to unit length. The zero
// deviation maps to the zero vector, never a division by zero.
func direction(diff vector.Vector) vector.Vector {
	norm := diff.Norm()
	if norm == 0 {
		return vector.Zero()
	}
	return diff.Scale(1 / norm)
}

// isStable requires every dimension individually inside its tolerance
// band. Aggregate closeness is not enough: one dimension far out of
// band is instability even when the others cancel it in the norm.
func isStable(diff, tolerance vector.Vector) bool {
	for _, axis := range types.Axes {
		if math.Abs(diff.Component(axis)) > tolerance.Component(axis) {
			return false
		}
	}
	return true
}

func (a Analyzer) rate(total float64) float64 {
	return round(1-math.Min(total/a.maxDeviation(), 1), 3)
}

// FindBestFit evaluates the vector against every known profile and
// returns the module type with the minimal aggregate deviation. Ties
// break by profile table order: the first minimal value wins.
func (a Analyzer) FindBestFit(current vector.Vector) (types.ModuleType, float64) {
	best := profileOrder[0]
	bestTotal := math.Inf(1)
	for _, mt := range profileOrder {
		total := a.Analyze(current, mt).Deviation.Total
		if total < bestTotal {
			best = mt
			bestTotal = total
		}
	}
	return best, bestTotal
}

// Status buckets a convergence result qualitatively. A stable result
// is canonical regardless of rate; otherwise the rate decides.
func Status(r ConvergenceResult) string {
	switch {
	case r.IsStable:
		return "canonical"
	case r.ConvergenceRate >= 0.8:
		return "near-canonical"
	case r.ConvergenceRate >= 0.5:
		return "drifting"
	default:
		return "divergent"
	}
}

// adviceTriggers are the per-dimension deviation magnitudes above
// which advice is emitted. Nesting and async trigger earlier because
// they compound fastest.
var adviceTriggers = map[types.Axis]float64{
	types.AxisControl:  3,
	types.AxisNesting:  2,
	types.AxisState:    3,
	types.AxisAsync:    2,
	types.AxisCoupling: 3,
}

var adviceMessages = map[types.Axis]string{
	types.AxisControl:  "reduce branching: extract decision tables or early returns",
	types.AxisNesting:  "flatten nesting: invert conditions or extract helper functions",
	types.AxisState:    "reduce state mutation: prefer derived values over stored ones",
	types.AxisAsync:    "consolidate async boundaries: fewer goroutine/await handoffs",
	types.AxisCoupling: "cut dependencies: narrow the imported surface of this module",
}

// Advice is one prioritized improvement suggestion.
type Advice struct {
	Axis      types.Axis `json:"axis"`
	Deviation float64    `json:"deviation"`
	Message   string     `json:"message"`
}

// AdviseFor generates dimension-specific advice for deviations above
// their triggers, sorted by magnitude so the worst offender comes
// first. Only excess complexity (positive deviation) draws advice.
func AdviseFor(r ConvergenceResult) []Advice {
	var out []Advice
	for _, axis := range types.Axes {
		dev := r.Deviation.PerDimension.Component(axis)
		if dev > adviceTriggers[axis] {
			out = append(out, Advice{
				Axis:      axis,
				Deviation: dev,
				Message:   adviceMessages[axis],
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Deviation > out[j].Deviation
	})
	return out
}

func round(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func roundVector(v vector.Vector, precision int) vector.Vector {
	return vector.Vector{
		Control:  round(v.Control, precision),
		Nesting:  round(v.Nesting, precision),
		State:    round(v.State, precision),
		Async:    round(v.Async, precision),
		Coupling: round(v.Coupling, precision),
	}
}
