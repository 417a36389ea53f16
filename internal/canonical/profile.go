// Package canonical holds the per-module-type target profiles and the
// convergence analysis that compares a subject's complexity vector
// against its type's ideal. Profiles are design policy, fixed at
// startup, never derived from analysis output.
package canonical

import (
	"github.com/semgate/semgate/internal/types"
	"github.com/semgate/semgate/internal/vector"
)

// Level names a coarse complexity band for one dimension.
type Level string

const (
	LevelLow     Level = "low"
	LevelMedium  Level = "medium"
	LevelHigh    Level = "high"
	LevelExtreme Level = "extreme"
)

// Range is the numeric band behind a Level. Unbounded marks the top
// band, which has no finite maximum.
type Range struct {
	Min       float64
	Max       float64
	Unbounded bool
}

// Representative returns the band's ideal point: the midpoint for a
// finite band, Min+10 for the unbounded top band.
func (r Range) Representative() float64 {
	if r.Unbounded {
		return r.Min + 10
	}
	return (r.Min + r.Max) / 2
}

// levelRanges is the ordered band table. Order matters: level lookup
// by value returns the first band that contains it.
var levelRanges = []struct {
	Level Level
	Range Range
}{
	{LevelLow, Range{Min: 0, Max: 4}},
	{LevelMedium, Range{Min: 4, Max: 10}},
	{LevelHigh, Range{Min: 10, Max: 20}},
	{LevelExtreme, Range{Min: 20, Unbounded: true}},
}

// RangeFor returns the numeric band for a level. Unknown levels fall
// back to the low band.
func RangeFor(level Level) Range {
	for _, lr := range levelRanges {
		if lr.Level == level {
			return lr.Range
		}
	}
	return levelRanges[0].Range
}

// LevelOf classifies a single dimension value into its band.
func LevelOf(value float64) Level {
	for _, lr := range levelRanges {
		if lr.Range.Unbounded || value < lr.Range.Max {
			return lr.Level
		}
	}
	return LevelExtreme
}

// Profile is one module type's canonical target: a per-dimension
// level, the ideal vector those levels represent, and a per-dimension
// stability tolerance.
type Profile struct {
	ModuleType types.ModuleType
	Levels     [vector.Dim]Level
	Ideal      vector.Vector
	Tolerance  vector.Vector
}

// defaultTolerance is the per-dimension stability band shared by all
// profiles. Nesting and async get the tight band: one extra level of
// either is already structural drift.
var defaultTolerance = vector.Vector{
	Control:  2.0,
	Nesting:  1.0,
	State:    2.0,
	Async:    1.0,
	Coupling: 2.0,
}

func makeProfile(mt types.ModuleType, levels [vector.Dim]Level) Profile {
	components := make([]float64, vector.Dim)
	for i, level := range levels {
		components[i] = RangeFor(level).Representative()
	}
	ideal, _ := vector.New(components)
	return Profile{
		ModuleType: mt,
		Levels:     levels,
		Ideal:      ideal,
		Tolerance:  defaultTolerance,
	}
}

// profileOrder fixes the iteration order for best-fit inference. The
// first profile with the minimal deviation wins, so this order is an
// observable part of the contract.
var profileOrder = []types.ModuleType{
	types.ModuleAPI,
	types.ModuleLib,
	types.ModuleApp,
	types.ModuleWeb,
	types.ModuleData,
	types.ModuleInfra,
	types.ModuleDeploy,
}

// profiles encodes where each module type is allowed to be complex.
// API boundaries and deployment config should be thin everywhere;
// libraries earn their control-flow budget; application workflows
// earn state and async.
var profiles = map[types.ModuleType]Profile{
	types.ModuleAPI:    makeProfile(types.ModuleAPI, [vector.Dim]Level{LevelLow, LevelLow, LevelLow, LevelLow, LevelLow}),
	types.ModuleLib:    makeProfile(types.ModuleLib, [vector.Dim]Level{LevelMedium, LevelLow, LevelLow, LevelLow, LevelLow}),
	types.ModuleApp:    makeProfile(types.ModuleApp, [vector.Dim]Level{LevelMedium, LevelMedium, LevelMedium, LevelMedium, LevelLow}),
	types.ModuleWeb:    makeProfile(types.ModuleWeb, [vector.Dim]Level{LevelMedium, LevelMedium, LevelLow, LevelLow, LevelLow}),
	types.ModuleData:   makeProfile(types.ModuleData, [vector.Dim]Level{LevelLow, LevelLow, LevelMedium, LevelLow, LevelLow}),
	types.ModuleInfra:  makeProfile(types.ModuleInfra, [vector.Dim]Level{LevelLow, LevelLow, LevelLow, LevelMedium, LevelMedium}),
	types.ModuleDeploy: makeProfile(types.ModuleDeploy, [vector.Dim]Level{LevelLow, LevelLow, LevelLow, LevelLow, LevelLow}),
}

// ProfileFor returns the canonical profile for a module type, falling
// back to the application profile for unknown types.
func ProfileFor(moduleType types.ModuleType) Profile {
	if p, ok := profiles[moduleType]; ok {
		return p
	}
	return profiles[types.ModuleApp]
}

// UpperBounds returns the per-dimension band maxima for a module
// type's profile.
func UpperBounds(moduleType types.ModuleType) vector.Vector {
	p := ProfileFor(moduleType)
	components := make([]float64, vector.Dim)
	for i, level := range p.Levels {
		r := RangeFor(level)
		if r.Unbounded {
			components[i] = r.Representative()
		} else {
			components[i] = r.Max
		}
	}
	bounds, _ := vector.New(components)
	return bounds
}

// RawSumThreshold is the component sum of a profile's upper bounds,
// used as the denominator of the raw-sum ratio zone classification.
func RawSumThreshold(moduleType types.ModuleType) float64 {
	return UpperBounds(moduleType).Sum()
}

// WithinBounds reports whether every dimension of v sits inside the
// profile's band maxima.
func WithinBounds(v vector.Vector, moduleType types.ModuleType) bool {
	return len(BoundViolations(v, moduleType)) == 0
}

// BoundViolation names one dimension exceeding its band maximum.
type BoundViolation struct {
	Axis   types.Axis `json:"axis"`
	Actual float64    `json:"actual"`
	Bound  float64    `json:"bound"`
}

// BoundViolations lists the dimensions of v exceeding the profile's
// band maxima, in canonical axis order.
func BoundViolations(v vector.Vector, moduleType types.ModuleType) []BoundViolation {
	bounds := UpperBounds(moduleType)
	var out []BoundViolation
	for _, axis := range types.Axes {
		actual := v.Component(axis)
		bound := bounds.Component(axis)
		if actual > bound {
			out = append(out, BoundViolation{Axis: axis, Actual: actual, Bound: bound})
		}
	}
	return out
}

// IsOrphan reports whether v fits inside no known profile's bounds.
// Orphans usually mean a function grew past its module's role and
// belongs somewhere else.
func IsOrphan(v vector.Vector) bool {
	for _, mt := range profileOrder {
		if WithinBounds(v, mt) {
			return false
		}
	}
	return true
}

// Centroid returns the component-wise mean of a set of vectors, the
// module's center of mass in complexity space. Empty input yields the
// zero vector.
func Centroid(vs []vector.Vector) vector.Vector {
	if len(vs) == 0 {
		return vector.Zero()
	}
	sum := vector.Zero()
	for _, v := range vs {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(vs)))
}
