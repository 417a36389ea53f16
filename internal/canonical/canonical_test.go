package canonical

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semgate/semgate/internal/types"
	"github.com/semgate/semgate/internal/vector"
)

func TestLevelOf_Boundaries(t *testing.T) {
	assert.Equal(t, LevelLow, LevelOf(0))
	assert.Equal(t, LevelLow, LevelOf(3.9))
	assert.Equal(t, LevelMedium, LevelOf(4))
	assert.Equal(t, LevelHigh, LevelOf(10))
	assert.Equal(t, LevelExtreme, LevelOf(20))
	assert.Equal(t, LevelExtreme, LevelOf(1000))
}

func TestRange_Representative(t *testing.T) {
	assert.InDelta(t, 2.0, RangeFor(LevelLow).Representative(), 1e-12)
	assert.InDelta(t, 7.0, RangeFor(LevelMedium).Representative(), 1e-12)
	assert.InDelta(t, 15.0, RangeFor(LevelHigh).Representative(), 1e-12)
	// Unbounded band: min + 10.
	assert.InDelta(t, 30.0, RangeFor(LevelExtreme).Representative(), 1e-12)
}

func TestProfileIdeals(t *testing.T) {
	assert.Equal(t, vector.Vector{Control: 2, Nesting: 2, State: 2, Async: 2, Coupling: 2}, ProfileFor(types.ModuleAPI).Ideal)
	assert.Equal(t, vector.Vector{Control: 7, Nesting: 2, State: 2, Async: 2, Coupling: 2}, ProfileFor(types.ModuleLib).Ideal)
	assert.Equal(t, vector.Vector{Control: 7, Nesting: 7, State: 7, Async: 7, Coupling: 2}, ProfileFor(types.ModuleApp).Ideal)

	// Unknown types analyze against the application profile.
	assert.Equal(t, ProfileFor(types.ModuleApp).Ideal, ProfileFor(types.ModuleUnknown).Ideal)
}

func TestRawSumThreshold(t *testing.T) {
	assert.InDelta(t, 20.0, RawSumThreshold(types.ModuleAPI), 1e-12)
	assert.InDelta(t, 26.0, RawSumThreshold(types.ModuleLib), 1e-12)
	assert.InDelta(t, 44.0, RawSumThreshold(types.ModuleApp), 1e-12)
}

func TestBounds(t *testing.T) {
	inside := vector.Vector{Control: 3, Nesting: 3, State: 3, Async: 3, Coupling: 3}
	assert.True(t, WithinBounds(inside, types.ModuleAPI))

	outside := vector.Vector{Control: 5, Nesting: 3, State: 3, Async: 3, Coupling: 3}
	assert.False(t, WithinBounds(outside, types.ModuleAPI))

	violations := BoundViolations(outside, types.ModuleAPI)
	require.Len(t, violations, 1)
	assert.Equal(t, types.AxisControl, violations[0].Axis)
	assert.InDelta(t, 5.0, violations[0].Actual, 1e-12)
	assert.InDelta(t, 4.0, violations[0].Bound, 1e-12)

	// Lib earns a control budget the API profile does not have.
	assert.True(t, WithinBounds(vector.Vector{Control: 8, Nesting: 2, State: 2, Async: 2, Coupling: 2}, types.ModuleLib))
}

func TestIsOrphan(t *testing.T) {
	assert.False(t, IsOrphan(vector.Vector{Control: 2, Nesting: 2, State: 2, Async: 2, Coupling: 2}))
	assert.True(t, IsOrphan(vector.Vector{Control: 30, Nesting: 30, State: 30, Async: 30, Coupling: 30}))
}

func TestCentroid(t *testing.T) {
	vs := []vector.Vector{
		{Control: 2, State: 4},
		{Control: 4, State: 0},
	}
	assert.Equal(t, vector.Vector{Control: 3, State: 2}, Centroid(vs))
	assert.True(t, Centroid(nil).IsZero())
}

func TestAnalyze_ZeroDeviationAtIdeal(t *testing.T) {
	var a Analyzer
	ideal := ProfileFor(types.ModuleLib).Ideal
	r := a.Analyze(ideal, types.ModuleLib)

	assert.Zero(t, r.Deviation.Total)
	assert.True(t, r.Direction.IsZero())
	assert.True(t, r.IsStable)
	assert.InDelta(t, 1.0, r.ConvergenceRate, 1e-12)
	assert.Equal(t, "canonical", Status(r))
}

func TestAnalyze_DirectionIsUnit(t *testing.T) {
	var a Analyzer
	r := a.Analyze(vector.Vector{Control: 9, Nesting: 5, State: 1, Async: 2, Coupling: 8}, types.ModuleAPI)
	assert.InDelta(t, 1.0, r.Direction.Norm(), 1e-9)
}

func TestAnalyze_AggregateSmallButDimensionUnstable(t *testing.T) {
	var a Analyzer
	// Total deviation is only 1.5, but nesting exceeds its tolerance
	// band of 1.0 on its own.
	current := vector.Vector{Control: 2, Nesting: 3.5, State: 2, Async: 2, Coupling: 2}
	r := a.Analyze(current, types.ModuleAPI)

	assert.InDelta(t, 1.5, r.Deviation.Total, 1e-12)
	assert.False(t, r.IsStable)
}

func TestAnalyze_RateSaturation(t *testing.T) {
	var a Analyzer
	far := vector.Vector{Control: 100, Nesting: 100, State: 100, Async: 100, Coupling: 100}
	r := a.Analyze(far, types.ModuleAPI)
	assert.Zero(t, r.ConvergenceRate)

	custom := Analyzer{MaxDeviation: 10}
	r = custom.Analyze(vector.Vector{Control: 7, Nesting: 2, State: 2, Async: 2, Coupling: 2}, types.ModuleAPI)
	// Total 5 against a max of 10.
	assert.InDelta(t, 0.5, r.ConvergenceRate, 1e-12)
}

func TestFindBestFit_LibIdeal(t *testing.T) {
	var a Analyzer
	mt, total := a.FindBestFit(ProfileFor(types.ModuleLib).Ideal)
	assert.Equal(t, types.ModuleLib, mt)
	assert.Zero(t, total)
}

func TestFindBestFit_TieBreaksByTableOrder(t *testing.T) {
	var a Analyzer
	// API and deploy share an all-low ideal; api comes first in the
	// profile table, so it wins the tie.
	mt, total := a.FindBestFit(vector.Vector{Control: 2, Nesting: 2, State: 2, Async: 2, Coupling: 2})
	assert.Equal(t, types.ModuleAPI, mt)
	assert.Zero(t, total)
}

func TestStatus_Buckets(t *testing.T) {
	var a Analyzer

	near := a.Analyze(vector.Vector{Control: 2, Nesting: 5, State: 2, Async: 2, Coupling: 2}, types.ModuleAPI)
	assert.False(t, near.IsStable)
	assert.Equal(t, "near-canonical", Status(near))

	drifting := a.Analyze(vector.Vector{Control: 17, Nesting: 2, State: 2, Async: 2, Coupling: 2}, types.ModuleAPI)
	assert.Equal(t, "drifting", Status(drifting))

	divergent := a.Analyze(vector.Vector{Control: 32, Nesting: 2, State: 2, Async: 2, Coupling: 2}, types.ModuleAPI)
	assert.Equal(t, "divergent", Status(divergent))
}

func TestAdviseFor(t *testing.T) {
	var a Analyzer
	r := a.Analyze(vector.Vector{Control: 6, Nesting: 5, State: 2, Async: 2, Coupling: 2}, types.ModuleAPI)
	advice := AdviseFor(r)

	require.Len(t, advice, 2)
	// Worst deviation first: control +4 ahead of nesting +3.
	assert.Equal(t, types.AxisControl, advice[0].Axis)
	assert.Equal(t, types.AxisNesting, advice[1].Axis)
	assert.NotEmpty(t, advice[0].Message)

	// Below-ideal dimensions draw no advice.
	under := a.Analyze(vector.Zero(), types.ModuleApp)
	assert.Empty(t, AdviseFor(under))
}

func TestDeviation_Rounding(t *testing.T) {
	var a Analyzer
	r := a.Analyze(vector.Vector{Control: 2.123456, Nesting: 2, State: 2, Async: 2, Coupling: 2}, types.ModuleAPI)
	assert.InDelta(t, 0.12, r.Deviation.PerDimension.Control, 1e-12)
	assert.InDelta(t, 0.12, r.Deviation.Total, 1e-12)
	assert.False(t, math.Signbit(r.Deviation.Total))
}
