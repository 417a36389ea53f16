package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semgate/semgate/internal/types"
	"github.com/semgate/semgate/internal/vector"
)

func identityMatrix() vector.Matrix {
	var m vector.Matrix
	for i := 0; i < vector.Dim; i++ {
		m[i][i] = 1
	}
	return m
}

func TestScore_NonNegativeForPSDMatrix(t *testing.T) {
	m := identityMatrix()
	w := vector.Zero()
	vectors := []vector.Vector{
		vector.Zero(),
		{Control: 1, Nesting: 2, State: 3, Async: 4, Coupling: 5},
		{Control: 0.5, Coupling: 0.5},
		{Control: -2, State: -3}, // quadratic form still non-negative
	}
	for _, v := range vectors {
		score, err := Score(v, m, w)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, 0.0, "vector %+v", v)
	}
}

func TestScore_RejectsAsymmetric(t *testing.T) {
	m := identityMatrix()
	m[0][1] = 0.5
	_, err := Score(vector.Zero(), m, vector.Zero())
	assert.ErrorIs(t, err, vector.ErrNotSymmetric)
}

func TestScore_RejectsIndefinite(t *testing.T) {
	// Symmetric but with zero diagonal under a large off-diagonal,
	// so (1,-1,0,0,0) maps to a negative form.
	var m vector.Matrix
	m[0][1] = 1
	m[1][0] = 1
	_, err := Score(vector.Zero(), m, vector.Zero())
	assert.ErrorIs(t, err, ErrNotPositiveSemidefinite)
}

func TestCompute_DefaultBreakdown(t *testing.T) {
	v := vector.Vector{Control: 1, Nesting: 1, State: 1, Async: 1, Coupling: 1}
	score, err := Compute(v, types.ModuleUnknown, Options{RawSumThreshold: 10})
	require.NoError(t, err)

	// linear = 1+1.5+2+2.5+3, quadratic = 13.4 * 0.1
	assert.InDelta(t, 10.0, score.Linear, 1e-9)
	assert.InDelta(t, 1.34, score.Quadratic, 1e-9)
	assert.InDelta(t, 11.34, score.Raw, 1e-9)
	assert.InDelta(t, 0.1, score.Regularization, 1e-9)
	assert.InDelta(t, 11.44, score.Regularized, 1e-9)
	assert.InDelta(t, 5.0, score.RawSum, 1e-9)
	assert.InDelta(t, 0.5, score.RawSumRatio, 1e-9)
	assert.Equal(t, "safe", score.Zone())
	assert.Equal(t, DefaultEpsilon, score.Epsilon)
}

func TestCompute_ZeroVector(t *testing.T) {
	score, err := Compute(vector.Zero(), types.ModuleLib, Options{})
	require.NoError(t, err)
	assert.Zero(t, score.Regularized)
	assert.Zero(t, score.RawSumRatio)
}

func TestCompute_CustomMatrixValidated(t *testing.T) {
	bad := identityMatrix()
	bad[2][3] = 0.9 // breaks symmetry
	_, err := Compute(vector.Zero(), types.ModuleAPI, Options{Matrix: &bad})
	assert.ErrorIs(t, err, vector.ErrNotSymmetric)

	var indefinite vector.Matrix
	indefinite[0][1] = 1
	indefinite[1][0] = 1
	_, err = Compute(vector.Zero(), types.ModuleAPI, Options{Matrix: &indefinite})
	assert.ErrorIs(t, err, ErrNotPositiveSemidefinite)

	good := identityMatrix()
	score, err := Compute(vector.Vector{Control: 2}, types.ModuleAPI, Options{Matrix: &good})
	require.NoError(t, err)
	// quadratic = 4 * 0.1, linear = 2
	assert.InDelta(t, 2.4, score.Raw, 1e-9)
}

func TestClassifyLevel_Boundaries(t *testing.T) {
	assert.Equal(t, LevelMinimal, ClassifyLevel(0))
	assert.Equal(t, LevelMinimal, ClassifyLevel(1.99))
	assert.Equal(t, LevelLow, ClassifyLevel(2))
	assert.Equal(t, LevelMedium, ClassifyLevel(5))
	assert.Equal(t, LevelHigh, ClassifyLevel(10))
	assert.Equal(t, LevelExtreme, ClassifyLevel(20))
}

func TestZone_Boundaries(t *testing.T) {
	assert.Equal(t, "safe", TensorScore{RawSumRatio: 0.69}.Zone())
	assert.Equal(t, "review", TensorScore{RawSumRatio: 0.7}.Zone())
	assert.Equal(t, "review", TensorScore{RawSumRatio: 0.99}.Zone())
	assert.Equal(t, "violation", TensorScore{RawSumRatio: 1.0}.Zone())
}

func TestIsPositiveSemidefinite(t *testing.T) {
	assert.True(t, IsPositiveSemidefinite(identityMatrix(), psdEpsilon))

	var indefinite vector.Matrix
	indefinite[0][1] = 1
	indefinite[1][0] = 1
	assert.False(t, IsPositiveSemidefinite(indefinite, psdEpsilon))
}

func TestLargestEigenvalue(t *testing.T) {
	assert.InDelta(t, 1.0, LargestEigenvalue(identityMatrix()), 1e-9)

	var diag vector.Matrix
	for i := 0; i < vector.Dim; i++ {
		diag[i][i] = float64(i + 1)
	}
	assert.InDelta(t, 5.0, LargestEigenvalue(diag), 1e-6)
}

func TestLipschitz_BoundCoversEstimate(t *testing.T) {
	m := identityMatrix()
	w := vector.DefaultWeights()
	a := vector.Vector{Control: 1, Nesting: 1, State: 1, Async: 1, Coupling: 1}
	b := vector.Vector{Control: 2, Nesting: 1, State: 2, Async: 1, Coupling: 2}

	radius := math.Max(a.Norm(), b.Norm())
	bound := LipschitzBound(m, w, radius)
	estimate := EstimateLipschitz(a, b, m, w)

	assert.Greater(t, estimate, 0.0)
	assert.LessOrEqual(t, estimate, bound)
}

func TestEstimateLipschitz_SamePoint(t *testing.T) {
	v := vector.Vector{Control: 3, State: 1}
	assert.Zero(t, EstimateLipschitz(v, v, identityMatrix(), vector.Zero()))
}

func TestDistances(t *testing.T) {
	a := vector.Vector{Control: 3, Nesting: 4}
	b := vector.Zero()

	assert.InDelta(t, 5.0, EuclideanDistance(a, b), 1e-12)

	// Identity metric collapses to Euclidean.
	assert.InDelta(t, 5.0, MahalanobisDistance(a, b, identityMatrix()), 1e-12)

	m := vector.MatrixFor(types.ModuleAPI)
	assert.InDelta(t,
		MahalanobisDistance(a, b, m),
		MahalanobisDistance(b, a, m), 1e-12)
}

func TestSplitVector(t *testing.T) {
	algo := SplitVector(vector.Vector{Control: 3, Nesting: 4})
	assert.Equal(t, "algorithmic", algo.Dominant)
	assert.InDelta(t, 25.0, algo.Total, 1e-9)

	arch := SplitVector(vector.Vector{State: 3, Async: 3, Coupling: 3})
	assert.Equal(t, "architectural", arch.Dominant)

	mixed := SplitVector(vector.Vector{Control: 2, Nesting: 2, State: 2, Async: 1})
	assert.Equal(t, "balanced", mixed.Dominant)

	assert.Equal(t, "balanced", SplitVector(vector.Zero()).Dominant)
}

func TestDecomposeField_SharedCause(t *testing.T) {
	d := vector.Vector{Control: 2, Coupling: 2}
	field := DecomposeField([]vector.Vector{d, d, d})

	assert.Equal(t, d, field.Gradient)
	assert.Zero(t, field.ResidualEnergy)
	assert.False(t, field.Structural)
}

func TestDecomposeField_Structural(t *testing.T) {
	d := vector.Vector{Control: 3, State: 1}
	field := DecomposeField([]vector.Vector{d, d.Scale(-1)})

	// Opposing deviations cancel: no shared cause explains the field.
	assert.True(t, field.Gradient.IsZero())
	assert.InDelta(t, field.TotalEnergy, field.ResidualEnergy, 1e-9)
	assert.True(t, field.Structural)
}

func TestDecomposeField_Empty(t *testing.T) {
	field := DecomposeField(nil)
	assert.Zero(t, field.TotalEnergy)
	assert.False(t, field.Structural)
}

func TestHistory_Trend(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, "stable", h.Trend())

	h.Add(10)
	h.Add(8)
	h.Add(6)
	assert.Equal(t, "improving", h.Trend())

	w := NewHistory(5)
	w.Add(2)
	w.Add(6)
	assert.Equal(t, "worsening", w.Trend())
}

func TestHistory_Oscillation(t *testing.T) {
	h := NewHistory(10)
	for _, s := range []float64{5, 10, 5, 10, 5} {
		h.Add(s)
	}
	assert.True(t, h.IsOscillating())

	mono := NewHistory(10)
	for _, s := range []float64{10, 8, 6, 4, 2} {
		mono.Add(s)
	}
	assert.False(t, mono.IsOscillating())
}

func TestHistory_WindowEviction(t *testing.T) {
	h := NewHistory(3)
	for _, s := range []float64{1, 2, 3, 4, 5} {
		h.Add(s)
	}
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, "worsening", h.Trend())
}
