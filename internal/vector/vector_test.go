package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semgate/semgate/internal/types"
)

func TestNew_Validation(t *testing.T) {
	v, err := New([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, Vector{Control: 1, Nesting: 2, State: 3, Async: 4, Coupling: 5}, v)

	_, err = New([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = New([]float64{1, 2, 3, 4, 5, 6})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestFromRecord_DirectAssignment(t *testing.T) {
	rec := types.FunctionRecord{
		BranchCount:        3,
		NestingDepth:       2,
		StateMutationCount: 4,
		AsyncBoundaryCount: 1,
		CouplingCount:      5,
	}
	v := FromRecord(rec)
	assert.Equal(t, Vector{Control: 3, Nesting: 2, State: 4, Async: 1, Coupling: 5}, v)
}

func TestAlgebra(t *testing.T) {
	a := Vector{Control: 1, Nesting: 2, State: 3, Async: 4, Coupling: 5}
	b := Vector{Control: 5, Nesting: 4, State: 3, Async: 2, Coupling: 1}

	assert.Equal(t, Vector{Control: 6, Nesting: 6, State: 6, Async: 6, Coupling: 6}, a.Add(b))
	assert.Equal(t, Vector{Control: -4, Nesting: -2, State: 0, Async: 2, Coupling: 4}, a.Sub(b))
	assert.Equal(t, Vector{Control: 2, Nesting: 4, State: 6, Async: 8, Coupling: 10}, a.Scale(2))

	// 5+8+9+8+5
	assert.InDelta(t, 35.0, a.Dot(b), 1e-12)
	assert.InDelta(t, math.Sqrt(55), a.Norm(), 1e-12)
	assert.InDelta(t, 15.0, a.Sum(), 1e-12)
}

func TestIsZero(t *testing.T) {
	assert.True(t, Zero().IsZero())
	assert.False(t, Vector{Async: 0.001}.IsZero())
}

func TestNewMatrix_Validation(t *testing.T) {
	_, err := NewMatrix([][]float64{{1, 0}, {0, 1}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	rows := [][]float64{
		{1, 0, 0, 0, 0},
		{0, 1, 0, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 0, 0, 1, 0},
		{0, 0, 0, 0, 1},
	}
	m, err := NewMatrix(rows)
	require.NoError(t, err)
	assert.True(t, m.IsSymmetric())

	rows[0][1] = 0.5 // no mirrored entry
	_, err = NewMatrix(rows)
	assert.ErrorIs(t, err, ErrNotSymmetric)
}

func TestQuadraticForm_Identity(t *testing.T) {
	var identity Matrix
	for i := 0; i < Dim; i++ {
		identity[i][i] = 1
	}
	v := Vector{Control: 1, Nesting: 2, State: 3, Async: 4, Coupling: 5}
	assert.InDelta(t, v.Dot(v), identity.QuadraticForm(v), 1e-12)
}

func TestModuleMatrices_AllSymmetric(t *testing.T) {
	moduleTypes := []types.ModuleType{
		types.ModuleAPI, types.ModuleLib, types.ModuleApp, types.ModuleWeb,
		types.ModuleData, types.ModuleInfra, types.ModuleDeploy, types.ModuleUnknown,
	}
	for _, mt := range moduleTypes {
		assert.True(t, MatrixFor(mt).IsSymmetric(), "matrix for %s must be symmetric", mt)
	}
}

func TestMatrixFor_Fallback(t *testing.T) {
	assert.Equal(t, DefaultMatrix, MatrixFor(types.ModuleUnknown))
	assert.Equal(t, DefaultMatrix, MatrixFor(types.ModuleType("bogus")))
	assert.NotEqual(t, DefaultMatrix, MatrixFor(types.ModuleAPI))
}

func TestInferModuleType(t *testing.T) {
	cases := []struct {
		path string
		want types.ModuleType
	}{
		{"src/api/users.go", types.ModuleAPI},
		{"internal/handlers/login.go", types.ModuleAPI},
		{"pkg/mathx/round.go", types.ModuleLib},
		{"cmd/server/main.go", types.ModuleApp},
		{"web/components/button.jsx", types.ModuleWeb},
		{"internal/models/user.go", types.ModuleData},
		{"internal/storage/store.go", types.ModuleInfra},
		{"deploy/prod/service.json", types.ModuleDeploy},
		{"charts/values.yaml", types.ModuleDeploy},
		{"Dockerfile", types.ModuleDeploy},
		{"random.go", types.ModuleUnknown},
		{"", types.ModuleUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, InferModuleType(tc.path), "path %q", tc.path)
	}
}

func TestResolveModuleType_ExplicitWins(t *testing.T) {
	// Explicit type is authoritative even when the path says otherwise.
	got := ResolveModuleType(types.ModuleLib, "src/api/users.go")
	assert.Equal(t, types.ModuleLib, got)

	got = ResolveModuleType("", "src/api/users.go")
	assert.Equal(t, types.ModuleAPI, got)

	got = ResolveModuleType(types.ModuleUnknown, "pkg/x/y.go")
	assert.Equal(t, types.ModuleLib, got)
}
