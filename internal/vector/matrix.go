package vector

import (
	"fmt"
	"math"

	"github.com/semgate/semgate/internal/types"
)

// Matrix is a symmetric Dim×Dim interaction matrix. Diagonal terms
// self-weight a dimension; off-diagonal terms encode how two
// dimensions amplify each other's risk.
type Matrix [Dim][Dim]float64

// symmetryEps tolerates float drift when validating hand-edited
// matrix overrides.
const symmetryEps = 1e-9

// NewMatrix builds a Matrix from row slices, rejecting non-square
// input and asymmetric content.
func NewMatrix(rows [][]float64) (Matrix, error) {
	var m Matrix
	if len(rows) != Dim {
		return m, fmt.Errorf("%w: got %d rows, want %d", ErrDimensionMismatch, len(rows), Dim)
	}
	for i, row := range rows {
		if len(row) != Dim {
			return m, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), Dim)
		}
		copy(m[i][:], row)
	}
	if !m.IsSymmetric() {
		return m, ErrNotSymmetric
	}
	return m, nil
}

// IsSymmetric reports whether m equals its transpose within a small
// tolerance.
func (m Matrix) IsSymmetric() bool {
	for i := 0; i < Dim; i++ {
		for j := i + 1; j < Dim; j++ {
			if math.Abs(m[i][j]-m[j][i]) > symmetryEps {
				return false
			}
		}
	}
	return true
}

// Apply returns M·v.
func (m Matrix) Apply(v Vector) Vector {
	a := v.Array()
	var out [Dim]float64
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			out[i] += m[i][j] * a[j]
		}
	}
	r, _ := New(out[:])
	return r
}

// QuadraticForm returns vᵀMv.
func (m Matrix) QuadraticForm(v Vector) float64 {
	a := v.Array()
	result := 0.0
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			result += a[i] * m[i][j] * a[j]
		}
	}
	return result
}

// DefaultMatrix is the interaction matrix used when no module-type
// override exists.
var DefaultMatrix = Matrix{
	//  C     N     S     A     Λ
	{1.0, 0.3, 0.2, 0.2, 0.3}, // control
	{0.3, 1.0, 0.4, 0.8, 0.2}, // nesting × async amplification
	{0.2, 0.4, 1.0, 0.5, 0.9}, // state × coupling amplification
	{0.2, 0.8, 0.5, 1.0, 0.4},
	{0.3, 0.2, 0.9, 0.4, 1.0},
}

// moduleMatrices holds the per-module-type overrides. Each matrix
// stays symmetric and diagonally dominant so the quadratic form is
// well-defined.
var moduleMatrices = map[types.ModuleType]Matrix{
	types.ModuleAPI: {
		// Boundary modules: state × coupling is the failure mode.
		{1.0, 0.2, 0.3, 0.2, 0.4},
		{0.2, 1.0, 0.3, 0.6, 0.2},
		{0.3, 0.3, 1.0, 0.4, 1.5},
		{0.2, 0.6, 0.4, 1.0, 0.5},
		{0.4, 0.2, 1.5, 0.5, 1.0},
	},
	types.ModuleLib: {
		// Algorithmic code: control × nesting dominates.
		{1.0, 1.2, 0.2, 0.2, 0.2},
		{1.2, 1.0, 0.3, 0.5, 0.2},
		{0.2, 0.3, 1.0, 0.3, 0.6},
		{0.2, 0.5, 0.3, 1.0, 0.3},
		{0.2, 0.2, 0.6, 0.3, 1.0},
	},
	types.ModuleApp: {
		// Workflow code: state × async dominates.
		{1.0, 0.3, 0.3, 0.3, 0.3},
		{0.3, 1.0, 0.5, 0.9, 0.2},
		{0.3, 0.5, 1.0, 1.3, 0.7},
		{0.3, 0.9, 1.3, 1.0, 0.4},
		{0.3, 0.2, 0.7, 0.4, 1.0},
	},
	types.ModuleWeb: {
		// Component hierarchies: nesting self-weight raised.
		{1.0, 0.5, 0.2, 0.4, 0.2},
		{0.5, 1.5, 0.3, 0.6, 0.2},
		{0.2, 0.3, 1.0, 0.3, 0.5},
		{0.4, 0.6, 0.3, 1.0, 0.3},
		{0.2, 0.2, 0.5, 0.3, 1.0},
	},
	types.ModuleData: {
		// Entity definitions: state self-weight raised.
		{1.0, 0.2, 0.3, 0.1, 0.4},
		{0.2, 1.0, 0.2, 0.1, 0.2},
		{0.3, 0.2, 1.5, 0.2, 0.8},
		{0.1, 0.1, 0.2, 1.0, 0.2},
		{0.4, 0.2, 0.8, 0.2, 1.0},
	},
	types.ModuleInfra: {
		// IO adapters: async and coupling self-weights raised.
		{1.0, 0.2, 0.2, 0.3, 0.4},
		{0.2, 1.0, 0.2, 0.3, 0.2},
		{0.2, 0.2, 1.0, 0.4, 0.6},
		{0.3, 0.3, 0.4, 1.5, 0.8},
		{0.4, 0.2, 0.6, 0.8, 1.5},
	},
	types.ModuleDeploy: {
		// Declarative config: every interaction should be minimal.
		{1.0, 0.1, 0.1, 0.1, 0.2},
		{0.1, 1.0, 0.1, 0.1, 0.1},
		{0.1, 0.1, 1.0, 0.1, 0.3},
		{0.1, 0.1, 0.1, 1.0, 0.2},
		{0.2, 0.1, 0.3, 0.2, 1.0},
	},
}

// MatrixFor returns the interaction matrix for a module type, falling
// back to DefaultMatrix when no override exists.
func MatrixFor(moduleType types.ModuleType) Matrix {
	if m, ok := moduleMatrices[moduleType]; ok {
		return m
	}
	return DefaultMatrix
}
