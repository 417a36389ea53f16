// Package vector implements the fixed-dimension complexity vector and
// the per-module-type interaction matrices, along with the small
// algebra the rest of the engine is built on. All operations are pure;
// malformed algebraic input is rejected at construction, never carried
// forward.
package vector

import (
	"errors"
	"fmt"
	"math"

	"github.com/semgate/semgate/internal/types"
)

// Dim is the fixed dimension of the complexity space.
const Dim = 5

var (
	// ErrDimensionMismatch reports a vector or matrix built with the
	// wrong number of components.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNotSymmetric reports an interaction matrix that is not
	// symmetric and therefore cannot define a quadratic form.
	ErrNotSymmetric = errors.New("matrix is not symmetric")
)

// Vector is a 5-dimensional complexity vector. Components are
// non-negative counts (or count-derived reals) and the value is
// immutable once produced for an analysis snapshot.
type Vector struct {
	Control  float64 `json:"control"`
	Nesting  float64 `json:"nesting"`
	State    float64 `json:"state"`
	Async    float64 `json:"async"`
	Coupling float64 `json:"coupling"`
}

// New builds a Vector from a component slice. The slice must have
// exactly Dim entries.
func New(components []float64) (Vector, error) {
	if len(components) != Dim {
		return Vector{}, fmt.Errorf("%w: got %d components, want %d", ErrDimensionMismatch, len(components), Dim)
	}
	return Vector{
		Control:  components[0],
		Nesting:  components[1],
		State:    components[2],
		Async:    components[3],
		Coupling: components[4],
	}, nil
}

// FromRecord maps raw per-function counts onto the vector by direct
// assignment. No transformation beyond the int-to-float conversion.
func FromRecord(rec types.FunctionRecord) Vector {
	return Vector{
		Control:  float64(rec.BranchCount),
		Nesting:  float64(rec.NestingDepth),
		State:    float64(rec.StateMutationCount),
		Async:    float64(rec.AsyncBoundaryCount),
		Coupling: float64(rec.CouplingCount),
	}
}

// Zero returns the zero vector.
func Zero() Vector {
	return Vector{}
}

// Array returns the components in canonical axis order.
func (v Vector) Array() [Dim]float64 {
	return [Dim]float64{v.Control, v.Nesting, v.State, v.Async, v.Coupling}
}

// Component returns the value for the named axis.
func (v Vector) Component(axis types.Axis) float64 {
	switch axis {
	case types.AxisControl:
		return v.Control
	case types.AxisNesting:
		return v.Nesting
	case types.AxisState:
		return v.State
	case types.AxisAsync:
		return v.Async
	case types.AxisCoupling:
		return v.Coupling
	}
	return 0
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{
		Control:  v.Control + o.Control,
		Nesting:  v.Nesting + o.Nesting,
		State:    v.State + o.State,
		Async:    v.Async + o.Async,
		Coupling: v.Coupling + o.Coupling,
	}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{
		Control:  v.Control - o.Control,
		Nesting:  v.Nesting - o.Nesting,
		State:    v.State - o.State,
		Async:    v.Async - o.Async,
		Coupling: v.Coupling - o.Coupling,
	}
}

// Scale returns k·v.
func (v Vector) Scale(k float64) Vector {
	return Vector{
		Control:  v.Control * k,
		Nesting:  v.Nesting * k,
		State:    v.State * k,
		Async:    v.Async * k,
		Coupling: v.Coupling * k,
	}
}

// Dot returns the inner product ⟨v,o⟩.
func (v Vector) Dot(o Vector) float64 {
	a, b := v.Array(), o.Array()
	sum := 0.0
	for i := 0; i < Dim; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm returns the Euclidean (L2) norm.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Sum returns the plain component sum, used by the raw-sum ratio zone
// classification.
func (v Vector) Sum() float64 {
	return v.Control + v.Nesting + v.State + v.Async + v.Coupling
}

// IsZero reports whether every component is exactly zero.
func (v Vector) IsZero() bool {
	return v == Vector{}
}

// DefaultWeights returns the linear weight vector for the tensor
// score. Later dimensions carry more weight because their complexity
// compounds across module boundaries.
func DefaultWeights() Vector {
	return Vector{
		Control:  1.0,
		Nesting:  1.5,
		State:    2.0,
		Async:    2.5,
		Coupling: 3.0,
	}
}
