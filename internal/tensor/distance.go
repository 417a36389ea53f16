package tensor

import (
	"math"

	"github.com/semgate/semgate/internal/vector"
)

// EuclideanDistance returns ‖a−b‖, the geometry-free distance between
// two complexity vectors.
func EuclideanDistance(a, b vector.Vector) float64 {
	return a.Sub(b).Norm()
}

// MahalanobisDistance measures distance through the interaction
// matrix, so dimensions the matrix amplifies count for more. The
// quadratic form is taken in absolute value before the square root;
// an indefinite matrix still yields a usable magnitude instead of NaN.
func MahalanobisDistance(a, b vector.Vector, m vector.Matrix) float64 {
	diff := a.Sub(b)
	return math.Sqrt(math.Abs(m.QuadraticForm(diff)))
}
