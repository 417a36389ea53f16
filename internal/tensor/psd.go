package tensor

import (
	"math"

	"github.com/semgate/semgate/internal/vector"
)

// psdEpsilon is the slack tolerated when checking diagonal dominance,
// so rounding in hand-edited matrices does not flag a valid form.
const psdEpsilon = 1e-9

// IsPositiveSemidefinite checks the matrix via diagonal dominance: a
// symmetric matrix whose every diagonal entry covers the absolute sum
// of its row's off-diagonal entries is PSD. This is a sufficient
// condition, cheap enough to run on every configuration load, and
// every matrix a user can reasonably hand-write for this model
// satisfies it.
func IsPositiveSemidefinite(m vector.Matrix, eps float64) bool {
	for i := 0; i < vector.Dim; i++ {
		offDiag := 0.0
		for j := 0; j < vector.Dim; j++ {
			if j != i {
				offDiag += math.Abs(m[i][j])
			}
		}
		if m[i][i]+eps < offDiag {
			return false
		}
	}
	return true
}

// powerIterations bounds the eigenvalue estimate loop. The matrices
// are 5×5 with a clear dominant eigenvalue, so convergence is fast.
const powerIterations = 100

// LargestEigenvalue estimates λmax of a symmetric matrix by power
// iteration with a Rayleigh quotient readout.
func LargestEigenvalue(m vector.Matrix) float64 {
	v := vector.Vector{Control: 1, Nesting: 1, State: 1, Async: 1, Coupling: 1}
	lambda := 0.0
	for i := 0; i < powerIterations; i++ {
		next := m.Apply(v)
		norm := next.Norm()
		if norm == 0 {
			return 0
		}
		v = next.Scale(1 / norm)
		prev := lambda
		lambda = m.QuadraticForm(v)
		if math.Abs(lambda-prev) < 1e-12 {
			break
		}
	}
	return lambda
}

// LipschitzBound returns an analytic bound on how fast the score can
// change within a ball of the given radius: ‖∇score‖ ≤ 2λmax·r + ‖w‖.
// A large bound means small vector edits can swing the score hard.
func LipschitzBound(m vector.Matrix, w vector.Vector, radius float64) float64 {
	return 2*LargestEigenvalue(m)*radius + w.Norm()
}

// EstimateLipschitz measures the observed score change rate between
// two concrete vectors. Returns 0 when the vectors coincide.
func EstimateLipschitz(a, b vector.Vector, m vector.Matrix, w vector.Vector) float64 {
	dist := a.Sub(b).Norm()
	if dist == 0 {
		return 0
	}
	scoreA := m.QuadraticForm(a) + a.Dot(w)
	scoreB := m.QuadraticForm(b) + b.Dot(w)
	return math.Abs(scoreA-scoreB) / dist
}
