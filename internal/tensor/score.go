// Package tensor computes scalar risk scores from complexity vectors
// and interaction matrices, validates matrix well-formedness, and
// decomposes deviation fields for refactoring guidance.
//
// The score model is score = vᵀMv + ⟨v,w⟩: the diagonal of M carries
// direct per-dimension cost, the off-diagonal terms carry
// cross-dimension amplification, and w is a linear baseline.
package tensor

import (
	"errors"
	"math"

	"github.com/semgate/semgate/internal/types"
	"github.com/semgate/semgate/internal/vector"
)

// ErrNotPositiveSemidefinite reports an interaction matrix whose
// quadratic form could go negative. This is a configuration error,
// distinct from any low score.
var ErrNotPositiveSemidefinite = errors.New("matrix is not positive semidefinite")

// Default policy constants. Epsilon regularizes the composite score;
// the scale factors keep the quadratic and regularization terms in
// the same range as the linear baseline.
const (
	DefaultEpsilon      = 2.0
	quadraticScale      = 0.1
	regularizationScale = 0.01
)

// Score computes vᵀMv + ⟨v,w⟩ after checking that M defines a valid
// quadratic form. Ill-formed matrices are flagged, never clamped.
func Score(v vector.Vector, m vector.Matrix, w vector.Vector) (float64, error) {
	if !m.IsSymmetric() {
		return 0, vector.ErrNotSymmetric
	}
	if !IsPositiveSemidefinite(m, psdEpsilon) {
		return 0, ErrNotPositiveSemidefinite
	}
	return m.QuadraticForm(v) + v.Dot(w), nil
}

// TensorScore is the full composite score breakdown for one vector.
type TensorScore struct {
	Linear          float64          `json:"linear"`
	Quadratic       float64          `json:"quadratic"`
	Raw             float64          `json:"raw"`
	Regularization  float64          `json:"regularization"`
	Regularized     float64          `json:"regularized"`
	Epsilon         float64          `json:"epsilon"`
	ModuleType      types.ModuleType `json:"module_type"`
	Vector          vector.Vector    `json:"vector"`
	RawSum          float64          `json:"raw_sum"`
	RawSumThreshold float64          `json:"raw_sum_threshold"`
	RawSumRatio     float64          `json:"raw_sum_ratio"`
}

// Options tunes a Compute call. The zero value selects the module
// type's table matrix, default weights, and DefaultEpsilon.
type Options struct {
	// Matrix overrides the module-type table matrix. Overrides are
	// user configuration and are validated; table matrices are not.
	Matrix *vector.Matrix

	// Weights overrides the default linear weight vector.
	Weights *vector.Vector

	// Epsilon overrides the regularization epsilon (0 means default).
	Epsilon float64

	// RawSumThreshold, when positive, enables the raw-sum ratio zone
	// classification against the canonical profile's upper bounds.
	RawSumThreshold float64
}

// Compute produces the composite tensor score for a vector in the
// context of its module type.
func Compute(v vector.Vector, moduleType types.ModuleType, opts Options) (TensorScore, error) {
	epsilon := opts.Epsilon
	if epsilon == 0 {
		epsilon = DefaultEpsilon
	}
	weights := vector.DefaultWeights()
	if opts.Weights != nil {
		weights = *opts.Weights
	}

	m := vector.MatrixFor(moduleType)
	if opts.Matrix != nil {
		m = *opts.Matrix
		if !m.IsSymmetric() {
			return TensorScore{}, vector.ErrNotSymmetric
		}
		if !IsPositiveSemidefinite(m, psdEpsilon) {
			return TensorScore{}, ErrNotPositiveSemidefinite
		}
	}

	linear := v.Dot(weights)
	quadratic := m.QuadraticForm(v) * quadraticScale
	raw := linear + quadratic

	normSquared := v.Dot(v)
	regularization := epsilon * normSquared * regularizationScale
	regularized := raw + regularization

	rawSum := v.Sum()
	rawSumRatio := 0.0
	if opts.RawSumThreshold > 0 {
		rawSumRatio = rawSum / opts.RawSumThreshold
	}

	return TensorScore{
		Linear:          round(linear, 2),
		Quadratic:       round(quadratic, 2),
		Raw:             round(raw, 2),
		Regularization:  round(regularization, 2),
		Regularized:     round(regularized, 2),
		Epsilon:         epsilon,
		ModuleType:      moduleType,
		Vector:          v,
		RawSum:          round(rawSum, 2),
		RawSumThreshold: opts.RawSumThreshold,
		RawSumRatio:     round(rawSumRatio, 3),
	}, nil
}

// ComplexityLevel is the ordered classification of a score.
type ComplexityLevel string

const (
	LevelMinimal ComplexityLevel = "minimal"
	LevelLow     ComplexityLevel = "low"
	LevelMedium  ComplexityLevel = "medium"
	LevelHigh    ComplexityLevel = "high"
	LevelExtreme ComplexityLevel = "extreme"
)

// ClassifyLevel maps a score to its level. Monotone in score.
func ClassifyLevel(score float64) ComplexityLevel {
	switch {
	case score < 2:
		return LevelMinimal
	case score < 5:
		return LevelLow
	case score < 10:
		return LevelMedium
	case score < 20:
		return LevelHigh
	default:
		return LevelExtreme
	}
}

// Zone classifies the raw-sum ratio into safe / review / violation.
func (s TensorScore) Zone() string {
	switch {
	case s.RawSumRatio < 0.7:
		return "safe"
	case s.RawSumRatio < 1.0:
		return "review"
	default:
		return "violation"
	}
}

func round(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
