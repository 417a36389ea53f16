package tensor

import "math"

// Default history policy. A window of ten scores is enough to call a
// trend without remembering the whole project history.
const (
	defaultHistoryLimit  = 10
	oscillationAmplitude = 0.5
	trendTolerance       = 0.25
)

// History is a bounded window of successive scores for one function
// or module, used to tell sustained improvement apart from thrash.
type History struct {
	scores []float64
	limit  int
}

// NewHistory returns a history window. A non-positive limit selects
// the default.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &History{limit: limit}
}

// Add appends a score, evicting the oldest once the window is full.
func (h *History) Add(score float64) {
	h.scores = append(h.scores, score)
	if len(h.scores) > h.limit {
		h.scores = h.scores[len(h.scores)-h.limit:]
	}
}

// Len returns the number of scores currently in the window.
func (h *History) Len() int {
	return len(h.scores)
}

// Trend reports "improving", "worsening", or "stable" by comparing the
// newest score against the oldest with a small tolerance band.
func (h *History) Trend() string {
	if len(h.scores) < 2 {
		return "stable"
	}
	delta := h.scores[len(h.scores)-1] - h.scores[0]
	switch {
	case delta < -trendTolerance:
		return "improving"
	case delta > trendTolerance:
		return "worsening"
	default:
		return "stable"
	}
}

// IsOscillating reports whether the score keeps flipping direction
// with meaningful amplitude. Oscillation means refactorings are being
// applied and reverted rather than converging, which deserves a
// different intervention than a plain high score.
func (h *History) IsOscillating() bool {
	if len(h.scores) < 4 {
		return false
	}
	flips := 0
	prevDelta := 0.0
	for i := 1; i < len(h.scores); i++ {
		delta := h.scores[i] - h.scores[i-1]
		if math.Abs(delta) < oscillationAmplitude {
			continue
		}
		if prevDelta != 0 && delta*prevDelta < 0 {
			flips++
		}
		prevDelta = delta
	}
	return flips >= 2
}
