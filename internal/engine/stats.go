package engine

import (
	"math"
	"sort"
)

// Distribution summarizes the regularized scores of a batch run.
type Distribution struct {
	Count   int     `json:"count"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	StdDev  float64 `json:"std_dev"`
	P95     float64 `json:"p95"`
	P99     float64 `json:"p99"`
	Passed  int     `json:"passed"`
	Failed  int     `json:"failed"`
	Orphans int     `json:"orphans"`
}

// Summarize computes batch statistics over a set of reports.
func Summarize(reports []Report) Distribution {
	d := Distribution{Count: len(reports)}
	if len(reports) == 0 {
		return d
	}

	scores := make([]float64, 0, len(reports))
	sum := 0.0
	d.Min = math.Inf(1)
	d.Max = math.Inf(-1)

	for _, r := range reports {
		s := r.Score.Regularized
		scores = append(scores, s)
		sum += s
		d.Min = math.Min(d.Min, s)
		d.Max = math.Max(d.Max, s)
		if r.Gate.Passed {
			d.Passed++
		} else {
			d.Failed++
		}
		if r.Orphan {
			d.Orphans++
		}
	}

	d.Mean = sum / float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		diff := s - d.Mean
		variance += diff * diff
	}
	d.StdDev = math.Sqrt(variance / float64(len(scores)))

	sort.Float64s(scores)
	mid := len(scores) / 2
	if len(scores)%2 == 0 {
		d.Median = (scores[mid-1] + scores[mid]) / 2
	} else {
		d.Median = scores[mid]
	}
	d.P95 = percentile(scores, 0.95)
	d.P99 = percentile(scores, 0.99)

	return d
}

// percentile reads the nearest-rank percentile from a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
