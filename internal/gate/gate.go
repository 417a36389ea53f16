// Package gate evaluates a subject against stage thresholds and
// renders the pass/fail decision. Stages form one monotone family:
// MVP is the baseline, PoC loosens it by fixed deltas, Production
// tightens it. Waivers are honored only at the Production stage.
package gate

import (
	"fmt"

	"github.com/semgate/semgate/internal/types"
	"github.com/semgate/semgate/internal/waiver"
)

// Thresholds are the effective numeric limits for one stage.
type Thresholds struct {
	NestingMax          int     `json:"nesting_max"`
	ConceptsPerFunction int     `json:"concepts_per_function"`
	HiddenDepMax        int     `json:"hidden_dep_max"`
	GoldenTestMin       float64 `json:"golden_test_min"`
}

// ThresholdsFor returns the stage's effective thresholds: the MVP
// baseline adjusted by the stage's fixed additive delta.
func ThresholdsFor(gateType types.GateType) Thresholds {
	base := Thresholds{
		NestingMax:          4,
		ConceptsPerFunction: 9,
		HiddenDepMax:        2,
		GoldenTestMin:       0.8,
	}

	switch gateType {
	case types.GatePoC:
		base.NestingMax += 2
		base.ConceptsPerFunction += 3
		base.HiddenDepMax++
		base.GoldenTestMin -= 0.3
	case types.GateMVP:
		// Baseline, untouched.
	case types.GateProduction:
		base.NestingMax--
		base.ConceptsPerFunction -= 2
		base.HiddenDepMax--
		base.GoldenTestMin += 0.15
	}

	return base
}

// Subject is the per-file summary the gate rules run against.
type Subject struct {
	MaxNesting         int     `json:"max_nesting"`
	HiddenDependencies int     `json:"hidden_dependencies"`
	GoldenTestCoverage float64 `json:"golden_test_coverage"`
	StateAsyncRetry    bool    `json:"state_async_retry"`
}

// SubjectFrom summarizes file facts into gate inputs: worst nesting
// and hidden-dependency counts across functions, and whether any one
// function couples state, async, and retry at once.
func SubjectFrom(facts types.FileFacts) Subject {
	s := Subject{GoldenTestCoverage: facts.GoldenTestCoverage}
	for _, fn := range facts.Functions {
		if fn.NestingDepth > s.MaxNesting {
			s.MaxNesting = fn.NestingDepth
		}
		if fn.HiddenDependencyCount > s.HiddenDependencies {
			s.HiddenDependencies = fn.HiddenDependencyCount
		}
		if fn.StateMutationCount > 0 && fn.AsyncBoundaryCount > 0 && fn.HasRetry {
			s.StateAsyncRetry = true
		}
	}
	return s
}

// Evaluate runs every rule against the stage's thresholds and
// accumulates one violation per failing rule. Rules never
// short-circuit, so a subject can collect multiple violations in one
// pass. A resolved waiver only applies at Production.
func Evaluate(gateType types.GateType, subject Subject, res *waiver.Resolution) types.GateResult {
	thresholds := ThresholdsFor(gateType)
	waiverApplied := false

	if gateType == types.GateProduction && res != nil && res.Waived {
		waiverApplied = true
		if res.Overrides != nil {
			if res.Overrides.Nesting != nil {
				thresholds.NestingMax = *res.Overrides.Nesting
			}
			if res.Overrides.ConceptsTotal != nil {
				thresholds.ConceptsPerFunction = *res.Overrides.ConceptsTotal
			}
		}
	}

	var violations []types.GateViolation

	if subject.MaxNesting > thresholds.NestingMax {
		violations = append(violations, types.GateViolation{
			Rule:      "nesting_max",
			Actual:    float64(subject.MaxNesting),
			Threshold: float64(thresholds.NestingMax),
			Message:   fmt.Sprintf("nesting depth %d exceeds %d", subject.MaxNesting, thresholds.NestingMax),
		})
	}

	if subject.HiddenDependencies > thresholds.HiddenDepMax {
		violations = append(violations, types.GateViolation{
			Rule:      "hidden_dep_max",
			Actual:    float64(subject.HiddenDependencies),
			Threshold: float64(thresholds.HiddenDepMax),
			Message:   fmt.Sprintf("hidden dependencies %d exceed %d", subject.HiddenDependencies, thresholds.HiddenDepMax),
		})
	}

	if subject.GoldenTestCoverage < thresholds.GoldenTestMin {
		violations = append(violations, types.GateViolation{
			Rule:      "golden_test_min",
			Actual:    subject.GoldenTestCoverage,
			Threshold: thresholds.GoldenTestMin,
			Message:   fmt.Sprintf("test coverage %.1f%% below %.1f%%", subject.GoldenTestCoverage*100, thresholds.GoldenTestMin*100),
		})
	}

	if subject.StateAsyncRetry {
		violations = append(violations, types.GateViolation{
			Rule:      "state_async_retry",
			Actual:    1,
			Threshold: 1,
			Message:   "state, async, and retry co-occur in one function",
		})
	}

	return types.GateResult{
		Passed:        len(violations) == 0,
		GateType:      gateType,
		Violations:    violations,
		WaiverApplied: waiverApplied,
	}
}
