package gate

import (
	"github.com/semgate/semgate/internal/types"
)

// CognitiveScore collapses a subject's gate inputs into one integer
// for regression tracking: nesting counts double, hidden dependencies
// count once, and the state/async/retry co-occurrence adds a flat
// penalty.
func CognitiveScore(subject Subject) int {
	score := subject.MaxNesting * 2
	score += subject.HiddenDependencies
	if subject.StateAsyncRetry {
		score += 10
	}
	return score
}

// CalculateDelta compares two snapshots of the same file. Breaking
// changes means the public surface shrank: callers of the removed
// symbols break.
func CalculateDelta(before, after types.FileFacts) types.Delta {
	apiDelta := after.PublicAPICount - before.PublicAPICount
	return types.Delta{
		Cognitive:        CognitiveScore(SubjectFrom(after)) - CognitiveScore(SubjectFrom(before)),
		StateTransitions: after.StateTransitionCount - before.StateTransitionCount,
		PublicAPI:        apiDelta,
		BreakingChanges:  apiDelta < 0,
	}
}

// ChangeBudget caps how much one change may move each tracked
// dimension for a module type.
type ChangeBudget struct {
	DeltaCognitive  int
	DeltaState      int
	DeltaPublicAPI  int
	BreakingAllowed bool
}

// moduleBudgets assigns budgets by module role. Boundary and data
// modules get the tight budgets; application code may grow its
// surface freely.
var moduleBudgets = map[types.ModuleType]ChangeBudget{
	types.ModuleAPI:    {DeltaCognitive: 3, DeltaState: 1, DeltaPublicAPI: 2, BreakingAllowed: false},
	types.ModuleLib:    {DeltaCognitive: 5, DeltaState: 2, DeltaPublicAPI: 5, BreakingAllowed: true},
	types.ModuleApp:    {DeltaCognitive: 8, DeltaState: 3, DeltaPublicAPI: 999, BreakingAllowed: true},
	types.ModuleWeb:    {DeltaCognitive: 5, DeltaState: 2, DeltaPublicAPI: 3, BreakingAllowed: true},
	types.ModuleData:   {DeltaCognitive: 3, DeltaState: 1, DeltaPublicAPI: 2, BreakingAllowed: false},
	types.ModuleInfra:  {DeltaCognitive: 5, DeltaState: 3, DeltaPublicAPI: 3, BreakingAllowed: true},
	types.ModuleDeploy: {DeltaCognitive: 3, DeltaState: 1, DeltaPublicAPI: 2, BreakingAllowed: true},
}

// BudgetFor returns the change budget for a module type, falling back
// to the application budget.
func BudgetFor(moduleType types.ModuleType) ChangeBudget {
	if b, ok := moduleBudgets[moduleType]; ok {
		return b
	}
	return moduleBudgets[types.ModuleApp]
}

// BudgetViolation names one delta dimension exceeding its budget.
type BudgetViolation struct {
	Dimension string  `json:"dimension"`
	Allowed   float64 `json:"allowed"`
	Actual    float64 `json:"actual"`
	Excess    float64 `json:"excess"`
	Message   string  `json:"message"`
}

// BudgetResult is the outcome of checking a delta against its module
// type's budget.
type BudgetResult struct {
	Passed     bool              `json:"passed"`
	ModuleType types.ModuleType  `json:"module_type"`
	Delta      types.Delta       `json:"delta"`
	Violations []BudgetViolation `json:"violations"`
}

// CheckBudget verifies a delta against its module type's budget,
// accumulating one violation per exceeded dimension.
func CheckBudget(moduleType types.ModuleType, delta types.Delta) BudgetResult {
	budget := BudgetFor(moduleType)
	var violations []BudgetViolation

	if delta.Cognitive > budget.DeltaCognitive {
		violations = append(violations, BudgetViolation{
			Dimension: "cognitive",
			Allowed:   float64(budget.DeltaCognitive),
			Actual:    float64(delta.Cognitive),
			Excess:    float64(delta.Cognitive - budget.DeltaCognitive),
			Message:   "cognitive score delta exceeds budget",
		})
	}

	if delta.StateTransitions > budget.DeltaState {
		violations = append(violations, BudgetViolation{
			Dimension: "state_transitions",
			Allowed:   float64(budget.DeltaState),
			Actual:    float64(delta.StateTransitions),
			Excess:    float64(delta.StateTransitions - budget.DeltaState),
			Message:   "state transition delta exceeds budget",
		})
	}

	if delta.PublicAPI > budget.DeltaPublicAPI {
		violations = append(violations, BudgetViolation{
			Dimension: "public_api",
			Allowed:   float64(budget.DeltaPublicAPI),
			Actual:    float64(delta.PublicAPI),
			Excess:    float64(delta.PublicAPI - budget.DeltaPublicAPI),
			Message:   "public API growth exceeds budget",
		})
	}

	if delta.BreakingChanges && !budget.BreakingAllowed {
		violations = append(violations, BudgetViolation{
			Dimension: "breaking_changes",
			Allowed:   0,
			Actual:    1,
			Excess:    1,
			Message:   "breaking changes not allowed for this module type",
		})
	}

	return BudgetResult{
		Passed:     len(violations) == 0,
		ModuleType: moduleType,
		Delta:      delta,
		Violations: violations,
	}
}
