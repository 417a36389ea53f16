// Package types defines the shared enums and wire contracts for the
// scoring and gate engine. Everything here is consumed by downstream
// automation, so field names and JSON tags are stable.
package types

// ModuleType classifies a source module for context-aware analysis.
// It selects both the interaction matrix and the canonical profile.
type ModuleType string

const (
	ModuleAPI     ModuleType = "api"
	ModuleLib     ModuleType = "lib"
	ModuleApp     ModuleType = "app"
	ModuleWeb     ModuleType = "web"
	ModuleData    ModuleType = "data"
	ModuleInfra   ModuleType = "infra"
	ModuleDeploy  ModuleType = "deploy"
	ModuleUnknown ModuleType = "unknown"
)

// GateType identifies a delivery stage gate.
type GateType string

const (
	GatePoC        GateType = "poc"
	GateMVP        GateType = "mvp"
	GateProduction GateType = "production"
)

// Axis names one complexity dimension.
type Axis string

const (
	AxisControl  Axis = "control"
	AxisNesting  Axis = "nesting"
	AxisState    Axis = "state"
	AxisAsync    Axis = "async"
	AxisCoupling Axis = "coupling"
)

// Axes lists the dimensions in canonical order. Tables and reports
// iterate this slice so output ordering is deterministic.
var Axes = []Axis{AxisControl, AxisNesting, AxisState, AxisAsync, AxisCoupling}

// FunctionRecord is the per-function fact record produced by the
// (external) extraction front end. The engine never re-derives these
// counts; it consumes them as-is.
type FunctionRecord struct {
	Name                  string `json:"name,omitempty"`
	BranchCount           int    `json:"branchCount"`
	NestingDepth          int    `json:"nestingDepth"`
	StateMutationCount    int    `json:"stateMutationCount"`
	AsyncBoundaryCount    int    `json:"asyncBoundaryCount"`
	CouplingCount         int    `json:"couplingCount"`
	HiddenDependencyCount int    `json:"hiddenDependencyCount"`
	HasRetry              bool   `json:"hasRetry"`
}

// FileFacts bundles the extracted facts for one file: the functions,
// the coverage signal, and optional counts used by delta analysis.
// ModuleType, when set, is authoritative; path inference is only a
// fallback default.
type FileFacts struct {
	FilePath             string           `json:"filePath"`
	ModuleType           ModuleType       `json:"moduleType,omitempty"`
	GoldenTestCoverage   float64          `json:"goldenTestCoverage"`
	StateTransitionCount int              `json:"stateTransitionCount,omitempty"`
	PublicAPICount       int              `json:"publicApiCount,omitempty"`
	Functions            []FunctionRecord `json:"functions"`
}

// GateViolation records a single failed gate rule. Rules never
// short-circuit, so one evaluation can carry several of these.
type GateViolation struct {
	Rule      string  `json:"rule"`
	Actual    float64 `json:"actual"`
	Threshold float64 `json:"threshold"`
	Message   string  `json:"message"`
}

// GateResult is the externally consumed gate decision contract.
// Passed is true iff Violations is empty after waiver application.
type GateResult struct {
	Passed        bool            `json:"passed"`
	GateType      GateType        `json:"gateType"`
	Violations    []GateViolation `json:"violations"`
	WaiverApplied bool            `json:"waiverApplied"`
}

// Delta captures the signed change between two analysis snapshots.
type Delta struct {
	Cognitive        int  `json:"cognitive"`
	StateTransitions int  `json:"stateTransitions"`
	PublicAPI        int  `json:"publicAPI"`
	BreakingChanges  bool `json:"breakingChanges"`
}
