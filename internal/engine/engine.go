// Package engine wires the analysis pipeline: raw file facts in, a
// full report out. One Evaluate call runs vector construction,
// tensor scoring, convergence analysis, protected-zone checks, waiver
// resolution, and the gate decision, in that order.
package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/semgate/semgate/internal/canonical"
	"github.com/semgate/semgate/internal/config"
	"github.com/semgate/semgate/internal/gate"
	"github.com/semgate/semgate/internal/guard"
	"github.com/semgate/semgate/internal/tensor"
	"github.com/semgate/semgate/internal/types"
	"github.com/semgate/semgate/internal/vector"
	"github.com/semgate/semgate/internal/waiver"
)

// Report is the full evaluation of one file.
type Report struct {
	FilePath   string           `json:"file_path"`
	ModuleType types.ModuleType `json:"module_type"`

	Vector vector.Vector          `json:"vector"`
	Score  tensor.TensorScore     `json:"score"`
	Level  tensor.ComplexityLevel `json:"level"`
	Zone   string                 `json:"zone"`
	Split  tensor.VectorSplit     `json:"split"`

	Convergence canonical.ConvergenceResult `json:"convergence"`
	Status      string                      `json:"status"`
	Advice      []canonical.Advice          `json:"advice,omitempty"`
	Orphan      bool                        `json:"orphan"`

	Field tensor.FieldDecomposition `json:"field"`

	Guard   guard.CheckResult       `json:"guard"`
	Secrets []guard.SecretViolation `json:"secrets,omitempty"`
	Waiver  waiver.Resolution       `json:"waiver"`
	Gate    types.GateResult        `json:"gate"`
}

// Engine evaluates files under one policy and project context.
type Engine struct {
	policy      config.Policy
	projectRoot string
	analyzer    canonical.Analyzer
	resolver    waiver.Resolver
}

// New builds an engine. projectRoot may be empty, which disables
// waiver resolution (no registry discovery without a root).
func New(policy config.Policy, projectRoot string) *Engine {
	return &Engine{
		policy:      policy,
		projectRoot: projectRoot,
		analyzer:    canonical.Analyzer{MaxDeviation: policy.MaxDeviation},
	}
}

// Evaluate runs the full pipeline for one file at one gate stage.
func (e *Engine) Evaluate(facts types.FileFacts, gateType types.GateType) (Report, error) {
	moduleType := vector.ResolveModuleType(facts.ModuleType, facts.FilePath)

	vectors := make([]vector.Vector, 0, len(facts.Functions))
	for _, fn := range facts.Functions {
		vectors = append(vectors, vector.FromRecord(fn))
	}
	centroid := canonical.Centroid(vectors)

	score, err := tensor.Compute(centroid, moduleType, tensor.Options{
		Matrix:          e.policy.MatrixOverride(moduleType),
		Weights:         e.policy.WeightsVector(),
		Epsilon:         e.policy.Epsilon,
		RawSumThreshold: canonical.RawSumThreshold(moduleType),
	})
	if err != nil {
		return Report{}, err
	}

	convergence := e.analyzer.Analyze(centroid, moduleType)

	ideal := canonical.ProfileFor(moduleType).Ideal
	deviations := make([]vector.Vector, 0, len(vectors))
	for _, v := range vectors {
		deviations = append(deviations, v.Sub(ideal))
	}

	source, absolute := e.readSource(facts.FilePath)
	res := e.resolveWaiver(source, absolute)

	return Report{
		FilePath:    facts.FilePath,
		ModuleType:  moduleType,
		Vector:      centroid,
		Score:       score,
		Level:       tensor.ClassifyLevel(score.Regularized),
		Zone:        score.Zone(),
		Split:       tensor.SplitVector(centroid),
		Convergence: convergence,
		Status:      canonical.Status(convergence),
		Advice:      canonical.AdviseFor(convergence),
		Orphan:      canonical.IsOrphan(centroid),
		Field:       tensor.DecomposeField(deviations),
		Guard:       guard.Check(facts.FilePath),
		Secrets:     guard.DetectSecrets(string(source)),
		Waiver:      res,
		Gate:        gate.Evaluate(gateType, gate.SubjectFrom(facts), &res),
	}, nil
}

// readSource loads the subject source when the project root is known.
// A missing or unreadable file yields nil source, never an error.
func (e *Engine) readSource(filePath string) ([]byte, string) {
	if e.projectRoot == "" || filePath == "" {
		return nil, ""
	}
	absolute := filePath
	if !filepath.IsAbs(absolute) {
		absolute = filepath.Join(e.projectRoot, filePath)
	}
	source, err := os.ReadFile(absolute)
	if err != nil {
		source = nil
	}
	return source, absolute
}

func (e *Engine) resolveWaiver(source []byte, absolute string) waiver.Resolution {
	if absolute == "" {
		return waiver.Resolution{Reason: "no project root"}
	}
	return e.resolver.Check(source, absolute, e.projectRoot)
}

// EvaluateBatch evaluates independent subjects concurrently, one
// worker per CPU, preserving input order in the result.
func (e *Engine) EvaluateBatch(ctx context.Context, subjects []types.FileFacts, gateType types.GateType) ([]Report, error) {
	reports := make([]Report, len(subjects))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, facts := range subjects {
		i, facts := i, facts
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := e.Evaluate(facts, gateType)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
