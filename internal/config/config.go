// Package config loads the engine's policy file. Everything in it is
// optional: the zero config is the built-in policy, and a missing
// file is not an error at the call sites that use DefaultPolicy.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/semgate/semgate/internal/tensor"
	"github.com/semgate/semgate/internal/types"
	"github.com/semgate/semgate/internal/vector"
)

// Filename is the policy file looked up at the project root.
const Filename = ".semgate.yaml"

// Policy is the YAML policy file structure.
type Policy struct {
	// Epsilon regularizes the composite score (0 means default).
	Epsilon float64 `yaml:"epsilon"`

	// MaxDeviation is the convergence rate's saturation point
	// (0 means default).
	MaxDeviation float64 `yaml:"max_deviation"`

	// HistoryLimit bounds the score history window (0 means default).
	HistoryLimit int `yaml:"history_limit"`

	// Weights overrides the linear weight vector. Must carry exactly
	// five components when present.
	Weights []float64 `yaml:"weights,omitempty"`

	// Matrices overrides interaction matrices per module type. Each
	// must be 5×5, symmetric, and positive semidefinite.
	Matrices map[string][][]float64 `yaml:"matrices,omitempty"`

	// SnapshotDB is the path of the snapshot database, relative to
	// the project root when not absolute.
	SnapshotDB string `yaml:"snapshot_db,omitempty"`
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() Policy {
	return Policy{SnapshotDB: ".semgate/snapshots.db"}
}

// Load reads and validates a policy file.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading config file: %w", err)
	}

	policy := DefaultPolicy()
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return Policy{}, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

// LoadFromRoot loads the policy file from a project root, returning
// the default policy when no file exists.
func LoadFromRoot(root string) (Policy, error) {
	path := filepath.Join(root, Filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultPolicy(), nil
	}
	return Load(path)
}

// Validate rejects malformed weight vectors and matrix overrides.
// Ill-formed algebra must fail at load, not mid-evaluation.
func (p Policy) Validate() error {
	if p.Weights != nil {
		if _, err := vector.New(p.Weights); err != nil {
			return fmt.Errorf("weights: %w", err)
		}
	}
	for name, rows := range p.Matrices {
		m, err := vector.NewMatrix(rows)
		if err != nil {
			return fmt.Errorf("matrix %q: %w", name, err)
		}
		if !tensor.IsPositiveSemidefinite(m, 1e-9) {
			return fmt.Errorf("matrix %q: %w", name, tensor.ErrNotPositiveSemidefinite)
		}
	}
	if p.Epsilon < 0 {
		return fmt.Errorf("epsilon must be non-negative, got %v", p.Epsilon)
	}
	if p.MaxDeviation < 0 {
		return fmt.Errorf("max_deviation must be non-negative, got %v", p.MaxDeviation)
	}
	return nil
}

// WeightsVector returns the override weight vector, or nil when the
// default applies.
func (p Policy) WeightsVector() *vector.Vector {
	if p.Weights == nil {
		return nil
	}
	v, err := vector.New(p.Weights)
	if err != nil {
		return nil
	}
	return &v
}

// MatrixOverride returns the validated matrix override for a module
// type, or nil when the built-in table applies.
func (p Policy) MatrixOverride(moduleType types.ModuleType) *vector.Matrix {
	rows, ok := p.Matrices[string(moduleType)]
	if !ok {
		return nil
	}
	m, err := vector.NewMatrix(rows)
	if err != nil {
		return nil
	}
	return &m
}
