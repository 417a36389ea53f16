package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/semgate/semgate/internal/config"
	"github.com/semgate/semgate/internal/engine"
	"github.com/semgate/semgate/internal/project"
	"github.com/semgate/semgate/internal/types"
)

var (
	flagRoot   string
	flagConfig string
	flagJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "semgate",
	Short: "Dimensional complexity scoring and quality gates",
	Long: `semgate scores source files along five complexity dimensions
(control, nesting, state, async, coupling), compares them against
canonical profiles for their module type, and renders stage gate
decisions (PoC / MVP / Production) with auditable waiver support.

Inputs are per-file fact records (JSON) produced by an analyzer:
  {"filePath": "...", "moduleType": "lib", "goldenTestCoverage": 0.9,
   "functions": [{"name": "...", "branchCount": 3, ...}]}`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "project root (default: discovered via go.mod)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "policy file (default: <root>/"+config.Filename+")")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON instead of human-readable output")
}

// resolveRoot finds the project root: the explicit flag, else the
// enclosing go.mod, else the working directory.
func resolveRoot() string {
	if flagRoot != "" {
		return flagRoot
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	root, err := project.FindRoot(cwd)
	if err != nil {
		return cwd
	}
	return root
}

func loadPolicy(root string) (config.Policy, error) {
	if flagConfig != "" {
		return config.Load(flagConfig)
	}
	if root == "" {
		return config.DefaultPolicy(), nil
	}
	return config.LoadFromRoot(root)
}

// newEngine builds the engine for the current invocation.
func newEngine() (*engine.Engine, string, config.Policy, error) {
	root := resolveRoot()
	policy, err := loadPolicy(root)
	if err != nil {
		return nil, "", config.Policy{}, err
	}
	return engine.New(policy, root), root, policy, nil
}

// readFacts reads a facts file holding either one record or an array.
func readFacts(path string) ([]types.FileFacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading facts file: %w", err)
	}

	var many []types.FileFacts
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}

	var one types.FileFacts
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("parsing facts file %s: %w", path, err)
	}
	return []types.FileFacts{one}, nil
}

func readSingleFacts(path string) (types.FileFacts, error) {
	facts, err := readFacts(path)
	if err != nil {
		return types.FileFacts{}, err
	}
	if len(facts) != 1 {
		return types.FileFacts{}, fmt.Errorf("expected exactly one record in %s, got %d", path, len(facts))
	}
	return facts[0], nil
}

func parseGateType(s string) (types.GateType, error) {
	switch s {
	case "poc":
		return types.GatePoC, nil
	case "mvp":
		return types.GateMVP, nil
	case "production", "prod":
		return types.GateProduction, nil
	}
	return "", fmt.Errorf("unknown gate stage %q (want poc, mvp, or production)", s)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// snapshotDBPath resolves the snapshot database location against the
// project root.
func snapshotDBPath(root string, policy config.Policy) string {
	path := policy.SnapshotDB
	if path == "" {
		path = config.DefaultPolicy().SnapshotDB
	}
	if !filepath.IsAbs(path) && root != "" {
		path = filepath.Join(root, path)
	}
	return path
}
