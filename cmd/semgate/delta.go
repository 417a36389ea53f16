package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/semgate/semgate/internal/gate"
	"github.com/semgate/semgate/internal/snapshot"
	"github.com/semgate/semgate/internal/types"
	"github.com/semgate/semgate/internal/vector"
)

var deltaCmd = &cobra.Command{
	Use:   "delta <after.json>",
	Short: "Compare a change against a baseline and check its budget",
	Long: `Compute signed deltas (cognitive score, state transitions, public
API surface) between a baseline and the new state, then check them
against the module type's change budget.

The baseline is either an explicit facts file (--before) or the
latest stored snapshot for the file (default).

Examples:
  semgate delta after.json --before before.json
  semgate delta after.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		beforePath, _ := cmd.Flags().GetString("before")

		after, err := readSingleFacts(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var before types.FileFacts
		if beforePath != "" {
			before, err = readSingleFacts(beforePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		} else {
			_, root, policy, err := newEngine()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			store, err := snapshot.Open(snapshotDBPath(root, policy))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			defer store.Close()

			snap, err := store.Latest(context.Background(), after.FilePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: no baseline for %s: %v\n", after.FilePath, err)
				os.Exit(1)
			}
			before = snap.Facts
		}

		moduleType := vector.ResolveModuleType(after.ModuleType, after.FilePath)
		delta := gate.CalculateDelta(before, after)
		result := gate.CheckBudget(moduleType, delta)

		if flagJSON {
			printJSON(result)
		} else {
			printBudget(result)
		}

		if !result.Passed {
			os.Exit(1)
		}
	},
}

func printBudget(result gate.BudgetResult) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== Change Budget ==="))
	fmt.Printf("Module type: %s\n", result.ModuleType)
	fmt.Printf("Δcognitive:  %+d\n", result.Delta.Cognitive)
	fmt.Printf("Δstate:      %+d\n", result.Delta.StateTransitions)
	fmt.Printf("Δpublic API: %+d\n", result.Delta.PublicAPI)
	fmt.Printf("Breaking:    %v\n", result.Delta.BreakingChanges)
	fmt.Println()

	if result.Passed {
		fmt.Printf("%s change within budget\n\n", green("PASS"))
		return
	}
	fmt.Printf("%s\n", red("FAIL"))
	for _, v := range result.Violations {
		fmt.Printf("  %s %s (allowed %.0f, actual %.0f)\n", red("✗"), v.Message, v.Allowed, v.Actual)
	}
	fmt.Println()
}

func init() {
	deltaCmd.Flags().String("before", "", "baseline facts file (default: latest snapshot)")
	rootCmd.AddCommand(deltaCmd)
}
