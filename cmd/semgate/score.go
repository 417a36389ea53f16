package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/semgate/semgate/internal/engine"
	"github.com/semgate/semgate/internal/tensor"
)

var scoreCmd = &cobra.Command{
	Use:   "score <facts.json>",
	Short: "Score a file's complexity vector",
	Long: `Compute the composite tensor score for a file: linear baseline,
quadratic interaction term, regularization, raw-sum zone, and the
algorithmic/architectural energy split.

Examples:
  semgate score facts.json
  semgate score facts.json --stage production
  semgate score facts.json --json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stage, _ := cmd.Flags().GetString("stage")
		gateType, err := parseGateType(stage)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		facts, err := readSingleFacts(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		eng, _, _, err := newEngine()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		report, err := eng.Evaluate(facts, gateType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if flagJSON {
			printJSON(report)
			return
		}
		printScore(report)
	},
}

func printScore(report engine.Report) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== Complexity Score ==="))
	fmt.Printf("File:        %s\n", report.FilePath)
	fmt.Printf("Module type: %s\n", report.ModuleType)
	v := report.Vector
	fmt.Printf("Vector:      control=%.1f nesting=%.1f state=%.1f async=%.1f coupling=%.1f\n",
		v.Control, v.Nesting, v.State, v.Async, v.Coupling)
	fmt.Println()

	s := report.Score
	fmt.Printf("%s\n", yellow("Score breakdown:"))
	fmt.Printf("  linear:         %.2f\n", s.Linear)
	fmt.Printf("  quadratic:      %.2f\n", s.Quadratic)
	fmt.Printf("  regularization: %.2f %s\n", s.Regularization, gray(fmt.Sprintf("(epsilon %.1f)", s.Epsilon)))
	fmt.Printf("  total:          %.2f\n", s.Regularized)
	fmt.Println()

	fmt.Printf("Level: %s\n", levelColor(report.Level))
	fmt.Printf("Zone:  %s %s\n", zoneColor(report.Zone),
		gray(fmt.Sprintf("(raw sum %.1f of %.1f)", s.RawSum, s.RawSumThreshold)))
	fmt.Printf("Split: %s %s\n", report.Split.Dominant,
		gray(fmt.Sprintf("(algorithmic %.1f, architectural %.1f)", report.Split.Algorithmic, report.Split.Architectural)))
	fmt.Println()
}

func levelColor(level tensor.ComplexityLevel) string {
	switch level {
	case tensor.LevelMinimal, tensor.LevelLow:
		return color.GreenString(string(level))
	case tensor.LevelMedium:
		return color.YellowString(string(level))
	default:
		return color.RedString(string(level))
	}
}

func zoneColor(zone string) string {
	switch zone {
	case "safe":
		return color.GreenString(zone)
	case "review":
		return color.YellowString(zone)
	default:
		return color.RedString(zone)
	}
}

func init() {
	scoreCmd.Flags().String("stage", "mvp", "gate stage context (poc, mvp, production)")
	rootCmd.AddCommand(scoreCmd)
}
