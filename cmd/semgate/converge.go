package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/semgate/semgate/internal/canonical"
	"github.com/semgate/semgate/internal/types"
	"github.com/semgate/semgate/internal/vector"
)

var convergeCmd = &cobra.Command{
	Use:   "converge <facts.json>",
	Short: "Analyze convergence against the canonical profile",
	Long: `Compare a file's complexity vector against the canonical ideal for
its module type: per-dimension deviation, direction of improvement,
stability, convergence rate, and prioritized advice.

Examples:
  semgate converge facts.json
  semgate converge facts.json --best-fit`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bestFit, _ := cmd.Flags().GetBool("best-fit")

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

		report, err := eng.Evaluate(facts, types.GateMVP)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if flagJSON {
			printJSON(report.Convergence)
			return
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== Canonical Convergence ==="))
		fmt.Printf("File:        %s\n", report.FilePath)
		fmt.Printf("Module type: %s\n", report.ModuleType)
		fmt.Printf("Status:      %s\n", statusColor(report.Status))
		fmt.Println()

		c := report.Convergence
		fmt.Printf("%s\n", yellow("Deviation from ideal:"))
		for _, axis := range types.Axes {
			dev := c.Deviation.PerDimension.Component(axis)
			marker := " "
			if dev > 0 {
				marker = "+"
			}
			fmt.Printf("  %-9s %s%.2f\n", axis, marker, dev)
		}
		fmt.Printf("  total     %.2f %s\n", c.Deviation.Total,
			gray(fmt.Sprintf("(rate %.3f, stable %v)", c.ConvergenceRate, c.IsStable)))
		fmt.Println()

		if len(report.Advice) > 0 {
			fmt.Printf("%s\n", yellow("Advice:"))
			for _, a := range report.Advice {
				fmt.Printf("  [%.1f] %s\n", a.Deviation, a.Message)
			}
			fmt.Println()
		}

		if report.Field.TotalEnergy > 0 {
			fmt.Printf("Deviation field: residual ratio %.3f", report.Field.ResidualRatio)
			if report.Field.Structural {
				fmt.Printf(" %s", color.RedString("(structural: no single fix helps every function)"))
			}
			fmt.Println()
		}

		if bestFit {
			var analyzer canonical.Analyzer
			vectors := make([]vector.Vector, 0, len(facts.Functions))
			for _, fn := range facts.Functions {
				vectors = append(vectors, vector.FromRecord(fn))
			}
			mt, total := analyzer.FindBestFit(canonical.Centroid(vectors))
			fmt.Printf("Best-fit module type: %s %s\n", mt, gray(fmt.Sprintf("(deviation %.2f)", total)))
		}
		fmt.Println()
	},
}

func statusColor(status string) string {
	switch status {
	case "canonical":
		return color.GreenString(status)
	case "near-canonical":
		return color.HiGreenString(status)
	case "drifting":
		return color.YellowString(status)
	default:
		return color.RedString(status)
	}
}

func init() {
	convergeCmd.Flags().Bool("best-fit", false, "also report the best-fitting module type")
	rootCmd.AddCommand(convergeCmd)
}
