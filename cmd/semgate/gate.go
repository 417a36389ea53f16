package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/semgate/semgate/internal/engine"
	"github.com/semgate/semgate/internal/types"
)

var gateCmd = &cobra.Command{
	Use:   "gate <facts.json>",
	Short: "Run the stage gate decision",
	Long: `Evaluate one or more files against a delivery stage gate. The
process exits non-zero when any file fails, so pipelines can consume
the exit status directly; --json emits the structured decision.

Examples:
  semgate gate facts.json --stage mvp
  semgate gate batch-facts.json --stage production --json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		stage, _ := cmd.Flags().GetString("stage")
		gateType, err := parseGateType(stage)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		subjects, err := readFacts(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		eng, _, _, err := newEngine()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		reports, err := eng.EvaluateBatch(context.Background(), subjects, gateType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		failed := 0
		for _, r := range reports {
			if !r.Gate.Passed {
				failed++
			}
		}

		if flagJSON {
			if len(reports) == 1 {
				printJSON(reports[0].Gate)
			} else {
				printJSON(reports)
			}
		} else {
			printGateReports(reports, gateType)
		}

		if failed > 0 {
			os.Exit(1)
		}
	},
}

func printGateReports(reports []engine.Report, gateType types.GateType) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== Gate: %s ===", gateType)))

	for _, r := range reports {
		verdict := green("PASS")
		if !r.Gate.Passed {
			verdict = red("FAIL")
		}
		fmt.Printf("%s  %s\n", verdict, r.FilePath)

		for _, v := range r.Gate.Violations {
			fmt.Printf("      %s %s %s\n", red("✗"), v.Message,
				gray(fmt.Sprintf("[%s: %.2f > %.2f]", v.Rule, v.Actual, v.Threshold)))
		}
		if r.Gate.WaiverApplied {
			fmt.Printf("      %s waiver applied: %s\n", green("→"), r.Waiver.ADR)
		}
		if r.Waiver.Matched && !r.Waiver.Waived {
			fmt.Printf("      %s waiver not applied: %s\n", gray("·"), r.Waiver.Reason)
		}
		if r.Guard.Protected {
			for _, req := range r.Guard.Requirements {
				fmt.Printf("      %s %s\n", color.YellowString("🔒"), req)
			}
		}
		for _, s := range r.Secrets {
			mark := color.YellowString("⚠")
			if s.Severity == "error" {
				mark = red("✗")
			}
			fmt.Printf("      %s %s %s\n", mark, s.Message, gray(s.Match))
		}
	}
	fmt.Println()

	d := engine.Summarize(reports)
	fmt.Printf("%d checked, %s, %s\n\n",
		d.Count, green(fmt.Sprintf("%d passed", d.Passed)), red(fmt.Sprintf("%d failed", d.Failed)))
}

func init() {
	gateCmd.Flags().String("stage", "mvp", "gate stage (poc, mvp, production)")
	rootCmd.AddCommand(gateCmd)
}
