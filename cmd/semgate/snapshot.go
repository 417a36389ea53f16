package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/semgate/semgate/internal/snapshot"
	"github.com/semgate/semgate/internal/tensor"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage stored analysis snapshots",
	Long: `Snapshots record a file's analyzed state so later changes can be
checked against a baseline with 'semgate delta'.`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <facts.json>",
	Short: "Store a facts file as the new baseline snapshot",
	Args:  cobra.ExactArgs(1),
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

		id, err := store.Save(context.Background(), facts, gateType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s snapshot %s saved for %s\n", green("✓"), id, facts.FilePath)
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list <file-path>",
	Short: "List stored snapshots for a file, newest first",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		eng, root, policy, err := newEngine()
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

		history, err := store.History(context.Background(), args[0], limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if flagJSON {
			printJSON(history)
			return
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		if len(history) == 0 {
			fmt.Printf("%s\n", gray("No snapshots for "+args[0]))
			return
		}
		// Oldest first so the trend window reads chronologically.
		scores := tensor.NewHistory(policy.HistoryLimit)
		for i := len(history) - 1; i >= 0; i-- {
			if report, err := eng.Evaluate(history[i].Facts, history[i].GateType); err == nil {
				scores.Add(report.Score.Regularized)
			}
		}

		for _, snap := range history {
			fmt.Printf("%s  %s  %s  %d function(s)\n",
				snap.CreatedAt.Format("2006-01-02 15:04:05"),
				snap.ID, snap.GateType, len(snap.Facts.Functions))
		}

		if scores.Len() >= 2 {
			trend := scores.Trend()
			if scores.IsOscillating() {
				trend += " (oscillating)"
			}
			fmt.Printf("\nScore trend: %s\n", trend)
		}
	},
}

func init() {
	snapshotSaveCmd.Flags().String("stage", "mvp", "gate stage this snapshot was taken at")
	snapshotListCmd.Flags().Int("limit", 0, "maximum snapshots to list (0 = all)")
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	rootCmd.AddCommand(snapshotCmd)
}
