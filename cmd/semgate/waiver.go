package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/semgate/semgate/internal/waiver"
)

var waiverCmd = &cobra.Command{
	Use:   "waiver",
	Short: "Inspect complexity waivers",
}

var waiverCheckCmd = &cobra.Command{
	Use:   "check <source-file>",
	Short: "Resolve the waiver that would apply to a source file",
	Long: `Run the two-tier waiver resolution for a file: the external
.waiver.json registry first, then any inline declaration in the
source. Reports the decision-record reference and why a waiver did or
did not apply.

Examples:
  semgate waiver check internal/crypto/aes.go`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := resolveRoot()

		path := args[0]
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}

		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var resolver waiver.Resolver
		res := resolver.Check(source, path, root)

		if flagJSON {
			printJSON(res)
			return
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		if res.Waived {
			fmt.Printf("%s waived\n", green("✓"))
		} else {
			fmt.Printf("%s not waived\n", red("✗"))
		}
		if res.Reason != "" {
			fmt.Printf("  reason: %s\n", res.Reason)
		}
		if res.ADR != "" {
			fmt.Printf("  decision record: %s\n", res.ADR)
		}
		if res.Entry != nil {
			fmt.Printf("  %s\n", gray("matched registry pattern: "+res.Entry.Pattern))
		}
		if res.Overrides != nil {
			if res.Overrides.Nesting != nil {
				fmt.Printf("  nesting override: %d\n", *res.Overrides.Nesting)
			}
			if res.Overrides.ConceptsTotal != nil {
				fmt.Printf("  concepts override: %d\n", *res.Overrides.ConceptsTotal)
			}
		}
	},
}

func init() {
	waiverCmd.AddCommand(waiverCheckCmd)
	rootCmd.AddCommand(waiverCmd)
}
