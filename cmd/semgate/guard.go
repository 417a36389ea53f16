package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/semgate/semgate/internal/guard"
	"github.com/semgate/semgate/internal/project"
)

var guardCmd = &cobra.Command{
	Use:   "guard [file-path]",
	Short: "List protected-zone files",
	Long: `Check paths against the protected-zone patterns (auth, crypto,
secrets, RBAC, PII, audit) and scan readable file contents for
hardcoded credentials. With a path argument, checks that one path;
with no argument, scans the project's Go files.

Examples:
  semgate guard internal/auth/session.go
  semgate guard`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := resolveRoot()

		if len(args) == 1 {
			res := guardFile(root, args[0])
			if flagJSON {
				printJSON(res)
				return
			}
			printGuard(res)
			return
		}

		files, err := project.GoFiles(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var flagged []guardResult
		for _, f := range files {
			if res := guardFile(root, f); res.Protected || len(res.Secrets) > 0 {
				flagged = append(flagged, res)
			}
		}

		if flagJSON {
			printJSON(flagged)
			return
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		if len(flagged) == 0 {
			fmt.Printf("%s\n", gray("No protected-zone files or secrets found"))
			return
		}
		for _, res := range flagged {
			printGuard(res)
		}
		fmt.Printf("\n%d flagged file(s) of %d scanned\n", len(flagged), len(files))
	},
}

type guardResult struct {
	guard.CheckResult
	Secrets []guard.SecretViolation `json:"secrets,omitempty"`
}

// guardFile combines the zone check with a content scan when the file
// is readable under the project root.
func guardFile(root, path string) guardResult {
	res := guardResult{CheckResult: guard.Check(path)}
	absolute := path
	if !filepath.IsAbs(absolute) && root != "" {
		absolute = filepath.Join(root, path)
	}
	if source, err := os.ReadFile(absolute); err == nil {
		res.Secrets = guard.DetectSecrets(string(source))
	}
	return res
}

func printGuard(res guardResult) {
	if !res.Protected && len(res.Secrets) == 0 {
		fmt.Printf("%s %s\n", color.GreenString("✓"), res.FilePath)
		return
	}
	fmt.Printf("%s %s\n", color.YellowString("🔒"), res.FilePath)
	for _, zone := range res.Zones {
		fmt.Printf("    %s: %s\n", zone.Category, zone.Description)
	}
	for _, s := range res.Secrets {
		mark := color.YellowString("⚠")
		if s.Severity == "error" {
			mark = color.RedString("✗")
		}
		fmt.Printf("    %s %s\n", mark, s.Message)
	}
}

func init() {
	rootCmd.AddCommand(guardCmd)
}
