// Package cmd implements the depscan command-line interface.
package cmd

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// version is the scanner version, overridable at build time via ldflags.
var version = "0.3.0"

// Execute runs the depscan CLI and returns an error if any command fails.
func Execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:   "depscan",
		Short: "Scan Python and Node.js dependencies for known vulnerabilities",
		Long: `depscan extracts dependencies from a manifest or lockfile
(requirements.txt, pyproject.toml, package.json, package-lock.json,
yarn.lock, pnpm-lock.yaml), queries the OSV.dev vulnerability database for
each, and renders findings as terminal output plus optional HTML, JSON, and
SARIF reports with remediation guidance.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newScanCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(context.Background())
}
