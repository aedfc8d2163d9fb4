package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"depscan/internal/models"
	"depscan/internal/remediation"
	"depscan/internal/reporter"
	"depscan/internal/scanner"
)

// ErrFailThreshold is returned when findings meet the --fail-on-vuln or
// --fail-on threshold. main translates it to exit code 1, after all deferred
// cleanup has run.
var ErrFailThreshold = errors.New("vulnerabilities at or above the failure threshold")

// severityRank orders --fail-on thresholds; higher is worse. "vuln" means
// any vulnerability at all.
var severityRank = map[string]int{
	"critical": 4,
	"high":     3,
	"medium":   2,
	"low":      1,
	"vuln":     0,
}

// reportFileNames maps a report format to its output file name.
var reportFileNames = map[string]string{
	"html":  "scan-report.html",
	"json":  "scan-report.json",
	"sarif": "scan-report.sarif",
}

func newScanCmd() *cobra.Command {
	var (
		flagReports         []string
		flagNoCache         bool
		flagFromFreeze      bool
		flagFailOnVuln      bool
		flagEcosystem       string
		flagIncludeGuidance bool
		flagFailOn          string
		flagOutputDir       string
		flagTimeout         int
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a dependency file or directory for known vulnerabilities",
		Long: `Scan a dependency file or project directory (Python or Node.js) for
known vulnerabilities via OSV.dev.

The ecosystem is auto-detected from the path; lockfiles are preferred over
manifests so findings reflect resolved versions. With no path, depscan looks
for requirements.txt in the current directory.

Examples:
  # Scan the current directory's requirements.txt
  depscan scan

  # Scan a Node project (uses package-lock.json, yarn.lock, or pnpm-lock.yaml)
  depscan scan ./frontend

  # Scan pip-freeze output from stdin, terminal output only
  pip freeze | depscan scan --from-freeze --report none

  # Fail CI on high or critical findings
  depscan scan --fail-on high`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runScan(cmd, scanOptions{
				path:            path,
				reports:         flagReports,
				noCache:         flagNoCache,
				fromFreeze:      flagFromFreeze,
				failOnVuln:      flagFailOnVuln,
				ecosystem:       flagEcosystem,
				includeGuidance: flagIncludeGuidance,
				failOn:          flagFailOn,
				outputDir:       flagOutputDir,
				timeout:         time.Duration(flagTimeout) * time.Second,
			})
		},
	}

	cmd.Flags().StringSliceVar(&flagReports, "report", []string{"html", "json"},
		"report format(s) to write: html, json, sarif, or none for terminal-only")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "disable the SQLite response cache; always query OSV")
	cmd.Flags().BoolVar(&flagFromFreeze, "from-freeze", false,
		"read pip-freeze style input (name==version per line); use path '-' or omit it to read stdin")
	cmd.Flags().BoolVar(&flagFailOnVuln, "fail-on-vuln", false, "exit with code 1 if any vulnerability is found")
	cmd.Flags().StringVar(&flagEcosystem, "ecosystem", "",
		"force ecosystem: python or node (default: auto-detect from path)")
	cmd.Flags().BoolVar(&flagIncludeGuidance, "include-guidance", false,
		"include the improvement checklist in HTML/JSON reports")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "",
		"exit with code 1 at this severity or higher: critical, high, medium, low, or vuln")
	cmd.Flags().StringVar(&flagOutputDir, "output-dir", "",
		"directory for report files (default: next to the parsed input)")
	cmd.Flags().IntVar(&flagTimeout, "timeout", 30, "OSV request timeout in seconds")

	return cmd
}

type scanOptions struct {
	path            string
	reports         []string
	noCache         bool
	fromFreeze      bool
	failOnVuln      bool
	ecosystem       string
	includeGuidance bool
	failOn          string
	outputDir       string
	timeout         time.Duration
}

func runScan(cmd *cobra.Command, opts scanOptions) error {
	logger := loggerFromContext(cmd.Context())

	if opts.failOn != "" {
		if _, ok := severityRank[strings.ToLower(opts.failOn)]; !ok {
			return fmt.Errorf("invalid --fail-on value %q", opts.failOn)
		}
	}

	config := models.DefaultConfig()
	config.EcosystemOverride = opts.ecosystem
	config.FromFreeze = opts.fromFreeze
	config.NoCache = opts.noCache
	config.Timeout = opts.timeout

	if opts.fromFreeze {
		config.Path = opts.path
		if opts.path == "" || opts.path == "-" {
			content, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			config.Path = "-"
			config.FreezeContent = string(content)
		} else if _, err := os.Stat(opts.path); err != nil {
			return fmt.Errorf("file not found: %s", opts.path)
		}
	} else {
		if opts.path != "" {
			config.Path = opts.path
		}
		if _, err := os.Stat(config.Path); err != nil {
			return fmt.Errorf("path not found: %s", config.Path)
		}
	}

	s := scanner.New(config, logger)
	defer s.Close()

	out, err := s.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(out.Results) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No dependencies found in %s\n", out.SourceLabel)
		if !out.FromLockfile && strings.Contains(out.SourceLabel, "package.json") {
			fmt.Fprintln(cmd.OutOrStdout(),
				"Tip: use a lockfile (package-lock.json, yarn.lock, pnpm-lock.yaml) for resolved versions.")
		}
		return nil
	}

	meta := models.ReportMeta{
		GeneratedAt:     time.Now().UTC(),
		ScannerVersion:  version,
		InputLabel:      out.SourceLabel,
		Ecosystem:       out.Ecosystem,
		FromLockfile:    out.FromLockfile,
		IncludeGuidance: opts.includeGuidance,
	}

	terminal, err := reporter.Get("terminal").Report(out.Results, meta)
	if err != nil {
		return fmt.Errorf("render terminal report: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(terminal))

	if err := writeReports(cmd, opts, out, meta); err != nil {
		return err
	}

	return checkFailThreshold(opts, out.Results)
}

// writeReports renders and writes the requested report files next to the
// parsed input (or into --output-dir).
func writeReports(cmd *cobra.Command, opts scanOptions, out *scanner.Output, meta models.ReportMeta) error {
	dir := opts.outputDir
	if dir == "" {
		if _, err := os.Stat(out.SourceLabel); err == nil {
			dir = filepath.Dir(out.SourceLabel)
		} else {
			dir = "."
		}
	}

	for _, format := range opts.reports {
		format = strings.ToLower(strings.TrimSpace(format))
		if format == "none" || format == "" {
			continue
		}
		name, ok := reportFileNames[format]
		if !ok {
			return fmt.Errorf("unknown report format %q", format)
		}
		output, err := reporter.Get(format).Report(out.Results, meta)
		if err != nil {
			return fmt.Errorf("render %s report: %w", format, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, output, 0o644); err != nil {
			return fmt.Errorf("write %s report: %w", format, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s report written to %s\n", strings.ToUpper(format), path)
	}
	return nil
}

// checkFailThreshold returns ErrFailThreshold when findings meet the
// configured --fail-on-vuln or --fail-on threshold.
func checkFailThreshold(opts scanOptions, results []models.PackageResult) error {
	total := models.TotalVulns(results)
	if opts.failOnVuln && total > 0 {
		return ErrFailThreshold
	}
	if opts.failOn == "" {
		return nil
	}
	required := severityRank[strings.ToLower(opts.failOn)]
	if maxSeverityRank(results) >= required && (required > 0 || total > 0) {
		return ErrFailThreshold
	}
	return nil
}

// maxSeverityRank returns the highest severity rank among all findings.
func maxSeverityRank(results []models.PackageResult) int {
	rank := 0
	for _, r := range results {
		for _, v := range r.Vulns {
			label := strings.ToLower(remediation.SeverityLabel(v))
			if rk, ok := severityRank[label]; ok && rk > rank {
				rank = rk
			}
		}
	}
	return rank
}
