// Package reporter renders scan results as terminal text, JSON, HTML, or
// SARIF.
package reporter

import "depscan/internal/models"

// Reporter is the interface for output formatters.
type Reporter interface {
	// Report renders the scan results with the given metadata.
	Report(results []models.PackageResult, meta models.ReportMeta) ([]byte, error)
}

// Get returns a reporter for the specified format. Unknown formats get the
// terminal reporter.
func Get(format string) Reporter {
	switch format {
	case "json":
		return &JSONReporter{}
	case "html":
		return &HTMLReporter{}
	case "sarif":
		return &SARIFReporter{}
	default:
		return &TerminalReporter{}
	}
}
