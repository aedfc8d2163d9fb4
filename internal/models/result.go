package models

import "time"

// PackageResult holds the vulnerabilities found for one scanned dependency.
type PackageResult struct {
	Name    string
	Version *string
	Vulns   []Vulnerability
}

// VersionOr returns the version string, or fallback when the dependency was unpinned.
func (r PackageResult) VersionOr(fallback string) string {
	if r.Version == nil {
		return fallback
	}
	return *r.Version
}

// TotalVulns sums the vulnerability counts across results.
func TotalVulns(results []PackageResult) int {
	total := 0
	for _, r := range results {
		total += len(r.Vulns)
	}
	return total
}

// ReportMeta carries scan metadata that reporters embed in their output.
type ReportMeta struct {
	GeneratedAt     time.Time
	ScannerVersion  string
	InputLabel      string
	Ecosystem       Ecosystem
	FromLockfile    bool
	IncludeGuidance bool
}
