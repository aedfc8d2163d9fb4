package remediation

import (
	"strconv"
	"strings"

	"depscan/internal/models"
)

// SeverityLabel normalizes OSV severity data to Critical, High, Medium, Low,
// or "" when nothing usable is present. The top-level severity array (numeric
// CVSS scores) wins; database_specific.severity keywords are the fallback.
func SeverityLabel(v models.Vulnerability) string {
	for _, sev := range v.Severity {
		score, err := strconv.ParseFloat(sev.Score, 64)
		if err != nil {
			continue
		}
		switch {
		case score >= 9.0:
			return "Critical"
		case score >= 7.0:
			return "High"
		case score >= 4.0:
			return "Medium"
		case score > 0:
			return "Low"
		}
	}
	raw := strings.ToUpper(v.DatabaseSpecific.Severity)
	switch {
	case strings.Contains(raw, "CRITICAL"):
		return "Critical"
	case strings.Contains(raw, "HIGH"):
		return "High"
	case strings.Contains(raw, "MEDIUM"), strings.Contains(raw, "MODERATE"):
		return "Medium"
	case strings.Contains(raw, "LOW"):
		return "Low"
	}
	return ""
}

// fixedInVersion reports whether the scanned version already includes a fix
// the advisory names.
func fixedInVersion(v models.Vulnerability, pkgVersion string) bool {
	if pkgVersion == "" || pkgVersion == "-" {
		return false
	}
	for _, f := range FixedVersions(v) {
		if versionGTE(pkgVersion, f) {
			return true
		}
	}
	return false
}

// Status derives a display status for a vulnerability against the scanned
// package version: Withdrawn, Fixed, Active, or Unknown.
func Status(v models.Vulnerability, pkgVersion string) string {
	if v.Withdrawn != "" {
		return "Withdrawn"
	}
	if fixedInVersion(v, pkgVersion) {
		return "Fixed"
	}
	if v.Published != "" {
		return "Active"
	}
	// Present in the OSV response without a published date: still a known finding.
	if v.ID != "" || len(v.Aliases) > 0 {
		return "Active"
	}
	return "Unknown"
}
