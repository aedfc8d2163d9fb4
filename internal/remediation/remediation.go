// Package remediation derives upgrade guidance from OSV vulnerability data:
// fix availability, a recommended action, an upgrade-risk estimate, and a
// handling priority.
package remediation

import (
	"fmt"
	"strings"

	"depscan/internal/models"
)

// FixedVersions extracts the fixed versions an advisory names, from affected
// range events and from database_specific.fixed_in, deduplicated in order.
func FixedVersions(v models.Vulnerability) []string {
	var fixed []string
	seen := make(map[string]bool)
	add := func(ver string) {
		if ver != "" && !seen[ver] {
			seen[ver] = true
			fixed = append(fixed, ver)
		}
	}
	for _, aff := range v.Affected {
		for _, rng := range aff.Ranges {
			for _, ev := range rng.Events {
				add(ev.Fixed)
			}
		}
	}
	for _, f := range v.DatabaseSpecific.FixedIn {
		add(f)
	}
	return fixed
}

// FixAvailable reports whether the advisory names any fixed version.
func FixAvailable(v models.Vulnerability) bool {
	return len(FixedVersions(v)) > 0
}

// RecommendedAction returns a human-readable remediation step.
func RecommendedAction(v models.Vulnerability) string {
	fixed := FixedVersions(v)
	switch {
	case len(fixed) == 0:
		return "Check references for upgrade or mitigation guidance."
	case len(fixed) == 1:
		return "Upgrade to " + fixed[0]
	case len(fixed) > 5:
		return fmt.Sprintf("Upgrade to one of: %s (+%d more)", strings.Join(fixed[:5], ", "), len(fixed)-5)
	default:
		return "Upgrade to one of: " + strings.Join(fixed, ", ")
	}
}

// RemediationText returns the per-vulnerability remediation line. Unlike
// RecommendedAction it considers only database_specific.fixed_in; fixes named
// solely by range events get the generic reference text.
func RemediationText(v models.Vulnerability) string {
	if len(v.DatabaseSpecific.FixedIn) > 0 {
		return "Upgrade to one of: " + strings.Join(v.DatabaseSpecific.FixedIn, ", ")
	}
	return "Check references for upgrade or mitigation guidance."
}

// Risk estimates the upgrade risk from the version distance between the
// scanned version and the advertised fixes: a major bump is High, a minor
// bump Medium, otherwise Low. Unknown without usable version data.
func Risk(v models.Vulnerability, currentVersion string) string {
	fixed := FixedVersions(v)
	if currentVersion == "" || currentVersion == "-" || len(fixed) == 0 {
		return "Unknown"
	}
	curr := parseVersion(currentVersion)
	for _, f := range fixed {
		fv := parseVersion(f)
		if len(curr) >= 1 && len(fv) >= 1 && curr[0] != fv[0] {
			return "High"
		}
		if len(curr) >= 2 && len(fv) >= 2 && (curr[0] != fv[0] || curr[1] != fv[1]) {
			return "Medium"
		}
	}
	return "Low"
}

// PriorityFromSeverity maps a severity label to a handling priority.
func PriorityFromSeverity(severity string) string {
	switch strings.ToUpper(strings.TrimSpace(severity)) {
	case "CRITICAL", "HIGH":
		return "Immediate"
	case "MEDIUM", "MODERATE":
		return "Planned"
	default:
		return "Monitor"
	}
}

// Guidance bundles the remediation fields derived for one vulnerability.
type Guidance struct {
	FixAvailable      bool
	RecommendedAction string
	Risk              string
	Priority          string
}

// Enrich derives all remediation fields for a vulnerability found in the
// given package version.
func Enrich(v models.Vulnerability, pkgVersion, severityLabel string) Guidance {
	if pkgVersion == "" {
		pkgVersion = "-"
	}
	return Guidance{
		FixAvailable:      FixAvailable(v),
		RecommendedAction: RecommendedAction(v),
		Risk:              Risk(v, pkgVersion),
		Priority:          PriorityFromSeverity(severityLabel),
	}
}
