package reporter

import (
	"encoding/json"
	"time"

	"depscan/internal/models"
	"depscan/internal/remediation"
)

// JSONReporter writes a machine-readable report for CI/CD and compliance
// pipelines.
type JSONReporter struct{}

type jsonReport struct {
	Report              jsonMeta                     `json:"report"`
	RemediationGuidance jsonRemediationGuidance      `json:"remediation_guidance"`
	Packages            []jsonPackage                `json:"packages"`
	Recommendations     []remediation.Recommendation `json:"improvement_recommendations,omitempty"`
}

type jsonMeta struct {
	GeneratedAt            string `json:"generated_at"`
	ScannerVersion         string `json:"scanner_version"`
	PackageCount           int    `json:"package_count"`
	VulnerablePackageCount int    `json:"vulnerable_package_count"`
	TotalVulnerabilities   int    `json:"total_vulnerabilities"`
	FixableCount           int    `json:"fixable_count"`
	NonFixableCount        int    `json:"non_fixable_count"`
	InputFile              string `json:"input_file,omitempty"`
	Ecosystem              string `json:"ecosystem,omitempty"`
	FromLockfile           bool   `json:"from_lockfile"`
}

type jsonRemediationGuidance struct {
	RemediationSummary   string            `json:"remediation_summary"`
	EvaluatedForEachVuln []string          `json:"evaluated_for_each_vuln"`
	RecommendedActions   []string          `json:"recommended_actions"`
	PriorityLevels       map[string]string `json:"priority_levels"`
	AuditConsiderations  string            `json:"audit_considerations"`
}

type jsonPackage struct {
	Name      string     `json:"name"`
	Version   string     `json:"version"`
	VulnCount int        `json:"vuln_count"`
	Vulns     []jsonVuln `json:"vulns"`
}

type jsonVuln struct {
	ID                string   `json:"id"`
	IDs               []string `json:"ids"`
	Summary           string   `json:"summary"`
	References        []string `json:"references"`
	Remediation       string   `json:"remediation"`
	Severity          string   `json:"severity"`
	Status            string   `json:"status"`
	FixAvailable      bool     `json:"fix_available"`
	RecommendedAction string   `json:"recommended_action"`
	Priority          string   `json:"priority"`
	RemediationRisk   string   `json:"remediation_risk"`
}

// Report renders the JSON report.
func (r *JSONReporter) Report(results []models.PackageResult, meta models.ReportMeta) ([]byte, error) {
	enriched := enrich(results)
	fixable, nonFixable := fixableCounts(enriched)

	out := jsonReport{
		Report: jsonMeta{
			GeneratedAt:            meta.GeneratedAt.UTC().Format(time.RFC3339),
			ScannerVersion:         meta.ScannerVersion,
			PackageCount:           len(results),
			VulnerablePackageCount: vulnerableCount(enriched),
			TotalVulnerabilities:   totalVulns(enriched),
			FixableCount:           fixable,
			NonFixableCount:        nonFixable,
			InputFile:              meta.InputLabel,
			Ecosystem:              string(meta.Ecosystem),
			FromLockfile:           meta.FromLockfile,
		},
		RemediationGuidance: guidanceBoilerplate,
		Packages:            make([]jsonPackage, 0, len(enriched)),
	}
	if meta.IncludeGuidance {
		out.Recommendations = remediation.Recommendations()
	}

	for _, e := range enriched {
		pkg := jsonPackage{
			Name:      e.Name,
			Version:   e.Version,
			VulnCount: e.VulnCount,
			Vulns:     make([]jsonVuln, 0, len(e.Vulns)),
		}
		for _, v := range e.Vulns {
			pkg.Vulns = append(pkg.Vulns, jsonVuln{
				ID:                v.ID,
				IDs:               v.IDs,
				Summary:           v.Summary,
				References:        v.References,
				Remediation:       v.Remediation,
				Severity:          v.Severity,
				Status:            v.Status,
				FixAvailable:      v.FixAvailable,
				RecommendedAction: v.RecommendedAction,
				Priority:          v.Priority,
				RemediationRisk:   v.Risk,
			})
		}
		out.Packages = append(out.Packages, pkg)
	}

	return json.MarshalIndent(out, "", "  ")
}

var guidanceBoilerplate = jsonRemediationGuidance{
	RemediationSummary: "This section provides actionable remediation guidance for vulnerabilities detected in the dependency analysis. The purpose is not only to identify known vulnerabilities, but to support informed, auditable decision-making in accordance with secure software development and supply chain risk management practices.",
	EvaluatedForEachVuln: []string{
		"Fix availability (patched or non-patched)",
		"Recommended remediation action",
		"Remediation priority, based on severity and exploitability",
		"Potential impact of remediation, including compatibility or breaking-change risk",
	},
	RecommendedActions: []string{
		"Upgrade dependency — A fixed version is available and upgrading is the preferred mitigation.",
		"Replace dependency — The dependency is unmaintained, end-of-life, or presents systemic risk.",
		"Remove dependency — The dependency is unused or non-essential and can be safely eliminated.",
		"Apply workaround / mitigation — No official fix exists; compensating controls or configuration changes are recommended.",
		"Monitor and document risk acceptance — No fix is currently available and removal is not feasible. Risk should be documented and periodically reviewed.",
	},
	PriorityLevels: map[string]string{
		"Immediate": "Critical or High severity with known exploits or high exposure.",
		"Planned":   "Medium severity or fix available with moderate effort.",
		"Monitor":   "Low severity, no active exploit, or no fix available.",
	},
	AuditConsiderations: "Remediation guidance is designed to be deterministic and reproducible, traceable to public vulnerability databases (e.g., OSV.dev), and suitable for inclusion in audit reports, SBOM reviews, and compliance documentation. Final remediation decisions remain the responsibility of the project maintainer or organization and should be documented as part of the secure development lifecycle.",
}
