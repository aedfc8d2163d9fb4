package reporter

import (
	"strings"

	"depscan/internal/models"
	"depscan/internal/remediation"
)

// enrichedVuln is the reporter-facing view of one vulnerability, with the
// derived fields every output format shares.
type enrichedVuln struct {
	ID           string
	IDs          []string
	Summary      string
	ShortSummary string
	Details      string
	References   []string
	ReadMoreURL  string
	Severity     string
	Status       string
	Published    string
	Withdrawn    string

	FixAvailable      bool
	Remediation       string
	RecommendedAction string
	Priority          string
	Risk              string
}

// enrichedResult is one scanned package with its enriched vulnerabilities.
type enrichedResult struct {
	Name      string
	Version   string
	VulnCount int
	Vulns     []enrichedVuln
}

const (
	maxDetails = 2000
	maxSummary = 280
)

// shortSummary returns the first sentence or two for readability, or the
// truncated text.
func shortSummary(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxSummary {
		return text
	}
	truncated := text[:maxSummary+1]
	if idx := strings.LastIndex(truncated, ". "); idx > maxSummary/2 {
		return strings.TrimSpace(truncated[:idx+1])
	}
	return strings.TrimRight(truncated, " ") + "…"
}

func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}

// enrich builds the shared report view for all scanned packages.
func enrich(results []models.PackageResult) []enrichedResult {
	enriched := make([]enrichedResult, 0, len(results))
	for _, r := range results {
		pkgVersion := r.VersionOr("-")
		vulns := make([]enrichedVuln, 0, len(r.Vulns))
		for _, v := range r.Vulns {
			refs := v.ReferenceURLs()
			severity := remediation.SeverityLabel(v)
			guidance := remediation.Enrich(v, pkgVersion, severity)
			readMore := ""
			if len(refs) > 0 {
				readMore = refs[0]
			}
			summary := v.Summary
			if summary == "" {
				summary = v.Details
			}
			vulns = append(vulns, enrichedVuln{
				ID:                v.ID,
				IDs:               v.IDs(),
				Summary:           v.Summary,
				ShortSummary:      shortSummary(summary),
				Details:           truncate(v.Details, maxDetails),
				References:        refs,
				ReadMoreURL:       readMore,
				Severity:          severity,
				Status:            remediation.Status(v, pkgVersion),
				Published:         v.Published,
				Withdrawn:         v.Withdrawn,
				FixAvailable:      guidance.FixAvailable,
				Remediation:       remediation.RemediationText(v),
				RecommendedAction: guidance.RecommendedAction,
				Priority:          guidance.Priority,
				Risk:              guidance.Risk,
			})
		}
		enriched = append(enriched, enrichedResult{
			Name:      r.Name,
			Version:   pkgVersion,
			VulnCount: len(r.Vulns),
			Vulns:     vulns,
		})
	}
	return enriched
}

// overviewRow is one line of the report overview table.
type overviewRow struct {
	Package  string
	Version  string
	VulnID   string
	Severity string
	Status   string
	Priority string
}

func overviewRows(enriched []enrichedResult) []overviewRow {
	var rows []overviewRow
	for _, r := range enriched {
		for _, v := range r.Vulns {
			id := "—"
			if len(v.IDs) > 0 {
				id = v.IDs[0]
			}
			severity := v.Severity
			if severity == "" {
				severity = "Unknown"
			}
			rows = append(rows, overviewRow{
				Package:  r.Name,
				Version:  r.Version,
				VulnID:   id,
				Severity: severity,
				Status:   v.Status,
				Priority: v.Priority,
			})
		}
	}
	return rows
}

// severityDistribution counts overview rows per severity bucket.
func severityDistribution(rows []overviewRow) map[string]int {
	dist := map[string]int{"Critical": 0, "High": 0, "Medium": 0, "Low": 0, "Unknown": 0}
	for _, row := range rows {
		sev := strings.TrimSpace(row.Severity)
		if _, ok := dist[sev]; !ok {
			sev = "Unknown"
		}
		dist[sev]++
	}
	return dist
}

// fixableCounts splits vulnerabilities into fixable and non-fixable totals.
func fixableCounts(enriched []enrichedResult) (fixable, nonFixable int) {
	for _, r := range enriched {
		for _, v := range r.Vulns {
			if v.FixAvailable {
				fixable++
			} else {
				nonFixable++
			}
		}
	}
	return fixable, nonFixable
}

func vulnerableCount(enriched []enrichedResult) int {
	count := 0
	for _, r := range enriched {
		if r.VulnCount > 0 {
			count++
		}
	}
	return count
}

func totalVulns(enriched []enrichedResult) int {
	total := 0
	for _, r := range enriched {
		total += r.VulnCount
	}
	return total
}
