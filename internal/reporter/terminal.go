package reporter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"depscan/internal/models"
)

var (
	boldStyle   = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

// TerminalReporter renders scan results as human-readable styled text.
type TerminalReporter struct{}

// Report renders the per-package findings followed by a summary table.
func (r *TerminalReporter) Report(results []models.PackageResult, meta models.ReportMeta) ([]byte, error) {
	enriched := enrich(results)
	total := totalVulns(enriched)

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(boldStyle.Render(fmt.Sprintf("Dependency scan complete. Total vulnerabilities: %d", total)))
	sb.WriteString("\n\n")

	for _, e := range enriched {
		version := e.Version
		if version == "-" {
			version = "(no version)"
		}
		if e.VulnCount == 0 {
			sb.WriteString(fmt.Sprintf("  %s %s %s - no known vulnerabilities\n", okStyle.Render("OK"), e.Name, version))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s %s %s - %d vulnerability(ies)\n",
			alertStyle.Render("!!"), boldStyle.Render(e.Name), version, e.VulnCount))
		for _, v := range e.Vulns {
			ids := strings.Join(v.IDs, ", ")
			if ids == "" {
				ids = "N/A"
			}
			sb.WriteString(dimStyle.Render(fmt.Sprintf("      IDs: %s", ids)) + "\n")
			if v.ShortSummary != "" {
				summary := v.ShortSummary
				if len(summary) > 80 {
					summary = summary[:80] + "..."
				}
				sb.WriteString(dimStyle.Render("      "+summary) + "\n")
			}
			sb.WriteString(dimStyle.Render("      Remediation: "+v.Remediation) + "\n")
		}
		sb.WriteString("\n")
	}

	if total > 0 {
		sb.WriteString(r.summaryTable(enriched))
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

// summaryTable renders the per-package summary of vulnerable packages.
func (r *TerminalReporter) summaryTable(enriched []enrichedResult) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Package", "Version", "Count", "CVE/OSV IDs")
	for _, e := range enriched {
		if e.VulnCount == 0 {
			continue
		}
		var ids []string
		for _, v := range e.Vulns {
			ids = append(ids, v.IDs...)
		}
		shown := strings.Join(ids, ", ")
		if len(ids) > 5 {
			shown = strings.Join(ids[:5], ", ") + "..."
		}
		t.Row(e.Name, e.Version, fmt.Sprintf("%d", e.VulnCount), shown)
	}
	return headerStyle.Render("Summary by package") + "\n" + t.Render() + "\n"
}
