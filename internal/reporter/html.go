package reporter

import (
	"bytes"
	"html"
	"html/template"
	"strings"

	"depscan/internal/models"
	"depscan/internal/remediation"
)

// HTMLReporter renders a self-contained HTML report.
type HTMLReporter struct{}

const maxDetailsHTML = 4000

// markdownHeadersToHTML converts Markdown headings (#### down to #) in OSV
// details text to h2-h4 elements and escapes everything else, so raw
// Markdown never shows up in the report.
func markdownHeadersToHTML(text string) template.HTML {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if len(text) > maxDetailsHTML {
		text = text[:maxDetailsHTML]
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(stripped, "#### "):
			out = append(out, "<h4>"+html.EscapeString(strings.TrimPrefix(stripped, "#### "))+"</h4>")
		case strings.HasPrefix(stripped, "### "):
			out = append(out, "<h3>"+html.EscapeString(strings.TrimPrefix(stripped, "### "))+"</h3>")
		case strings.HasPrefix(stripped, "## "):
			out = append(out, "<h2>"+html.EscapeString(strings.TrimPrefix(stripped, "## "))+"</h2>")
		case strings.HasPrefix(stripped, "# "):
			out = append(out, "<h2>"+html.EscapeString(strings.TrimPrefix(stripped, "# "))+"</h2>")
		default:
			out = append(out, html.EscapeString(line))
		}
	}
	return template.HTML(strings.Join(out, "\n"))
}

type htmlVuln struct {
	enrichedVuln
	DetailsHTML template.HTML
}

type htmlResult struct {
	Name      string
	Version   string
	VulnCount int
	Vulns     []htmlVuln
}

type htmlData struct {
	GeneratedAt          string
	GeneratedYear        string
	ScannerVersion       string
	InputLabel           string
	Ecosystem            string
	PackageCount         int
	VulnerableCount      int
	TotalVulnerabilities int
	FixableCount         int
	NonFixableCount      int
	SeverityDistribution map[string]int
	OverviewRows         []overviewRow
	Results              []htmlResult
	IncludeGuidance      bool
	Recommendations      []remediation.Recommendation
}

// Report renders the HTML report.
func (r *HTMLReporter) Report(results []models.PackageResult, meta models.ReportMeta) ([]byte, error) {
	enriched := enrich(results)
	rows := overviewRows(enriched)
	fixable, nonFixable := fixableCounts(enriched)

	htmlResults := make([]htmlResult, 0, len(enriched))
	for i, e := range enriched {
		hr := htmlResult{Name: e.Name, Version: e.Version, VulnCount: e.VulnCount}
		for j, v := range e.Vulns {
			hr.Vulns = append(hr.Vulns, htmlVuln{
				enrichedVuln: v,
				DetailsHTML:  markdownHeadersToHTML(results[i].Vulns[j].Details),
			})
		}
		htmlResults = append(htmlResults, hr)
	}

	data := htmlData{
		GeneratedAt:          meta.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"),
		GeneratedYear:        meta.GeneratedAt.UTC().Format("2006"),
		ScannerVersion:       meta.ScannerVersion,
		InputLabel:           meta.InputLabel,
		Ecosystem:            string(meta.Ecosystem),
		PackageCount:         len(results),
		VulnerableCount:      vulnerableCount(enriched),
		TotalVulnerabilities: totalVulns(enriched),
		FixableCount:         fixable,
		NonFixableCount:      nonFixable,
		SeverityDistribution: severityDistribution(rows),
		OverviewRows:         rows,
		Results:              htmlResults,
		IncludeGuidance:      meta.IncludeGuidance,
	}
	if meta.IncludeGuidance {
		data.Recommendations = remediation.Recommendations()
	}

	t, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Dependency Scan Report</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f5f6f8; color: #1f2430; }
  .container { max-width: 1000px; margin: 0 auto; padding: 30px 20px 60px; }
  header { border-bottom: 2px solid #d8dce3; padding-bottom: 16px; margin-bottom: 24px; }
  header h1 { margin: 0 0 6px; font-size: 1.6em; }
  header .meta { color: #5b6372; font-size: 0.9em; }
  .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 14px; margin-bottom: 28px; }
  .card { background: #fff; border: 1px solid #e1e4ea; border-radius: 8px; padding: 14px 16px; }
  .card .num { font-size: 1.8em; font-weight: 700; }
  .card .label { color: #5b6372; font-size: 0.85em; }
  table { width: 100%; border-collapse: collapse; background: #fff; margin-bottom: 28px; }
  th, td { border: 1px solid #e1e4ea; padding: 8px 10px; text-align: left; font-size: 0.9em; }
  th { background: #eef0f4; }
  .sev-Critical { color: #a11225; font-weight: 700; }
  .sev-High { color: #c4481c; font-weight: 700; }
  .sev-Medium { color: #9a6b00; }
  .sev-Low { color: #2c6e49; }
  .pkg { background: #fff; border: 1px solid #e1e4ea; border-radius: 8px; padding: 16px 20px; margin-bottom: 16px; }
  .pkg h3 { margin-top: 0; }
  .vuln { border-top: 1px solid #eef0f4; padding: 12px 0; }
  .vuln .ids { font-weight: 600; }
  .vuln .refs a { margin-right: 10px; }
  .vuln details { margin-top: 6px; }
  .guidance { background: #fff; border: 1px solid #e1e4ea; border-radius: 8px; padding: 16px 20px; }
  footer { margin-top: 40px; color: #8a91a0; font-size: 0.8em; }
</style>
</head>
<body>
<div class="container">
  <header>
    <h1>Dependency Scan Report</h1>
    <div class="meta">
      Generated {{.GeneratedAt}} · depscan {{.ScannerVersion}}
      {{if .InputLabel}} · Input: <code>{{.InputLabel}}</code>{{end}}
      {{if .Ecosystem}} · Ecosystem: {{.Ecosystem}}{{end}}
    </div>
  </header>

  <div class="cards">
    <div class="card"><div class="num">{{.PackageCount}}</div><div class="label">Packages scanned</div></div>
    <div class="card"><div class="num">{{.VulnerableCount}}</div><div class="label">Vulnerable packages</div></div>
    <div class="card"><div class="num">{{.TotalVulnerabilities}}</div><div class="label">Total vulnerabilities</div></div>
    <div class="card"><div class="num">{{.FixableCount}}</div><div class="label">Fixable</div></div>
    <div class="card"><div class="num">{{.NonFixableCount}}</div><div class="label">No fix published</div></div>
  </div>

  {{if .OverviewRows}}
  <h2>Severity distribution</h2>
  <table>
    <tr><th>Critical</th><th>High</th><th>Medium</th><th>Low</th><th>Unknown</th></tr>
    <tr>
      <td>{{index .SeverityDistribution "Critical"}}</td>
      <td>{{index .SeverityDistribution "High"}}</td>
      <td>{{index .SeverityDistribution "Medium"}}</td>
      <td>{{index .SeverityDistribution "Low"}}</td>
      <td>{{index .SeverityDistribution "Unknown"}}</td>
    </tr>
  </table>

  <h2>Overview</h2>
  <table>
    <tr><th>Package</th><th>Version</th><th>Vulnerability</th><th>Severity</th><th>Status</th><th>Priority</th></tr>
    {{range .OverviewRows}}
    <tr>
      <td>{{.Package}}</td>
      <td>{{.Version}}</td>
      <td>{{.VulnID}}</td>
      <td class="sev-{{.Severity}}">{{.Severity}}</td>
      <td>{{.Status}}</td>
      <td>{{.Priority}}</td>
    </tr>
    {{end}}
  </table>
  {{end}}

  <h2>Details</h2>
  {{range .Results}}
  <div class="pkg">
    <h3>{{.Name}} <small>{{.Version}}</small></h3>
    {{if not .Vulns}}
    <p>No known vulnerabilities.</p>
    {{end}}
    {{range .Vulns}}
    <div class="vuln">
      <div class="ids">{{range $i, $id := .IDs}}{{if $i}}, {{end}}{{$id}}{{end}}
        {{if .Severity}}<span class="sev-{{.Severity}}"> · {{.Severity}}</span>{{end}}
        · {{.Status}}
      </div>
      {{if .ShortSummary}}<p>{{.ShortSummary}}</p>{{end}}
      <p><strong>Remediation:</strong> {{.RecommendedAction}}
         · <strong>Priority:</strong> {{.Priority}}
         · <strong>Upgrade risk:</strong> {{.Risk}}</p>
      {{if .DetailsHTML}}<details><summary>Full advisory</summary>{{.DetailsHTML}}</details>{{end}}
      {{if .References}}
      <div class="refs">
        {{range .References}}<a href="{{.}}">{{.}}</a>{{end}}
      </div>
      {{end}}
    </div>
    {{end}}
  </div>
  {{end}}

  {{if .IncludeGuidance}}
  <h2>Improvement checklist</h2>
  <div class="guidance">
    <table>
      <tr><th>Recommendation</th><th>Impact</th><th>Effort</th><th>Policy relevance</th></tr>
      {{range .Recommendations}}
      <tr>
        <td><strong>{{.Title}}</strong><br>{{.Description}}</td>
        <td>{{.SecurityImpact}}</td>
        <td>{{.Effort}}</td>
        <td>{{.PolicyRelevance}}</td>
      </tr>
      {{end}}
    </table>
  </div>
  {{end}}

  <footer>© {{.GeneratedYear}} · Data from OSV.dev · Generated by depscan {{.ScannerVersion}}</footer>
</div>
</body>
</html>
`
