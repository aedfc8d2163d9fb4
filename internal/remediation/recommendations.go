package remediation

// Recommendation is a project-level supply-chain improvement suggestion,
// included in reports when guidance is requested.
type Recommendation struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	SecurityImpact  string `json:"security_impact"`
	Effort          string `json:"effort"`
	PolicyRelevance string `json:"policy_relevance"`
}

var recommendations = []Recommendation{
	{
		ID:              "lockfile-enforcement",
		Title:           "Enable lockfile enforcement",
		Description:     "Run installs with lockfile-only (e.g. npm ci, yarn install --frozen-lockfile, pip install from requirements.txt with hashes). Fail CI if lockfile is out of date.",
		SecurityImpact:  "High",
		Effort:          "Low",
		PolicyRelevance: "EO 14028, NIST SSDF",
	},
	{
		ID:              "reduce-sprawl",
		Title:           "Reduce dependency sprawl",
		Description:     "Audit and remove unused or duplicate packages. Prefer fewer, well-maintained dependencies.",
		SecurityImpact:  "Medium",
		Effort:          "Medium",
		PolicyRelevance: "CISA Secure Software",
	},
	{
		ID:              "remove-unmaintained",
		Title:           "Remove unused or unmaintained packages",
		Description:     "Identify dependencies that are no longer maintained or unused; replace or remove them.",
		SecurityImpact:  "High",
		Effort:          "Medium",
		PolicyRelevance: "NIST SSDF, CISA",
	},
	{
		ID:              "pin-versions",
		Title:           "Pin versions where feasible",
		Description:     "Prefer exact or narrow version ranges in declaration files to improve reproducibility and auditability.",
		SecurityImpact:  "Medium",
		Effort:          "Low",
		PolicyRelevance: "EO 14028",
	},
	{
		ID:              "automated-updates",
		Title:           "Introduce automated dependency updates",
		Description:     "Use Dependabot, Renovate, or similar to open PRs for dependency updates; run depscan in CI on those PRs.",
		SecurityImpact:  "High",
		Effort:          "Medium",
		PolicyRelevance: "NIST SSDF RV.1, CISA",
	},
	{
		ID:              "sbom-ci",
		Title:           "Add SBOM generation to CI/CD",
		Description:     "Generate a Software Bill of Materials (CycloneDX or SPDX) in CI and retain for release artifacts.",
		SecurityImpact:  "High",
		Effort:          "Medium",
		PolicyRelevance: "EO 14028 Sec. 4(c)",
	},
}

// Recommendations returns the project-level improvement checklist.
func Recommendations() []Recommendation {
	out := make([]Recommendation, len(recommendations))
	copy(out, recommendations)
	return out
}
