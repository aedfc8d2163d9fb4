package reporter

import (
	"encoding/json"
	"fmt"

	"depscan/internal/models"
)

// SARIFReporter outputs findings in SARIF format for GitHub Code Scanning.
type SARIFReporter struct{}

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ShortDescription sarifText       `json:"shortDescription"`
	FullDescription  sarifText       `json:"fullDescription"`
	Help             sarifText       `json:"help"`
	HelpURI          string          `json:"helpUri,omitempty"`
	DefaultConfig    sarifRuleConfig `json:"defaultConfiguration"`
	Properties       sarifProperties `json:"properties"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifProperties struct {
	Tags             []string `json:"tags"`
	SecuritySeverity string   `json:"security-severity,omitempty"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifText         `json:"message"`
	Locations           []sarifLocation   `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// sarifLevel maps a severity label to a SARIF result level.
func sarifLevel(severity string) string {
	switch severity {
	case "Critical", "High":
		return "error"
	case "Medium":
		return "warning"
	case "Low":
		return "note"
	default:
		return "warning"
	}
}

// sarifSecuritySeverity approximates a numeric security-severity property
// from the severity label, as GitHub expects.
func sarifSecuritySeverity(severity string) string {
	switch severity {
	case "Critical":
		return "9.5"
	case "High":
		return "8.0"
	case "Medium":
		return "5.0"
	case "Low":
		return "2.0"
	default:
		return ""
	}
}

// Report generates SARIF 2.1.0 output for the given scan results.
func (r *SARIFReporter) Report(results []models.PackageResult, meta models.ReportMeta) ([]byte, error) {
	enriched := enrich(results)
	rules, ruleIndex := r.buildRules(enriched)

	report := sarifReport{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:           "depscan",
					Version:        meta.ScannerVersion,
					InformationURI: "https://osv.dev",
					Rules:          rules,
				},
			},
			Results: r.buildResults(enriched, ruleIndex, meta.InputLabel),
		}},
	}

	return json.MarshalIndent(report, "", "  ")
}

func (r *SARIFReporter) buildRules(enriched []enrichedResult) ([]sarifRule, map[string]int) {
	var rules []sarifRule
	ruleIndex := make(map[string]int)

	for _, e := range enriched {
		for _, v := range e.Vulns {
			if v.ID == "" {
				continue
			}
			if _, exists := ruleIndex[v.ID]; exists {
				continue
			}
			ruleIndex[v.ID] = len(rules)
			rules = append(rules, sarifRule{
				ID:               v.ID,
				Name:             v.ID,
				ShortDescription: sarifText{Text: v.ShortSummary},
				FullDescription:  sarifText{Text: v.Summary},
				Help:             sarifText{Text: v.RecommendedAction},
				HelpURI:          v.ReadMoreURL,
				DefaultConfig:    sarifRuleConfig{Level: sarifLevel(v.Severity)},
				Properties: sarifProperties{
					Tags:             []string{"security", "vulnerability", "osv"},
					SecuritySeverity: sarifSecuritySeverity(v.Severity),
				},
			})
		}
	}

	return rules, ruleIndex
}

func (r *SARIFReporter) buildResults(enriched []enrichedResult, ruleIndex map[string]int, inputLabel string) []sarifResult {
	var results []sarifResult

	for _, e := range enriched {
		for _, v := range e.Vulns {
			if v.ID == "" {
				continue
			}
			msg := fmt.Sprintf("Dependency %s@%s is affected by %s", e.Name, e.Version, v.ID)
			if v.ShortSummary != "" {
				msg += ": " + v.ShortSummary
			}
			results = append(results, sarifResult{
				RuleID:    v.ID,
				RuleIndex: ruleIndex[v.ID],
				Level:     sarifLevel(v.Severity),
				Message:   sarifText{Text: msg},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifact{URI: inputLabel},
					},
				}},
				PartialFingerprints: map[string]string{
					"primaryLocationLineHash": fmt.Sprintf("%s:%s:%s", e.Name, e.Version, v.ID),
				},
			})
		}
	}

	return results
}
