package models

import "encoding/json"

// Vulnerability is the subset of an OSV.dev vulnerability entry that the
// scanner and reporters consume. Field names follow the OSV schema.
type Vulnerability struct {
	ID               string           `json:"id"`
	Aliases          []string         `json:"aliases,omitempty"`
	Summary          string           `json:"summary,omitempty"`
	Details          string           `json:"details,omitempty"`
	Published        string           `json:"published,omitempty"`
	Withdrawn        string           `json:"withdrawn,omitempty"`
	Severity         []Severity       `json:"severity,omitempty"`
	Affected         []Affected       `json:"affected,omitempty"`
	References       []Reference      `json:"references,omitempty"`
	DatabaseSpecific DatabaseSpecific `json:"database_specific,omitempty"`
}

// Severity is one entry of the OSV severity array, e.g. {"type": "CVSS_V3", "score": "9.8"}.
type Severity struct {
	Type  string `json:"type"`
	Score string `json:"score"`
}

// Affected describes one affected package block with its version ranges.
type Affected struct {
	Ranges []Range `json:"ranges,omitempty"`
}

// Range holds the introduced/fixed events for one version range.
type Range struct {
	Type   string  `json:"type,omitempty"`
	Events []Event `json:"events,omitempty"`
}

// Event is a single range event; exactly one field is normally set.
type Event struct {
	Introduced string `json:"introduced,omitempty"`
	Fixed      string `json:"fixed,omitempty"`
}

// Reference is an external link attached to a vulnerability.
type Reference struct {
	Type string `json:"type,omitempty"`
	URL  string `json:"url"`
}

// DatabaseSpecific carries the loosely-typed database_specific object.
// Only the fields the reports use are decoded.
type DatabaseSpecific struct {
	Severity string      `json:"severity,omitempty"`
	FixedIn  FlexStrings `json:"fixed_in,omitempty"`
}

// FlexStrings decodes a JSON value that is either a string or a list of
// strings into a flat list. PyPI advisories use both shapes for fixed_in.
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*f = FlexStrings{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		// Unexpected shape: drop rather than fail the whole response.
		*f = nil
		return nil
	}
	*f = many
	return nil
}

// IDs returns the vulnerability ID followed by its aliases, deduplicated.
func (v Vulnerability) IDs() []string {
	var ids []string
	seen := make(map[string]bool)
	if v.ID != "" {
		ids = append(ids, v.ID)
		seen[v.ID] = true
	}
	for _, a := range v.Aliases {
		if a != "" && !seen[a] {
			ids = append(ids, a)
			seen[a] = true
		}
	}
	return ids
}

// ReferenceURLs returns all reference URLs in order.
func (v Vulnerability) ReferenceURLs() []string {
	var urls []string
	for _, r := range v.References {
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
	}
	return urls
}
