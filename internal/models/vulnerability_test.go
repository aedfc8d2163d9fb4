package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexStringsDecodesStringAndList(t *testing.T) {
	var ds DatabaseSpecific
	require.NoError(t, json.Unmarshal([]byte(`{"fixed_in": "2.0.0"}`), &ds))
	assert.Equal(t, FlexStrings{"2.0.0"}, ds.FixedIn)

	ds = DatabaseSpecific{}
	require.NoError(t, json.Unmarshal([]byte(`{"fixed_in": ["2.0.0", "3.0.0"]}`), &ds))
	assert.Equal(t, FlexStrings{"2.0.0", "3.0.0"}, ds.FixedIn)
}

func TestFlexStringsDropsUnexpectedShapes(t *testing.T) {
	var ds DatabaseSpecific
	require.NoError(t, json.Unmarshal([]byte(`{"fixed_in": {"bad": true}}`), &ds))
	assert.Nil(t, ds.FixedIn)

	ds = DatabaseSpecific{}
	require.NoError(t, json.Unmarshal([]byte(`{"fixed_in": 42}`), &ds))
	assert.Nil(t, ds.FixedIn)
}

func TestVulnerabilityIDs(t *testing.T) {
	v := Vulnerability{
		ID:      "GHSA-x",
		Aliases: []string{"CVE-1", "GHSA-x", "", "CVE-2"},
	}
	assert.Equal(t, []string{"GHSA-x", "CVE-1", "CVE-2"}, v.IDs())

	assert.Empty(t, Vulnerability{}.IDs())
}

func TestReferenceURLs(t *testing.T) {
	v := Vulnerability{References: []Reference{
		{Type: "WEB", URL: "https://a"},
		{Type: "ADVISORY", URL: ""},
		{URL: "https://b"},
	}}
	assert.Equal(t, []string{"https://a", "https://b"}, v.ReferenceURLs())
}

func TestDependencyHelpers(t *testing.T) {
	d := Pinned("requests", "2.28.0")
	assert.Equal(t, "2.28.0", d.VersionOr("-"))
	assert.Equal(t, "requests@2.28.0", d.String())

	u := Unpinned("flask")
	assert.Nil(t, u.Version)
	assert.Equal(t, "-", u.VersionOr("-"))
	assert.Equal(t, "flask", u.String())
}

func TestWithEcosystemDoesNotOverride(t *testing.T) {
	d := Pinned("lodash", "4.17.21").WithEcosystem(EcosystemNpm)
	assert.Equal(t, EcosystemNpm, d.WithEcosystem(EcosystemPyPI).Ecosystem)

	assert.Equal(t, EcosystemPyPI, Unpinned("flask").WithEcosystem(EcosystemPyPI).Ecosystem)
}

func TestTotalVulns(t *testing.T) {
	results := []PackageResult{
		{Name: "a", Vulns: []Vulnerability{{ID: "1"}, {ID: "2"}}},
		{Name: "b"},
		{Name: "c", Vulns: []Vulnerability{{ID: "3"}}},
	}
	assert.Equal(t, 3, TotalVulns(results))
	assert.Equal(t, 0, TotalVulns(nil))
}
