package parsers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depscan/internal/models"
)

func TestDetectEcosystemOverrideWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "requests==2.28.0\n")

	assert.Equal(t, EcoNode, DetectEcosystem(dir, "node"))
	assert.Equal(t, EcoNode, DetectEcosystem(dir, "NODE"))
	assert.Equal(t, EcoPython, DetectEcosystem(dir, "python"))
	// An override beats a missing path too.
	assert.Equal(t, EcoNode, DetectEcosystem(filepath.Join(dir, "nope"), "node"))
}

func TestDetectEcosystemByFileName(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"requirements.txt":  EcoPython,
		"pyproject.toml":    EcoPython,
		"package.json":      EcoNode,
		"package-lock.json": EcoNode,
		"yarn.lock":         EcoNode,
		"pnpm-lock.yaml":    EcoNode,
	}
	for name, want := range cases {
		path := writeFile(t, dir, name, "")
		assert.Equal(t, want, DetectEcosystem(path, ""), "file %s", name)
	}

	other := writeFile(t, dir, "Gemfile", "")
	assert.Equal(t, "", DetectEcosystem(other, ""))
}

func TestDetectEcosystemDirectoryPrefersNode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "requests==2.28.0\n")
	writeFile(t, dir, "package-lock.json", "{}")

	assert.Equal(t, EcoNode, DetectEcosystem(dir, ""))
}

func TestDetectEcosystemMissingPath(t *testing.T) {
	assert.Equal(t, "", DetectEcosystem(filepath.Join(t.TempDir(), "nope"), ""))
}

func TestResolvePythonDirectory(t *testing.T) {
	dir := t.TempDir()
	reqPath := writeFile(t, dir, "requirements.txt", "requests==2.28.0\nflask\n")

	res, err := Resolve(dir, "")
	require.NoError(t, err)
	assert.Equal(t, models.EcosystemPyPI, res.OSVEcosystem)
	assert.Equal(t, reqPath, res.SourceLabel)
	assert.True(t, res.FromLockfile)
	assert.Equal(t, []string{"requests", "flask"}, depNames(res.Deps))
}

func TestResolveNodeDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"dependencies": {"express": "^4.18.0"}}`)

	res, err := Resolve(dir, "")
	require.NoError(t, err)
	assert.Equal(t, models.EcosystemNpm, res.OSVEcosystem)
	assert.False(t, res.FromLockfile)
	assert.Equal(t, []string{"express"}, depNames(res.Deps))
}

func TestResolveOverrideForcesEcosystem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "requests==2.28.0\n")
	writeFile(t, dir, "package.json", `{"dependencies": {"express": "^4.18.0"}}`)

	res, err := Resolve(dir, "python")
	require.NoError(t, err)
	assert.Equal(t, models.EcosystemPyPI, res.OSVEcosystem)
	assert.Equal(t, []string{"requests"}, depNames(res.Deps))
}

func TestResolveUnrecognizedPathYieldsEmptyPyPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist")

	res, err := Resolve(path, "")
	require.NoError(t, err)
	assert.Equal(t, models.EcosystemPyPI, res.OSVEcosystem)
	assert.Empty(t, res.Deps)
	assert.Equal(t, path, res.SourceLabel)
	assert.False(t, res.FromLockfile)
}

func TestResolveArbitraryTxtFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "deps.txt", "click>=8.0\n")

	res, err := Resolve(path, "")
	require.NoError(t, err)
	assert.Equal(t, models.EcosystemPyPI, res.OSVEcosystem)
	assert.Equal(t, []string{"click"}, depNames(res.Deps))
}
