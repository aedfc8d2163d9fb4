package parsers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depscan/internal/models"
)

func TestParseRequirementsEmpty(t *testing.T) {
	assert.Empty(t, ParseRequirements(""))
	assert.Empty(t, ParseRequirements("\n\n"))
}

func TestParseRequirementsCommentsAndEmptyLines(t *testing.T) {
	content := "\n# comment\nrequests==2.28.0\n# another\nflask\n"
	deps := ParseRequirements(content)
	require.Len(t, deps, 2)
	assert.Equal(t, models.Pinned("requests", "2.28.0"), deps[0])
	assert.Equal(t, models.Unpinned("flask"), deps[1])
}

func TestParseRequirementsOperators(t *testing.T) {
	cases := map[string]models.Dependency{
		"package==1.2.3": models.Pinned("package", "1.2.3"),
		"package>=1.2":   models.Pinned("package", "1.2"),
		"package<=2.0":   models.Pinned("package", "2.0"),
		"package!=1.0":   models.Pinned("package", "1.0"),
		"package~=1.4":   models.Pinned("package", "1.4"),
		"package<3":      models.Pinned("package", "3"),
		"package>1":      models.Pinned("package", "1"),
		"package":        models.Unpinned("package"),
	}
	for line, want := range cases {
		deps := ParseRequirements(line)
		require.Len(t, deps, 1, "line %q", line)
		assert.Equal(t, want, deps[0], "line %q", line)
	}
}

func TestParseRequirementsInlineComment(t *testing.T) {
	deps := ParseRequirements("requests==2.28.0  # HTTP library")
	require.Len(t, deps, 1)
	assert.Equal(t, models.Pinned("requests", "2.28.0"), deps[0])
}

func TestParseRequirementsSkipsOptions(t *testing.T) {
	content := "-r base.txt\n-e git+https://example.com/repo\npackage==1.0\n"
	deps := ParseRequirements(content)
	require.Len(t, deps, 1)
	assert.Equal(t, models.Pinned("package", "1.0"), deps[0])
}

func TestParseRequirementsDropsUnrecognizedLines(t *testing.T) {
	content := "@@not-a-package\npackage==1.0\n===\n"
	deps := ParseRequirements(content)
	require.Len(t, deps, 1)
	assert.Equal(t, "package", deps[0].Name)
}

func TestParseRequirementsPreservesOrder(t *testing.T) {
	content := "zebra==1.0\napple==2.0\nmango\n"
	deps := ParseRequirements(content)
	require.Len(t, deps, 3)
	assert.Equal(t, "zebra", deps[0].Name)
	assert.Equal(t, "apple", deps[1].Name)
	assert.Equal(t, "mango", deps[2].Name)
}

func TestParseRequirementsIdempotent(t *testing.T) {
	content := "requests==2.28.0\nflask\nclick>=8.0\n"
	first := ParseRequirements(content)
	second := ParseRequirements(content)
	assert.Equal(t, first, second)
}

func TestParseFreezeStrictFormat(t *testing.T) {
	content := "-e git+https://x\npkg==1.0\n"
	deps := ParseFreeze(content)
	require.Len(t, deps, 1)
	assert.Equal(t, models.Pinned("pkg", "1.0"), deps[0])
}

func TestParseFreezeRejectsOtherOperators(t *testing.T) {
	content := "pkg>=1.0\npkg2==2.0\n# comment\n\n"
	deps := ParseFreeze(content)
	require.Len(t, deps, 1)
	assert.Equal(t, "pkg2", deps[0].Name)
}

func TestFreezeAndRequirementsAgreeOnPinnedLines(t *testing.T) {
	content := "requests==2.28.0\nnumpy==1.24.1\n"
	fromReq := ParseRequirements(content)
	fromFreeze := ParseFreeze(content)
	assert.Equal(t, fromReq, fromFreeze)
}

func TestParseRequirementsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte("click>=8.0\njinja2==3.1.0\n"), 0o644))

	deps, err := ParseRequirementsFile(path)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, models.Pinned("click", "8.0"), deps[0])
	assert.Equal(t, models.Pinned("jinja2", "3.1.0"), deps[1])
}

func TestParsePyprojectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")
	content := `[project]
name = "demo"
version = "1.0"
dependencies = ["click>=8.0", "jinja2==3.1.0", "rich"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	deps, err := ParsePyprojectFile(path)
	require.NoError(t, err)
	require.Len(t, deps, 3)
	assert.Equal(t, models.Pinned("click", "8.0"), deps[0])
	assert.Equal(t, models.Pinned("jinja2", "3.1.0"), deps[1])
	assert.Equal(t, models.Unpinned("rich"), deps[2])
}

func TestParsePyprojectFileNoDependencies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte("[project]\nname = \"pkg\"\n"), 0o644))

	deps, err := ParsePyprojectFile(path)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestParsePyprojectFileMissingProjectTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tool.black]\nline-length = 100\n"), 0o644))

	deps, err := ParsePyprojectFile(path)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestParseDependencyFileDispatch(t *testing.T) {
	dir := t.TempDir()

	pyproject := filepath.Join(dir, "pyproject.toml")
	require.NoError(t, os.WriteFile(pyproject, []byte("[project]\ndependencies = [\"flask\"]\n"), 0o644))
	deps, err := ParseDependencyFile(pyproject)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "flask", deps[0].Name)

	reqs := filepath.Join(dir, "dev-requirements.txt")
	require.NoError(t, os.WriteFile(reqs, []byte("pytest==7.0.0\n"), 0o644))
	deps, err = ParseDependencyFile(reqs)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "pytest", deps[0].Name)
}

func TestPyPIDepsTagsEcosystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte("requests==2.28.0\nflask\n"), 0o644))

	deps, err := PyPIDeps(path)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	for _, d := range deps {
		assert.Equal(t, models.EcosystemPyPI, d.Ecosystem)
	}
}

func TestFreezeDepsTagsEcosystem(t *testing.T) {
	deps := FreezeDeps("pkg==1.0\n")
	require.Len(t, deps, 1)
	assert.Equal(t, models.EcosystemPyPI, deps[0].Ecosystem)
}
