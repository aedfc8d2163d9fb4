// Package parsers turns Python and Node.js dependency files into a normalized
// dependency list, and detects which ecosystem a scan target belongs to.
//
// All parsers are pure functions of their input: malformed lines and entries
// are skipped individually, and documents with an unexpected top-level shape
// degrade to an empty list instead of failing the scan.
package parsers

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"depscan/internal/models"
)

var (
	// requirementLine matches "name <op> version" with the version optional,
	// tolerating a trailing comment. Two-character operators come first so
	// the alternation does not stop at a bare "<" or ">".
	requirementLine = regexp.MustCompile(
		`^\s*([a-zA-Z0-9][a-zA-Z0-9._-]*)\s*` +
			`(?:==|>=|<=|!=|~=|<|>)\s*` +
			`([a-zA-Z0-9.*+!\-]+)?\s*` +
			`(?:#.*)?$`)

	// requirementNameOnly matches a bare package name with optional comment.
	requirementNameOnly = regexp.MustCompile(`^\s*([a-zA-Z0-9][a-zA-Z0-9._-]*)\s*(?:#.*)?$`)

	// freezeLine matches exactly "name==version", nothing else.
	freezeLine = regexp.MustCompile(`^\s*([a-zA-Z0-9][a-zA-Z0-9._-]*)\s*==\s*([a-zA-Z0-9.*+!\-]+)\s*$`)
)

// ParseRequirements parses requirements.txt-style content into dependencies.
// Comments, empty lines, and option lines (-e, -r, ...) are ignored; lines
// that match neither shape are dropped. Output preserves input line order.
func ParseRequirements(content string) []models.Dependency {
	var deps []models.Dependency
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "--") {
			continue
		}
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if m := requirementLine.FindStringSubmatch(line); m != nil {
			if m[2] != "" {
				deps = append(deps, models.Pinned(m[1], m[2]))
			} else {
				deps = append(deps, models.Unpinned(m[1]))
			}
			continue
		}
		if m := requirementNameOnly.FindStringSubmatch(line); m != nil {
			deps = append(deps, models.Unpinned(m[1]))
		}
	}
	return deps
}

// ParseRequirementsFile reads and parses a requirements file from disk.
func ParseRequirementsFile(path string) ([]models.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRequirements(string(data)), nil
}

// ParsePyprojectFile reads a pyproject.toml and extracts project.dependencies.
// Each dependency string (e.g. "click>=8.0") is parsed with the
// requirements-style single-line logic. A missing or non-list dependencies
// key yields an empty list.
func ParsePyprojectFile(path string) ([]models.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	project, _ := doc["project"].(map[string]interface{})
	rawDeps, ok := project["dependencies"].([]interface{})
	if !ok {
		return nil, nil
	}
	var deps []models.Dependency
	for _, item := range rawDeps {
		s, ok := item.(string)
		if !ok {
			continue
		}
		deps = append(deps, ParseRequirements(strings.TrimSpace(s))...)
	}
	return deps, nil
}

// ParseFreeze parses pip-freeze style output (from `pip freeze` or
// `pip list --format=freeze`). Only "name==version" lines are accepted;
// editable installs (-e ...), comments, and blank lines are skipped.
func ParseFreeze(content string) []models.Dependency {
	var deps []models.Dependency
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "-e ") || strings.HasPrefix(line, "-e\t") {
			continue
		}
		if m := freezeLine.FindStringSubmatch(line); m != nil {
			deps = append(deps, models.Pinned(m[1], m[2]))
		}
	}
	return deps
}

// ParseDependencyFile parses a Python dependency file, dispatching on the
// base name: pyproject.toml gets the TOML parser, everything else is treated
// as a requirements file.
func ParseDependencyFile(path string) ([]models.Dependency, error) {
	if filepath.Base(path) == "pyproject.toml" {
		return ParsePyprojectFile(path)
	}
	return ParseRequirementsFile(path)
}

// PyPIDeps parses a Python dependency file and tags every record with the
// PyPI ecosystem.
func PyPIDeps(path string) ([]models.Dependency, error) {
	deps, err := ParseDependencyFile(path)
	if err != nil {
		return nil, err
	}
	return tagAll(deps, models.EcosystemPyPI), nil
}

// FreezeDeps parses pip-freeze content and tags every record with PyPI.
func FreezeDeps(content string) []models.Dependency {
	return tagAll(ParseFreeze(content), models.EcosystemPyPI)
}

func tagAll(deps []models.Dependency, eco models.Ecosystem) []models.Dependency {
	tagged := make([]models.Dependency, 0, len(deps))
	for _, d := range deps {
		tagged = append(tagged, d.WithEcosystem(eco))
	}
	return tagged
}
