package parsers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"depscan/internal/models"
)

// depKey is the deduplication key for Node lockfile entries: multiple
// dependency paths can resolve to the same installed (name, version).
type depKey struct {
	name    string
	version string
}

// normPackageKey turns a lockfile key like "node_modules/foo" or
// "node_modules/foo/node_modules/bar" into a package name.
func normPackageKey(key string) string {
	key = strings.TrimSpace(strings.ReplaceAll(key, "node_modules/", ""))
	if key == "" {
		return ""
	}
	return strings.SplitN(key, "/", 2)[0]
}

// sortedKeys returns the map's keys in sorted order so that parsing the same
// document always yields the same list.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParsePackageJSON parses package.json and returns the declared direct
// dependencies from the dependencies, devDependencies, and
// optionalDependencies sections, in that order. Version ranges are kept
// verbatim (trimmed); an empty or non-string version becomes unpinned.
// Repeated names across sections are kept, not deduplicated.
func ParsePackageJSON(path string) ([]models.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var deps []models.Dependency
	for _, section := range []string{"dependencies", "devDependencies", "optionalDependencies"} {
		raw, ok := doc[section].(map[string]interface{})
		if !ok {
			continue
		}
		for _, name := range sortedKeys(raw) {
			version, _ := raw[name].(string)
			version = strings.TrimSpace(version)
			d := models.Unpinned(name)
			if version != "" {
				d = models.Pinned(name, version)
			}
			deps = append(deps, d.WithEcosystem(models.EcosystemNpm))
		}
	}
	return deps, nil
}

// ParsePackageLock parses package-lock.json. The npm v7+ "packages" map is
// preferred; older v6 lockfiles fall back to a recursive walk of the nested
// "dependencies" tree. Entries are deduplicated by (name, version).
func ParsePackageLock(path string) ([]models.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if packages, ok := doc["packages"].(map[string]interface{}); ok {
		seen := make(map[depKey]bool)
		var deps []models.Dependency
		for _, key := range sortedKeys(packages) {
			if key == "" {
				continue // root entry
			}
			pkg, ok := packages[key].(map[string]interface{})
			if !ok {
				continue
			}
			version, ok := pkg["version"].(string)
			if !ok || version == "" {
				continue
			}
			name := normPackageKey(key)
			if name == "" || seen[depKey{name, version}] {
				continue
			}
			seen[depKey{name, version}] = true
			deps = append(deps, models.Pinned(name, version).WithEcosystem(models.EcosystemNpm))
		}
		return deps, nil
	}

	return parsePackageLockV6(doc), nil
}

// parsePackageLockV6 walks the nested npm v6 dependencies tree depth-first.
// Nested trees are walked even when the parent entry was a duplicate.
func parsePackageLockV6(doc map[string]interface{}) []models.Dependency {
	seen := make(map[depKey]bool)
	var deps []models.Dependency

	var walk func(node map[string]interface{})
	walk = func(node map[string]interface{}) {
		for _, name := range sortedKeys(node) {
			entry, ok := node[name].(map[string]interface{})
			if !ok {
				continue
			}
			if version, ok := entry["version"].(string); ok && version != "" {
				if !seen[depKey{name, version}] {
					seen[depKey{name, version}] = true
					deps = append(deps, models.Pinned(name, version).WithEcosystem(models.EcosystemNpm))
				}
			}
			if nested, ok := entry["dependencies"].(map[string]interface{}); ok {
				walk(nested)
			}
		}
	}

	if root, ok := doc["dependencies"].(map[string]interface{}); ok {
		walk(root)
	}
	return deps
}

var (
	// yarnBlockStart matches a classic yarn.lock block header like
	// `lodash@^4.17.0:` or `ms@npm:^2.1.1:`; the range part may itself
	// contain "@".
	yarnBlockStart = regexp.MustCompile(`^([^@\s]+)@(?:npm:)?(.+):\s*$`)

	// yarnVersionLine matches the indented resolved-version line of a block.
	yarnVersionLine = regexp.MustCompile(`^\s+version\s+"([^"]+)"\s*$`)
)

// ParseYarnLock parses a classic yarn.lock. Each block header names the
// package; the first indented `version "x.y.z"` line supplies the resolved
// version, after which the block state resets so stray version lines without
// an active header are ignored. Entries are deduplicated by (name, version).
func ParseYarnLock(path string) ([]models.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	seen := make(map[depKey]bool)
	var deps []models.Dependency
	currentName := ""
	inBlock := false
	for _, line := range strings.Split(string(data), "\n") {
		if m := yarnBlockStart.FindStringSubmatch(line); m != nil {
			currentName = strings.Trim(m[1], `"`)
			inBlock = true
			continue
		}
		if m := yarnVersionLine.FindStringSubmatch(line); m != nil && inBlock {
			version := m[1]
			if !seen[depKey{currentName, version}] {
				seen[depKey{currentName, version}] = true
				deps = append(deps, models.Pinned(currentName, version).WithEcosystem(models.EcosystemNpm))
			}
			currentName = ""
			inBlock = false
		}
	}
	return deps, nil
}

// ParsePnpmLock parses pnpm-lock.yaml. The "packages" mapping (or "snapshots"
// when absent) supplies entries whose version comes from the entry's version
// field or, for keys shaped like "/name/version", from the key itself.
// When the document does not decode as YAML, a line-scanner fallback handles
// the top-level packages block. Entries are deduplicated by (name, version).
func ParsePnpmLock(path string) ([]models.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return parsePnpmLockLines(string(data)), nil
	}
	packages, ok := doc["packages"].(map[string]interface{})
	if !ok {
		packages, ok = doc["snapshots"].(map[string]interface{})
	}
	if !ok {
		return nil, nil
	}
	seen := make(map[depKey]bool)
	var deps []models.Dependency
	for _, key := range sortedKeys(packages) {
		entry, ok := packages[key].(map[string]interface{})
		if !ok {
			continue
		}
		version := pnpmEntryVersion(entry, key)
		if version == "" {
			continue
		}
		name := pnpmEntryName(key)
		if name == "" || seen[depKey{name, version}] {
			continue
		}
		seen[depKey{name, version}] = true
		deps = append(deps, models.Pinned(name, version).WithEcosystem(models.EcosystemNpm))
	}
	return deps, nil
}

// pnpmEntryVersion reads the version from the entry's version field, falling
// back to the trailing path segment of "/name/version" keys.
func pnpmEntryVersion(entry map[string]interface{}, key string) string {
	switch v := entry["version"].(type) {
	case string:
		return v
	case map[string]interface{}:
		if s, ok := v["version"].(string); ok {
			return s
		}
		if s, ok := v["tarball"].(string); ok {
			return s
		}
	}
	if strings.HasPrefix(key, "/") {
		trimmed := strings.Trim(key, "/")
		if idx := strings.LastIndex(trimmed, "/"); idx > 0 {
			return trimmed[idx+1:]
		}
	}
	return ""
}

// pnpmEntryName extracts the package name from a packages key: the first
// path segment after the leading slash for "/name/version" keys, otherwise
// the substring before the first slash.
func pnpmEntryName(key string) string {
	if strings.HasPrefix(key, "/") {
		return strings.SplitN(strings.Trim(key, "/"), "/", 2)[0]
	}
	return strings.SplitN(key, "/", 2)[0]
}

// parsePnpmLockLines is a minimal line-scanner for pnpm-lock.yaml used when
// the document does not decode as YAML. It tracks the top-level packages
// block (ended by the first unindented line after it started) and pairs
// entry-header lines with the next version: line.
func parsePnpmLockLines(content string) []models.Dependency {
	seen := make(map[depKey]bool)
	var deps []models.Dependency
	inPackages := false
	currentName := ""
	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "packages:" || strings.HasPrefix(stripped, "packages:") {
			inPackages = true
			continue
		}
		if inPackages && line != "" && line[0] != ' ' && line[0] != '\t' {
			inPackages = false
		}
		if !inPackages {
			continue
		}
		if strings.HasSuffix(stripped, ":") {
			key := strings.TrimSpace(strings.TrimSuffix(stripped, ":"))
			if strings.HasPrefix(key, "/") {
				parts := strings.Split(strings.Trim(key, "/"), "/")
				if len(parts) >= 2 {
					currentName = parts[0]
				}
			} else if idx := strings.Index(key, "@"); idx >= 0 {
				currentName = key[:idx]
			}
		}
		if strings.Contains(line, "version:") && currentName != "" {
			_, after, _ := strings.Cut(line, "version:")
			v := strings.TrimSpace(strings.Trim(strings.TrimSpace(after), `'"`))
			if v != "" && !seen[depKey{currentName, v}] {
				seen[depKey{currentName, v}] = true
				deps = append(deps, models.Pinned(currentName, v).WithEcosystem(models.EcosystemNpm))
			}
			currentName = ""
		}
	}
	return deps
}

// nodeLockfiles is the probe order for Node lockfiles: resolved versions are
// preferred over package.json's declared ranges.
var nodeLockfiles = []string{"package-lock.json", "yarn.lock", "pnpm-lock.yaml"}

// NodeDeps parses a Node dependency file or project directory. The returned
// label names the file actually parsed; usedLockfile reports whether resolved
// versions (a lockfile) rather than declared ranges were used.
func NodeDeps(path string) (deps []models.Dependency, label string, usedLockfile bool, err error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		return nil, path, false, nil
	}

	if !info.IsDir() {
		switch filepath.Base(path) {
		case "package-lock.json":
			deps, err = ParsePackageLock(path)
			return deps, path, true, err
		case "yarn.lock":
			deps, err = ParseYarnLock(path)
			return deps, path, true, err
		case "pnpm-lock.yaml":
			deps, err = ParsePnpmLock(path)
			return deps, path, true, err
		case "package.json":
			// Prefer a sibling lockfile when one exists.
			dir := filepath.Dir(path)
			for _, lock := range nodeLockfiles {
				lockPath := filepath.Join(dir, lock)
				if _, err := os.Stat(lockPath); err == nil {
					deps, _, _, err := NodeDeps(lockPath)
					return deps, lockPath, true, err
				}
			}
			deps, err = ParsePackageJSON(path)
			return deps, path, false, err
		}
		return nil, path, false, nil
	}

	for _, name := range append(append([]string{}, nodeLockfiles...), "package.json") {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return NodeDeps(candidate)
		}
	}
	return nil, path, false, nil
}
