package parsers

import (
	"os"
	"path/filepath"
	"strings"

	"depscan/internal/models"
)

// Detected ecosystems. The empty string means detection failed.
const (
	EcoPython = "python"
	EcoNode   = "node"
)

var (
	pythonFiles = []string{"requirements.txt", "pyproject.toml"}
	// Lockfiles first: directory detection prefers resolved versions, and a
	// Node lockfile outranks a Python manifest when both are present.
	nodeFiles = []string{"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "package.json"}
)

// DetectEcosystem decides whether path (file or directory) is a Python or
// Node scan target. A "python" or "node" override (case-insensitive) wins
// over any filesystem evidence. Returns "" when nothing matches.
func DetectEcosystem(path, override string) string {
	switch strings.ToLower(override) {
	case EcoPython, EcoNode:
		return strings.ToLower(override)
	}

	info, err := os.Stat(path)
	if err != nil {
		return ""
	}

	if !info.IsDir() {
		name := strings.ToLower(filepath.Base(path))
		for _, f := range pythonFiles {
			if name == f {
				return EcoPython
			}
		}
		for _, f := range nodeFiles {
			if name == f {
				return EcoNode
			}
		}
		return ""
	}

	for _, f := range nodeFiles {
		if _, err := os.Stat(filepath.Join(path, f)); err == nil {
			return EcoNode
		}
	}
	for _, f := range pythonFiles {
		if _, err := os.Stat(filepath.Join(path, f)); err == nil {
			return EcoPython
		}
	}
	return ""
}

// Resolution is the normalized output of dependency resolution for a scan
// target: the OSV ecosystem tag, the parsed dependencies, the path actually
// parsed, and whether that path was a lockfile or pinned file.
type Resolution struct {
	OSVEcosystem models.Ecosystem
	Deps         []models.Dependency
	SourceLabel  string
	FromLockfile bool
}

// ecosystemResolvers maps a detected ecosystem to its resolver. Dispatch is
// an explicit table rather than interface polymorphism: each ecosystem
// carries its own parser set.
var ecosystemResolvers = map[string]func(path string) (Resolution, error){
	EcoNode:   resolveNode,
	EcoPython: resolvePython,
}

// Resolve detects the ecosystem for path (honoring override) and invokes the
// matching parser set. Unrecognized paths yield an empty PyPI-tagged result
// rather than an error; Python parse failures fall through to the next
// candidate.
func Resolve(path, override string) (Resolution, error) {
	eco := DetectEcosystem(path, override)
	if resolver, ok := ecosystemResolvers[eco]; ok {
		return resolver(path)
	}
	// Default-to-Python policy: an undetected target still gets the Python
	// candidate probing before giving up.
	return resolvePython(path)
}

func resolveNode(path string) (Resolution, error) {
	deps, label, fromLock, err := NodeDeps(path)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{
		OSVEcosystem: models.EcosystemNpm,
		Deps:         deps,
		SourceLabel:  label,
		FromLockfile: fromLock,
	}, nil
}

func resolvePython(path string) (Resolution, error) {
	info, statErr := os.Stat(path)

	if statErr == nil && !info.IsDir() {
		// Parse errors are swallowed here so probing can continue.
		if deps, err := PyPIDeps(path); err == nil {
			return Resolution{
				OSVEcosystem: models.EcosystemPyPI,
				Deps:         deps,
				SourceLabel:  path,
				FromLockfile: true,
			}, nil
		}
	}

	if statErr == nil && info.IsDir() {
		for _, name := range pythonFiles {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				deps, err := PyPIDeps(candidate)
				if err != nil {
					return Resolution{}, err
				}
				return Resolution{
					OSVEcosystem: models.EcosystemPyPI,
					Deps:         deps,
					SourceLabel:  candidate,
					FromLockfile: true,
				}, nil
			}
		}
	}

	// Last resort: a file that looks like a requirements or pyproject file.
	if statErr == nil && !info.IsDir() {
		ext := filepath.Ext(path)
		if ext == ".txt" || ext == ".toml" || filepath.Base(path) == "pyproject.toml" {
			deps, err := PyPIDeps(path)
			if err != nil {
				return Resolution{}, err
			}
			return Resolution{
				OSVEcosystem: models.EcosystemPyPI,
				Deps:         deps,
				SourceLabel:  path,
				FromLockfile: true,
			}, nil
		}
	}

	return Resolution{OSVEcosystem: models.EcosystemPyPI, SourceLabel: path}, nil
}
