package models

// Ecosystem represents a package ecosystem as named by OSV.
type Ecosystem string

const (
	EcosystemPyPI Ecosystem = "PyPI"
	EcosystemNpm  Ecosystem = "npm"
)

// Dependency represents a single parsed dependency. Version is nil when the
// source file declared no pinned version (an unpinned or range-only entry);
// Ecosystem is the zero value until an ecosystem-specific parser assigns it.
type Dependency struct {
	Name      string
	Version   *string
	Ecosystem Ecosystem
}

// Pinned builds a dependency with a concrete version.
func Pinned(name, version string) Dependency {
	return Dependency{Name: name, Version: &version}
}

// Unpinned builds a dependency without a version.
func Unpinned(name string) Dependency {
	return Dependency{Name: name}
}

// WithEcosystem returns a copy of d with eco set, unless d already has one.
func (d Dependency) WithEcosystem(eco Ecosystem) Dependency {
	if d.Ecosystem == "" {
		d.Ecosystem = eco
	}
	return d
}

// VersionOr returns the version string, or fallback when unpinned.
func (d Dependency) VersionOr(fallback string) string {
	if d.Version == nil {
		return fallback
	}
	return *d.Version
}

// String returns a human-readable representation like "requests@2.28.0".
func (d Dependency) String() string {
	if d.Version == nil {
		return d.Name
	}
	return d.Name + "@" + *d.Version
}
