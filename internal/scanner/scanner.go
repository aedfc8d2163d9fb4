// Package scanner orchestrates a scan: dependency resolution, cache lookups,
// OSV queries, and result assembly.
package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"depscan/internal/cache"
	"depscan/internal/models"
	"depscan/internal/osv"
	"depscan/internal/parsers"
)

// Scanner runs vulnerability scans against OSV.dev.
type Scanner struct {
	config *models.Config
	store  *cache.Store // nil when caching is disabled or unavailable
	client *osv.Client
	logger *log.Logger
}

// Output is the result of one scan invocation.
type Output struct {
	Ecosystem    models.Ecosystem
	SourceLabel  string
	FromLockfile bool
	Results      []models.PackageResult
}

// New creates a Scanner from the given configuration. A cache that fails to
// open is non-fatal: the scan proceeds without caching.
func New(config *models.Config, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.Default()
	}

	var store *cache.Store
	if !config.NoCache {
		path := config.CachePath
		var err error
		if path == "" {
			path, err = cache.DefaultPath()
		}
		if err == nil {
			store, err = cache.Open(path)
		}
		if err != nil {
			logger.Warn("cache unavailable, continuing without it", "err", err)
			store = nil
		}
	}

	return &Scanner{
		config: config,
		store:  store,
		client: osv.NewClient(config.Timeout),
		logger: logger,
	}
}

// Close releases the cache handle, if any.
func (s *Scanner) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// resolve produces the dependency list for the configured scan target.
func (s *Scanner) resolve() (parsers.Resolution, error) {
	if s.config.FromFreeze {
		content := s.config.FreezeContent
		label := "stdin"
		if s.config.Path != "" && s.config.Path != "-" {
			data, err := os.ReadFile(s.config.Path)
			if err != nil {
				return parsers.Resolution{}, fmt.Errorf("read freeze input: %w", err)
			}
			content = string(data)
			label = s.config.Path
		}
		return parsers.Resolution{
			OSVEcosystem: models.EcosystemPyPI,
			Deps:         parsers.FreezeDeps(content),
			SourceLabel:  label,
			FromLockfile: true,
		}, nil
	}
	return parsers.Resolve(s.config.Path, s.config.EcosystemOverride)
}

// Scan resolves the target's dependencies and queries OSV for each, one
// sequential request per dependency, using cached responses where available.
// A failed query is a warning, not a scan failure: the package is reported
// with zero vulnerabilities.
func (s *Scanner) Scan(ctx context.Context) (*Output, error) {
	res, err := s.resolve()
	if err != nil {
		return nil, fmt.Errorf("resolve dependencies: %w", err)
	}
	s.logger.Debug("resolved dependencies",
		"count", len(res.Deps), "source", res.SourceLabel, "ecosystem", res.OSVEcosystem)

	out := &Output{
		Ecosystem:    res.OSVEcosystem,
		SourceLabel:  res.SourceLabel,
		FromLockfile: res.FromLockfile,
		Results:      make([]models.PackageResult, 0, len(res.Deps)),
	}

	for _, dep := range res.Deps {
		if dep.Ecosystem == "" {
			dep = dep.WithEcosystem(res.OSVEcosystem)
		}
		vulns := s.lookup(ctx, dep)
		out.Results = append(out.Results, models.PackageResult{
			Name:    dep.Name,
			Version: dep.Version,
			Vulns:   vulns,
		})
	}

	return out, nil
}

// lookup fetches vulnerabilities for one dependency, consulting the cache
// first. Only successful responses are cached.
func (s *Scanner) lookup(ctx context.Context, dep models.Dependency) []models.Vulnerability {
	if s.store != nil {
		if raw, ok, err := s.store.Get(dep); err == nil && ok {
			var vulns []models.Vulnerability
			if json.Unmarshal(raw, &vulns) == nil {
				s.logger.Debug("cache hit", "package", dep.String())
				return vulns
			}
		}
	}

	vulns, err := s.client.Query(ctx, dep)
	if err != nil {
		s.logger.Warn("OSV request failed", "package", dep.Name, "err", err)
		return nil
	}

	if s.store != nil {
		if raw, err := json.Marshal(vulns); err == nil {
			if err := s.store.Set(dep, raw); err != nil {
				s.logger.Debug("cache write failed", "package", dep.String(), "err", err)
			}
		}
	}
	return vulns
}
