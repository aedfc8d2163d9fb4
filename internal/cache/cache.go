// Package cache stores OSV responses in a local SQLite database so repeated
// scans of the same dependency set avoid network round-trips.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"depscan/internal/models"
)

const dbFile = "osv_cache.db"

// table is versioned: v2 added ecosystem to the primary key for
// multi-ecosystem support.
const table = "osv_cache_v2"

// DefaultPath returns the cache database path under the user's home
// directory (~/.depscan/osv_cache.db).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".depscan", dbFile), nil
}

// Store is a SQLite-backed response cache keyed by (ecosystem, package, version).
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the cache database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS ` + table + ` (
		ecosystem     TEXT NOT NULL DEFAULT 'PyPI',
		pkg           TEXT NOT NULL,
		version       TEXT NOT NULL DEFAULT '',
		response_json TEXT NOT NULL,
		fetched_at    TEXT NOT NULL,
		PRIMARY KEY (ecosystem, pkg, version)
	)`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// versionKey normalizes the optional version for storage. Unpinned
// dependencies share one row per (ecosystem, package).
func versionKey(version *string) string {
	if version == nil {
		return ""
	}
	return *version
}

// Get returns the cached response for the dependency, or ok=false on a miss.
func (s *Store) Get(dep models.Dependency) ([]byte, bool, error) {
	var response string
	err := s.db.QueryRow(
		`SELECT response_json FROM `+table+` WHERE ecosystem = ? AND pkg = ? AND version = ?`,
		string(dep.Ecosystem), dep.Name, versionKey(dep.Version),
	).Scan(&response)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(response), true, nil
}

// Set stores (or replaces) the response for the dependency.
func (s *Store) Set(dep models.Dependency, response []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO `+table+` (ecosystem, pkg, version, response_json, fetched_at)
		 VALUES (?, ?, ?, ?, datetime('now'))`,
		string(dep.Ecosystem), dep.Name, versionKey(dep.Version), string(response),
	)
	return err
}

// Clear removes every cached entry.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM ` + table)
	return err
}
