package models

import "time"

// Config holds configuration for a scan run.
type Config struct {
	// Path is the scan target: a dependency file or a project directory.
	Path string

	// EcosystemOverride forces "python" or "node" detection; empty means auto.
	EcosystemOverride string

	// FromFreeze treats the input as pip-freeze output (name==version lines).
	// FreezeContent carries the text when it was read from stdin.
	FromFreeze    bool
	FreezeContent string

	// Cache settings
	NoCache   bool
	CachePath string

	// API settings
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Path:    "requirements.txt",
		Timeout: 30 * time.Second,
	}
}
