// Package config holds deployment configuration for the Ajo protocol
// service: where accounts are persisted and how events are logged.
package config

import "path/filepath"

// Config is the service configuration.
type Config struct {
	DataDir     string // root directory for persisted state
	LogLevel    string // "debug", "info", "warn", or "error"
	FeePermille uint8  // initial protocol fee, 1 = 0.1%
}

// Default returns the configuration used when nothing is specified.
func Default(dataDir string) Config {
	return Config{
		DataDir:  dataDir,
		LogLevel: "info",
	}
}

// DBPath returns the bbolt database path under the data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "accounts.db")
}
