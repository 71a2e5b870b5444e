// Package config loads application settings in three layers: built-in
// defaults, then an optional JSON file (-c/-config), then command-line
// flags. Later layers override earlier ones.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/secure2fa/vault/internal/flagx"
	"github.com/secure2fa/vault/internal/timex"
)

type Config struct {
	// DataDir holds the database and the master key file.
	DataDir string

	// DatabaseFile is the SQLite file name inside DataDir.
	DatabaseFile string

	// RefreshInterval is how often the watch view re-checks the clock.
	// Codes still rotate every 30 seconds; this only bounds display lag.
	RefreshInterval timex.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// DatabasePath returns the full path of the SQLite database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

func loadDefaults() *Config {
	dataDir := "."
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, "secure2fa")
	}

	return &Config{
		DataDir:         dataDir,
		DatabaseFile:    "vault.db",
		RefreshInterval: timex.Duration{Duration: time.Second},
		LogLevel:        "info",
	}
}

// LoadConfig assembles the effective configuration from all layers.
func LoadConfig() (*Config, error) {
	cfg := loadDefaults()

	if path := flagx.JsonConfigFlags(); path != "" {
		if err := cfg.parseJSONFile(path); err != nil {
			return nil, err
		}
	}

	cfg.parseFlags(os.Args[1:])
	return cfg, nil
}
