package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/secure2fa/vault/internal/timex"
)

// jsonConfig mirrors Config with pointer fields so absent keys leave the
// previous layer's values alone.
type jsonConfig struct {
	DataDir         *string         `json:"data_dir"`
	DatabaseFile    *string         `json:"database_file"`
	RefreshInterval *timex.Duration `json:"refresh_interval"`
	LogLevel        *string         `json:"log_level"`
}

func (c *Config) parseJSONFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if jc.DataDir != nil {
		c.DataDir = *jc.DataDir
	}
	if jc.DatabaseFile != nil {
		c.DatabaseFile = *jc.DatabaseFile
	}
	if jc.RefreshInterval != nil {
		c.RefreshInterval = *jc.RefreshInterval
	}
	if jc.LogLevel != nil {
		c.LogLevel = *jc.LogLevel
	}
	return nil
}
