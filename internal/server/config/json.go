package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/sleepdiary/internal/flagx"
	"github.com/dmitrijs2005/sleepdiary/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations accept either a
// string such as "5m" or integer nanoseconds.
type JsonConfig struct {
	Addr            string         `json:"addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	PublicURL       string         `json:"public_url"`
	CacheSize       int            `json:"cache_size"`
	CacheTTL        timex.Duration `json:"cache_ttl"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	LogLevel        string         `json:"log_level"`
}

// parseJson overlays Config with the file named by -c or -config. Fields
// missing from the file keep their current values.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.PublicURL != "" {
		config.PublicURL = c.PublicURL
	}
	if c.CacheSize != 0 {
		config.CacheSize = c.CacheSize
	}
	if c.CacheTTL.Duration != 0 {
		config.CacheTTL = c.CacheTTL.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	return nil
}
