// Package config handles configuration for the sync server: defaults, an
// optional JSON file named by -c/-config, then command-line flags.
package config

import "time"

// Config holds runtime settings for the sync server.
//
// An empty DatabaseDSN keeps diaries in memory, which loses them on restart.
type Config struct {
	Addr            string
	DatabaseDSN     string
	PublicURL       string
	CacheSize       int
	CacheTTL        time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabaseDSN = ""
	c.PublicURL = "http://localhost:8080"
	c.CacheSize = 1000
	c.CacheTTL = 5 * time.Minute
	c.ShutdownTimeout = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the JSON file, then flags from args
// (without the program name).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
