package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Equal(t, "http://localhost:8080", c.PublicURL)
	assert.Equal(t, 1000, c.CacheSize)
	assert.Equal(t, 5*time.Minute, c.CacheTTL)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_NoArgs(t *testing.T) {
	c, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), c))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected func(*Config)
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "127.0.0.1:9090", "-d", "postgres://db", "-u", "https://sleep.example",
				"-s", "10", "-t", "30s", "-l", "debug"},
			expected: func(c *Config) {
				c.Addr = "127.0.0.1:9090"
				c.DatabaseDSN = "postgres://db"
				c.PublicURL = "https://sleep.example"
				c.CacheSize = 10
				c.CacheTTL = 30 * time.Second
				c.LogLevel = "debug"
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"-x", "1", "-a=:1234", "positional"},
			expected: func(c *Config) { c.Addr = ":1234" },
		},
		{
			name:    "bad duration",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			err := parseFlags(c, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.expected(want)
			assert.Empty(t, cmp.Diff(want, c))
		})
	}
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestParseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"addr":         ":9000",
		"database_dsn": "postgres://json",
		"cache_ttl":    "1m",
		"cache_size":   5,
	})

	t.Run("overlays set fields only", func(t *testing.T) {
		c := defaults()
		require.NoError(t, parseJson(c, []string{"-config", path}))

		assert.Equal(t, ":9000", c.Addr)
		assert.Equal(t, "postgres://json", c.DatabaseDSN)
		assert.Equal(t, time.Minute, c.CacheTTL)
		assert.Equal(t, 5, c.CacheSize)
		assert.Equal(t, "http://localhost:8080", c.PublicURL)
		assert.Equal(t, "info", c.LogLevel)
	})

	t.Run("no config flag", func(t *testing.T) {
		c := defaults()
		require.NoError(t, parseJson(c, []string{"-a", ":1"}))
		assert.Empty(t, cmp.Diff(defaults(), c))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, parseJson(defaults(), []string{"-c", filepath.Join(t.TempDir(), "nope.json")}))
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		assert.Error(t, parseJson(defaults(), []string{"-c", bad}))
	})
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"addr": ":9000", "log_level": "warn"})

	c, err := LoadConfig([]string{"-c", path, "-a", ":7000"})
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Addr)
	assert.Equal(t, "warn", c.LogLevel)
}
