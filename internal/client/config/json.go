package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/sleepdiary/internal/flagx"
	"github.com/dmitrijs2005/sleepdiary/internal/timex"
)

// JsonConfig mirrors Config for JSON files.
type JsonConfig struct {
	StorageKind    string         `json:"storage"`
	DiaryPath      string         `json:"diary_path"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Key          string         `json:"s3_key"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	RetryAttempts  int            `json:"retry_attempts"`
	LogLevel       string         `json:"log_level"`
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays Config with the file named by -c or -config, if any.
// Fields missing from the file keep their current values.
func parseJson(cfg *Config, args []string) error {
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

	overlay(&cfg.StorageKind, c.StorageKind)
	overlay(&cfg.DiaryPath, c.DiaryPath)
	overlay(&cfg.S3Bucket, c.S3Bucket)
	overlay(&cfg.S3Key, c.S3Key)
	overlay(&cfg.S3Region, c.S3Region)
	overlay(&cfg.S3BaseEndpoint, c.S3BaseEndpoint)
	overlay(&cfg.S3AccessKey, c.S3AccessKey)
	overlay(&cfg.S3SecretKey, c.S3SecretKey)
	overlay(&cfg.LogLevel, c.LogLevel)
	if c.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.RetryAttempts != 0 {
		cfg.RetryAttempts = c.RetryAttempts
	}
	return nil
}
