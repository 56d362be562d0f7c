package config

import (
	"errors"
	"time"
)

// Storage backends for the diary file.
const (
	StorageFile = "file"
	StorageS3   = "s3"
)

// Config holds runtime settings for the diary CLI.
//
// With StorageKind "file" the diary lives at DiaryPath. With "s3" it is the
// object S3Key in S3Bucket, on AWS or any S3-compatible endpoint.
type Config struct {
	StorageKind string
	DiaryPath   string

	S3Bucket       string
	S3Key          string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	RequestTimeout time.Duration
	RetryAttempts  int
	LogLevel       string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.StorageKind = StorageFile
	c.DiaryPath = "sleepdiary.txt"
	c.S3Key = "sleepdiary.txt"
	c.S3Region = "us-east-1"
	c.RequestTimeout = 10 * time.Second
	c.RetryAttempts = 3
	c.LogLevel = "warn"
}

// LoadConfig applies defaults, then the JSON file named by -c/-config, then
// command-line flags from args (without the program name).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects unusable combinations.
func (c *Config) Validate() error {
	switch c.StorageKind {
	case StorageFile:
		if c.DiaryPath == "" {
			return errConfig("diary path is empty")
		}
	case StorageS3:
		if c.S3Bucket == "" || c.S3Key == "" {
			return errConfig("s3 storage needs a bucket and key")
		}
	default:
		return errConfig("unknown storage kind " + c.StorageKind)
	}
	if c.RetryAttempts < 1 {
		return errConfig("retry attempts must be at least 1")
	}
	return nil
}

func errConfig(msg string) error {
	return errors.New("config: " + msg)
}
