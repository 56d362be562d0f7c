package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/sleepdiary/internal/flagx"
)

// parseFlags overlays Config with command-line flags:
//
//	-f string     diary file path
//	-k string     storage kind: file or s3
//	-b string     S3 bucket
//	-o string     S3 object key
//	-g string     S3 region
//	-e string     S3 base endpoint, for S3-compatible stores
//	-u string     S3 access key
//	-p string     S3 secret key
//	-t duration   sync request timeout
//	-r int        sync attempts per request
//	-l string     log level
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-f", "-k", "-b", "-o", "-g", "-e", "-u", "-p", "-t", "-r", "-l"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DiaryPath, "f", cfg.DiaryPath, "diary file path")
	fs.StringVar(&cfg.StorageKind, "k", cfg.StorageKind, "storage kind (file or s3)")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Key, "o", cfg.S3Key, "S3 object key")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.S3AccessKey, "u", cfg.S3AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3SecretKey, "p", cfg.S3SecretKey, "S3 secret key")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "sync request timeout")
	fs.IntVar(&cfg.RetryAttempts, "r", cfg.RetryAttempts, "sync attempts per request")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
