// Package config loads runtime configuration for the diary CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations are timex.Duration, so "10s" and integer nanoseconds both work:
//
//	{
//	  "storage": "s3",
//	  "s3_bucket": "diaries",
//	  "s3_key": "me.txt",
//	  "s3_base_endpoint": "http://127.0.0.1:9000/",
//	  "request_timeout": "10s",
//	  "retry_attempts": 3
//	}
//
// The sync server URL is not configuration: it is stored in the diary itself.
package config
