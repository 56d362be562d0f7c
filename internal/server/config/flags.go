package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/sleepdiary/internal/flagx"
)

// parseFlags overlays Config with command-line flags:
//
//	-a string     listen address (e.g. ":8080")
//	-d string     PostgreSQL DSN; empty keeps diaries in memory
//	-u string     public base URL used to build sync links
//	-s int        analysis cache size, in diaries
//	-t duration   analysis cache lifetime
//	-l string     log level
//
// Only these flags are considered; anything else in args is ignored.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-u", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.PublicURL, "u", config.PublicURL, "public base URL")
	fs.IntVar(&config.CacheSize, "s", config.CacheSize, "analysis cache size")
	fs.DurationVar(&config.CacheTTL, "t", config.CacheTTL, "analysis cache lifetime")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
