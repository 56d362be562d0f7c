// Command logreader rebuilds a diary from sync server access logs and
// prints it, or an analysis of it, to stdout:
//
//	logreader [-format diary|json|csv|calendar] [-analyse] [-skip-invalid] [-filter expr] [access.log ...]
//
// With no files the log is read from stdin. Files ending in .gz are
// decompressed on the fly.
package main

import (
	"compress/gzip"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/sleepdiary/internal/export"
	"github.com/dmitrijs2005/sleepdiary/internal/filter"
	"github.com/dmitrijs2005/sleepdiary/internal/logging"
	"github.com/dmitrijs2005/sleepdiary/internal/logreader"
	"github.com/dmitrijs2005/sleepdiary/internal/timex"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "logreader:", err)
		os.Exit(1)
	}
}

type options struct {
	format      string
	analyse     bool
	skipInvalid bool
	filter      string
	logLevel    string
}

func parseArgs(args []string, stderr io.Writer) (options, []string, error) {
	var o options
	fs := flag.NewFlagSet("logreader", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.format, "format", string(export.FormatDiary), "output format: diary, json, csv or calendar")
	fs.BoolVar(&o.analyse, "analyse", false, "print the analysis instead of the entries")
	fs.BoolVar(&o.skipInvalid, "skip-invalid", false, "skip updates that cannot be decoded")
	fs.StringVar(&o.filter, "filter", "", "only keep entries matching this expression")
	fs.StringVar(&o.logLevel, "l", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}
	return o, fs.Args(), nil
}

func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return struct {
		io.Reader
		io.Closer
	}{zr, f}, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	o, files, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	f, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}
	flt, err := filter.Compile(o.filter, time.Local)
	if err != nil {
		return err
	}

	srcs := []io.Reader{stdin}
	if len(files) > 0 {
		srcs = srcs[:0]
		for _, path := range files {
			rc, err := open(path)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, rc.Close()) }()
			srcs = append(srcs, rc)
		}
	}

	logger := logging.NewText(stderr, logging.ParseLevel(o.logLevel))
	r := logreader.New(logreader.SkipInvalid(o.skipInvalid), logreader.WithLogger(logger))
	d, n, err := r.Rebuild(ctx, srcs...)
	if err != nil {
		return err
	}
	logger.Info(ctx, "log read", "updates", n, "entries", len(d.Entries))

	if d.Entries, err = flt.Entries(d.Entries); err != nil {
		return err
	}
	return export.Write(stdout, f, d, o.analyse, timex.Millis(time.Now()))
}
