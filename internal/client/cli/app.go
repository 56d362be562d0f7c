package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/sleepdiary/internal/client/client"
	"github.com/dmitrijs2005/sleepdiary/internal/client/config"
	"github.com/dmitrijs2005/sleepdiary/internal/client/storage"
	"github.com/dmitrijs2005/sleepdiary/internal/diary"
	"github.com/dmitrijs2005/sleepdiary/internal/logging"
)

type App struct {
	config *config.Config
	diary  *diary.Diary
	logger logging.Logger
	loc    *time.Location
	now    func() time.Time
	reader *bufio.Reader
	out    io.Writer
}

// newStorage is a seam so tests can avoid touching disk or S3.
var newStorage = func(ctx context.Context, c *config.Config) (storage.Storage, error) {
	if c.StorageKind == config.StorageS3 {
		return storage.NewS3Storage(ctx, storage.S3Config{
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			Key:          c.S3Key,
		})
	}
	return storage.NewFileStorage(c.DiaryPath), nil
}

// NewApp opens the configured diary. A diary that exists but cannot be
// decoded is an error: it is never silently replaced with an empty one.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, logging.ParseLevel(c.LogLevel))

	st, err := newStorage(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	httpClient := client.NewHTTPClient(client.Options{
		Timeout:  c.RequestTimeout,
		Attempts: uint(c.RetryAttempts),
	}, logger)

	d, err := diary.Open(ctx, st, diary.WithClient(httpClient), diary.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return newApp(c, d, logger), nil
}

func newApp(c *config.Config, d *diary.Diary, logger logging.Logger) *App {
	return &App{
		config: c,
		diary:  d,
		logger: logger,
		loc:    time.Local,
		now:    time.Now,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) getStatus() string {
	kind, ok := a.diary.Mode()
	status := "new"
	if ok {
		status = modeName(kind)
	}
	if n := a.diary.Pending(); n > 0 {
		status += fmt.Sprintf(", %d syncing", n)
	}
	return "(" + status + ")"
}

// Run starts the REPL on stdin and blocks until the user exits. Pending
// sync work gets a grace period before returning.
func (a *App) Run(ctx context.Context) {
	printlnFn(accent("Sleep diary (type 'help' for commands)"))
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
	a.Close(ctx)
}

// Exec runs a single command, as given on the shell command line.
func (a *App) Exec(ctx context.Context, args []string) error {
	defer a.Close(ctx)
	return dispatch(ctx, a, args)
}

// Close waits for queued sync requests, bounded by the request timeout
// for each attempt.
func (a *App) Close(ctx context.Context) {
	wait := a.config.RequestTimeout * time.Duration(max(a.config.RetryAttempts, 1))
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	if err := a.diary.Close(ctx); err != nil {
		printlnFn(warn("Some changes were not sent to the server yet; they will be sent next time."))
	}
}
