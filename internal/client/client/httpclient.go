package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/dmitrijs2005/sleepdiary/internal/logging"
	"github.com/google/uuid"
)

// Options tunes HTTPClient. Zero fields take the defaults below.
type Options struct {
	Timeout  time.Duration
	Attempts uint
	Delay    time.Duration
	MaxDelay time.Duration
}

const (
	defaultTimeout  = 10 * time.Second
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
	defaultMaxDelay = 10 * time.Second
)

type HTTPClient struct {
	http   *http.Client
	opts   Options
	logger logging.Logger
}

func NewHTTPClient(opts Options, l logging.Logger) *HTTPClient {
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Attempts == 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.Delay == 0 {
		opts.Delay = defaultDelay
	}
	if opts.MaxDelay == 0 {
		opts.MaxDelay = defaultMaxDelay
	}
	return &HTTPClient{
		http:   &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		logger: l.With("module", "sync_client"),
	}
}

func (c *HTTPClient) Send(ctx context.Context, url string) error {
	requestID := uuid.NewString()
	var lastErr error

	err := retry.Do(
		func() error {
			lastErr = c.attempt(ctx, url, requestID)
			return lastErr
		},
		retry.Context(ctx),
		retry.Attempts(c.opts.Attempts),
		retry.Delay(c.opts.Delay),
		retry.MaxDelay(c.opts.MaxDelay),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug(ctx, "retrying sync request",
				"attempt", n+1,
				"request_id", requestID,
				"error", err)
		}),
	)
	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	}
	return nil
}

func (c *HTTPClient) attempt(ctx context.Context, url, requestID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn(ctx, "sync server rejected update",
			"status", resp.StatusCode,
			"request_id", requestID)
	}
	return nil
}
