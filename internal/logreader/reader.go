// Package logreader recovers diary updates from web server access logs.
//
// Every sync request carries its update in a diary= query parameter, so an
// access log of the sync server is enough to rebuild a diary.
package logreader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/dmitrijs2005/sleepdiary/internal/codec"
	"github.com/dmitrijs2005/sleepdiary/internal/logging"
	"github.com/dmitrijs2005/sleepdiary/internal/models"
)

const maxLineLength = 16 * 1024 * 1024

var payloadRe = regexp.MustCompile(`[&?]diary=([a-zA-Z0-9+/=]*)`)

// Payloads returns every diary= value in s, in order of appearance.
func Payloads(s string) []string {
	matches := payloadRe.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

type Reader struct {
	skipInvalid bool
	logger      logging.Logger
}

type Option func(*Reader)

// SkipInvalid makes Scan log and skip payloads that do not decode instead
// of stopping at the first one.
func SkipInvalid(skip bool) Option {
	return func(r *Reader) { r.skipInvalid = skip }
}

func WithLogger(l logging.Logger) Option {
	return func(r *Reader) { r.logger = l }
}

func New(opts ...Option) *Reader {
	r := &Reader{logger: logging.NewDiscard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scan reads src line by line and passes each decoded update to apply. It
// returns the number of updates applied.
func (r *Reader) Scan(ctx context.Context, src io.Reader, apply func(models.Update) error) (int, error) {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	applied := 0
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		for _, p := range Payloads(sc.Text()) {
			u, err := codec.UpdateFromString(p)
			if err != nil {
				if r.skipInvalid {
					r.logger.Warn(ctx, "skipping undecodable update", "line", line, "error", err)
					continue
				}
				return applied, fmt.Errorf("line %d: %w", line, err)
			}
			if err := apply(u); err != nil {
				return applied, fmt.Errorf("line %d: %w", line, err)
			}
			applied++
		}
	}
	if err := sc.Err(); err != nil {
		return applied, fmt.Errorf("read log: %w", err)
	}
	return applied, nil
}

// Rebuild replays every update found in srcs, in order, onto an empty diary.
func (r *Reader) Rebuild(ctx context.Context, srcs ...io.Reader) (*models.Diary, int, error) {
	d := &models.Diary{}
	total := 0
	for _, src := range srcs {
		n, err := r.Scan(ctx, src, func(u models.Update) error {
			d.ApplyUpdate(u)
			return nil
		})
		total += n
		if err != nil {
			return nil, total, err
		}
	}
	r.logger.Debug(ctx, "diary rebuilt from logs", "updates", total, "entries", len(d.Entries))
	return d, total, nil
}
