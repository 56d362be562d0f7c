// Package services holds the sync server's business logic: creating diaries,
// recording the updates clients send and rebuilding diaries from them.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sleepdiary/internal/analysis"
	"github.com/dmitrijs2005/sleepdiary/internal/codec"
	"github.com/dmitrijs2005/sleepdiary/internal/common"
	"github.com/dmitrijs2005/sleepdiary/internal/logging"
	"github.com/dmitrijs2005/sleepdiary/internal/models"
	"github.com/dmitrijs2005/sleepdiary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sleepdiary/internal/server/repositories/updates"
	"github.com/dmitrijs2005/sleepdiary/internal/timex"
	"github.com/google/uuid"
	"github.com/maypok86/otter/v2"
)

// ErrEmptyUpdate is returned by Receive when a request carries no update.
var ErrEmptyUpdate = errors.New("no diary update in request")

type DiaryService struct {
	repomanager repomanager.RepositoryManager
	reports     *otter.Cache[string, analysis.Report]
	logger      logging.Logger
	now         func() time.Time
	newID       func() string
}

type Option func(*DiaryService)

func WithLogger(l logging.Logger) Option {
	return func(s *DiaryService) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *DiaryService) { s.now = now }
}

// WithIDGenerator replaces uuid.NewString for new diary IDs.
func WithIDGenerator(f func() string) Option {
	return func(s *DiaryService) { s.newID = f }
}

// NewDiaryService builds the service. Analysis reports are cached for up to
// cacheSize diaries and cacheTTL after being computed; a new update for a
// diary drops its cached report.
func NewDiaryService(rm repomanager.RepositoryManager, cacheSize int, cacheTTL time.Duration, opts ...Option) *DiaryService {
	cacheSize = max(cacheSize, 1)
	if cacheTTL <= 0 {
		cacheTTL = time.Second
	}
	s := &DiaryService{
		repomanager: rm,
		reports: otter.Must(&otter.Options[string, analysis.Report]{
			MaximumSize:      cacheSize,
			ExpiryCalculator: otter.ExpiryWriting[string, analysis.Report](cacheTTL),
		}),
		logger: logging.NewDiscard(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new, empty diary and returns its ID.
func (s *DiaryService) Create(ctx context.Context) (string, error) {
	id := s.newID()
	if err := s.repomanager.Updates().Create(ctx, id); err != nil {
		return "", fmt.Errorf("create diary: %w", err)
	}
	s.logger.Info(ctx, "diary created", "diary_id", id)
	return id, nil
}

// Receive decodes the given update payloads and records them, in order, as
// one atomic step. Nothing is stored if any payload fails to decode.
func (s *DiaryService) Receive(ctx context.Context, id string, payloads []string) (int, error) {
	if len(payloads) == 0 {
		return 0, ErrEmptyUpdate
	}

	encoded := make([][]byte, 0, len(payloads))
	for _, p := range payloads {
		u, err := codec.UpdateFromString(p)
		if err != nil {
			return 0, err
		}
		encoded = append(encoded, codec.EncodeUpdate(u))
	}

	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, repo updates.Repository) error {
		ok, err := repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrNotFound
		}
		for _, p := range encoded {
			if _, err := repo.Append(ctx, id, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.reports.Invalidate(id)
	s.logger.Debug(ctx, "updates received", "diary_id", id, "count", len(encoded))
	return len(encoded), nil
}

// Snapshot rebuilds the diary by replaying every update received for it.
func (s *DiaryService) Snapshot(ctx context.Context, id string) (*models.Diary, error) {
	repo := s.repomanager.Updates()
	ok, err := repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrNotFound
	}

	payloads, err := repo.List(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &models.Diary{}
	for i, p := range payloads {
		u, err := codec.DecodeUpdate(p)
		if err != nil {
			return nil, fmt.Errorf("update %d of diary %s: %w", i+1, id, err)
		}
		d.ApplyUpdate(u)
	}
	return d, nil
}

// Analysis returns the analysis report for a diary, from cache when fresh.
func (s *DiaryService) Analysis(ctx context.Context, id string) (analysis.Report, error) {
	if r, ok := s.reports.GetIfPresent(id); ok {
		return r, nil
	}

	d, err := s.Snapshot(ctx, id)
	if err != nil {
		return analysis.Report{}, err
	}
	r := analysis.Analyse(d.Entries, d.PreferredDayLength, timex.Millis(s.now()))
	s.reports.Set(id, r)
	return r, nil
}
