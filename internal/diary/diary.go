package diary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/sleepdiary/internal/client/client"
	"github.com/dmitrijs2005/sleepdiary/internal/client/storage"
	"github.com/dmitrijs2005/sleepdiary/internal/codec"
	"github.com/dmitrijs2005/sleepdiary/internal/common"
	"github.com/dmitrijs2005/sleepdiary/internal/logging"
	"github.com/dmitrijs2005/sleepdiary/internal/models"
	"github.com/dmitrijs2005/sleepdiary/internal/syncqueue"
	"github.com/dmitrijs2005/sleepdiary/internal/timex"
)

// DefaultMaxURLLength bounds sync request URLs; longer chunks are halved.
const DefaultMaxURLLength = 2048

type Diary struct {
	mu      sync.Mutex
	data    *models.Diary
	storage storage.Storage

	client       client.Client
	queue        *syncqueue.Queue
	logger       logging.Logger
	now          func() time.Time
	maxURLLength int
}

type Option func(*Diary)

// WithClient sets the transport used to reach the sync server. Without one,
// a server URL can be stored but nothing is sent.
func WithClient(c client.Client) Option {
	return func(d *Diary) { d.client = c }
}

func WithLogger(l logging.Logger) Option {
	return func(d *Diary) { d.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(d *Diary) { d.now = now }
}

func WithMaxURLLength(n int) Option {
	return func(d *Diary) { d.maxURLLength = n }
}

// Open loads the diary kept in st, or starts an empty one if st holds
// nothing yet.
func Open(ctx context.Context, st storage.Storage, opts ...Option) (*Diary, error) {
	d := &Diary{
		data:         &models.Diary{},
		storage:      st,
		queue:        syncqueue.New(),
		logger:       logging.NewDiscard(),
		now:          time.Now,
		maxURLLength: DefaultMaxURLLength,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("module", "diary")

	raw, err := st.Load(ctx)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return d, nil
	case err != nil:
		return nil, fmt.Errorf("load diary: %w", err)
	}

	data, err := codec.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("load diary: %w", err)
	}
	d.data = data
	d.logger.Debug(ctx, "diary loaded", "entries", len(data.Entries), "server", data.Server)
	return d, nil
}

// Snapshot returns a deep copy of the current state.
func (d *Diary) Snapshot() *models.Diary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.data.Clone()
}

// Entries returns a copy of the event log.
func (d *Diary) Entries() []models.Entry {
	return d.Snapshot().Entries
}

// String renders the diary in its persisted Diary("...") form.
func (d *Diary) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return codec.Serialise(d.data)
}

// Close waits for queued server work to finish or ctx to expire.
func (d *Diary) Close(ctx context.Context) error {
	return d.queue.Wait(ctx)
}

// Pending reports how many sync tasks are queued or running.
func (d *Diary) Pending() int {
	return d.queue.Len()
}

func (d *Diary) nowMillis() uint64 {
	return timex.Millis(d.now())
}

// persistLocked saves the current state. d.mu must be held.
func (d *Diary) persistLocked(ctx context.Context) error {
	if d.storage == nil {
		return nil
	}
	if err := d.storage.Save(ctx, []byte(codec.Serialise(d.data))); err != nil {
		d.logger.Error(ctx, "failed to persist diary", "error", err)
		return fmt.Errorf("persist diary: %w", err)
	}
	return nil
}

// done returns an already-resolved result channel.
func done(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	close(ch)
	return ch
}
