package diary

import (
	"context"

	"github.com/dmitrijs2005/sleepdiary/internal/models"
)

// Append records a new event, given by name. The timestamp defaults to the
// diary's clock. An unknown name fails with common.ErrInvalidEventKind
// before anything changes.
func (d *Diary) Append(ctx context.Context, event string, opts ...models.EntryOption) (<-chan error, error) {
	e, err := models.ParseEntry(event, append([]models.EntryOption{models.WithTime(d.now())}, opts...)...)
	if err != nil {
		return nil, err
	}
	return d.AppendEntries(ctx, e)
}

// AppendEntries adds prebuilt entries to the end of the log, persists, and
// schedules a sync. The error covers local persistence; the channel carries
// the sync outcome.
func (d *Diary) AppendEntries(ctx context.Context, entries ...models.Entry) (<-chan error, error) {
	d.mu.Lock()
	d.data.Entries = models.Splice(d.data.Entries, uint64(len(d.data.Entries)), 0, entries)
	err := d.persistLocked(ctx)
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return d.schedule(ctx, d.flush), nil
}

// Splice removes deleteCount entries at start and inserts entries there,
// with array-splice clamping. With a sync client configured the splice runs
// on the sync queue, behind any request already in flight: a change that
// reaches into what the server has seen is sent first and only applied
// locally once confirmed. The channel reports that outcome.
func (d *Diary) Splice(ctx context.Context, start, deleteCount uint64, entries ...models.Entry) <-chan error {
	insert := make([]models.Entry, len(entries))
	for i, e := range entries {
		insert[i] = e.Clone()
	}

	if d.client == nil {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.data.Entries = models.Splice(d.data.Entries, start, deleteCount, insert)
		return done(d.persistLocked(ctx))
	}

	return d.queue.Push(ctx, func(ctx context.Context) error {
		if err := d.splice(ctx, start, deleteCount, insert); err != nil {
			return err
		}
		return d.flush(ctx)
	})
}

// ApplyUpdate merges an update received from elsewhere into the local log
// and persists the result. It does not talk to the server.
func (d *Diary) ApplyUpdate(ctx context.Context, u models.Update) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data.ApplyUpdate(u)
	return d.persistLocked(ctx)
}

// SetPreferredDayLength stores the day length, in milliseconds, that
// predictions should aim for. Zero means "use the measured average".
func (d *Diary) SetPreferredDayLength(ctx context.Context, ms uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data.PreferredDayLength = ms
	return d.persistLocked(ctx)
}

// SetPrivate stores a diary-level key/value pair. Diary-level private
// storage is persisted but never sent to the sync server.
func (d *Diary) SetPrivate(ctx context.Context, key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.data.PrivateStorage == nil {
		d.data.PrivateStorage = make(map[string]string)
	}
	d.data.PrivateStorage[key] = value
	return d.persistLocked(ctx)
}
