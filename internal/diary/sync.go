package diary

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sleepdiary/internal/analysis"
	"github.com/dmitrijs2005/sleepdiary/internal/codec"
	"github.com/dmitrijs2005/sleepdiary/internal/models"
)

// Sync persists the diary and queues a flush of any entries the server has
// not confirmed yet.
func (d *Diary) Sync(ctx context.Context) <-chan error {
	d.mu.Lock()
	err := d.persistLocked(ctx)
	d.mu.Unlock()
	if err != nil {
		return done(err)
	}
	return d.schedule(ctx, d.flush)
}

// SetServer points the diary at a sync server.
//
// An empty url disconnects. Otherwise the server is told to reset its copy.
// With sendAll the whole log is then uploaded; without it the server's view
// starts at the current end of the log, seeded with the active target wake
// time if there is one. Re-setting the current server is a no-op unless
// sendAll asks to upload history the server has not seen.
func (d *Diary) SetServer(ctx context.Context, url string, sendAll bool) <-chan error {
	if url == "" {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.data.Server = ""
		d.data.ServerEntriesSent = 0
		d.data.ServerEntriesOffset = 0
		return done(d.persistLocked(ctx))
	}

	return d.queue.Push(ctx, func(ctx context.Context) error {
		if d.client == nil {
			return fmt.Errorf("set server: no client configured")
		}

		d.mu.Lock()
		if url == d.data.Server && (!sendAll || d.data.ServerEntriesOffset == 0) {
			d.mu.Unlock()
			return d.flush(ctx)
		}
		n := uint64(len(d.data.Entries))
		target := analysis.TargetTimestamp(d.data.Entries)
		reset := models.Update{Reset: true}
		if target != 0 && !sendAll {
			e, err := models.NewEntry(models.Retarget, models.WithTimestamp(d.nowMillis()), models.WithRelated(target))
			if err != nil {
				d.mu.Unlock()
				return err
			}
			reset.Entries = []models.Entry{e}
		}
		d.mu.Unlock()

		if err := d.client.Send(ctx, url+codec.UpdateToString(reset)); err != nil {
			d.logger.Warn(ctx, "server reset failed", "server", url, "error", err)
			return fmt.Errorf("reset server: %w", err)
		}

		d.mu.Lock()
		n = min(n, uint64(len(d.data.Entries)))
		d.data.Server = url
		if sendAll {
			d.data.ServerEntriesSent = 0
			d.data.ServerEntriesOffset = 0
		} else {
			d.data.ServerEntriesSent = n
			d.data.ServerEntriesOffset = n - min(n, uint64(len(reset.Entries)))
		}
		err := d.persistLocked(ctx)
		d.mu.Unlock()
		if err != nil {
			return err
		}

		d.logger.Info(ctx, "server set", "server", url, "send_all", sendAll)
		return d.flush(ctx)
	})
}

// schedule queues task when there is somewhere to send to, and otherwise
// resolves immediately.
func (d *Diary) schedule(ctx context.Context, task func(context.Context) error) <-chan error {
	d.mu.Lock()
	hasServer := d.data.Server != ""
	d.mu.Unlock()

	if !hasServer || d.client == nil {
		return done(nil)
	}
	return d.queue.Push(ctx, task)
}

// flush sends unconfirmed entries until the server has all of them. It must
// only run on the queue.
//
// Each request carries DeleteCount equal to its chunk length, so a request
// that is delivered twice overwrites the same slots instead of duplicating
// entries.
func (d *Diary) flush(ctx context.Context) error {
	if d.client == nil {
		return nil
	}

	for {
		d.mu.Lock()
		server := d.data.Server
		sent := d.data.ServerEntriesSent
		offset := d.data.ServerEntriesOffset
		n := uint64(len(d.data.Entries))
		if server == "" || sent >= n {
			d.mu.Unlock()
			return nil
		}

		length := n - sent
		var url string
		for {
			url = server + codec.UpdateToString(models.Update{
				Entries:     d.data.Entries[sent : sent+length],
				Start:       sent - offset,
				DeleteCount: length,
			})
			if len(url) <= d.maxURLLength || length == 1 {
				break
			}
			length = (length + 1) / 2
		}
		d.mu.Unlock()

		d.logger.Debug(ctx, "sending entries", "from", sent, "count", length)
		if err := d.client.Send(ctx, url); err != nil {
			d.logger.Warn(ctx, "sync failed", "error", err, "unsent", n-sent)
			return fmt.Errorf("send entries: %w", err)
		}

		d.mu.Lock()
		if d.data.Server != server || d.data.ServerEntriesSent != sent || d.data.ServerEntriesOffset != offset {
			d.logger.Warn(ctx, "server state changed while sending, recomputing",
				"sent", sent, "now_sent", d.data.ServerEntriesSent)
			d.mu.Unlock()
			continue
		}
		d.data.ServerEntriesSent = sent + length
		err := d.persistLocked(ctx)
		d.mu.Unlock()
		if err != nil {
			return err
		}
	}
}

// splice applies a splice while keeping the server counters consistent. It
// must only run on the queue, so the counters it reads cannot move under it
// except by a local ApplyUpdate or a disconnect.
func (d *Diary) splice(ctx context.Context, start, deleteCount uint64, insert []models.Entry) error {
	d.mu.Lock()

	n := uint64(len(d.data.Entries))
	start = min(start, n)
	deleteCount = min(deleteCount, n-start)
	k := uint64(len(insert))
	server := d.data.Server
	sent := d.data.ServerEntriesSent
	offset := d.data.ServerEntriesOffset

	switch {
	case server == "" || d.client == nil || start >= sent:
		// Only unsent entries are touched.
		d.data.Entries = models.Splice(d.data.Entries, start, deleteCount, insert)
		err := d.persistLocked(ctx)
		d.mu.Unlock()
		return err

	case start+deleteCount <= offset:
		// Entirely before the server's view: shift the view.
		d.data.Entries = models.Splice(d.data.Entries, start, deleteCount, insert)
		d.data.ServerEntriesOffset = offset - deleteCount + k
		d.data.ServerEntriesSent = sent - deleteCount + k
		err := d.persistLocked(ctx)
		d.mu.Unlock()
		return err
	}

	lo := max(start, offset)
	hi := min(start+deleteCount, sent)
	u := models.Update{
		Entries:     insert,
		Start:       lo - offset,
		DeleteCount: hi - lo,
	}
	d.mu.Unlock()

	if err := d.client.Send(ctx, server+codec.UpdateToString(u)); err != nil {
		d.logger.Warn(ctx, "splice not applied, server unreachable", "error", err)
		return fmt.Errorf("send splice: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.data.Server != server || d.data.ServerEntriesSent != sent || d.data.ServerEntriesOffset != offset || uint64(len(d.data.Entries)) < start+deleteCount {
		// The server accepted a change computed against counters that have
		// since moved; reset its view so the next flush resends everything.
		d.logger.Warn(ctx, "server state changed during splice, resending from scratch")
		d.data.Entries = models.Splice(d.data.Entries, start, deleteCount, insert)
		d.data.ServerEntriesSent = d.data.ServerEntriesOffset
		return d.persistLocked(ctx)
	}

	d.data.Entries = models.Splice(d.data.Entries, start, deleteCount, insert)
	if start+deleteCount <= sent {
		d.data.ServerEntriesSent = sent - deleteCount + k
	} else {
		d.data.ServerEntriesSent = start + k
	}
	d.data.ServerEntriesOffset = min(offset, start)
	return d.persistLocked(ctx)
}
