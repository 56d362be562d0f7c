package models

import (
	"fmt"
	"maps"
	"time"

	"github.com/dmitrijs2005/sleepdiary/internal/common"
	"github.com/dmitrijs2005/sleepdiary/internal/timex"
)

// Entry is one timestamped event in a diary. Timestamps are milliseconds
// since the Unix epoch.
type Entry struct {
	Timestamp      uint64            `json:"timestamp"`
	Event          EventKind         `json:"event"`
	Related        uint64            `json:"related,omitempty"`
	Comment        string            `json:"comment,omitempty"`
	PrivateStorage map[string]string `json:"private_storage,omitempty"`
}

// EntryOption customises an Entry built by NewEntry.
type EntryOption func(*Entry)

func WithTimestamp(ms uint64) EntryOption {
	return func(e *Entry) { e.Timestamp = ms }
}

func WithTime(t time.Time) EntryOption {
	return func(e *Entry) { e.Timestamp = timex.Millis(t) }
}

// WithRelated sets the related timestamp. For RETARGET entries this is the
// desired wake time; zero clears the target.
func WithRelated(ms uint64) EntryOption {
	return func(e *Entry) { e.Related = ms }
}

func WithComment(comment string) EntryOption {
	return func(e *Entry) { e.Comment = comment }
}

func WithPrivate(key, value string) EntryOption {
	return func(e *Entry) {
		if e.PrivateStorage == nil {
			e.PrivateStorage = make(map[string]string)
		}
		e.PrivateStorage[key] = value
	}
}

// now is a test seam.
var now = time.Now

// NewEntry builds an entry for kind. The timestamp defaults to the current
// time when no option sets one.
func NewEntry(kind EventKind, opts ...EntryOption) (Entry, error) {
	if !kind.Valid() {
		return Entry{}, fmt.Errorf("%w: %d", common.ErrInvalidEventKind, int32(kind))
	}

	e := Entry{Event: kind}
	for _, opt := range opts {
		opt(&e)
	}
	if e.Timestamp == 0 {
		e.Timestamp = timex.Millis(now())
	}
	return e, nil
}

// ParseEntry is NewEntry for an event given by name, e.g. "wake" or "Sleep".
func ParseEntry(name string, opts ...EntryOption) (Entry, error) {
	kind, err := ParseEventKind(name)
	if err != nil {
		return Entry{}, err
	}
	return NewEntry(kind, opts...)
}

// Time returns the entry's timestamp as a time.Time.
func (e Entry) Time() time.Time {
	return timex.FromMillis(e.Timestamp)
}

// Clone returns a deep copy of e.
func (e Entry) Clone() Entry {
	if e.PrivateStorage != nil {
		e.PrivateStorage = maps.Clone(e.PrivateStorage)
	}
	return e
}

func cloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
