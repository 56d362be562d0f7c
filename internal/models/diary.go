// Package models holds the diary data model shared by the client, the sync
// server and the analysis code: entries, event kinds, updates and the diary
// record itself.
package models

import "maps"

// Diary is the persisted state of one sleep diary.
//
// ServerEntriesOffset is the number of entries that existed before the
// server's view began; those are never sent. ServerEntriesSent counts entries
// (including the offset) the server has confirmed. The invariant
// offset <= sent <= len(Entries) holds whenever a server is set.
type Diary struct {
	Entries             []Entry           `json:"entries"`
	PrivateStorage      map[string]string `json:"private_storage,omitempty"`
	PreferredDayLength  uint64            `json:"preferred_day_length,omitempty"`
	Server              string            `json:"server,omitempty"`
	ServerEntriesSent   uint64            `json:"server_entries_sent,omitempty"`
	ServerEntriesOffset uint64            `json:"server_entries_offset,omitempty"`
}

// Clone returns a deep copy of d.
func (d *Diary) Clone() *Diary {
	c := *d
	c.Entries = cloneEntries(d.Entries)
	if d.PrivateStorage != nil {
		c.PrivateStorage = maps.Clone(d.PrivateStorage)
	}
	return &c
}

// ApplyUpdate merges u into the diary's entries. The server counters are
// clamped so they never point past the end of the log.
func (d *Diary) ApplyUpdate(u Update) {
	d.Entries = u.Apply(d.Entries)

	n := uint64(len(d.Entries))
	if d.ServerEntriesSent > n {
		d.ServerEntriesSent = n
	}
	if d.ServerEntriesOffset > d.ServerEntriesSent {
		d.ServerEntriesOffset = d.ServerEntriesSent
	}
}
