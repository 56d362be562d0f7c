// Package diary is the live, persisted sleep diary: an event log that saves
// itself after every change and mirrors itself to a sync server.
//
// # Overview
//
// Open loads a diary from an injected storage.Storage. Mutations (Append,
// Splice, ApplyUpdate, SetServer) change the in-memory log, persist it
// immediately, and then schedule server work on a per-diary FIFO queue. The
// returned channel receives the outcome of that server work.
//
// # Server bookkeeping
//
// The server sees the slice Entries[ServerEntriesOffset:ServerEntriesSent].
// New entries beyond ServerEntriesSent are flushed in chunks small enough to
// fit a URL. A splice that reaches into the server's view is sent before it
// is applied locally; one that only touches unsent entries, or entries before
// the server's view, is applied locally and the counters are shifted. The
// counters are only advanced after the server confirms a request, and every
// commit is checked against the counters as they are at that moment.
//
// # Error Handling
//
// Sync failures arrive on the returned channel and wrap common.ErrTransport.
// Local state is never rolled back; the unsent entries go out with the next
// Sync. A stored diary that cannot be decoded makes Open fail with
// common.ErrDecode rather than start from a silently truncated log.
package diary
