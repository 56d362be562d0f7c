// Package storage persists a diary's serialised text form.
//
// A Storage is injected into the diary when it is opened; the diary calls
// Load once and Save after every local change, before any network traffic.
// Implementations:
//
//   - FileStorage writes a single file atomically.
//   - S3Storage keeps the diary as one object in an S3-compatible bucket.
//   - MemoryStorage keeps the bytes in memory, for tests and for diaries
//     that are parsed from a string and must not be written anywhere.
//
// Load returns common.ErrNotFound when nothing has been saved yet.
package storage
