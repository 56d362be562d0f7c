// Package common defines sentinel errors shared by the diary, the sync client
// and the sync server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Model errors.
	ErrInvalidEventKind = errors.New("invalid event kind")

	// Codec errors (malformed base64 or schema-invalid bytes).
	ErrDecode = errors.New("decode failure")

	// Sync errors.
	ErrTransport = errors.New("transport failure")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")
)
