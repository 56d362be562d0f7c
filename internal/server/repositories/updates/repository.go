// Package updates stores the raw update stream the sync server receives for
// each diary. A diary's state is the replay of its updates in order.
package updates

import "context"

// Repository persists diaries and their ordered update payloads. Payloads
// are the binary-encoded updates exactly as received.
type Repository interface {
	Create(ctx context.Context, diaryID string) error
	Exists(ctx context.Context, diaryID string) (bool, error)
	// Append stores payload as the diary's next update and returns its
	// sequence number, starting at 1. Unknown diaries give common.ErrNotFound.
	Append(ctx context.Context, diaryID string, payload []byte) (int64, error)
	List(ctx context.Context, diaryID string) ([][]byte, error)
}
