package updates

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/sleepdiary/internal/common"
)

// MemoryRepository keeps everything in process memory. It is used when the
// server runs without a database, and in tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	diaries map[string][][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{diaries: make(map[string][][]byte)}
}

func (r *MemoryRepository) Create(ctx context.Context, diaryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.diaries[diaryID]; !ok {
		r.diaries[diaryID] = nil
	}
	return nil
}

func (r *MemoryRepository) Exists(ctx context.Context, diaryID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.diaries[diaryID]
	return ok, nil
}

func (r *MemoryRepository) Append(ctx context.Context, diaryID string, payload []byte) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list, ok := r.diaries[diaryID]
	if !ok {
		return 0, common.ErrNotFound
	}
	r.diaries[diaryID] = append(list, slices.Clone(payload))
	return int64(len(list) + 1), nil
}

func (r *MemoryRepository) List(ctx context.Context, diaryID string) ([][]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.diaries[diaryID]
	out := make([][]byte, len(list))
	for i, p := range list {
		out[i] = slices.Clone(p)
	}
	return out, nil
}
