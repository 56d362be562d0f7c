package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/sleepdiary/internal/common"
)

type MemoryStorage struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryStorage returns a store preloaded with data; nil means empty.
func NewMemoryStorage(data []byte) *MemoryStorage {
	return &MemoryStorage{data: slices.Clone(data)}
}

func (s *MemoryStorage) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, common.ErrNotFound
	}
	return slices.Clone(s.data), nil
}

func (s *MemoryStorage) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = slices.Clone(data)
	s.saves++
	return nil
}

// Saves reports how many times Save was called.
func (s *MemoryStorage) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
