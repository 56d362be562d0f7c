package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/sleepdiary/internal/server/repositories/updates"
)

// InMemoryRepositoryManager keeps diaries in process memory. Transactions
// are serialised but not rolled back.
type InMemoryRepositoryManager struct {
	mu      sync.Mutex
	updates *updates.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{updates: updates.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Updates() updates.Repository {
	return m.updates
}

func (m *InMemoryRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo updates.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, m.updates)
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}
