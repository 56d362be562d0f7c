package repomanager

import (
	"context"

	"github.com/dmitrijs2005/sleepdiary/internal/server/repositories/updates"
)

// RepositoryManager vends repositories and runs schema migrations for one
// storage backend.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Updates() updates.Repository
	// WithinTx runs fn with repositories that share one transaction. The
	// work is committed only if fn returns nil.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo updates.Repository) error) error
	Close() error
}
