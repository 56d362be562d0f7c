package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/sleepdiary/internal/server/repositories/updates"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestManagers_ImplementInterface(t *testing.T) {
	db, _ := newDB(t)

	var _ RepositoryManager = NewPostgresRepositoryManager(db)
	var _ RepositoryManager = NewInMemoryRepositoryManager()

	assert.NotNil(t, NewPostgresRepositoryManager(db).Updates())
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	stubGoose(t, func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if got != db || dir != "." {
			return errors.New("unexpected arguments")
		}
		return nil
	})

	assert.NoError(t, NewPostgresRepositoryManager(db).RunMigrations(context.Background()))
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	stubGoose(t, func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	err := NewPostgresRepositoryManager(db).RunMigrations(context.Background())
	assert.ErrorContains(t, err, "boom")
}

func TestWithinTx_Commit(t *testing.T) {
	db, mock := newDB(t)
	m := NewPostgresRepositoryManager(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO diaries`).WithArgs("d1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.WithinTx(context.Background(), func(ctx context.Context, repo updates.Repository) error {
		return repo.Create(ctx, "d1")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_Rollback(t *testing.T) {
	db, mock := newDB(t)
	m := NewPostgresRepositoryManager(db)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := m.WithinTx(context.Background(), func(ctx context.Context, repo updates.Repository) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInMemory_WithinTx(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	ctx := context.Background()
	require.NoError(t, m.RunMigrations(ctx))

	err := m.WithinTx(ctx, func(ctx context.Context, repo updates.Repository) error {
		if err := repo.Create(ctx, "d1"); err != nil {
			return err
		}
		_, err := repo.Append(ctx, "d1", []byte{1})
		return err
	})
	require.NoError(t, err)

	got, err := m.Updates().List(ctx, "d1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, m.Close())
}
