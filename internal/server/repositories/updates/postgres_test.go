package updates

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/sleepdiary/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

func TestPostgres_Create(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO diaries (id) VALUES ($1)`)).
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), "d1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`INSERT INTO diaries`).WillReturnError(errors.New("duplicate key"))

	err := repo.Create(context.Background(), "d1")
	assert.ErrorContains(t, err, "duplicate key")
}

func TestPostgres_Exists(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM diaries WHERE id = \$1\)`).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "d1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Append(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`WITH d AS \(\s*UPDATE diaries SET next_seq = next_seq \+ 1.*INSERT INTO diary_updates`).
		WithArgs("d1", []byte{1, 2, 3}).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(7)))

	seq, err := repo.Append(context.Background(), "d1", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AppendUnknownDiary(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`WITH d AS`).
		WithArgs("missing", []byte{1}).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}))

	_, err := repo.Append(context.Background(), "missing", []byte{1})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPostgres_AppendDBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`WITH d AS`).WillReturnError(errors.New("conn reset"))

	_, err := repo.Append(context.Background(), "d1", []byte{1})
	assert.ErrorContains(t, err, "conn reset")
	assert.NotErrorIs(t, err, common.ErrNotFound)
}

func TestPostgres_List(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT payload FROM diary_updates WHERE diary_id = \$1 ORDER BY seq`).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte{1}).AddRow([]byte{2, 3}))

	got, err := repo.List(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{1}, {2, 3}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListScanError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT payload`).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte{1}).RowError(0, errors.New("bad row")))

	_, err := repo.List(context.Background(), "d1")
	assert.ErrorContains(t, err, "db error: bad row")
}

func TestPostgres_ListQueryError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT payload`).WillReturnError(errors.New("conn reset"))

	_, err := repo.List(context.Background(), "d1")
	assert.ErrorContains(t, err, "db error: conn reset")
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Append(ctx, "d1", []byte{1})
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, repo.Create(ctx, "d1"))
	ok, err := repo.Exists(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, ok)

	payload := []byte{1}
	seq, err := repo.Append(ctx, "d1", payload)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
	payload[0] = 9

	seq, err = repo.Append(ctx, "d1", []byte{2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)

	got, err := repo.List(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{1}, {2}}, got)

	require.NoError(t, repo.Create(ctx, "d1"), "create is idempotent")
	got, err = repo.List(ctx, "d1")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.List(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, got)
}
