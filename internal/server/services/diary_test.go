package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/sleepdiary/internal/codec"
	"github.com/dmitrijs2005/sleepdiary/internal/common"
	"github.com/dmitrijs2005/sleepdiary/internal/models"
	"github.com/dmitrijs2005/sleepdiary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sleepdiary/internal/server/repositories/updates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hour = uint64(3600 * 1000)

var clock = time.UnixMilli(int64(30 * hour)).UTC()

func newService(t *testing.T, rm repomanager.RepositoryManager) *DiaryService {
	t.Helper()
	if rm == nil {
		rm = repomanager.NewInMemoryRepositoryManager()
	}
	return NewDiaryService(rm, 10, time.Hour,
		WithClock(func() time.Time { return clock }),
		WithIDGenerator(func() string { return "diary-1" }),
	)
}

func payload(u models.Update) string {
	return codec.UpdateToString(u)
}

func TestCreate(t *testing.T) {
	s := newService(t, nil)
	id, err := s.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "diary-1", id)

	d, err := s.Snapshot(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, d.Entries)
}

func TestCreate_DefaultIDsAreUUIDs(t *testing.T) {
	s := NewDiaryService(repomanager.NewInMemoryRepositoryManager(), 10, time.Minute)
	a, err := s.Create(context.Background())
	require.NoError(t, err)
	b, err := s.Create(context.Background())
	require.NoError(t, err)
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestReceive_ReplaysIntoSnapshot(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()
	id, err := s.Create(ctx)
	require.NoError(t, err)

	n, err := s.Receive(ctx, id, []string{
		payload(models.Update{Reset: true}),
		payload(models.Update{Entries: []models.Entry{{Timestamp: 1, Event: models.Wake}, {Timestamp: 2, Event: models.Food}}}),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.Receive(ctx, id, []string{payload(models.Update{Start: 1, DeleteCount: 1, Entries: []models.Entry{{Timestamp: 3, Event: models.Drink}}})})
	require.NoError(t, err)

	d, err := s.Snapshot(ctx, id)
	require.NoError(t, err)
	require.Len(t, d.Entries, 2)
	assert.Equal(t, models.Drink, d.Entries[1].Event)
}

func TestReceive_Errors(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()
	id, err := s.Create(ctx)
	require.NoError(t, err)

	_, err = s.Receive(ctx, id, nil)
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	_, err = s.Receive(ctx, id, []string{payload(models.Update{}), "A"})
	assert.ErrorIs(t, err, common.ErrDecode)

	d, err := s.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, d.Entries, "nothing stored when any payload is bad")

	_, err = s.Receive(ctx, "unknown", []string{payload(models.Update{})})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Snapshot(ctx, "unknown")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAnalysis_CachedUntilNextUpdate(t *testing.T) {
	s := newService(t, nil)
	ctx := context.Background()
	id, err := s.Create(ctx)
	require.NoError(t, err)

	_, err = s.Receive(ctx, id, []string{payload(models.Update{Entries: []models.Entry{
		{Timestamp: 1 * hour, Event: models.Wake},
		{Timestamp: 17 * hour, Event: models.Sleep},
	}})})
	require.NoError(t, err)

	r, err := s.Analysis(ctx, id)
	require.NoError(t, err)
	assert.True(t, r.HasMode)
	assert.Equal(t, models.Sleep, r.Mode)

	cached, ok := s.reports.GetIfPresent(id)
	require.True(t, ok)
	assert.Equal(t, r.Mode, cached.Mode)

	_, err = s.Receive(ctx, id, []string{payload(models.Update{Start: 2, Entries: []models.Entry{{Timestamp: 25 * hour, Event: models.Wake}}})})
	require.NoError(t, err)
	_, ok = s.reports.GetIfPresent(id)
	assert.False(t, ok, "new update drops the cached report")

	r, err = s.Analysis(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.Wake, r.Mode)
}

// failingManager makes every transaction fail, to check errors surface.
type failingManager struct {
	*repomanager.InMemoryRepositoryManager
}

func (failingManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo updates.Repository) error) error {
	return errors.New("tx failed")
}

func TestReceive_StoreError(t *testing.T) {
	rm := failingManager{repomanager.NewInMemoryRepositoryManager()}
	s := newService(t, rm)
	ctx := context.Background()
	id, err := s.Create(ctx)
	require.NoError(t, err)

	_, err = s.Receive(ctx, id, []string{payload(models.Update{})})
	assert.ErrorContains(t, err, "tx failed")
}
