package watchlist

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/archanaprabhat/CineMania/internal/model"
	"github.com/archanaprabhat/CineMania/internal/store"
	"github.com/archanaprabhat/CineMania/internal/store/mocks"
)

func TestProject_Movie(t *testing.T) {
	now := time.Unix(1700000000, 0)

	rec, err := Project(duneEntry(), now)
	require.NoError(t, err)
	assert.Equal(t, model.WatchlistRecord{
		ID:           42,
		DisplayTitle: "Dune",
		PosterPath:   "/dune.jpg",
		MediaKind:    model.KindMovie,
		Rating:       8.1,
		PrimaryDate:  "2021-10-22",
		AddedAt:      1700000000,
	}, rec)
}

func TestProject_Show(t *testing.T) {
	rec, err := Project(severanceEntry(), time.Unix(5, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	assert.Equal(t, "Severance", rec.DisplayTitle)
	assert.Equal(t, model.KindShow, rec.MediaKind)
	assert.Equal(t, "2022-02-18", rec.PrimaryDate)
	assert.Equal(t, 8.4, rec.Rating)
}

func TestProject_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		entry model.Entry
	}{
		{"empty", model.Entry{}},
		{"movie kind without payload", model.Entry{Kind: model.KindMovie}},
		{"zero id", model.MovieEntry(model.Movie{Title: "No ID"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Project(tt.entry, time.Now())
			assert.ErrorIs(t, err, ErrInvalidEntry)
		})
	}
}

func TestRepository_AddAndList(t *testing.T) {
	repo := newMemRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, duneEntry()))

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(42), items[0].ID)
	assert.Equal(t, "Dune", items[0].DisplayTitle)

	has, err := repo.Has(ctx, 42)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRepository_AddIsIdempotent(t *testing.T) {
	repo := newMemRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, duneEntry()))
	require.NoError(t, repo.AddItem(ctx, duneEntry()))

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRepository_EmptyStore(t *testing.T) {
	repo := newMemRepository(t)

	items, err := repo.ListItems(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestRepository_RemoveAbsent(t *testing.T) {
	repo := newMemRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.RemoveItem(ctx, 999))

	require.NoError(t, repo.AddItem(ctx, duneEntry()))
	require.NoError(t, repo.RemoveItem(ctx, 42))
	require.NoError(t, repo.RemoveItem(ctx, 42))

	has, err := repo.Has(ctx, 42)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRepository_InvalidEntryNeverReachesStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockStore(ctrl)

	repo := NewRepository(m)
	err := repo.AddItem(context.Background(), model.Entry{})
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestRepository_PropagatesStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockStore(ctrl)
	ctx := context.Background()

	quota := fmt.Errorf("put: %w", store.ErrQuotaExceeded)
	m.EXPECT().Put(gomock.Any(), gomock.Any()).Return(quota)
	m.EXPECT().Delete(gomock.Any(), int64(42)).Return(store.ErrStorageUnavailable)
	m.EXPECT().GetAll(gomock.Any()).Return(nil, store.ErrStoreClosed)

	repo := NewRepository(m)

	err := repo.AddItem(ctx, duneEntry())
	assert.ErrorIs(t, err, store.ErrQuotaExceeded)

	err = repo.RemoveItem(ctx, 42)
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)

	_, err = repo.ListItems(ctx)
	assert.ErrorIs(t, err, store.ErrStoreClosed)
}

func TestRepository_NilListBecomesEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockStore(ctrl)
	m.EXPECT().GetAll(gomock.Any()).Return(nil, nil)

	items, err := NewRepository(m).ListItems(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
}

func TestRepository_StampsAddedAt(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockStore(ctrl)

	fixed := time.Unix(1234567890, 0)
	m.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r model.WatchlistRecord) error {
		if r.AddedAt != fixed.Unix() {
			return errors.New("unexpected added_at")
		}
		return nil
	})

	repo := NewRepository(m, WithClock(func() time.Time { return fixed }))
	require.NoError(t, repo.AddItem(context.Background(), duneEntry()))
}

// Helper functions

func newMemRepository(t *testing.T, opts ...RepositoryOption) *Repository {
	t.Helper()
	s := store.Open(store.Config{Path: "/data/watchlist.jsonl", Fs: afero.NewMemMapFs()})
	t.Cleanup(func() { s.Close() })
	return NewRepository(s, opts...)
}

func duneEntry() model.Entry {
	return model.MovieEntry(model.Movie{
		ID:          42,
		Title:       "Dune",
		PosterPath:  "/dune.jpg",
		VoteAverage: 8.1,
		ReleaseDate: "2021-10-22",
	})
}

func severanceEntry() model.Entry {
	return model.ShowEntry(model.Show{
		ID:           7,
		Name:         "Severance",
		PosterPath:   "/severance.jpg",
		VoteAverage:  8.4,
		FirstAirDate: "2022-02-18",
	})
}

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	base := time.Unix(1700000000, 0)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}
