package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archanaprabhat/CineMania/internal/core"
	"github.com/archanaprabhat/CineMania/internal/model"
)

const dataDir = "/data"

const moviesJSON = `[
  {"id": 42, "title": "Dune", "release_date": "2021-10-22", "vote_average": 8.1, "popularity": 90, "poster_path": "/dune.jpg", "genre_ids": [878, 12]},
  {"id": 43, "title": "Dune: Part Two", "release_date": "2024-03-01", "vote_average": 8.4, "popularity": 120, "genre_ids": [878]},
  {"id": 44, "title": "Amélie", "release_date": "2001-04-25", "vote_average": 7.9, "popularity": 30, "genre_ids": [35, 10749]},
  {"id": 45, "title": "Dunkirk", "release_date": "2017-07-19", "vote_average": 7.5, "popularity": 40, "genre_ids": [18]},
  {"id": 46, "title": "Dune Drifter", "release_date": "2020-01-01", "vote_average": 4.2, "popularity": 2, "genre_ids": [878]}
]`

const showsJSON = `[
  {"id": 7, "name": "Severance", "first_air_date": "2022-02-18", "vote_average": 8.4, "popularity": 70, "genre_ids": [18], "genres": [{"id": 18, "name": "Drama"}]},
  {"id": 42, "name": "Shared Id Show", "first_air_date": "2019-01-01", "vote_average": 6.0, "popularity": 5, "genre_ids": [10765], "genres": [{"id": 10765, "name": "Sci-Fi & Fantasy"}]}
]`

const actorsJSON = `[
  {"id": 1, "name": "Timothée Chalamet", "profile_path": "/tc.jpg", "credits": {"cast": [
    {"id": 42, "title": "Dune", "media_type": "movie", "poster_path": "/dune.jpg", "popularity": 90},
    {"id": 43, "title": "Dune: Part Two", "media_type": "movie", "poster_path": "/dune2.jpg", "popularity": 120},
    {"id": 99, "title": "No Poster", "media_type": "movie", "popularity": 500},
    {"id": 98, "name": "Talk Show", "media_type": "person", "poster_path": "/x.jpg", "popularity": 600},
    {"id": 97, "name": "Some Series", "media_type": "tv", "poster_path": "/s.jpg", "popularity": 10}
  ]}},
  {"id": 2, "name": "Rebecca Ferguson", "credits": {"cast": []}}
]`

const genresJSON = `[
  {"id": 878, "name": "Science Fiction"},
  {"id": 12, "name": "Adventure"},
  {"id": 35, "name": "Comedy"},
  {"id": 10749, "name": "Romance"},
  {"id": 18, "name": "Drama"}
]`

func TestLoad(t *testing.T) {
	c := newTestCatalog(t, true, true)

	assert.True(t, c.Loaded())
	assert.Equal(t, Stats{Movies: 5, Shows: 2, Actors: 2, Genres: 6}, c.Stats())
}

func TestLoad_IsOnce(t *testing.T) {
	fs := writeDataset(t, true, true)
	c := New(fs, dataDir, nil)
	require.NoError(t, c.Load(context.Background()))

	// Later changes on disk are not picked up.
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dataDir, MoviesFile), []byte(`[]`), 0o644))
	require.NoError(t, c.Load(context.Background()))
	assert.Len(t, c.Movies(), 5)
}

func TestLoad_OptionalFiles(t *testing.T) {
	c := newTestCatalog(t, false, false)

	assert.Empty(t, c.Search("timothee", 0).Actors)
	// Genres embedded in shows are still collected.
	g, err := c.Genre("sci-fi-fantasy")
	require.NoError(t, err)
	assert.Equal(t, int64(10765), g.ID)
}

func TestLoad_RequiredFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dataDir, MoviesFile), []byte(moviesJSON), 0o644))

	c := New(fs, dataDir, nil)
	err := c.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ShowsFile)
	assert.False(t, c.Loaded())

	// A later load succeeds once the file appears.
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dataDir, ShowsFile), []byte(showsJSON), 0o644))
	require.NoError(t, c.Load(context.Background()))
	assert.True(t, c.Loaded())
}

func TestLoad_Malformed(t *testing.T) {
	fs := writeDataset(t, false, false)
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dataDir, MoviesFile), []byte(`{not json`), 0o644))

	err := New(fs, dataDir, nil).Load(context.Background())
	assert.Error(t, err)
}

func TestLookups(t *testing.T) {
	c := newTestCatalog(t, true, true)

	m, err := c.Movie(42)
	require.NoError(t, err)
	assert.Equal(t, "Dune", m.Title)

	s, err := c.Show(7)
	require.NoError(t, err)
	assert.Equal(t, "Severance", s.Name)

	a, err := c.Actor(2)
	require.NoError(t, err)
	assert.Equal(t, "Rebecca Ferguson", a.Name)

	_, err = c.Movie(7)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Actor(1000)
	assert.ErrorIs(t, err, ErrNotFound)

	e, err := c.Entry(model.KindShow, 42)
	require.NoError(t, err)
	assert.Equal(t, "Shared Id Show", e.Title())

	_, err = c.Entry("podcast", 42)
	assert.ErrorIs(t, err, model.ErrInvalidKind)
}

func TestFind(t *testing.T) {
	c := newTestCatalog(t, true, true)

	e, err := c.Find(42)
	require.NoError(t, err)
	assert.Equal(t, model.KindMovie, e.Kind)

	e, err = c.Find(7)
	require.NoError(t, err)
	assert.Equal(t, model.KindShow, e.Kind)

	_, err = c.Find(12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntries(t *testing.T) {
	c := newTestCatalog(t, true, true)

	entries := c.Entries()
	require.Len(t, entries, 7)
	assert.Equal(t, model.KindMovie, entries[0].Kind)
	assert.Equal(t, model.KindShow, entries[6].Kind)
}

func TestBrowse(t *testing.T) {
	c := newTestCatalog(t, true, true)

	t.Run("genre and sort", func(t *testing.T) {
		entries := c.Browse(BrowseOptions{
			Filter: core.FilterOptions{Genre: "science-fiction"},
			Sort:   core.SortOptions{Field: core.SortByRating, Order: core.SortDesc},
		})
		require.Len(t, entries, 3)
		assert.Equal(t, int64(43), entries[0].ID())
		assert.Equal(t, int64(42), entries[1].ID())
		assert.Equal(t, int64(46), entries[2].ID())
	})

	t.Run("expression", func(t *testing.T) {
		expr, err := core.ParseFilter("kind=show,genre=drama")
		require.NoError(t, err)
		entries := c.Browse(BrowseOptions{Expr: expr})
		require.Len(t, entries, 1)
		assert.Equal(t, "Severance", entries[0].Title())
	})

	t.Run("limit after sort", func(t *testing.T) {
		entries := c.Browse(BrowseOptions{
			Filter: core.FilterOptions{Kind: model.KindMovie, Limit: 2},
			Sort:   core.SortOptions{Field: core.SortByPopularity, Order: core.SortDesc},
		})
		require.Len(t, entries, 2)
		assert.Equal(t, int64(43), entries[0].ID())
		assert.Equal(t, int64(42), entries[1].ID())
	})
}

func TestShared(t *testing.T) {
	a := Shared("/tmp/cinemania-data-a")
	b := Shared("/tmp/cinemania-data-a")
	other := Shared("/tmp/cinemania-data-b")

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)
}

// Helper functions

func writeDataset(t *testing.T, withActors, withGenres bool) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		MoviesFile: moviesJSON,
		ShowsFile:  showsJSON,
	}
	if withActors {
		files[ActorsFile] = actorsJSON
	}
	if withGenres {
		files[GenresFile] = genresJSON
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(dataDir, name), []byte(content), 0o644))
	}
	return fs
}

func newTestCatalog(t *testing.T, withActors, withGenres bool) *Catalog {
	t.Helper()
	c := New(writeDataset(t, withActors, withGenres), dataDir, nil)
	require.NoError(t, c.Load(context.Background()))
	return c
}
