package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEntry_InfersKindFromShape(t *testing.T) {
	t.Run("title means movie", func(t *testing.T) {
		e, err := DecodeEntry([]byte(`{"id":42,"title":"Dune","release_date":"2021-10-22","vote_average":8.1}`))
		require.NoError(t, err)
		assert.Equal(t, KindMovie, e.Kind)
		require.NotNil(t, e.Movie)
		assert.Nil(t, e.Show)
		assert.Equal(t, "Dune", e.Title())
		assert.Equal(t, "2021-10-22", e.Date())
	})

	t.Run("name means show", func(t *testing.T) {
		e, err := DecodeEntry([]byte(`{"id":7,"name":"Severance","first_air_date":"2022-02-18","vote_average":8.4}`))
		require.NoError(t, err)
		assert.Equal(t, KindShow, e.Kind)
		require.NotNil(t, e.Show)
		assert.Equal(t, "Severance", e.Title())
		assert.Equal(t, "2022-02-18", e.Date())
	})

	t.Run("null title still means movie", func(t *testing.T) {
		e, err := DecodeEntry([]byte(`{"id":5,"title":null,"name":"X"}`))
		require.NoError(t, err)
		assert.Equal(t, KindMovie, e.Kind)
		require.NotNil(t, e.Movie)
		assert.Equal(t, "X", e.Title())
	})
}

func TestDecodeEntry_ExplicitTagWins(t *testing.T) {
	// A tv-tagged object that happens to carry a title is still a show.
	e, err := DecodeEntry([]byte(`{"id":9,"title":"Odd Shape","media_type":"tv"}`))
	require.NoError(t, err)
	assert.Equal(t, KindShow, e.Kind)
	assert.Equal(t, "Odd Shape", e.Title())

	e, err = DecodeEntry([]byte(`{"id":10,"name":"Named Movie","media_kind":"movie"}`))
	require.NoError(t, err)
	assert.Equal(t, KindMovie, e.Kind)
	assert.Equal(t, "Named Movie", e.Title())
}

func TestDecodeEntry_Errors(t *testing.T) {
	_, err := DecodeEntry([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeEntry([]byte(`{"id":1,"title":"X","media_type":"podcast"}`))
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestEntry_Validate(t *testing.T) {
	assert.NoError(t, MovieEntry(Movie{ID: 1, Title: "A"}).Validate())
	assert.NoError(t, ShowEntry(Show{ID: 2, Name: "B"}).Validate())

	assert.ErrorIs(t, Entry{Kind: KindMovie}.Validate(), ErrEmptyEntry)
	assert.ErrorIs(t, Entry{Kind: "tv", Show: &Show{ID: 1}}.Validate(), ErrUnknownKind)
	assert.ErrorIs(t, MovieEntry(Movie{Title: "No ID"}).Validate(), ErrInvalidID)
}

func TestEntry_Accessors(t *testing.T) {
	e := MovieEntry(Movie{
		ID:          42,
		Title:       "Dune",
		PosterPath:  "/x.jpg",
		VoteAverage: 8.1,
		Popularity:  99.5,
		GenreIDs:    []int64{878, 12},
		Overview:    "Spice.",
	})

	assert.Equal(t, int64(42), e.ID())
	assert.Equal(t, "/x.jpg", e.PosterPath())
	assert.Equal(t, 8.1, e.Rating())
	assert.Equal(t, 99.5, e.Popularity())
	assert.Equal(t, []int64{878, 12}, e.GenreIDs())
	assert.Equal(t, "Spice.", e.Overview())

	var empty Entry
	assert.Equal(t, int64(0), empty.ID())
	assert.Equal(t, "", empty.Title())
}

func TestGenreSlug(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Drama", "drama"},
		{"Science Fiction", "science-fiction"},
		{"Sci-Fi & Fantasy", "sci-fi-fantasy"},
		{"Action & Adventure", "action-adventure"},
		{"TV Movie", "tv-movie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenreSlug(tt.name))
			assert.Equal(t, tt.expected, Genre{Name: tt.name}.Slug())
		})
	}
}
