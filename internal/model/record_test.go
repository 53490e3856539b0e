package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMediaKind(t *testing.T) {
	tests := []struct {
		input    string
		expected MediaKind
		wantErr  bool
	}{
		{"movie", KindMovie, false},
		{"Film", KindMovie, false},
		{"show", KindShow, false},
		{"tv", KindShow, false},
		{" series ", KindShow, false},
		{"podcast", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			k, err := ParseMediaKind(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, k)
		})
	}
}

func TestWatchlistRecord_Validate(t *testing.T) {
	valid := WatchlistRecord{ID: 42, DisplayTitle: "Dune", MediaKind: KindMovie, Rating: 8.1}
	assert.NoError(t, valid.Validate())

	r := valid
	r.ID = 0
	assert.ErrorIs(t, r.Validate(), ErrInvalidID)

	r = valid
	r.DisplayTitle = "  "
	assert.ErrorIs(t, r.Validate(), ErrEmptyTitle)

	r = valid
	r.MediaKind = "tv"
	assert.ErrorIs(t, r.Validate(), ErrUnknownKind)

	r = valid
	r.Rating = 11
	assert.ErrorIs(t, r.Validate(), ErrInvalidScore)
}

func TestWatchlistRecord_Year(t *testing.T) {
	r := WatchlistRecord{PrimaryDate: "2021-10-22"}
	assert.Equal(t, "2021", r.Year())

	r.PrimaryDate = ""
	assert.Equal(t, "", r.Year())
}

func TestWatchlistRecord_RelativeAdded(t *testing.T) {
	now := time.Now().Unix()

	tests := []struct {
		name     string
		addedAt  int64
		expected string
	}{
		{"unset", 0, "unknown"},
		{"just now", now - 10, "just now"},
		{"minutes", now - 300, "5m ago"},
		{"hours", now - 7200, "2h ago"},
		{"days", now - 172800, "2d ago"},
		{"future", now + 3600, "in the future"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := WatchlistRecord{AddedAt: tt.addedAt}
			assert.Equal(t, tt.expected, r.RelativeAdded())
		})
	}
}

func TestWatchlistRecord_Entry(t *testing.T) {
	show := (&WatchlistRecord{ID: 7, DisplayTitle: "Severance", MediaKind: KindShow, PrimaryDate: "2022-02-18"}).Entry()
	assert.Equal(t, KindShow, show.Kind)
	assert.Equal(t, "Severance", show.Title())
	assert.Equal(t, "2022-02-18", show.Date())
	assert.NoError(t, show.Validate())

	movie := (&WatchlistRecord{ID: 42, DisplayTitle: "Dune", MediaKind: KindMovie, Rating: 8.1}).Entry()
	assert.Equal(t, KindMovie, movie.Kind)
	assert.Equal(t, 8.1, movie.Rating())
}
