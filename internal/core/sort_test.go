package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archanaprabhat/CineMania/internal/model"
)

func TestSort_Empty(t *testing.T) {
	var records []model.WatchlistRecord
	Sort(records, RecordFields, DefaultSortOptions())
	assert.Len(t, records, 0)
}

func TestSort_ByAddedDesc(t *testing.T) {
	records := []model.WatchlistRecord{
		{ID: 1, AddedAt: 100},
		{ID: 2, AddedAt: 300},
		{ID: 3, AddedAt: 200},
	}

	Sort(records, RecordFields, SortOptions{Field: SortByAdded, Order: SortDesc})

	assert.Equal(t, int64(2), records[0].ID) // 300
	assert.Equal(t, int64(3), records[1].ID) // 200
	assert.Equal(t, int64(1), records[2].ID) // 100
}

func TestSort_ByTitleAsc(t *testing.T) {
	records := []model.WatchlistRecord{
		{ID: 1, DisplayTitle: "severance"},
		{ID: 2, DisplayTitle: "Andor"},
		{ID: 3, DisplayTitle: "Dune"},
	}

	Sort(records, RecordFields, SortOptions{Field: SortByTitle, Order: SortAsc})

	assert.Equal(t, int64(2), records[0].ID)
	assert.Equal(t, int64(3), records[1].ID)
	assert.Equal(t, int64(1), records[2].ID)
}

func TestSort_ByRatingDescStable(t *testing.T) {
	records := []model.WatchlistRecord{
		{ID: 1, Rating: 7},
		{ID: 2, Rating: 9},
		{ID: 3, Rating: 7},
	}

	Sort(records, RecordFields, SortOptions{Field: SortByRating, Order: SortDesc})

	assert.Equal(t, int64(2), records[0].ID)
	// Equal ratings keep their input order.
	assert.Equal(t, int64(1), records[1].ID)
	assert.Equal(t, int64(3), records[2].ID)
}

func TestSort_EntriesByPopularity(t *testing.T) {
	entries := []model.Entry{
		model.MovieEntry(model.Movie{ID: 1, Title: "A", Popularity: 10}),
		model.ShowEntry(model.Show{ID: 2, Name: "B", Popularity: 50}),
		model.MovieEntry(model.Movie{ID: 3, Title: "C", Popularity: 30}),
	}
	view := func(e model.Entry) Fields { return EntryFields(e, nil) }

	Sort(entries, view, SortOptions{Field: SortByPopularity, Order: SortDesc})

	assert.Equal(t, int64(2), entries[0].ID())
	assert.Equal(t, int64(3), entries[1].ID())
	assert.Equal(t, int64(1), entries[2].ID())
}

func TestSort_ByDateAsc(t *testing.T) {
	records := []model.WatchlistRecord{
		{ID: 1, PrimaryDate: "2021-10-22"},
		{ID: 2, PrimaryDate: "1999-03-31"},
		{ID: 3, PrimaryDate: "2010-07-16"},
	}

	Sort(records, RecordFields, SortOptions{Field: SortByDate, Order: SortAsc})

	assert.Equal(t, int64(2), records[0].ID)
	assert.Equal(t, int64(3), records[1].ID)
	assert.Equal(t, int64(1), records[2].ID)
}

func TestDefaultSortOptions(t *testing.T) {
	opts := DefaultSortOptions()
	assert.Equal(t, SortByAdded, opts.Field)
	assert.Equal(t, SortDesc, opts.Order)
}

func TestParseSortField(t *testing.T) {
	tests := []struct {
		input    string
		expected SortField
	}{
		{"added", SortByAdded},
		{"title", SortByTitle},
		{"name", SortByTitle},
		{"rating", SortByRating},
		{"date", SortByDate},
		{"year", SortByDate},
		{"popularity", SortByPopularity},
		{"unknown", SortByAdded},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseSortField(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected SortOrder
	}{
		{"asc", SortAsc},
		{"ASCENDING", SortAsc},
		{"desc", SortDesc},
		{"", SortDesc},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseSortOrder(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
