package core

import (
	"strings"

	"github.com/archanaprabhat/CineMania/internal/model"
)

// LookupByID finds a record by its catalog id.
// Returns nil if not found.
func LookupByID(records []model.WatchlistRecord, id int64) *model.WatchlistRecord {
	for i := range records {
		if records[i].ID == id {
			return &records[i]
		}
	}
	return nil
}

// LookupByIndex finds a record by its index (1-based for user-friendliness).
// Returns nil if index is out of bounds.
func LookupByIndex(records []model.WatchlistRecord, index int) *model.WatchlistRecord {
	idx := index - 1
	if idx < 0 || idx >= len(records) {
		return nil
	}
	return &records[idx]
}

// Search finds items whose title contains term, ignoring case and accents.
func Search[T any](items []T, view func(T) Fields, term string) []T {
	term = strings.TrimSpace(term)
	if term == "" {
		return items
	}

	term = Fold(term)
	var result []T
	for _, it := range items {
		if strings.Contains(Fold(view(it).Title), term) {
			result = append(result, it)
		}
	}
	return result
}
