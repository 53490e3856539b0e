package core

import (
	"sort"
	"strings"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByAdded      SortField = "added"
	SortByTitle      SortField = "title"
	SortByRating     SortField = "rating"
	SortByDate       SortField = "date"
	SortByPopularity SortField = "popularity"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField // Field to sort by
	Order SortOrder // Sort order (asc/desc)
}

// DefaultSortOptions returns default sort options (most recently added first).
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByAdded,
		Order: SortDesc,
	}
}

// Sort sorts items in place based on the provided options.
// Ties keep their relative order.
func Sort[T any](items []T, view func(T) Fields, opts SortOptions) {
	if len(items) == 0 {
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := view(items[i]), view(items[j])

		var less, equal bool
		switch opts.Field {
		case SortByTitle:
			at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
			less, equal = at < bt, at == bt
		case SortByRating:
			less, equal = a.Rating < b.Rating, a.Rating == b.Rating
		case SortByDate:
			less, equal = a.Date < b.Date, a.Date == b.Date
		case SortByPopularity:
			less, equal = a.Popularity < b.Popularity, a.Popularity == b.Popularity
		default:
			less, equal = a.AddedAt < b.AddedAt, a.AddedAt == b.AddedAt
		}

		if equal {
			return false
		}
		if opts.Order == SortDesc {
			return !less
		}
		return less
	})
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "added", "added_at", "a":
		return SortByAdded, nil
	case "title", "name", "t":
		return SortByTitle, nil
	case "rating", "score", "r":
		return SortByRating, nil
	case "date", "release", "year", "d":
		return SortByDate, nil
	case "popularity", "popular", "p":
		return SortByPopularity, nil
	default:
		return SortByAdded, nil
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "a":
		return SortAsc, nil
	case "desc", "descending", "d":
		return SortDesc, nil
	default:
		return SortDesc, nil
	}
}
