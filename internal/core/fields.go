// Package core provides filtering, sorting, and lookup logic.
package core

import (
	"strconv"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"github.com/archanaprabhat/CineMania/internal/model"
)

// Fields is the filterable and sortable view of a catalog entry or watchlist record.
type Fields struct {
	ID         int64
	Title      string
	Kind       model.MediaKind
	Rating     float64
	Date       string // YYYY-MM-DD, may be empty
	Popularity float64
	AddedAt    int64
	Genres     []string // genre names
}

// Year returns the year of Date, or 0 when unknown.
func (f Fields) Year() int {
	if len(f.Date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(f.Date[:4])
	if err != nil {
		return 0
	}
	return y
}

// RecordFields returns the view of a watchlist record.
func RecordFields(r model.WatchlistRecord) Fields {
	return Fields{
		ID:      r.ID,
		Title:   r.DisplayTitle,
		Kind:    r.MediaKind,
		Rating:  r.Rating,
		Date:    r.PrimaryDate,
		AddedAt: r.AddedAt,
	}
}

// EntryFields returns the view of a catalog entry. genreName resolves genre
// ids to names and may be nil.
func EntryFields(e model.Entry, genreName func(int64) string) Fields {
	f := Fields{
		ID:         e.ID(),
		Title:      e.Title(),
		Kind:       e.Kind,
		Rating:     e.Rating(),
		Date:       e.Date(),
		Popularity: e.Popularity(),
	}

	switch {
	case e.Movie != nil && len(e.Movie.Genres) > 0:
		for _, g := range e.Movie.Genres {
			f.Genres = append(f.Genres, g.Name)
		}
	case e.Show != nil && len(e.Show.Genres) > 0:
		for _, g := range e.Show.Genres {
			f.Genres = append(f.Genres, g.Name)
		}
	case genreName != nil:
		for _, id := range e.GenreIDs() {
			if name := genreName(id); name != "" {
				f.Genres = append(f.Genres, name)
			}
		}
	}
	return f
}

// Fold lowercases s and transliterates it to ASCII so "Amélie" matches "amelie".
func Fold(s string) string {
	return strings.ToLower(unidecode.Unidecode(s))
}
