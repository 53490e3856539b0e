// Package model defines the core data structures for cinemania.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MediaKind identifies whether a catalog entry is a movie or a show.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindShow  MediaKind = "show"
)

// ErrInvalidKind is returned when a media kind string cannot be parsed.
var ErrInvalidKind = errors.New("media kind must be movie or show")

// ParseMediaKind parses a media kind string.
// Accepts: movie, movies, film, show, shows, tv, series.
func ParseMediaKind(s string) (MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies", "film":
		return KindMovie, nil
	case "show", "shows", "tv", "series":
		return KindShow, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Valid reports whether k is a known media kind.
func (k MediaKind) Valid() bool {
	return k == KindMovie || k == KindShow
}

// Label returns a human-readable label for the kind.
func (k MediaKind) Label() string {
	switch k {
	case KindMovie:
		return "Movie"
	case KindShow:
		return "TV Show"
	default:
		return "Unknown"
	}
}

// WatchlistRecord is the lightweight projection of a catalog entry that is
// persisted for watchlist membership.
type WatchlistRecord struct {
	ID           int64     `json:"id"`
	DisplayTitle string    `json:"display_title"`
	PosterPath   string    `json:"poster_path,omitempty"`
	MediaKind    MediaKind `json:"media_kind"`
	Rating       float64   `json:"rating"`
	PrimaryDate  string    `json:"primary_date,omitempty"`
	AddedAt      int64     `json:"added_at,omitempty"` // Unix seconds of the last put
}

// Validation errors.
var (
	ErrInvalidID    = errors.New("id must be greater than 0")
	ErrEmptyTitle   = errors.New("display_title cannot be empty")
	ErrUnknownKind  = errors.New("media_kind must be movie or show")
	ErrInvalidScore = errors.New("rating must be between 0 and 10")
)

// Validate checks that the record has all required fields.
func (r *WatchlistRecord) Validate() error {
	if r.ID <= 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(r.DisplayTitle) == "" {
		return ErrEmptyTitle
	}
	if !r.MediaKind.Valid() {
		return ErrUnknownKind
	}
	if r.Rating < 0 || r.Rating > 10 {
		return ErrInvalidScore
	}
	return nil
}

// Year returns the four-digit year of PrimaryDate, or "" when unknown.
func (r *WatchlistRecord) Year() string {
	if len(r.PrimaryDate) >= 4 {
		return r.PrimaryDate[:4]
	}
	return ""
}

// AddedAtTime returns AddedAt as a time.Time.
func (r *WatchlistRecord) AddedAtTime() time.Time {
	return time.Unix(r.AddedAt, 0)
}

// Entry builds a minimal catalog entry from the record, enough to toggle or
// re-add it when the catalog no longer carries the id.
func (r *WatchlistRecord) Entry() Entry {
	if r.MediaKind == KindShow {
		return ShowEntry(Show{
			ID:           r.ID,
			Name:         r.DisplayTitle,
			PosterPath:   r.PosterPath,
			FirstAirDate: r.PrimaryDate,
			VoteAverage:  r.Rating,
		})
	}
	return MovieEntry(Movie{
		ID:          r.ID,
		Title:       r.DisplayTitle,
		PosterPath:  r.PosterPath,
		ReleaseDate: r.PrimaryDate,
		VoteAverage: r.Rating,
	})
}

// RelativeAdded returns a human-readable age of the record.
// Examples: "just now", "5m ago", "2h ago", "1d ago".
func (r *WatchlistRecord) RelativeAdded() string {
	if r.AddedAt == 0 {
		return "unknown"
	}
	diff := time.Now().Unix() - r.AddedAt

	if diff < 0 {
		return "in the future"
	}
	if diff < 60 {
		return "just now"
	}
	if diff < 3600 {
		return fmt.Sprintf("%dm ago", diff/60)
	}
	if diff < 86400 {
		return fmt.Sprintf("%dh ago", diff/3600)
	}
	return fmt.Sprintf("%dd ago", diff/86400)
}
