// Package output provides output formatters for watchlist records and
// catalog entries.
package output

import (
	"io"

	"github.com/archanaprabhat/CineMania/internal/model"
)

// Formatter formats rows for output.
type Formatter interface {
	// Format writes formatted rows to the writer.
	Format(w io.Writer, rows []Row) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatPlain FormatType = "plain"
	FormatIDs   FormatType = "ids"
)

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatPlain:
		return NewPlainFormatter(opts)
	case FormatIDs:
		return NewIDsFormatter()
	case FormatDmenu:
		fallthrough
	default:
		return NewDmenuFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string // Custom template for dmenu/plain format
	ShowIndex  bool   // Show 1-based index prefix
	ShowKind   bool   // Show "Movie" / "TV Show"
	ShowRating bool   // Show the vote average
	ShowAdded  bool   // Show when the record was added
	TitleMax   int    // Maximum title length (0 = unlimited)
	Separator  string // Field separator for dmenu format
}

// DefaultFormatterOptions returns sensible defaults for dmenu output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:  true,
		ShowKind:   true,
		ShowRating: true,
		ShowAdded:  true,
		TitleMax:   60,
		Separator:  " | ",
	}
}

// Row is the formatter view of a watchlist record or catalog entry.
type Row struct {
	ID           int64           `json:"id" yaml:"id"`
	DisplayTitle string          `json:"display_title" yaml:"display_title"`
	PosterPath   string          `json:"poster_path,omitempty" yaml:"poster_path,omitempty"`
	MediaKind    model.MediaKind `json:"media_kind" yaml:"media_kind"`
	Rating       float64         `json:"rating" yaml:"rating"`
	PrimaryDate  string          `json:"primary_date,omitempty" yaml:"primary_date,omitempty"`
	AddedAt      int64           `json:"added_at,omitempty" yaml:"added_at,omitempty"`
	InWatchlist  bool            `json:"in_watchlist" yaml:"in_watchlist"`
}

// Year returns the four-digit year of PrimaryDate, or "".
func (r Row) Year() string {
	if len(r.PrimaryDate) >= 4 {
		return r.PrimaryDate[:4]
	}
	return ""
}

// RecordRows converts watchlist records to rows.
func RecordRows(records []model.WatchlistRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			ID:           r.ID,
			DisplayTitle: r.DisplayTitle,
			PosterPath:   r.PosterPath,
			MediaKind:    r.MediaKind,
			Rating:       r.Rating,
			PrimaryDate:  r.PrimaryDate,
			AddedAt:      r.AddedAt,
			InWatchlist:  true,
		})
	}
	return rows
}

// EntryRows converts catalog entries to rows. inWatchlist may be nil.
func EntryRows(entries []model.Entry, inWatchlist func(id int64) bool) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		row := Row{
			ID:           e.ID(),
			DisplayTitle: e.Title(),
			PosterPath:   e.PosterPath(),
			MediaKind:    e.Kind,
			Rating:       e.Rating(),
			PrimaryDate:  e.Date(),
		}
		if inWatchlist != nil {
			row.InWatchlist = inWatchlist(row.ID)
		}
		rows = append(rows, row)
	}
	return rows
}
