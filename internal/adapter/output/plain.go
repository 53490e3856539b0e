package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
)

// PlainFormatter formats rows as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes rows as plain text.
func (f *PlainFormatter) Format(w io.Writer, rows []Row) error {
	for i, r := range rows {
		if err := f.formatRow(w, i+1, r); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatRow(w io.Writer, index int, r Row) error {
	if f.template != nil {
		return f.template.Execute(w, newTemplateData(index, r))
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}

	if r.InWatchlist {
		sb.WriteString("* ")
	}

	sb.WriteString(truncate(r.DisplayTitle, f.opts.TitleMax))
	if y := r.Year(); y != "" {
		sb.WriteString(" (" + y + ")")
	}

	if f.opts.ShowAdded && r.AddedAt != 0 {
		sb.WriteString(fmt.Sprintf(" (added %s)", relativeTime(r.AddedAt)))
	}

	sb.WriteString("\n")

	var details []string
	details = append(details, "id "+strconv.FormatInt(r.ID, 10))
	if f.opts.ShowKind {
		details = append(details, r.MediaKind.Label())
	}
	if f.opts.ShowRating {
		details = append(details, formatRating(r.Rating))
	}
	sb.WriteString("    " + strings.Join(details, ", ") + "\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FormatField outputs a specific field from a row.
func FormatField(r Row, field string) string {
	switch strings.ToLower(field) {
	case "id":
		return strconv.FormatInt(r.ID, 10)
	case "title", "display_title", "name":
		return r.DisplayTitle
	case "kind", "media_kind", "type":
		return string(r.MediaKind)
	case "rating":
		return strconv.FormatFloat(r.Rating, 'f', 1, 64)
	case "date", "primary_date":
		return r.PrimaryDate
	case "year":
		return r.Year()
	case "poster", "poster_path":
		return r.PosterPath
	case "added", "added_at":
		return relativeTime(r.AddedAt)
	case "all", "full":
		return fmt.Sprintf("%d\t%s\t%s", r.ID, r.DisplayTitle, r.MediaKind)
	default:
		return r.DisplayTitle
	}
}
