package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/archanaprabhat/CineMania/internal/model"
)

// DmenuFormatter formats rows for dmenu/rofi/fuzzel.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes rows in dmenu format (one per line).
func (f *DmenuFormatter) Format(w io.Writer, rows []Row) error {
	for i, r := range rows {
		if _, err := fmt.Fprintln(w, f.formatLine(i+1, r)); err != nil {
			return err
		}
	}
	return nil
}

func (f *DmenuFormatter) formatLine(index int, r Row) string {
	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, newTemplateData(index, r)); err == nil {
			return buf.String()
		}
	}

	// Default format: [index] [kind] title (year) [rating] [added]
	var parts []string
	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}

	if f.opts.ShowKind {
		parts = append(parts, r.MediaKind.Label())
	}

	title := truncate(r.DisplayTitle, f.opts.TitleMax)
	if y := r.Year(); y != "" {
		title += " (" + y + ")"
	}
	parts = append(parts, title)

	if f.opts.ShowRating {
		parts = append(parts, formatRating(r.Rating))
	}

	if f.opts.ShowAdded && r.AddedAt != 0 {
		parts = append(parts, relativeTime(r.AddedAt))
	}

	return strings.Join(parts, sep)
}

// templateData provides data for custom templates.
type templateData struct {
	Index        int
	Row          Row
	Kind         string
	RelativeTime string
}

func newTemplateData(index int, r Row) templateData {
	return templateData{
		Index:        index,
		Row:          r,
		Kind:         r.MediaKind.Label(),
		RelativeTime: relativeTime(r.AddedAt),
	}
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": truncate,
		"reltime":  relativeTime,
		"rating":   formatRating,
		"kindIcon": func(k model.MediaKind) string {
			switch k {
			case model.KindMovie:
				return "M"
			case model.KindShow:
				return "T"
			default:
				return "?"
			}
		},
		"upper": strings.ToUpper,
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 || len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// relativeTime returns a human-readable age, e.g. "3 days ago".
func relativeTime(timestamp int64) string {
	if timestamp == 0 {
		return "unknown"
	}
	return humanize.Time(time.Unix(timestamp, 0))
}

// formatRating renders a vote average with one decimal, or "NR" when unrated.
func formatRating(v float64) string {
	if v <= 0 {
		return "NR"
	}
	return fmt.Sprintf("★ %.1f", v)
}
