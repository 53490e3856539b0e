package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/archanaprabhat/CineMania/internal/model"
)

func testRecords() []model.WatchlistRecord {
	now := time.Now()
	return []model.WatchlistRecord{
		{
			ID:           42,
			DisplayTitle: "Dune",
			PosterPath:   "/dune.jpg",
			MediaKind:    model.KindMovie,
			Rating:       8.1,
			PrimaryDate:  "2021-10-22",
			AddedAt:      now.Add(-5 * time.Minute).Unix(),
		},
		{
			ID:           7,
			DisplayTitle: "Severance",
			MediaKind:    model.KindShow,
			Rating:       8.4,
			PrimaryDate:  "2022-02-18",
			AddedAt:      now.Add(-2 * time.Hour).Unix(),
		},
	}
}

func TestDmenuFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewDmenuFormatter(DefaultFormatterOptions())
	err := formatter.Format(&buf, RecordRows(testRecords()))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, "1 | Movie | Dune (2021) | ★ 8.1 | 5 minutes ago", lines[0])
	assert.Equal(t, "2 | TV Show | Severance (2022) | ★ 8.4 | 2 hours ago", lines[1])
}

func TestDmenuFormatter_NoIndex(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.ShowIndex = false
	err := NewDmenuFormatter(opts).Format(&buf, RecordRows(testRecords()))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "Movie | Dune"))
}

func TestDmenuFormatter_CustomTemplate(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.Template = "{{.Index}}: {{kindIcon .Row.MediaKind}} {{.Row.DisplayTitle}} {{rating .Row.Rating}}"
	err := NewDmenuFormatter(opts).Format(&buf, RecordRows(testRecords()))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "1: M Dune ★ 8.1", lines[0])
	assert.Equal(t, "2: T Severance ★ 8.4", lines[1])
}

func TestDmenuFormatter_BadTemplateFallsBack(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.Template = "{{.Row.DisplayTitle"
	err := NewDmenuFormatter(opts).Format(&buf, RecordRows(testRecords()[:1]))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Movie | Dune (2021)")
}

func TestDmenuFormatter_TruncateTitle(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.ShowIndex = false
	opts.ShowKind = false
	opts.ShowRating = false
	opts.ShowAdded = false
	opts.TitleMax = 10
	rows := []Row{{ID: 1, DisplayTitle: "The Lord of the Rings", MediaKind: model.KindMovie}}
	require.NoError(t, NewDmenuFormatter(opts).Format(&buf, rows))

	assert.Equal(t, "The Lor...\n", buf.String())
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	err := NewJSONFormatter(FormatterOptions{}).Format(&buf, RecordRows(testRecords()))
	require.NoError(t, err)

	var decoded []model.WatchlistRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, int64(42), decoded[0].ID)
	assert.Equal(t, model.KindShow, decoded[1].MediaKind)
}

func TestJSONFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewJSONFormatter(FormatterOptions{}).Format(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	err := NewYAMLFormatter(FormatterOptions{}).Format(&buf, RecordRows(testRecords()))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "display_title: Dune")
	assert.Contains(t, buf.String(), "media_kind: show")

	var decoded []Row
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, int64(7), decoded[1].ID)
	assert.True(t, decoded[1].InWatchlist)
}

func TestPlainFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	err := NewPlainFormatter(DefaultFormatterOptions()).Format(&buf, RecordRows(testRecords()))
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "[1] * Dune (2021) (added 5 minutes ago)")
	assert.Contains(t, output, "    id 42, Movie, ★ 8.1")
	assert.Contains(t, output, "[2] * Severance (2022)")
}

func TestIDsFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewIDsFormatter().Format(&buf, RecordRows(testRecords())))
	assert.Equal(t, "42\n7\n", buf.String())
}

func TestEntryRows(t *testing.T) {
	entries := []model.Entry{
		model.MovieEntry(model.Movie{ID: 42, Title: "Dune", ReleaseDate: "2021-10-22", VoteAverage: 8.1}),
		model.ShowEntry(model.Show{ID: 7, Name: "Severance", FirstAirDate: "2022-02-18"}),
	}

	rows := EntryRows(entries, func(id int64) bool { return id == 7 })
	require.Len(t, rows, 2)
	assert.Equal(t, "Dune", rows[0].DisplayTitle)
	assert.False(t, rows[0].InWatchlist)
	assert.Equal(t, model.KindShow, rows[1].MediaKind)
	assert.Equal(t, "2022", rows[1].Year())
	assert.True(t, rows[1].InWatchlist)

	assert.False(t, EntryRows(entries, nil)[1].InWatchlist)
}

func TestFormatField(t *testing.T) {
	r := RecordRows(testRecords())[0]

	tests := []struct {
		field    string
		expected string
	}{
		{"id", "42"},
		{"title", "Dune"},
		{"name", "Dune"},
		{"kind", "movie"},
		{"rating", "8.1"},
		{"date", "2021-10-22"},
		{"year", "2021"},
		{"poster", "/dune.jpg"},
		{"all", "42\tDune\tmovie"},
		{"unknown", "Dune"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatField(r, tt.field))
		})
	}
}

func TestNewFormatter(t *testing.T) {
	opts := DefaultFormatterOptions()

	tests := []struct {
		format   FormatType
		expected any
	}{
		{FormatDmenu, &DmenuFormatter{}},
		{FormatJSON, &JSONFormatter{}},
		{FormatYAML, &YAMLFormatter{}},
		{FormatPlain, &PlainFormatter{}},
		{FormatIDs, &IDsFormatter{}},
		{"unknown", &DmenuFormatter{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.IsType(t, tt.expected, NewFormatter(tt.format, opts))
		})
	}
}

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "NR", formatRating(0))
	assert.Equal(t, "★ 7.0", formatRating(7))
}

func TestRelativeTime(t *testing.T) {
	assert.Equal(t, "unknown", relativeTime(0))
	assert.Equal(t, "3 days ago", relativeTime(time.Now().Add(-3*24*time.Hour-time.Minute).Unix()))
}
