package input

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archanaprabhat/CineMania/internal/model"
)

func TestStdinAdapter_Name(t *testing.T) {
	assert.Equal(t, "stdin", NewStdinAdapter().Name())
}

func TestStdinAdapter_JSONArray(t *testing.T) {
	input := `[
		{"id": 42, "title": "Dune", "release_date": "2021-10-22", "vote_average": 8.1},
		{"id": 7, "name": "Severance", "first_air_date": "2022-02-18"}
	]`

	entries, err := NewStdinAdapterWithReader(strings.NewReader(input)).Import(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, model.KindMovie, entries[0].Kind)
	assert.Equal(t, "Dune", entries[0].Title())
	assert.Equal(t, model.KindShow, entries[1].Kind)
	assert.Equal(t, "Severance", entries[1].Title())
}

func TestStdinAdapter_LineDelimited(t *testing.T) {
	input := `{"id": 42, "title": "Dune"}
{"id": 7, "name": "Severance", "media_type": "tv"}
`
	entries, err := NewStdinAdapterWithReader(strings.NewReader(input)).Import(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.KindShow, entries[1].Kind)
}

func TestStdinAdapter_SingleObject(t *testing.T) {
	input := `{"id": 42, "title": "Dune"}`

	entries, err := NewStdinAdapterWithReader(strings.NewReader(input)).Import(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(42), entries[0].ID())
}

func TestStdinAdapter_SkipsInvalid(t *testing.T) {
	input := `[
		{"id": 0, "title": "No Id"},
		{"id": 5, "title": "Podcast", "media_type": "podcast"},
		{"id": 42, "title": "Dune"}
	]`

	entries, err := NewStdinAdapterWithReader(strings.NewReader(input)).Import(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(42), entries[0].ID())
}

func TestStdinAdapter_Sanitizes(t *testing.T) {
	input := `[{"id": 42, "title": "Dune\u0007  Part\tTwo"}]`

	entries, err := NewStdinAdapterWithReader(strings.NewReader(input)).Import(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Dune Part Two", entries[0].Title())
}

func TestStdinAdapter_Empty(t *testing.T) {
	entries, err := NewStdinAdapterWithReader(strings.NewReader("  \n")).Import(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStdinAdapter_InvalidJSON(t *testing.T) {
	_, err := NewStdinAdapterWithReader(strings.NewReader(`[{"id": 42,`)).Import(context.Background())
	require.Error(t, err)

	var adapterErr *AdapterError
	require.True(t, errors.As(err, &adapterErr))
	assert.Equal(t, "stdin", adapterErr.Source)
	assert.NotNil(t, adapterErr.Unwrap())
}

func TestFileAdapter_Import(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/entries.json", []byte(`[{"id": 42, "title": "Dune"}]`), 0o644))

	a := NewFileAdapter(fs, "/in/entries.json")
	assert.Equal(t, "file", a.Name())

	entries, err := a.Import(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Dune", entries[0].Title())
}

func TestFileAdapter_Missing(t *testing.T) {
	_, err := NewFileAdapter(afero.NewMemMapFs(), "/nope.json").Import(context.Background())

	var adapterErr *AdapterError
	require.True(t, errors.As(err, &adapterErr))
	assert.Equal(t, "file", adapterErr.Source)
}

func TestNewAdapter(t *testing.T) {
	for _, source := range []string{"", "-", "stdin"} {
		a, err := NewAdapter(source)
		require.NoError(t, err)
		assert.IsType(t, &StdinAdapter{}, a)
	}

	a, err := NewAdapter("/tmp/entries.json")
	require.NoError(t, err)
	assert.IsType(t, &FileAdapter{}, a)
}

func TestAdapterError(t *testing.T) {
	inner := errors.New("boom")
	err := &AdapterError{Source: "stdin", Message: "failed", Err: inner}
	assert.Equal(t, "failed: boom", err.Error())
	assert.ErrorIs(t, err, inner)

	assert.Equal(t, "failed", (&AdapterError{Message: "failed"}).Error())
}
