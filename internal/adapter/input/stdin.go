package input

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/archanaprabhat/CineMania/internal/model"
)

const maxInputSize = 10 * 1024 * 1024 // 10MB max

// StdinAdapter reads entries from standard input.
type StdinAdapter struct {
	reader io.Reader
}

// NewStdinAdapter creates a new StdinAdapter reading from os.Stdin.
func NewStdinAdapter() *StdinAdapter {
	return &StdinAdapter{reader: os.Stdin}
}

// NewStdinAdapterWithReader creates a new StdinAdapter with a custom reader.
func NewStdinAdapterWithReader(r io.Reader) *StdinAdapter {
	return &StdinAdapter{reader: r}
}

// Name returns the adapter identifier.
func (a *StdinAdapter) Name() string {
	return "stdin"
}

// Import reads entries from standard input.
// Supports a JSON array of entries, a single entry object, or one entry
// object per line. Each object is classified as a movie or show by
// model.DecodeEntry.
func (a *StdinAdapter) Import(ctx context.Context) ([]model.Entry, error) {
	data, err := readAll(ctx, a.reader)
	if err != nil {
		return nil, &AdapterError{
			Source:  a.Name(),
			Message: "failed to read stdin",
			Err:     err,
		}
	}
	return parseEntries(a.Name(), data)
}

// FileAdapter reads entries from a file.
type FileAdapter struct {
	fs   afero.Fs
	path string
}

// NewFileAdapter creates a FileAdapter reading path from fs.
func NewFileAdapter(fs afero.Fs, path string) *FileAdapter {
	return &FileAdapter{fs: fs, path: path}
}

// Name returns the adapter identifier.
func (a *FileAdapter) Name() string {
	return "file"
}

// Import reads entries from the file, in any format StdinAdapter accepts.
func (a *FileAdapter) Import(ctx context.Context) ([]model.Entry, error) {
	f, err := a.fs.Open(a.path)
	if err != nil {
		return nil, &AdapterError{
			Source:  a.Name(),
			Message: "failed to open " + a.path,
			Err:     err,
		}
	}
	defer func() { _ = f.Close() }()

	data, err := readAll(ctx, f)
	if err != nil {
		return nil, &AdapterError{
			Source:  a.Name(),
			Message: "failed to read " + a.path,
			Err:     err,
		}
	}
	return parseEntries(a.Name(), data)
}

func readAll(ctx context.Context, r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxInputSize)

	var data []byte
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data = append(data, scanner.Bytes()...)
		data = append(data, '\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// parseEntries decodes a JSON array or a stream of JSON objects.
func parseEntries(source string, data []byte) ([]model.Entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var raws []json.RawMessage
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, &AdapterError{
				Source:  source,
				Message: "failed to parse JSON input",
				Err:     err,
			}
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		for {
			var raw json.RawMessage
			err := dec.Decode(&raw)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, &AdapterError{
					Source:  source,
					Message: "failed to parse JSON input",
					Err:     err,
				}
			}
			raws = append(raws, raw)
		}
	}

	entries := make([]model.Entry, 0, len(raws))
	for i, raw := range raws {
		e, err := model.DecodeEntry(raw)
		if err == nil {
			err = e.Validate()
		}
		if err != nil {
			slog.Debug("skipping input entry", "source", source, "index", i, "error", err)
			continue
		}
		sanitizeEntry(&e)
		entries = append(entries, e)
	}

	return entries, nil
}

func sanitizeEntry(e *model.Entry) {
	switch {
	case e.Movie != nil:
		e.Movie.Title = sanitizeString(e.Movie.Title)
	case e.Show != nil:
		e.Show.Name = sanitizeString(e.Show.Name)
	}
}

// sanitizeString removes control characters and normalizes whitespace.
func sanitizeString(s string) string {
	var result strings.Builder
	for _, r := range s {
		if r < 32 || r == 127 {
			result.WriteRune(' ')
		} else {
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}
