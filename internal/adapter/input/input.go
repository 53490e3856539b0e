// Package input provides input adapters that read catalog entries to be added
// to the watchlist.
package input

import (
	"context"

	"github.com/spf13/afero"

	"github.com/archanaprabhat/CineMania/internal/model"
)

// InputAdapter reads catalog entries from a source.
type InputAdapter interface {
	// Name returns the adapter identifier (e.g., "stdin", "file").
	Name() string

	// Import reads entries from the source.
	// Entries that cannot be decoded or validated are skipped.
	Import(ctx context.Context) ([]model.Entry, error)
}

// NewAdapter creates an InputAdapter for the specified source.
// An empty source or "-" reads standard input; anything else is a file path.
func NewAdapter(source string) (InputAdapter, error) {
	switch source {
	case "", "-", "stdin":
		return NewStdinAdapter(), nil
	default:
		return NewFileAdapter(afero.NewOsFs(), source), nil
	}
}

// AdapterError represents an adapter-related error.
type AdapterError struct {
	Source  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
