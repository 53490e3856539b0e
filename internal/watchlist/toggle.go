package watchlist

import (
	"context"
	"sync/atomic"

	"github.com/archanaprabhat/CineMania/internal/model"
)

// ToggleResult reports what a toggle did.
type ToggleResult int

const (
	// ToggleIgnored means another toggle for the same control was still running.
	ToggleIgnored ToggleResult = iota
	// ToggleAdded means the entry was added.
	ToggleAdded
	// ToggleRemoved means the entry was removed.
	ToggleRemoved
)

func (r ToggleResult) String() string {
	switch r {
	case ToggleAdded:
		return "added"
	case ToggleRemoved:
		return "removed"
	default:
		return "ignored"
	}
}

// Message returns the user-facing confirmation for the result.
func (r ToggleResult) Message() string {
	switch r {
	case ToggleAdded:
		return "Added to Watchlist"
	case ToggleRemoved:
		return "Removed from Watchlist"
	default:
		return ""
	}
}

// FailureMessage is shown when a toggle fails.
const FailureMessage = "Failed to update watchlist"

// Editor is the part of a Container that a Toggle drives.
type Editor interface {
	Contains(id int64) bool
	Add(ctx context.Context, e model.Entry) error
	Remove(ctx context.Context, id int64) error
}

var _ Editor = (*Container)(nil)

// Toggle adds or removes one entry. It belongs to a single UI control and
// drops activations that arrive while a previous one is still running.
type Toggle struct {
	container Editor
	entry     model.Entry
	busy      atomic.Bool
}

// NewToggle creates a Toggle for e.
func NewToggle(c Editor, e model.Entry) *Toggle {
	return &Toggle{container: c, entry: e}
}

// Run removes the entry when it is watchlisted and adds it otherwise.
// It returns ToggleIgnored without touching the store while busy.
func (t *Toggle) Run(ctx context.Context) (ToggleResult, error) {
	if !t.busy.CompareAndSwap(false, true) {
		return ToggleIgnored, nil
	}
	defer t.busy.Store(false)

	id := t.entry.ID()
	if t.container.Contains(id) {
		if err := t.container.Remove(ctx, id); err != nil {
			return ToggleIgnored, err
		}
		return ToggleRemoved, nil
	}

	if err := t.container.Add(ctx, t.entry); err != nil {
		return ToggleIgnored, err
	}
	return ToggleAdded, nil
}

// Busy reports whether a Run is in flight.
func (t *Toggle) Busy() bool {
	return t.busy.Load()
}

// Entry returns the entry the toggle controls.
func (t *Toggle) Entry() model.Entry {
	return t.entry
}
