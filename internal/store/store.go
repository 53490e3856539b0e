//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/archanaprabhat/CineMania/internal/store Store

// Package store provides the persistent local store for watchlist records.
package store

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/archanaprabhat/CineMania/internal/model"
)

// Store is a single-table key-value store of watchlist records keyed by id.
// Implementations are safe for concurrent use.
type Store interface {
	// Put inserts the record or overwrites the one with the same id.
	Put(ctx context.Context, r model.WatchlistRecord) error

	// Delete removes the record with the given id. Deleting an absent id is not an error.
	Delete(ctx context.Context, id int64) error

	// GetAll returns every stored record in no particular order.
	GetAll(ctx context.Context) ([]model.WatchlistRecord, error)

	// Get returns the record with the given id and whether it was found.
	Get(ctx context.Context, id int64) (model.WatchlistRecord, bool, error)

	// Close releases the underlying file or database handle.
	Close() error
}

// Errors
const (
	// ErrStoreClosed is returned for any operation after Close.
	ErrStoreClosed = storeError("store is closed")

	// ErrStorageUnavailable is returned when the backing storage cannot be
	// opened or written, e.g. permission denied or a read-only filesystem.
	ErrStorageUnavailable = storeError("storage unavailable")

	// ErrQuotaExceeded is returned when a write fails because the device or
	// database is full.
	ErrQuotaExceeded = storeError("storage quota exceeded")
)

type storeError string

func (e storeError) Error() string {
	return string(e)
}

// classify wraps a backend error with the store sentinel describing it while
// keeping the original cause reachable through errors.Is.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrStoreClosed),
		errors.Is(err, ErrStorageUnavailable),
		errors.Is(err, ErrQuotaExceeded):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	case isQuotaError(err):
		return fmt.Errorf("%s: %w: %w", op, ErrQuotaExceeded, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
	}
}

func isQuotaError(err error) bool {
	return errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) || isSQLiteFull(err)
}
