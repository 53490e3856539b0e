// Package watchlist manages watchlist membership on top of the local store:
// projection of catalog entries into records, a reactive in-memory cache and
// the busy-guarded toggle used by interactive controls.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/archanaprabhat/CineMania/internal/model"
	"github.com/archanaprabhat/CineMania/internal/store"
)

// ErrInvalidEntry is returned when a catalog entry cannot be projected into a record.
var ErrInvalidEntry = errors.New("invalid watchlist entry")

// Repository converts catalog entries into watchlist records and proxies the store.
type Repository struct {
	store  store.Store
	now    func() time.Time
	logger *slog.Logger
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithClock sets the clock used to stamp AddedAt.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) {
		r.now = now
	}
}

// WithLogger sets the repository logger.
func WithLogger(l *slog.Logger) RepositoryOption {
	return func(r *Repository) {
		r.logger = l
	}
}

// NewRepository creates a Repository over s.
func NewRepository(s store.Store, opts ...RepositoryOption) *Repository {
	r := &Repository{
		store:  s,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Project builds the watchlist record for e.
// Movies use title and release date; shows use name and first air date.
func Project(e model.Entry, now time.Time) (model.WatchlistRecord, error) {
	if err := e.Validate(); err != nil {
		return model.WatchlistRecord{}, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}

	return model.WatchlistRecord{
		ID:           e.ID(),
		DisplayTitle: e.Title(),
		PosterPath:   e.PosterPath(),
		MediaKind:    e.Kind,
		Rating:       e.Rating(),
		PrimaryDate:  e.Date(),
		AddedAt:      now.Unix(),
	}, nil
}

// AddItem projects e and writes it, replacing any record with the same id.
func (r *Repository) AddItem(ctx context.Context, e model.Entry) error {
	rec, err := Project(e, r.now())
	if err != nil {
		return err
	}

	if err := r.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("add %s %d: %w", rec.MediaKind, rec.ID, err)
	}

	r.logger.Debug("added to watchlist", "id", rec.ID, "kind", rec.MediaKind, "title", rec.DisplayTitle)
	return nil
}

// RemoveItem deletes the record with id. Removing an absent id succeeds.
func (r *Repository) RemoveItem(ctx context.Context, id int64) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove %d: %w", id, err)
	}

	r.logger.Debug("removed from watchlist", "id", id)
	return nil
}

// ListItems returns every stored record. The result is never nil.
func (r *Repository) ListItems(ctx context.Context) ([]model.WatchlistRecord, error) {
	items, err := r.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	if items == nil {
		items = make([]model.WatchlistRecord, 0)
	}
	return items, nil
}

// Has reports whether id is stored.
func (r *Repository) Has(ctx context.Context, id int64) (bool, error) {
	_, ok, err := r.store.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("lookup %d: %w", id, err)
	}
	return ok, nil
}
