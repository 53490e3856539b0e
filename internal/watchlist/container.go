package watchlist

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/archanaprabhat/CineMania/internal/model"
)

// ChangeType indicates the kind of watchlist change.
type ChangeType int

const (
	// ChangeTypeAdd indicates an entry was added or overwritten.
	ChangeTypeAdd ChangeType = iota
	// ChangeTypeRemove indicates an entry was removed.
	ChangeTypeRemove
	// ChangeTypeRefresh indicates the cache was reloaded from the store.
	ChangeTypeRefresh
)

func (t ChangeType) String() string {
	switch t {
	case ChangeTypeAdd:
		return "add"
	case ChangeTypeRemove:
		return "remove"
	default:
		return "refresh"
	}
}

// ChangeEvent signals that the cached watchlist changed.
type ChangeEvent struct {
	Type  ChangeType
	ID    int64     // affected id, 0 for refresh
	Count int       // watchlist size after the change
	Op    ulid.ULID // identifies the mutation in logs
}

// ErrContainerClosed is returned by mutations after Close.
var ErrContainerClosed = errors.New("watchlist container is closed")

// Container holds the in-memory watchlist and keeps it in step with the store.
// Each successful mutation reloads the full list and swaps the cache; a failed
// mutation or reload leaves the cache untouched.
type Container struct {
	repo   *Repository
	logger *slog.Logger

	mu    sync.RWMutex
	items []model.WatchlistRecord
	ids   map[int64]struct{}

	// reloadMu orders reloads so a slower, older read never replaces a newer one.
	reloadMu sync.Mutex

	subMu       sync.Mutex
	subscribers []chan ChangeEvent
	closed      bool

	started atomic.Bool
}

// NewContainer creates a Container over repo. The cache is empty until Start.
func NewContainer(repo *Repository, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	return &Container{
		repo:        repo,
		logger:      logger,
		items:       make([]model.WatchlistRecord, 0),
		ids:         make(map[int64]struct{}),
		subscribers: make([]chan ChangeEvent, 0),
	}
}

// Start performs the initial load. Once it has succeeded, later calls are no-ops.
func (c *Container) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return nil
	}
	op := newOp()
	count, err := c.reload(ctx)
	if err != nil {
		c.started.Store(false)
		c.logger.Warn("initial watchlist load failed", "op", op, "error", err)
		return err
	}
	c.notifyChange(ChangeEvent{Type: ChangeTypeRefresh, Count: count, Op: op})
	return nil
}

// Refresh reloads the cache from the store and publishes an event when the
// contents changed.
func (c *Container) Refresh(ctx context.Context) error {
	if c.isClosed() {
		return ErrContainerClosed
	}

	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	items, err := c.repo.ListItems(ctx)
	if err != nil {
		return err
	}
	sortItems(items)

	c.mu.Lock()
	changed := !slices.Equal(c.items, items)
	if changed {
		c.swapLocked(items)
	}
	c.mu.Unlock()

	if changed {
		op := newOp()
		c.logger.Debug("watchlist refreshed", "op", op, "count", len(items))
		c.notifyChange(ChangeEvent{Type: ChangeTypeRefresh, Count: len(items), Op: op})
	}
	return nil
}

// Add writes e to the store and reloads the cache.
func (c *Container) Add(ctx context.Context, e model.Entry) error {
	if c.isClosed() {
		return ErrContainerClosed
	}

	op := newOp()
	if err := c.repo.AddItem(ctx, e); err != nil {
		c.logger.Warn("add to watchlist failed", "op", op, "id", e.ID(), "error", err)
		return err
	}

	count, err := c.reload(ctx)
	if err != nil {
		c.logger.Warn("reload after add failed", "op", op, "id", e.ID(), "error", err)
		return err
	}

	c.logger.Debug("watchlist add", "op", op, "id", e.ID(), "count", count)
	c.notifyChange(ChangeEvent{Type: ChangeTypeAdd, ID: e.ID(), Count: count, Op: op})
	return nil
}

// Remove deletes id from the store and reloads the cache.
func (c *Container) Remove(ctx context.Context, id int64) error {
	if c.isClosed() {
		return ErrContainerClosed
	}

	op := newOp()
	if err := c.repo.RemoveItem(ctx, id); err != nil {
		c.logger.Warn("remove from watchlist failed", "op", op, "id", id, "error", err)
		return err
	}

	count, err := c.reload(ctx)
	if err != nil {
		c.logger.Warn("reload after remove failed", "op", op, "id", id, "error", err)
		return err
	}

	c.logger.Debug("watchlist remove", "op", op, "id", id, "count", count)
	c.notifyChange(ChangeEvent{Type: ChangeTypeRemove, ID: id, Count: count, Op: op})
	return nil
}

// Contains reports whether id is in the cached watchlist.
func (c *Container) Contains(id int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.ids[id]
	return ok
}

// Items returns a copy of the cached watchlist, newest first.
func (c *Container) Items() []model.WatchlistRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Count returns the number of cached entries.
func (c *Container) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Subscribe returns a channel that receives change events.
// Events are dropped for subscribers that fall behind.
func (c *Container) Subscribe() <-chan ChangeEvent {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	ch := make(chan ChangeEvent, 10)
	if c.closed {
		close(ch)
		return ch
	}
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Unsubscribe removes and closes a subscription.
func (c *Container) Unsubscribe(ch <-chan ChangeEvent) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for i, sub := range c.subscribers {
		if sub == ch {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close closes all subscriptions. The repository and store are left open.
func (c *Container) Close() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	for _, ch := range c.subscribers {
		close(ch)
	}
	c.subscribers = nil
}

// reload reads the full list from the store and swaps it in.
func (c *Container) reload(ctx context.Context) (int, error) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	items, err := c.repo.ListItems(ctx)
	if err != nil {
		return 0, err
	}
	sortItems(items)

	c.mu.Lock()
	c.swapLocked(items)
	c.mu.Unlock()

	return len(items), nil
}

func (c *Container) swapLocked(items []model.WatchlistRecord) {
	ids := make(map[int64]struct{}, len(items))
	for _, r := range items {
		ids[r.ID] = struct{}{}
	}
	c.items = items
	c.ids = ids
}

func (c *Container) isClosed() bool {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return c.closed
}

// notifyChange sends a change event to all subscribers (non-blocking).
func (c *Container) notifyChange(event ChangeEvent) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for _, ch := range c.subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}

// sortItems orders records newest first, then by id.
func sortItems(items []model.WatchlistRecord) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].AddedAt != items[j].AddedAt {
			return items[i].AddedAt > items[j].AddedAt
		}
		return items[i].ID < items[j].ID
	})
}

func newOp() ulid.ULID {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
}
