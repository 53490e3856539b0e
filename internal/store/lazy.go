package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/archanaprabhat/CineMania/internal/model"
)

// Backend selects the storage engine.
type Backend string

const (
	BackendJSONL  Backend = "jsonl"
	BackendSQLite Backend = "sqlite"
)

// ParseBackend parses a backend name.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jsonl", "json":
		return BackendJSONL, nil
	case "sqlite", "sqlite3", "db":
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("unknown store backend %q (expected jsonl or sqlite)", s)
	}
}

// Config describes where and how the store is opened.
type Config struct {
	Backend Backend
	Path    string
	Fs      afero.Fs // JSONL backend only; defaults to the OS filesystem
	Logger  *slog.Logger
}

// Lazy is a Store that opens its backend on first use.
// A failed open is reported as ErrStorageUnavailable and retried by the next operation.
type Lazy struct {
	mu      sync.Mutex
	cfg     Config
	backend Store
	closed  bool
}

var _ Store = (*Lazy)(nil)

// Open returns a Lazy store for cfg. Nothing is created on disk until the first operation.
func Open(cfg Config) *Lazy {
	if cfg.Backend == "" {
		cfg.Backend = BackendJSONL
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Lazy{cfg: cfg}
}

func (l *Lazy) get(ctx context.Context) (Store, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrStoreClosed
	}
	if l.backend != nil {
		return l.backend, nil
	}

	var (
		s   Store
		err error
	)
	switch l.cfg.Backend {
	case BackendSQLite:
		s, err = NewSQLiteStore(ctx, l.cfg.Path, l.cfg.Logger)
	default:
		s, err = NewJSONLStore(l.cfg.Fs, l.cfg.Path, l.cfg.Logger)
	}
	if err != nil {
		l.cfg.Logger.Warn("failed to open watchlist store", "backend", l.cfg.Backend, "path", l.cfg.Path, "error", err)
		return nil, err
	}

	l.cfg.Logger.Debug("opened watchlist store", "backend", l.cfg.Backend, "path", l.cfg.Path)
	l.backend = s
	return s, nil
}

// Opened reports whether the backend has been opened.
func (l *Lazy) Opened() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.backend != nil
}

// Path returns the configured store path.
func (l *Lazy) Path() string {
	return l.cfg.Path
}

// Backend returns the configured backend.
func (l *Lazy) Backend() Backend {
	return l.cfg.Backend
}

func (l *Lazy) Put(ctx context.Context, r model.WatchlistRecord) error {
	s, err := l.get(ctx)
	if err != nil {
		return err
	}
	return s.Put(ctx, r)
}

func (l *Lazy) Delete(ctx context.Context, id int64) error {
	s, err := l.get(ctx)
	if err != nil {
		return err
	}
	return s.Delete(ctx, id)
}

func (l *Lazy) GetAll(ctx context.Context) ([]model.WatchlistRecord, error) {
	s, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.GetAll(ctx)
}

func (l *Lazy) Get(ctx context.Context, id int64) (model.WatchlistRecord, bool, error) {
	s, err := l.get(ctx)
	if err != nil {
		return model.WatchlistRecord{}, false, err
	}
	return s.Get(ctx, id)
}

// Close closes the backend if it was opened. Later operations return ErrStoreClosed.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if l.backend != nil {
		return l.backend.Close()
	}
	return nil
}
