package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events a single rewrite produces.
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher calls onChange after the store file is written, created,
// replaced or removed by any process, this one included.
type FileWatcher struct {
	path     string
	onChange func()
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	stop    chan struct{}
	stopped sync.WaitGroup
}

// WatcherOption configures a FileWatcher.
type WatcherOption func(*FileWatcher)

// WithDebounce sets the quiet period before onChange runs.
func WithDebounce(d time.Duration) WatcherOption {
	return func(fw *FileWatcher) {
		if d > 0 {
			fw.debounce = d
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(fw *FileWatcher) {
		if l != nil {
			fw.logger = l
		}
	}
}

// NewFileWatcher creates a watcher for path. Nothing is watched until Start.
func NewFileWatcher(path string, onChange func(), opts ...WatcherOption) (*FileWatcher, error) {
	fw := &FileWatcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(fw)
	}
	return fw, nil
}

// Start watches the parent directory of the store file, creating it when the
// store has not been opened yet. Starting a running watcher is a no-op.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.fsw != nil {
		return nil
	}

	dir := filepath.Dir(fw.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return classify("watch", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Rewrites replace the file by rename, so the directory is watched.
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return err
	}

	fw.fsw = w
	fw.stop = make(chan struct{})
	fw.stopped.Add(1)
	go fw.loop(w, fw.stop)
	return nil
}

func (fw *FileWatcher) loop(w *fsnotify.Watcher, stop <-chan struct{}) {
	defer fw.stopped.Done()

	name := filepath.Base(fw.path)
	timer := time.NewTimer(fw.debounce)
	timer.Stop()
	defer timer.Stop()

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) == name && ev.Op&relevant != 0 {
				timer.Reset(fw.debounce)
			}

		case <-timer.C:
			fw.logger.Debug("watchlist file changed", "path", fw.path)
			fw.onChange()

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", "path", fw.path, "error", err)

		case <-stop:
			return
		}
	}
}

// Stop ends watching and waits for a running onChange to return.
// It is safe to call more than once.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	w := fw.fsw
	if w == nil {
		fw.mu.Unlock()
		return nil
	}
	fw.fsw = nil
	close(fw.stop)
	fw.mu.Unlock()

	err := w.Close()
	fw.stopped.Wait()
	return err
}
