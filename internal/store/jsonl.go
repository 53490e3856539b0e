package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"

	"github.com/archanaprabhat/CineMania/internal/model"
)

// SchemaVersion is the current JSONL store version.
const SchemaVersion = 1

// storeName identifies the single table held by the JSONL file.
const storeName = "watchlist"

// schemaHeader is the first line of the JSONL file.
type schemaHeader struct {
	Store   string `json:"cinemania_store"`
	Version int    `json:"version"`
}

// JSONLStore implements Store as an append-only JSONL log.
// Puts append a line; the newest line for an id wins on load.
// Deletes rewrite the file without the removed id.
type JSONLStore struct {
	mu     sync.Mutex
	fs     afero.Fs
	path   string
	file   afero.File
	logger *slog.Logger
	closed bool
}

// NewJSONLStore opens (creating if needed) the JSONL store at path on fs.
// The log is compacted when it holds more than twice as many lines as live records.
func NewJSONLStore(fs afero.Fs, path string, logger *slog.Logger) (*JSONLStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, classify("create store directory", err)
	}

	s := &JSONLStore{fs: fs, path: path, logger: logger}
	if err := s.openAppend(); err != nil {
		return nil, err
	}

	live, lines, err := s.load()
	if err != nil {
		s.file.Close()
		return nil, err
	}
	if lines > 2*len(live) && lines > 0 {
		s.logger.Debug("compacting watchlist log", "path", path, "lines", lines, "live", len(live))
		if err := s.rewrite(live); err != nil {
			s.file.Close()
			return nil, err
		}
	}

	return s, nil
}

// openAppend opens the file for appending and writes the header into an empty file.
func (s *JSONLStore) openAppend() error {
	file, err := s.fs.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return classify("open store", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return classify("stat store", err)
	}

	s.file = file
	if info.Size() == 0 {
		if err := s.appendLine(schemaHeader{Store: storeName, Version: SchemaVersion}); err != nil {
			file.Close()
			s.file = nil
			return classify("write header", err)
		}
	}
	return nil
}

// appendLine writes one JSON line at the end of the open file and syncs it.
// On failure the file is truncated back to its previous size so a partial
// line never prefixes the next append.
func (s *JSONLStore) appendLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	end, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	_, err = s.file.Write(append(data, '\n'))
	if err == nil {
		err = s.file.Sync()
	}
	if err != nil {
		if terr := s.file.Truncate(end); terr != nil {
			s.logger.Warn("failed to roll back partial watchlist write",
				"path", s.path, "offset", end, "error", terr)
		}
		return err
	}
	return nil
}

// load reads the whole log and returns the live records by id along with the
// number of record lines seen.
func (s *JSONLStore) load() (map[int64]model.WatchlistRecord, int, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, 0, classify("open store for reading", err)
	}
	defer f.Close()

	records := make(map[int64]model.WatchlistRecord)
	scanner := bufio.NewScanner(f)

	const maxLineSize = 1024 * 1024 // 1MB
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lines := 0
	first := true
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if first {
			first = false
			var header schemaHeader
			if err := json.Unmarshal(line, &header); err == nil && header.Store != "" {
				if header.Version > SchemaVersion {
					return nil, 0, fmt.Errorf("%w: store version %d is newer than supported %d",
						ErrStorageUnavailable, header.Version, SchemaVersion)
				}
				continue
			}
		}

		var r model.WatchlistRecord
		if err := json.Unmarshal(line, &r); err != nil || r.ID <= 0 {
			s.logger.Debug("skipping malformed watchlist line", "path", s.path, "error", err)
			continue
		}
		lines++
		records[r.ID] = r
	}

	if err := scanner.Err(); err != nil {
		return nil, 0, classify("read store", err)
	}

	return records, lines, nil
}

// rewrite replaces the file with a header and one line per record.
// The new content is written to a temp file and renamed into place.
func (s *JSONLStore) rewrite(records map[int64]model.WatchlistRecord) error {
	tmpPath := s.path + ".tmp"
	tmp, err := s.fs.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return classify("create temp file", err)
	}

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	if err := enc.Encode(schemaHeader{Store: storeName, Version: SchemaVersion}); err != nil {
		tmp.Close()
		s.fs.Remove(tmpPath)
		return classify("write header", err)
	}
	for _, r := range sortedRecords(records) {
		if err := enc.Encode(r); err != nil {
			tmp.Close()
			s.fs.Remove(tmpPath)
			return classify("write record", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		s.fs.Remove(tmpPath)
		return classify("flush temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		s.fs.Remove(tmpPath)
		return classify("sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpPath)
		return classify("close temp file", err)
	}

	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		s.fs.Remove(tmpPath)
		if reopenErr := s.openAppend(); reopenErr != nil {
			s.logger.Warn("failed to reopen watchlist store", "path", s.path, "error", reopenErr)
		}
		return classify("replace store file", err)
	}

	return s.openAppend()
}

// Put appends the record to the log.
func (s *JSONLStore) Put(ctx context.Context, r model.WatchlistRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.file == nil {
		return ErrStoreClosed
	}

	return classify("put", s.appendLine(r))
}

// Delete rewrites the log without the given id. It is a no-op when the id is absent.
func (s *JSONLStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.file == nil {
		return ErrStoreClosed
	}

	records, _, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := records[id]; !ok {
		return nil
	}
	delete(records, id)

	return s.rewrite(records)
}

// GetAll reads every live record from the log.
func (s *JSONLStore) GetAll(ctx context.Context) ([]model.WatchlistRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	records, _, err := s.load()
	if err != nil {
		return nil, err
	}
	return sortedRecords(records), nil
}

// Get reads the record with the given id.
func (s *JSONLStore) Get(ctx context.Context, id int64) (model.WatchlistRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.WatchlistRecord{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return model.WatchlistRecord{}, false, ErrStoreClosed
	}

	records, _, err := s.load()
	if err != nil {
		return model.WatchlistRecord{}, false, err
	}
	r, ok := records[id]
	return r, ok, nil
}

// Compact rewrites the log keeping one line per live record.
func (s *JSONLStore) Compact(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	records, _, err := s.load()
	if err != nil {
		return err
	}
	return s.rewrite(records)
}

// Path returns the file backing the store.
func (s *JSONLStore) Path() string {
	return s.path
}

// Close releases the file handle.
func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}

func sortedRecords(records map[int64]model.WatchlistRecord) []model.WatchlistRecord {
	out := make([]model.WatchlistRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
