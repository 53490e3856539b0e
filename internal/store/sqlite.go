package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/archanaprabhat/CineMania/internal/model"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package state.
var migrateMu sync.Mutex

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

// NewSQLiteStore opens the database at path, creating the parent directory
// and applying migrations.
func NewSQLiteStore(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, classify("create database directory", err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, classify("open database", err)
	}
	db.SetMaxOpenConns(4)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, classify("ping database", err)
	}

	if err := runMigrations(ctx, db, logger); err != nil {
		db.Close()
		return nil, classify("migrate database", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func runMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return err
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Debug("watchlist database ready", "version", version)
	return nil
}

const upsertRecord = `
INSERT INTO watchlist (id, display_title, poster_path, media_kind, rating, primary_date, added_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    display_title = excluded.display_title,
    poster_path   = excluded.poster_path,
    media_kind    = excluded.media_kind,
    rating        = excluded.rating,
    primary_date  = excluded.primary_date,
    added_at      = excluded.added_at`

const selectRecords = `
SELECT id, display_title, poster_path, media_kind, rating, primary_date, added_at
FROM watchlist`

// Put upserts the record.
func (s *SQLiteStore) Put(ctx context.Context, r model.WatchlistRecord) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.ExecContext(ctx, upsertRecord,
		r.ID, r.DisplayTitle, r.PosterPath, string(r.MediaKind), r.Rating, r.PrimaryDate, r.AddedAt)
	return classifySQL("put", err)
}

// Delete removes the record with the given id.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM watchlist WHERE id = ?`, id)
	return classifySQL("delete", err)
}

// GetAll returns every record ordered by id.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]model.WatchlistRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, selectRecords+` ORDER BY id`)
	if err != nil {
		return nil, classifySQL("get all", err)
	}
	defer rows.Close()

	records := make([]model.WatchlistRecord, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, classifySQL("scan record", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classifySQL("get all", err)
	}
	return records, nil
}

// Get returns the record with the given id.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (model.WatchlistRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return model.WatchlistRecord{}, false, ErrStoreClosed
	}

	r, err := scanRecord(s.db.QueryRowContext(ctx, selectRecords+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.WatchlistRecord{}, false, nil
	}
	if err != nil {
		return model.WatchlistRecord{}, false, classifySQL("get", err)
	}
	return r, true, nil
}

// Path returns the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.WatchlistRecord, error) {
	var (
		r    model.WatchlistRecord
		kind string
	)
	if err := row.Scan(&r.ID, &r.DisplayTitle, &r.PosterPath, &kind, &r.Rating, &r.PrimaryDate, &r.AddedAt); err != nil {
		return model.WatchlistRecord{}, err
	}
	r.MediaKind = model.MediaKind(kind)
	return r, nil
}

func classifySQL(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%s: %w", op, ErrStoreClosed)
	}
	return classify(op, err)
}

func isSQLiteFull(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrFull
}
