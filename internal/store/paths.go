package store

import (
	"os"
	"path/filepath"
)

// DataDir returns the path to the cinemania data directory.
// Uses XDG_DATA_HOME or defaults to ~/.local/share/cinemania.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "cinemania"), nil
}

// DefaultPath returns the default store file for the given backend.
func DefaultPath(b Backend) (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	if b == BackendSQLite {
		return filepath.Join(dataDir, "watchlist.db"), nil
	}
	return filepath.Join(dataDir, "watchlist.jsonl"), nil
}
