// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultBackend     = "jsonl"
	DefaultSortField   = "added"
	DefaultSortOrder   = "desc"
	DefaultFormat      = "dmenu"
	DefaultSearchLimit = 3
	DefaultServerAddr  = "127.0.0.1:8787"
	DefaultLogLevel    = "info"
	DefaultToast       = 3 * time.Second
	DefaultPosterSize  = "w500"
	DefaultDmenuTmpl   = "{{.Kind}} | {{.Row.DisplayTitle}} | {{rating .Row.Rating}} | {{.RelativeTime}}"
	DefaultPlainTmpl   = ""
)

// Config represents the cinemania configuration.
type Config struct {
	Store     StoreConfig     `toml:"store"`
	Catalog   CatalogConfig   `toml:"catalog"`
	List      ListConfig      `toml:"list"`
	Sort      SortConfig      `toml:"sort"`
	Templates TemplatesConfig `toml:"templates"`
	TUI       TUIConfig       `toml:"tui"`
	Clipboard ClipboardConfig `toml:"clipboard"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
}

// StoreConfig selects the watchlist store backend.
type StoreConfig struct {
	Backend string `toml:"backend"` // jsonl, sqlite
	Path    string `toml:"path"`    // Empty = backend default under DataPath
	Watch   bool   `toml:"watch"`   // Refresh when another process writes the file
}

// CatalogConfig locates the pre-fetched dataset.
type CatalogConfig struct {
	DataDir     string `toml:"data_dir"`
	SearchLimit int    `toml:"search_limit"` // Results per kind
}

// ListConfig holds default options for list output.
type ListConfig struct {
	Format string `toml:"format"` // dmenu, plain, json, yaml, ids
	Kind   string `toml:"kind"`   // movie, show, "" = both
	Limit  int    `toml:"limit"`  // 0 = unlimited
}

// SortConfig holds default sorting options.
type SortConfig struct {
	Field string `toml:"field"` // added, title, rating, date, popularity
	Order string `toml:"order"` // asc, desc
}

// TemplatesConfig holds output templates.
type TemplatesConfig struct {
	Dmenu  string            `toml:"dmenu"`
	Plain  string            `toml:"plain"`
	Custom map[string]string `toml:"custom"`
}

// TUIConfig holds TUI-specific settings.
type TUIConfig struct {
	ShowHelp   bool     `toml:"show_help"`
	Toast      Duration `toml:"toast"` // How long status messages stay visible
	PosterSize string   `toml:"poster_size"`
}

// ClipboardConfig holds clipboard settings (TUI only).
type ClipboardConfig struct {
	Command string `toml:"command"` // Auto-detected if empty
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// LogConfig holds logging settings. An empty File logs to stderr.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: DefaultBackend,
			Watch:   true,
		},
		Catalog: CatalogConfig{
			DataDir:     filepath.Join(DataPath(), "data"),
			SearchLimit: DefaultSearchLimit,
		},
		List: ListConfig{
			Format: DefaultFormat,
		},
		Sort: SortConfig{
			Field: DefaultSortField,
			Order: DefaultSortOrder,
		},
		Templates: TemplatesConfig{
			Dmenu:  DefaultDmenuTmpl,
			Plain:  DefaultPlainTmpl,
			Custom: make(map[string]string),
		},
		TUI: TUIConfig{
			ShowHelp:   true,
			Toast:      Duration(DefaultToast),
			PosterSize: DefaultPosterSize,
		},
		Server: ServerConfig{
			Addr:         DefaultServerAddr,
			ReadTimeout:  Duration(10 * time.Second),
			WriteTimeout: Duration(10 * time.Second),
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "cinemania", "config.toml")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "cinemania")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.Catalog.DataDir = expandPath(cfg.Catalog.DataDir)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed and replaces the file atomically.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Store.Backend) {
	case "", "jsonl", "json", "sqlite", "sqlite3", "db":
	default:
		return fmt.Errorf("invalid store backend %q, must be jsonl or sqlite", c.Store.Backend)
	}

	switch c.List.Format {
	case "", "dmenu", "plain", "json", "yaml", "ids":
	default:
		return fmt.Errorf("invalid list format %q", c.List.Format)
	}

	switch c.Sort.Order {
	case "", "asc", "ascending", "desc", "descending":
	default:
		return fmt.Errorf("invalid sort order %q, must be asc or desc", c.Sort.Order)
	}

	if c.Catalog.SearchLimit < 0 {
		return fmt.Errorf("search_limit must not be negative, got %d", c.Catalog.SearchLimit)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// GetTemplate returns the template for the given name.
// First checks custom templates, then built-in ones.
// Returns empty string if not found.
func (c *Config) GetTemplate(name string) string {
	if tmpl, ok := c.Templates.Custom[name]; ok {
		return tmpl
	}

	switch name {
	case "dmenu":
		return c.Templates.Dmenu
	case "plain":
		return c.Templates.Plain
	default:
		return ""
	}
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
