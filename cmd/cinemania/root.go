// Package main provides the CLI entrypoint for cinemania.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/archanaprabhat/CineMania/internal/catalog"
	"github.com/archanaprabhat/CineMania/internal/config"
	"github.com/archanaprabhat/CineMania/internal/store"
	"github.com/archanaprabhat/CineMania/internal/watchlist"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// commandTimeout bounds a single non-interactive command.
const commandTimeout = 10 * time.Second

// skipSetup marks commands that run without a store or catalog.
const skipSetup = "skip-setup"

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		storePath  string
		backend    string
		dataDir    string
		logFile    string
	}
	logger = slog.Default()
	logOut io.Closer

	watchStore *store.Lazy
	container  *watchlist.Container
	cat        *catalog.Catalog // nil when the dataset could not be loaded
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cinemania",
	Short: "Movie and TV catalog with a local watchlist",
	Long: `cinemania browses a pre-fetched movie and TV catalog and keeps a
watchlist on this machine.

The watchlist is stored in a JSONL file (or SQLite database) under
~/.local/share/cinemania and is shared by every cinemania process.

Running cinemania without a subcommand launches the interactive TUI.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cfg)

		if err := setupLogger(cfg); err != nil {
			return err
		}

		if cmd.Annotations[skipSetup] == "true" {
			return nil
		}
		return setupWatchlist(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
	// Default to TUI when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_ = teardown()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/cinemania/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.storePath, "store", "",
		"Path to the watchlist store (default: ~/.local/share/cinemania/watchlist.jsonl)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.backend, "backend", "",
		"Store backend (jsonl, sqlite)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.dataDir, "data-dir", "",
		"Directory holding movies.json, shows.json and actors.json")
	rootCmd.PersistentFlags().StringVar(&globalOpts.logFile, "log-file", "",
		"Write logs to this file with rotation instead of stderr")
}

// applyFlagOverrides lets global flags win over the config file.
func applyFlagOverrides(c *config.Config) {
	if globalOpts.storePath != "" {
		c.Store.Path = globalOpts.storePath
	}
	if globalOpts.backend != "" {
		c.Store.Backend = globalOpts.backend
	}
	if globalOpts.dataDir != "" {
		c.Catalog.DataDir = globalOpts.dataDir
	}
	if globalOpts.logFile != "" {
		c.Log.File = globalOpts.logFile
	}
}

// setupLogger configures the global slog logger.
func setupLogger(c *config.Config) error {
	level, err := config.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	var w io.Writer = os.Stderr
	if c.Log.File != "" {
		lj := &lumberjack.Logger{
			Filename:   c.Log.File,
			MaxSize:    c.Log.MaxSizeMB,
			MaxBackups: c.Log.MaxBackups,
			MaxAge:     c.Log.MaxAgeDays,
			Compress:   true,
		}
		w = lj
		logOut = lj
	}

	logger = slog.New(slog.NewTextHandler(w, opts))
	slog.SetDefault(logger)
	return nil
}

// setupWatchlist opens the store lazily, hydrates the container and loads
// the shared catalog. A missing dataset only disables catalog features.
func setupWatchlist(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	backend, err := store.ParseBackend(cfg.Store.Backend)
	if err != nil {
		return err
	}
	path := cfg.Store.Path
	if path == "" {
		path, err = store.DefaultPath(backend)
		if err != nil {
			return fmt.Errorf("failed to resolve store path: %w", err)
		}
	}

	watchStore = store.Open(store.Config{Backend: backend, Path: path, Logger: logger})
	container = watchlist.NewContainer(watchlist.NewRepository(watchStore, watchlist.WithLogger(logger)), logger)

	startCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	if err := container.Start(startCtx); err != nil {
		logger.Warn("failed to load watchlist", "path", path, "error", err)
	}

	shared := catalog.Shared(cfg.Catalog.DataDir)
	if err := shared.Load(startCtx); err != nil {
		logger.Warn("catalog unavailable", "dir", cfg.Catalog.DataDir, "error", err)
	} else {
		cat = shared
	}

	return nil
}

func teardown() error {
	if container != nil {
		container.Close()
		container = nil
	}
	var err error
	if watchStore != nil {
		err = watchStore.Close()
		watchStore = nil
	}
	if logOut != nil {
		_ = logOut.Close()
		logOut = nil
	}
	return err
}

// requireCatalog returns the loaded catalog or an explanatory error.
func requireCatalog() (*catalog.Catalog, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog not loaded from %s (see --data-dir)", cfg.Catalog.DataDir)
	}
	return cat, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, commandTimeout)
}
