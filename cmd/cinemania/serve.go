package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/archanaprabhat/CineMania/internal/server"
	"github.com/archanaprabhat/CineMania/internal/store"
)

var serveOpts struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the watchlist over a local HTTP API",
	Long: `Serve the watchlist and catalog search as JSON over HTTP.

Routes:
  GET    /health
  GET    /api/watchlist
  POST   /api/watchlist              {"id": 438631, "kind": "movie"}
  GET    /api/watchlist/status
  GET    /api/watchlist/{id}
  DELETE /api/watchlist/{id}
  POST   /api/watchlist/{id}/toggle
  GET    /api/search?q=dune&limit=5

Use --log-file to keep request logs in a rotated file.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", "",
		"Listen address (default from config, 127.0.0.1:8787)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := serveOpts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	opts := server.Options{
		Addr:         addr,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		Watchlist:    container,
		Logger:       logger,
	}
	if cat != nil {
		opts.Catalog = cat
	}

	if cfg.Store.Watch {
		w, err := store.NewFileWatcher(watchStore.Path(), func() {
			if err := container.Refresh(ctx); err != nil {
				logger.Warn("watchlist refresh after external change failed", "error", err)
			}
		}, store.WithWatcherLogger(logger))
		if err != nil {
			logger.Warn("failed to create file watcher", "error", err)
		} else if err := w.Start(); err != nil {
			logger.Warn("failed to start file watcher", "error", err)
		} else {
			defer func() { _ = w.Stop() }()
		}
	}

	return server.New(opts).Run(ctx)
}
