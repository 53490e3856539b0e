package main

import (
	"github.com/spf13/cobra"

	"github.com/archanaprabhat/CineMania/internal/tui"
)

var tuiOpts struct {
	noWatch bool
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI browser",
	Long: `Launch the interactive terminal user interface.

The TUI provides:
  - Catalog and watchlist tabs
  - Search by title or filter expression (e.g. rating>=8)
  - Detail view with cast and poster URL
  - One-key watchlist toggle with status messages
  - Copy to clipboard support
  - Live updates when another cinemania process changes the watchlist

Key bindings:
  j/k, ↑/↓    Navigate list
  tab         Switch between catalog and watchlist
  enter       View details
  w           Add to / remove from watchlist
  c           Copy title to clipboard
  p           Copy poster URL to clipboard
  C           Copy visible rows as JSON
  /           Search
  r           Reload watchlist
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().BoolVar(&tuiOpts.noWatch, "no-watch", false,
		"Do not watch the store file for changes by other processes")
}

func runTUI(cmd *cobra.Command, args []string) error {
	watchPath := ""
	if cfg.Store.Watch && !tuiOpts.noWatch {
		watchPath = watchStore.Path()
	}

	return tui.Run(tui.RunOptions{
		Config:    cfg,
		Catalog:   cat,
		Container: container,
		WatchPath: watchPath,
		Logger:    logger,
	})
}
