package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archanaprabhat/CineMania/internal/watchlist"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output Waybar-compatible JSON status",
	Long: `Output the watchlist count in Waybar's custom module JSON format.

This is designed to be used with Waybar's custom module:

  "custom/watchlist": {
    "exec": "cinemania status",
    "interval": 30,
    "return-type": "json",
    "on-click": "cinemania tui"
  }

The output includes:
  - text: Number of watchlist entries
  - alt, class: "items" or "empty"
  - tooltip: Movie and show counts and the latest titles`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := container.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to read watchlist: %w", err)
	}

	data, err := json.Marshal(watchlist.NewBadge(container.Items()))
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
