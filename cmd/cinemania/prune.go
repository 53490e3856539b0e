package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/archanaprabhat/CineMania/internal/core"
	"github.com/archanaprabhat/CineMania/internal/model"
)

var pruneOpts struct {
	olderThan string
	keep      int
	dryRun    bool
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old entries from the watchlist",
	Long: `Remove entries from the watchlist by age or count.

Examples:
  # Remove entries added more than 90 days ago
  cinemania prune --older-than 90d

  # Keep only the 50 most recently added entries
  cinemania prune --keep 50

  # Preview what would be removed (dry run)
  cinemania prune --older-than 4w --dry-run`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().StringVar(&pruneOpts.olderThan, "older-than", "",
		"Remove entries added before this duration ago (e.g., 48h, 30d, 4w)")
	pruneCmd.Flags().IntVar(&pruneOpts.keep, "keep", 0,
		"Keep only the N most recently added entries (0=unlimited)")
	pruneCmd.Flags().BoolVar(&pruneOpts.dryRun, "dry-run", false,
		"Show what would be removed without actually removing")
}

func runPrune(cmd *cobra.Command, args []string) error {
	if pruneOpts.olderThan == "" && pruneOpts.keep == 0 {
		return fmt.Errorf("specify --older-than or --keep")
	}

	var olderThan time.Duration
	if pruneOpts.olderThan != "" {
		d, err := core.ParseDuration(pruneOpts.olderThan)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		olderThan = d
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := container.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to read watchlist: %w", err)
	}

	toRemove := pruneCandidates(container.Items(), olderThan, pruneOpts.keep, time.Now())
	if len(toRemove) == 0 {
		fmt.Println("No entries to remove")
		return nil
	}

	if pruneOpts.dryRun {
		fmt.Printf("Would remove %d entr%s:\n", len(toRemove), plural(len(toRemove), "y", "ies"))
		for i, r := range toRemove {
			if i >= 10 {
				fmt.Printf("  ... and %d more\n", len(toRemove)-10)
				break
			}
			fmt.Printf("  - [%s] %s (%s)\n", r.MediaKind.Label(), r.DisplayTitle, r.RelativeAdded())
		}
		return nil
	}

	removed := 0
	for _, r := range toRemove {
		if err := container.Remove(ctx, r.ID); err != nil {
			logger.Warn("failed to remove entry", "id", r.ID, "error", err)
			continue
		}
		removed++
	}

	fmt.Printf("Removed %d entr%s\n", removed, plural(removed, "y", "ies"))
	return nil
}

// pruneCandidates returns the records added before now-olderThan plus those
// beyond the keep most recent. Zero values disable either rule.
func pruneCandidates(records []model.WatchlistRecord, olderThan time.Duration, keep int, now time.Time) []model.WatchlistRecord {
	core.Sort(records, core.RecordFields, core.SortOptions{
		Field: core.SortByAdded,
		Order: core.SortDesc,
	})

	var cutoff int64
	if olderThan > 0 {
		cutoff = now.Add(-olderThan).Unix()
	}

	var out []model.WatchlistRecord
	for i, r := range records {
		tooOld := cutoff != 0 && r.AddedAt < cutoff
		overKeep := keep > 0 && i >= keep
		if tooOld || overKeep {
			out = append(out, r)
		}
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
