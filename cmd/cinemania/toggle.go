package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archanaprabhat/CineMania/internal/core"
	"github.com/archanaprabhat/CineMania/internal/model"
	"github.com/archanaprabhat/CineMania/internal/watchlist"
)

var toggleOpts struct {
	kind string
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Add an entry, or remove it when already listed",
	Long: `Toggle a catalog entry on the watchlist and print the outcome.

Entries that are on the watchlist but missing from the catalog can still be
toggled off.`,
	Args: cobra.ExactArgs(1),
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)

	toggleCmd.Flags().StringVar(&toggleOpts.kind, "kind", "",
		"Entry kind for the id lookup (movie, show)")
}

func runToggle(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	id, err := selectionID(listedRecords(), args[0])
	if err != nil {
		return err
	}

	entry, err := toggleEntry(id)
	if err != nil {
		return err
	}

	result, err := watchlist.NewToggle(container, entry).Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", watchlist.FailureMessage, err)
	}

	fmt.Printf("%s: %s\n", result.Message(), entry.Title())
	return nil
}

// toggleEntry resolves id through the catalog, falling back to the stored
// record so listed entries can always be removed.
func toggleEntry(id int64) (model.Entry, error) {
	if cat != nil {
		e, err := lookupEntry(cat, id, toggleOpts.kind)
		if err == nil {
			return e, nil
		}
		if !container.Contains(id) {
			return model.Entry{}, err
		}
	}

	rec := core.LookupByID(container.Items(), id)
	if rec == nil {
		_, err := requireCatalog()
		if err == nil {
			err = fmt.Errorf("%d is not in the catalog or the watchlist", id)
		}
		return model.Entry{}, err
	}
	return rec.Entry(), nil
}
