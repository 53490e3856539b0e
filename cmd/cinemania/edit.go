package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archanaprabhat/CineMania/internal/adapter/input"
	"github.com/archanaprabhat/CineMania/internal/catalog"
	"github.com/archanaprabhat/CineMania/internal/model"
	"github.com/archanaprabhat/CineMania/internal/watchlist"
)

var addOpts struct {
	kind  string
	stdin bool
	file  string
}

var removeOpts struct {
	stdin bool
}

var addCmd = &cobra.Command{
	Use:   "add [id...]",
	Short: "Add catalog entries to the watchlist",
	Long: `Add movies or shows to the watchlist.

Entries are looked up in the catalog by id. Movie ids are tried before show
ids unless --kind is given. With --stdin or --file, full catalog entries are
read as JSON (an array, one object per line, or a single object) and added
without a catalog lookup.

Adding an entry that is already on the watchlist replaces it.

Examples:
  # Add Dune
  cinemania add 438631

  # Add a show whose id collides with a movie
  cinemania add 1399 --kind show

  # Import entries exported from another tool
  cinemania add --file picks.json`,
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:     "remove [id...]",
	Aliases: []string{"rm"},
	Short:   "Remove entries from the watchlist",
	Long: `Remove entries from the watchlist by catalog id.

Removing an id that is not on the watchlist succeeds and is not counted.
A dmenu line from list selects the record at its index, while bare numbers
and id:<n> are catalog ids. With --stdin, each line is read the same way, so
the ids or dmenu formats of list can be piped in.

Examples:
  cinemania remove 438631

  # Remove everything added in the last hour
  cinemania list --since 1h --format ids | cinemania remove --stdin`,
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)

	addCmd.Flags().StringVar(&addOpts.kind, "kind", "",
		"Entry kind for id lookups (movie, show)")
	addCmd.Flags().BoolVar(&addOpts.stdin, "stdin", false,
		"Read JSON catalog entries from stdin")
	addCmd.Flags().StringVar(&addOpts.file, "file", "",
		"Read JSON catalog entries from a file")

	removeCmd.Flags().BoolVar(&removeOpts.stdin, "stdin", false,
		"Read ids from stdin (one per line)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	var entries []model.Entry
	switch {
	case addOpts.stdin || addOpts.file != "":
		source := "stdin"
		if addOpts.file != "" {
			source = addOpts.file
		}
		adapter, err := input.NewAdapter(source)
		if err != nil {
			return err
		}
		entries, err = adapter.Import(ctx)
		if err != nil {
			return fmt.Errorf("failed to import entries: %w", err)
		}
		logger.Debug("imported entries", "source", adapter.Name(), "count", len(entries))
	case len(args) > 0:
		c, err := requireCatalog()
		if err != nil {
			return err
		}
		ids, err := parseIDArgs(args, listedRecords())
		if err != nil {
			return err
		}
		for _, id := range ids {
			e, err := lookupEntry(c, id, addOpts.kind)
			if err != nil {
				return err
			}
			entries = append(entries, e)
		}
	default:
		return fmt.Errorf("specify ids, --stdin or --file")
	}

	var errs []error
	for _, e := range entries {
		if err := container.Add(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Title(), err))
			continue
		}
		fmt.Printf("Added to Watchlist: %s\n", e.Title())
	}
	return errors.Join(errs...)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	var ids []int64
	var err error
	if removeOpts.stdin {
		ids, err = scanIDs(os.Stdin, listedRecords())
	} else {
		ids, err = parseIDArgs(args, listedRecords())
	}
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no ids given")
	}

	removed, err := removeListed(ctx, container, ids)
	switch {
	case removed > 0:
		fmt.Printf("Removed %d from Watchlist\n", removed)
	case err == nil:
		fmt.Println("Nothing to remove")
	}
	return err
}

// removeListed removes the ids that are on the watchlist and returns how
// many were removed. Absent ids are skipped.
func removeListed(ctx context.Context, c *watchlist.Container, ids []int64) (int, error) {
	var errs []error
	removed, absent := 0, 0
	for _, id := range ids {
		if !c.Contains(id) {
			absent++
			continue
		}
		if err := c.Remove(ctx, id); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	logger.Debug("removed from watchlist", "count", removed, "absent", absent)
	return removed, errors.Join(errs...)
}

// lookupEntry finds id in the catalog, restricted to kind when given.
func lookupEntry(c *catalog.Catalog, id int64, kind string) (model.Entry, error) {
	if kind == "" {
		return c.Find(id)
	}
	k, err := model.ParseMediaKind(kind)
	if err != nil {
		return model.Entry{}, err
	}
	return c.Entry(k, id)
}

// listedRecords returns the watchlist as list shows it by default, so the
// index at the start of a dmenu line resolves to the same record.
func listedRecords() []model.WatchlistRecord {
	records, err := selectRecords(container.Items())
	if err != nil {
		logger.Debug("falling back to unfiltered watchlist", "error", err)
		return container.Items()
	}
	return records
}

// selectionID returns the catalog id named by arg. A dmenu line resolves
// through its leading index against records, like list does. Bare numbers
// and id:<n> are ids.
func selectionID(records []model.WatchlistRecord, arg string) (int64, error) {
	if strings.Contains(arg, "|") {
		rec, err := lookupRecord(records, arg)
		if err != nil {
			return 0, err
		}
		return rec.ID, nil
	}
	id, err := strconv.ParseInt(parseSelection(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func parseIDArgs(args []string, records []model.WatchlistRecord) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := selectionID(records, arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// idPattern matches the first run of digits on a line.
var idPattern = regexp.MustCompile(`\d+`)

// scanIDs reads one selection per line. dmenu lines resolve against records;
// any other line contributes its first number as an id, and lines without a
// number are skipped.
func scanIDs(r io.Reader, records []model.WatchlistRecord) ([]int64, error) {
	var ids []int64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "|") {
			id, err := selectionID(records, line)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
			continue
		}
		m := idPattern.FindString(line)
		if m == "" {
			continue
		}
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids, scanner.Err()
}
