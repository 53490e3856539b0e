package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archanaprabhat/CineMania/internal/adapter/output"
	"github.com/archanaprabhat/CineMania/internal/core"
	"github.com/archanaprabhat/CineMania/internal/model"
)

var listOpts struct {
	// Filter options
	kind   string
	since  string
	limit  int
	search string
	filter string

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	format   string
	field    string
	template string
}

var listCmd = &cobra.Command{
	Use:     "list [index|id]",
	Aliases: []string{"ls"},
	Short:   "Print the watchlist",
	Long: `Print the watchlist in various formats.

Without arguments, outputs every record in dmenu format (suitable for
fuzzel, walker, rofi, etc.), most recently added first.

With a 1-based index or a catalog id, outputs that record only.

Examples:
  # List the watchlist for a launcher
  cinemania list

  # Only shows, highest rated first
  cinemania list --kind show --sort rating

  # Filter expression
  cinemania list --filter "rating>=8,year>=2020"

  # Pick one and print its poster URL
  cinemania list | fuzzel -d | cinemania list --field poster`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listOpts.kind, "kind", "",
		"Only records of this kind (movie, show)")
	listCmd.Flags().StringVar(&listOpts.since, "since", "",
		"Only records added within this duration (e.g., 1h, 7d, 1w)")
	listCmd.Flags().IntVarP(&listOpts.limit, "limit", "n", 0,
		"Maximum number of records to show (0=unlimited)")
	listCmd.Flags().StringVarP(&listOpts.search, "search", "s", "",
		"Search in titles")
	listCmd.Flags().StringVar(&listOpts.filter, "filter", "",
		"Filter expression (e.g., \"kind=movie,rating>=7\")")

	listCmd.Flags().StringVar(&listOpts.sortBy, "sort", "",
		"Sort by field (added, title, rating, date)")
	listCmd.Flags().StringVar(&listOpts.sortOrder, "order", "",
		"Sort order (asc, desc)")

	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", "",
		"Output format (dmenu, plain, json, yaml, ids)")
	listCmd.Flags().StringVar(&listOpts.field, "field", "",
		"Output a single field (id, title, kind, rating, date, year, poster, added, all)")
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Go template or name of a configured template")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := container.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to read watchlist: %w", err)
	}

	records, err := selectRecords(container.Items())
	if err != nil {
		return err
	}

	if len(args) > 0 {
		rec, err := lookupRecord(records, args[0])
		if err != nil {
			return err
		}
		return outputRecord(*rec)
	}

	if len(records) == 0 {
		logger.Debug("watchlist is empty")
		return nil
	}

	formatter, err := createFormatter(listFormat(), listOpts.template)
	if err != nil {
		return err
	}
	return formatter.Format(os.Stdout, output.RecordRows(records))
}

// selectRecords applies filter, search and sort options.
func selectRecords(records []model.WatchlistRecord) ([]model.WatchlistRecord, error) {
	kind := listOpts.kind
	if kind == "" {
		kind = cfg.List.Kind
	}
	opts := core.FilterOptions{}
	if kind != "" {
		k, err := model.ParseMediaKind(kind)
		if err != nil {
			return nil, err
		}
		opts.Kind = k
	}

	if listOpts.since != "" {
		d, err := core.ParseDuration(listOpts.since)
		if err != nil {
			return nil, fmt.Errorf("invalid --since: %w", err)
		}
		opts.Since = d
	}

	records = core.Filter(records, core.RecordFields, opts)

	if listOpts.filter != "" {
		expr, err := core.ParseFilter(listOpts.filter)
		if err != nil {
			return nil, fmt.Errorf("invalid --filter: %w", err)
		}
		records = core.FilterWithExpr(records, core.RecordFields, expr)
	}

	if listOpts.search != "" {
		records = core.Search(records, core.RecordFields, listOpts.search)
	}

	sortOpts, err := sortOptions(listOpts.sortBy, listOpts.sortOrder)
	if err != nil {
		return nil, err
	}
	core.Sort(records, core.RecordFields, sortOpts)

	limit := listOpts.limit
	if limit == 0 {
		limit = cfg.List.Limit
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// sortOptions resolves sort flags against the configured defaults.
func sortOptions(field, order string) (core.SortOptions, error) {
	if field == "" {
		field = cfg.Sort.Field
	}
	if order == "" {
		order = cfg.Sort.Order
	}

	f, err := core.ParseSortField(field)
	if err != nil {
		return core.SortOptions{}, err
	}
	o, err := core.ParseSortOrder(order)
	if err != nil {
		return core.SortOptions{}, err
	}
	return core.SortOptions{Field: f, Order: o}, nil
}

// lookupRecord finds a record by 1-based index, catalog id, or a full line
// of list output.
func lookupRecord(records []model.WatchlistRecord, arg string) (*model.WatchlistRecord, error) {
	sel := parseSelection(arg)
	n, err := strconv.ParseInt(sel, 10, 64)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("invalid selection %q", arg)
	}

	// Short numbers are indexes into the listing; anything else is an id.
	if n <= int64(len(records)) && !strings.HasPrefix(strings.TrimSpace(arg), "id:") {
		if rec := core.LookupByIndex(records, int(n)); rec != nil {
			return rec, nil
		}
	}
	if rec := core.LookupByID(records, n); rec != nil {
		return rec, nil
	}
	return nil, fmt.Errorf("no watchlist record for %q", arg)
}

// parseSelection extracts the leading number from a dmenu selection.
// Input could be the full line: "1 | Movie | Dune (2021) | ★ 8.1 | 2 days ago"
// or just an index or "id:42".
func parseSelection(selection string) string {
	selection = strings.TrimSpace(selection)
	selection = strings.TrimPrefix(selection, "id:")

	if !strings.Contains(selection, "|") {
		return strings.TrimSpace(selection)
	}

	parts := strings.SplitN(selection, "|", 2)
	return strings.TrimSpace(parts[0])
}

func outputRecord(rec model.WatchlistRecord) error {
	row := output.RecordRows([]model.WatchlistRecord{rec})[0]

	if listOpts.field != "" {
		fmt.Println(output.FormatField(row, listOpts.field))
		return nil
	}

	// Single records default to JSON
	format := listFormat()
	switch format {
	case output.FormatYAML:
		return output.NewYAMLFormatter(output.DefaultFormatterOptions()).FormatSingle(os.Stdout, row)
	case output.FormatDmenu, output.FormatJSON:
		return output.NewJSONFormatter(output.DefaultFormatterOptions()).FormatSingle(os.Stdout, row)
	default:
		formatter, err := createFormatter(format, listOpts.template)
		if err != nil {
			return err
		}
		return formatter.Format(os.Stdout, []output.Row{row})
	}
}

func listFormat() output.FormatType {
	if listOpts.format != "" {
		return output.FormatType(strings.ToLower(listOpts.format))
	}
	if cfg.List.Format != "" {
		return output.FormatType(cfg.List.Format)
	}
	return output.FormatDmenu
}

// createFormatter creates the output formatter for format. tmpl may be a
// literal template or the name of a configured one.
func createFormatter(format output.FormatType, tmpl string) (output.Formatter, error) {
	switch format {
	case output.FormatDmenu, output.FormatJSON, output.FormatYAML, output.FormatPlain, output.FormatIDs:
	default:
		return nil, fmt.Errorf("unknown format %q (expected dmenu, plain, json, yaml or ids)", format)
	}

	opts := output.DefaultFormatterOptions()
	if named := cfg.GetTemplate(tmpl); named != "" {
		tmpl = named
	}
	if tmpl == "" {
		tmpl = cfg.GetTemplate(string(format))
	}
	opts.Template = tmpl

	return output.NewFormatter(format, opts), nil
}
