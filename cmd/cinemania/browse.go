package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archanaprabhat/CineMania/internal/adapter/output"
	"github.com/archanaprabhat/CineMania/internal/catalog"
	"github.com/archanaprabhat/CineMania/internal/core"
	"github.com/archanaprabhat/CineMania/internal/model"
)

var browseOpts struct {
	kind      string
	genre     string
	minRating float64
	year      int
	limit     int
	filter    string
	sortBy    string
	sortOrder string
	format    string
	template  string
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List catalog entries",
	Long: `List catalog movies and shows with optional filters.

Examples:
  # Top rated science fiction
  cinemania browse --genre science-fiction --sort rating -n 10

  # Filter expression
  cinemania browse --filter "kind=show,rating>=8,year>=2020"

  # Genres and how many movies each has
  cinemania browse genres`,
	RunE: runBrowse,
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List catalog genres",
	RunE:  runGenres,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.AddCommand(genresCmd)

	browseCmd.Flags().StringVar(&browseOpts.kind, "kind", "",
		"Only entries of this kind (movie, show)")
	browseCmd.Flags().StringVar(&browseOpts.genre, "genre", "",
		"Only entries with this genre (name or slug)")
	browseCmd.Flags().Float64Var(&browseOpts.minRating, "min-rating", 0,
		"Minimum vote average")
	browseCmd.Flags().IntVar(&browseOpts.year, "year", 0,
		"Only entries released in this year")
	browseCmd.Flags().IntVarP(&browseOpts.limit, "limit", "n", 0,
		"Maximum number of entries (0=unlimited)")
	browseCmd.Flags().StringVar(&browseOpts.filter, "filter", "",
		"Filter expression (e.g., \"genre=drama,rating>=7\")")
	browseCmd.Flags().StringVar(&browseOpts.sortBy, "sort", "popularity",
		"Sort by field (popularity, rating, date, title)")
	browseCmd.Flags().StringVar(&browseOpts.sortOrder, "order", "desc",
		"Sort order (asc, desc)")
	browseCmd.Flags().StringVarP(&browseOpts.format, "format", "f", "plain",
		"Output format (dmenu, plain, json, yaml, ids)")
	browseCmd.Flags().StringVar(&browseOpts.template, "template", "",
		"Go template or name of a configured template")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	c, err := requireCatalog()
	if err != nil {
		return err
	}

	opts := catalog.BrowseOptions{
		Filter: core.FilterOptions{
			Genre:     browseOpts.genre,
			MinRating: browseOpts.minRating,
			Year:      browseOpts.year,
			Limit:     browseOpts.limit,
		},
	}
	if browseOpts.kind != "" {
		k, err := model.ParseMediaKind(browseOpts.kind)
		if err != nil {
			return err
		}
		opts.Filter.Kind = k
	}
	if browseOpts.filter != "" {
		expr, err := core.ParseFilter(browseOpts.filter)
		if err != nil {
			return fmt.Errorf("invalid --filter: %w", err)
		}
		opts.Expr = expr
	}
	opts.Sort, err = sortOptions(browseOpts.sortBy, browseOpts.sortOrder)
	if err != nil {
		return err
	}

	formatter, err := createFormatter(output.FormatType(strings.ToLower(browseOpts.format)), browseOpts.template)
	if err != nil {
		return err
	}
	return formatter.Format(os.Stdout, output.EntryRows(c.Browse(opts), container.Contains))
}

func runGenres(cmd *cobra.Command, args []string) error {
	c, err := requireCatalog()
	if err != nil {
		return err
	}

	for _, g := range c.Genres() {
		_, movies, err := c.ByGenreSlug(g.Slug())
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\t%d movies\n", g.Slug(), g.Name, len(movies))
	}
	return nil
}
