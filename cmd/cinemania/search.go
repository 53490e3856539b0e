package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archanaprabhat/CineMania/internal/adapter/output"
	"github.com/archanaprabhat/CineMania/internal/catalog"
	"github.com/archanaprabhat/CineMania/internal/model"
)

var searchOpts struct {
	limit    int
	format   string
	template string
	actors   bool
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog by title or name",
	Long: `Search movie titles, show names and actor names.

Matching ignores case and accents, so "amelie" finds "Amélie". Entries that
are on the watchlist are marked with * in plain output and in_watchlist in
JSON and YAML output.

Examples:
  cinemania search dune
  cinemania search --actors chalamet
  cinemania search severance --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVarP(&searchOpts.limit, "limit", "n", 0,
		"Results per kind (default from config)")
	searchCmd.Flags().StringVarP(&searchOpts.format, "format", "f", "plain",
		"Output format (dmenu, plain, json, yaml, ids)")
	searchCmd.Flags().StringVar(&searchOpts.template, "template", "",
		"Go template or name of a configured template")
	searchCmd.Flags().BoolVar(&searchOpts.actors, "actors", false,
		"Also print matching actors and what they are known for")
}

func runSearch(cmd *cobra.Command, args []string) error {
	c, err := requireCatalog()
	if err != nil {
		return err
	}

	limit := searchOpts.limit
	if limit <= 0 {
		limit = cfg.Catalog.SearchLimit
	}

	res := c.Search(strings.Join(args, " "), limit)

	entries := make([]model.Entry, 0, len(res.Movies)+len(res.Shows))
	for _, m := range res.Movies {
		entries = append(entries, model.MovieEntry(m))
	}
	for _, s := range res.Shows {
		entries = append(entries, model.ShowEntry(s))
	}

	formatter, err := createFormatter(output.FormatType(strings.ToLower(searchOpts.format)), searchOpts.template)
	if err != nil {
		return err
	}
	if err := formatter.Format(os.Stdout, output.EntryRows(entries, container.Contains)); err != nil {
		return err
	}

	if searchOpts.actors {
		printActors(res.Actors)
	}
	return nil
}

func printActors(actors []model.Actor) {
	for _, a := range actors {
		fmt.Printf("%s (id %d) %s\n", a.Name, a.ID, catalog.ProfileURL(a.ProfilePath, ""))
		for _, cr := range catalog.KnownFor(a, 5) {
			mark := " "
			if container.Contains(cr.ID) {
				mark = "*"
			}
			fmt.Printf("    %s %s (%s %d)\n", mark, cr.DisplayTitle(), cr.MediaType, cr.ID)
		}
	}
}
