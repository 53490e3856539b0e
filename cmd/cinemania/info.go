package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archanaprabhat/CineMania/internal/adapter/output"
	"github.com/archanaprabhat/CineMania/internal/catalog"
	"github.com/archanaprabhat/CineMania/internal/model"
)

var infoOpts struct {
	kind   string
	actor  bool
	format string
	size   string
}

var infoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show details for a catalog entry or actor",
	Long: `Show the full catalog record for a movie, show or actor.

Plain output is a short summary with image URLs; json and yaml print the
complete record.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringVar(&infoOpts.kind, "kind", "",
		"Entry kind (movie, show)")
	infoCmd.Flags().BoolVar(&infoOpts.actor, "actor", false,
		"Treat the id as an actor id")
	infoCmd.Flags().StringVarP(&infoOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml)")
	infoCmd.Flags().StringVar(&infoOpts.size, "size", "",
		"Poster size (w92 ... original; default from config)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	c, err := requireCatalog()
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(parseSelection(args[0]), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid id %q", args[0])
	}

	var v any
	if infoOpts.actor {
		a, err := c.Actor(id)
		if err != nil {
			return err
		}
		v = a
	} else {
		e, err := lookupEntry(c, id, infoOpts.kind)
		if err != nil {
			return err
		}
		if e.Kind == model.KindMovie {
			v = e.Movie
		} else {
			v = e.Show
		}
	}

	switch output.FormatType(strings.ToLower(infoOpts.format)) {
	case output.FormatJSON:
		return output.NewJSONFormatter(output.DefaultFormatterOptions()).FormatSingle(os.Stdout, v)
	case output.FormatYAML:
		return output.NewYAMLFormatter(output.DefaultFormatterOptions()).FormatSingle(os.Stdout, v)
	}

	switch x := v.(type) {
	case model.Actor:
		fmt.Printf("%s\n", x.Name)
		fmt.Printf("Profile:  %s\n", catalog.ProfileURL(x.ProfilePath, ""))
		for _, cr := range catalog.KnownFor(x, 0) {
			fmt.Printf("  %s (%s %d)\n", cr.DisplayTitle(), cr.MediaType, cr.ID)
		}
	case *model.Movie:
		printEntryInfo(model.MovieEntry(*x), x.BackdropPath, x.Tagline)
	case *model.Show:
		printEntryInfo(model.ShowEntry(*x), x.BackdropPath, x.Tagline)
	}
	return nil
}

func printEntryInfo(e model.Entry, backdrop, tagline string) {
	size := infoOpts.size
	if size == "" {
		size = cfg.TUI.PosterSize
	}

	listed := "no"
	if container.Contains(e.ID()) {
		listed = "yes"
	}

	fmt.Printf("%s (%s)\n", e.Title(), e.Kind.Label())
	if tagline != "" {
		fmt.Printf("%s\n", tagline)
	}
	fmt.Printf("Date:      %s\n", e.Date())
	fmt.Printf("Rating:    %.1f\n", e.Rating())
	fmt.Printf("Poster:    %s\n", catalog.PosterURL(e.PosterPath(), size))
	if backdrop != "" {
		fmt.Printf("Backdrop:  %s\n", catalog.BackdropURL(backdrop, ""))
	}
	fmt.Printf("Watchlist: %s\n", listed)
	if o := e.Overview(); o != "" {
		fmt.Printf("\n%s\n", o)
	}
}
