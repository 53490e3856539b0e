package catalog

import (
	"fmt"
	"slices"

	"github.com/archanaprabhat/CineMania/internal/model"
)

// Genres returns every known genre sorted by name.
func (c *Catalog) Genres() []model.Genre {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.genres)
}

// Genre returns the genre whose slug matches.
func (c *Catalog) Genre(slug string) (model.Genre, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, g := range c.genres {
		if g.Slug() == slug {
			return g, nil
		}
	}
	return model.Genre{}, fmt.Errorf("genre %q: %w", slug, ErrNotFound)
}

// ByGenreSlug returns the movies tagged with the genre, in dataset order.
func (c *Catalog) ByGenreSlug(slug string) (model.Genre, []model.Entry, error) {
	g, err := c.Genre(slug)
	if err != nil {
		return model.Genre{}, nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Entry, 0)
	for _, m := range c.movies {
		if slices.Contains(m.GenreIDs, g.ID) {
			out = append(out, model.MovieEntry(m))
		}
	}
	return g, out, nil
}
