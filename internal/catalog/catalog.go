// Package catalog loads the pre-fetched movie, show and actor dataset and
// answers lookups, search and browse queries over it.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/archanaprabhat/CineMania/internal/core"
	"github.com/archanaprabhat/CineMania/internal/model"
)

// Dataset file names inside the data directory.
const (
	MoviesFile = "movies.json"
	ShowsFile  = "shows.json"
	ActorsFile = "actors.json"
	GenresFile = "genres.json"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found in catalog")

// Catalog is an in-memory, read-only view of the dataset.
// It is loaded once and kept for the life of the process.
type Catalog struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger

	mu     sync.RWMutex
	loaded bool

	movies []model.Movie
	shows  []model.Show
	actors []model.Actor
	genres []model.Genre

	movieIdx   map[int64]int
	showIdx    map[int64]int
	actorIdx   map[int64]int
	genreNames map[int64]string
}

// New creates a Catalog reading from dir on fsys. Nothing is read until Load.
func New(fsys afero.Fs, dir string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{fs: fsys, dir: dir, logger: logger}
}

var (
	sharedMu sync.Mutex
	shared   = make(map[string]*Catalog)
)

// Shared returns the process-wide catalog for dir on the OS filesystem.
func Shared(dir string) *Catalog {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if c, ok := shared[dir]; ok {
		return c
	}
	c := New(afero.NewOsFs(), dir, slog.Default())
	shared[dir] = c
	return c
}

// Load reads the dataset files in parallel. It does nothing once the catalog is
// loaded; a failed load may be retried. Movies and shows are required, actors
// and genres are optional.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return nil
	}

	var (
		movies []model.Movie
		shows  []model.Show
		actors []model.Actor
		genres []model.Genre
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		return c.readJSON(ctx, MoviesFile, &movies, true)
	})
	p.Go(func(ctx context.Context) error {
		return c.readJSON(ctx, ShowsFile, &shows, true)
	})
	p.Go(func(ctx context.Context) error {
		return c.readJSON(ctx, ActorsFile, &actors, false)
	})
	p.Go(func(ctx context.Context) error {
		return c.readJSON(ctx, GenresFile, &genres, false)
	})
	if err := p.Wait(); err != nil {
		return err
	}

	c.movies, c.shows, c.actors = movies, shows, actors
	c.index(genres)
	c.loaded = true

	c.logger.Debug("catalog loaded", "dir", c.dir,
		"movies", len(movies), "shows", len(shows), "actors", len(actors), "genres", len(c.genres))
	return nil
}

func (c *Catalog) readJSON(ctx context.Context, name string, v any, required bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(c.dir, name)
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("optional catalog file missing", "path", path)
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// index builds the id maps and the genre list. Without a genres file the
// list is collected from the genres embedded in movies and shows.
func (c *Catalog) index(genres []model.Genre) {
	c.movieIdx = make(map[int64]int, len(c.movies))
	for i, m := range c.movies {
		c.movieIdx[m.ID] = i
	}
	c.showIdx = make(map[int64]int, len(c.shows))
	for i, s := range c.shows {
		c.showIdx[s.ID] = i
	}
	c.actorIdx = make(map[int64]int, len(c.actors))
	for i, a := range c.actors {
		c.actorIdx[a.ID] = i
	}

	c.genreNames = make(map[int64]string)
	add := func(g model.Genre) {
		if g.Name == "" {
			return
		}
		if _, ok := c.genreNames[g.ID]; !ok {
			c.genreNames[g.ID] = g.Name
		}
	}
	for _, g := range genres {
		add(g)
	}
	for _, m := range c.movies {
		for _, g := range m.Genres {
			add(g)
		}
	}
	for _, s := range c.shows {
		for _, g := range s.Genres {
			add(g)
		}
	}

	c.genres = make([]model.Genre, 0, len(c.genreNames))
	for id, name := range c.genreNames {
		c.genres = append(c.genres, model.Genre{ID: id, Name: name})
	}
	sort.Slice(c.genres, func(i, j int) bool { return c.genres[i].Name < c.genres[j].Name })
}

// Loaded reports whether Load has succeeded.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Movies returns every movie in dataset order. The slice must not be modified.
func (c *Catalog) Movies() []model.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.movies
}

// Shows returns every show in dataset order. The slice must not be modified.
func (c *Catalog) Shows() []model.Show {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shows
}

// Entries returns all movies followed by all shows.
func (c *Catalog) Entries() []model.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Entry, 0, len(c.movies)+len(c.shows))
	for _, m := range c.movies {
		out = append(out, model.MovieEntry(m))
	}
	for _, s := range c.shows {
		out = append(out, model.ShowEntry(s))
	}
	return out
}

// Movie returns the movie with id.
func (c *Catalog) Movie(id int64) (model.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.movieIdx[id]
	if !ok {
		return model.Movie{}, fmt.Errorf("movie %d: %w", id, ErrNotFound)
	}
	return c.movies[i], nil
}

// Show returns the show with id.
func (c *Catalog) Show(id int64) (model.Show, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.showIdx[id]
	if !ok {
		return model.Show{}, fmt.Errorf("show %d: %w", id, ErrNotFound)
	}
	return c.shows[i], nil
}

// Actor returns the actor with id.
func (c *Catalog) Actor(id int64) (model.Actor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.actorIdx[id]
	if !ok {
		return model.Actor{}, fmt.Errorf("actor %d: %w", id, ErrNotFound)
	}
	return c.actors[i], nil
}

// Entry returns the entry of the given kind and id.
func (c *Catalog) Entry(kind model.MediaKind, id int64) (model.Entry, error) {
	switch kind {
	case model.KindMovie:
		m, err := c.Movie(id)
		if err != nil {
			return model.Entry{}, err
		}
		return model.MovieEntry(m), nil
	case model.KindShow:
		s, err := c.Show(id)
		if err != nil {
			return model.Entry{}, err
		}
		return model.ShowEntry(s), nil
	default:
		return model.Entry{}, fmt.Errorf("%w: %q", model.ErrInvalidKind, kind)
	}
}

// Find returns the entry with id, preferring a movie when both kinds share the id.
func (c *Catalog) Find(id int64) (model.Entry, error) {
	if e, err := c.Entry(model.KindMovie, id); err == nil {
		return e, nil
	}
	if e, err := c.Entry(model.KindShow, id); err == nil {
		return e, nil
	}
	return model.Entry{}, fmt.Errorf("entry %d: %w", id, ErrNotFound)
}

// Fields returns the filter/sort view of e with genre names resolved.
func (c *Catalog) Fields(e model.Entry) core.Fields {
	return core.EntryFields(e, c.genreName)
}

func (c *Catalog) genreName(id int64) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.genreNames[id]
}

// BrowseOptions selects and orders catalog entries.
type BrowseOptions struct {
	Filter core.FilterOptions
	Expr   *core.FilterExpr
	Sort   core.SortOptions
}

// Browse returns the entries matching opts. A zero Sort keeps dataset order.
func (c *Catalog) Browse(opts BrowseOptions) []model.Entry {
	entries := c.Entries()

	limit := opts.Filter.Limit
	filter := opts.Filter
	filter.Limit = 0

	entries = core.Filter(entries, c.Fields, filter)
	entries = core.FilterWithExpr(entries, c.Fields, opts.Expr)
	if opts.Sort.Field != "" {
		core.Sort(entries, c.Fields, opts.Sort)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Stats summarizes the dataset size.
type Stats struct {
	Movies int `json:"movies"`
	Shows  int `json:"shows"`
	Actors int `json:"actors"`
	Genres int `json:"genres"`
}

// Stats returns dataset counts.
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Movies: len(c.movies),
		Shows:  len(c.shows),
		Actors: len(c.actors),
		Genres: len(c.genres),
	}
}
