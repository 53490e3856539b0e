package catalog

import (
	"sort"
	"strings"

	"github.com/archanaprabhat/CineMania/internal/core"
	"github.com/archanaprabhat/CineMania/internal/model"
)

// DefaultSearchLimit is the number of results returned per kind.
const DefaultSearchLimit = 3

// SearchResults groups matches by kind.
type SearchResults struct {
	Movies []model.Movie `json:"movies"`
	Shows  []model.Show  `json:"shows"`
	Actors []model.Actor `json:"actors"`
}

// Len returns the total number of results.
func (r SearchResults) Len() int {
	return len(r.Movies) + len(r.Shows) + len(r.Actors)
}

// Search returns the first perKind movies, shows and actors whose title or
// name contains query, ignoring case and accents. perKind <= 0 uses
// DefaultSearchLimit. An empty query matches nothing.
func (c *Catalog) Search(query string, perKind int) SearchResults {
	res := SearchResults{
		Movies: []model.Movie{},
		Shows:  []model.Show{},
		Actors: []model.Actor{},
	}

	q := core.Fold(strings.TrimSpace(query))
	if q == "" {
		return res
	}
	if perKind <= 0 {
		perKind = DefaultSearchLimit
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, m := range c.movies {
		if len(res.Movies) == perKind {
			break
		}
		if strings.Contains(core.Fold(m.Title), q) {
			res.Movies = append(res.Movies, m)
		}
	}
	for _, s := range c.shows {
		if len(res.Shows) == perKind {
			break
		}
		if strings.Contains(core.Fold(s.Name), q) {
			res.Shows = append(res.Shows, s)
		}
	}
	for _, a := range c.actors {
		if len(res.Actors) == perKind {
			break
		}
		if strings.Contains(core.Fold(a.Name), q) {
			res.Actors = append(res.Actors, a)
		}
	}

	return res
}

// DefaultCreditLimit is the number of credits shown for an actor.
const DefaultCreditLimit = 12

// KnownFor returns the actor's movie and TV credits that have a poster, most
// popular first, capped at limit (DefaultCreditLimit when limit <= 0).
func KnownFor(a model.Actor, limit int) []model.ActorCredit {
	if limit <= 0 {
		limit = DefaultCreditLimit
	}

	credits := make([]model.ActorCredit, 0, len(a.Credits.Cast))
	for _, cr := range a.Credits.Cast {
		if cr.PosterPath == "" {
			continue
		}
		if cr.MediaType != "movie" && cr.MediaType != "tv" {
			continue
		}
		credits = append(credits, cr)
	}

	sort.SliceStable(credits, func(i, j int) bool {
		return credits[i].Popularity > credits[j].Popularity
	})

	if len(credits) > limit {
		credits = credits[:limit]
	}
	return credits
}
