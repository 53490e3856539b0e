package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// Genre is a TMDB genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Slug returns the URL-safe genre name, e.g. "sci-fi-fantasy".
func (g Genre) Slug() string {
	return GenreSlug(g.Name)
}

// GenreSlug converts a genre name into its slug. An ampersand between words is
// dropped rather than spelled out.
func GenreSlug(name string) string {
	return slug.Make(strings.ReplaceAll(name, " & ", " "))
}

// CastMember is a credited performer.
type CastMember struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	OriginalName string `json:"original_name,omitempty"`
	Character    string `json:"character,omitempty"`
	ProfilePath  string `json:"profile_path,omitempty"`
	Order        int    `json:"order"`
}

// CrewMember is a credited crew member.
type CrewMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job,omitempty"`
	Department  string `json:"department,omitempty"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// Credits holds the cast and crew of a title.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Video is a trailer or clip attached to a title.
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// Videos wraps the TMDB videos envelope.
type Videos struct {
	Results []Video `json:"results"`
}

// Movie is a full movie entry from the catalog dataset.
type Movie struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	OriginalTitle    string   `json:"original_title,omitempty"`
	OriginalLanguage string   `json:"original_language,omitempty"`
	Overview         string   `json:"overview,omitempty"`
	PosterPath       string   `json:"poster_path,omitempty"`
	BackdropPath     string   `json:"backdrop_path,omitempty"`
	ReleaseDate      string   `json:"release_date,omitempty"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count,omitempty"`
	Popularity       float64  `json:"popularity,omitempty"`
	GenreIDs         []int64  `json:"genre_ids,omitempty"`
	Genres           []Genre  `json:"genres,omitempty"`
	Credits          *Credits `json:"credits,omitempty"`
	Videos           *Videos  `json:"videos,omitempty"`
	Tagline          string   `json:"tagline,omitempty"`
	Runtime          int      `json:"runtime,omitempty"`
	Status           string   `json:"status,omitempty"`
	Budget           int64    `json:"budget,omitempty"`
	Revenue          int64    `json:"revenue,omitempty"`
}

// Show is a full TV show entry from the catalog dataset.
type Show struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name,omitempty"`
	OriginalLanguage string   `json:"original_language,omitempty"`
	OriginCountry    []string `json:"origin_country,omitempty"`
	Overview         string   `json:"overview,omitempty"`
	PosterPath       string   `json:"poster_path,omitempty"`
	BackdropPath     string   `json:"backdrop_path,omitempty"`
	FirstAirDate     string   `json:"first_air_date,omitempty"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count,omitempty"`
	Popularity       float64  `json:"popularity,omitempty"`
	GenreIDs         []int64  `json:"genre_ids,omitempty"`
	Genres           []Genre  `json:"genres,omitempty"`
	Credits          *Credits `json:"credits,omitempty"`
	Videos           *Videos  `json:"videos,omitempty"`
	Tagline          string   `json:"tagline,omitempty"`
	Status           string   `json:"status,omitempty"`
	Type             string   `json:"type,omitempty"`
	NumberOfSeasons  int      `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int      `json:"number_of_episodes,omitempty"`
	EpisodeRunTime   []int    `json:"episode_run_time,omitempty"`
}

// ActorCredit is one title an actor appeared in.
type ActorCredit struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title,omitempty"`
	Name       string  `json:"name,omitempty"`
	MediaType  string  `json:"media_type"`
	Character  string  `json:"character,omitempty"`
	PosterPath string  `json:"poster_path,omitempty"`
	Popularity float64 `json:"popularity,omitempty"`
}

// DisplayTitle returns the title for movies and the name for shows.
func (c ActorCredit) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// Actor is a performer from the catalog dataset.
type Actor struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	ProfilePath        string  `json:"profile_path,omitempty"`
	KnownForDepartment string  `json:"known_for_department,omitempty"`
	Popularity         float64 `json:"popularity,omitempty"`
	Credits            struct {
		Cast []ActorCredit `json:"cast"`
	} `json:"credits"`
}

// Entry is a catalog entry: exactly one of Movie or Show is set, matching Kind.
// The kind is decided once when the entry is built so consumers never have to
// inspect the payload shape.
type Entry struct {
	Kind  MediaKind
	Movie *Movie
	Show  *Show
}

// ErrEmptyEntry is returned when an Entry carries no payload for its kind.
var ErrEmptyEntry = errors.New("entry has no movie or show payload")

// MovieEntry wraps a movie.
func MovieEntry(m Movie) Entry {
	return Entry{Kind: KindMovie, Movie: &m}
}

// ShowEntry wraps a show.
func ShowEntry(s Show) Entry {
	return Entry{Kind: KindShow, Show: &s}
}

// ID returns the catalog id of the entry, or 0 when empty.
func (e Entry) ID() int64 {
	switch {
	case e.Kind == KindMovie && e.Movie != nil:
		return e.Movie.ID
	case e.Kind == KindShow && e.Show != nil:
		return e.Show.ID
	default:
		return 0
	}
}

// Title returns the movie title or the show name.
func (e Entry) Title() string {
	switch {
	case e.Kind == KindMovie && e.Movie != nil:
		return e.Movie.Title
	case e.Kind == KindShow && e.Show != nil:
		return e.Show.Name
	default:
		return ""
	}
}

// Date returns the release date or first air date.
func (e Entry) Date() string {
	switch {
	case e.Kind == KindMovie && e.Movie != nil:
		return e.Movie.ReleaseDate
	case e.Kind == KindShow && e.Show != nil:
		return e.Show.FirstAirDate
	default:
		return ""
	}
}

// Rating returns the average vote.
func (e Entry) Rating() float64 {
	switch {
	case e.Kind == KindMovie && e.Movie != nil:
		return e.Movie.VoteAverage
	case e.Kind == KindShow && e.Show != nil:
		return e.Show.VoteAverage
	default:
		return 0
	}
}

// Popularity returns the TMDB popularity score.
func (e Entry) Popularity() float64 {
	switch {
	case e.Kind == KindMovie && e.Movie != nil:
		return e.Movie.Popularity
	case e.Kind == KindShow && e.Show != nil:
		return e.Show.Popularity
	default:
		return 0
	}
}

// PosterPath returns the partial poster image path.
func (e Entry) PosterPath() string {
	switch {
	case e.Kind == KindMovie && e.Movie != nil:
		return e.Movie.PosterPath
	case e.Kind == KindShow && e.Show != nil:
		return e.Show.PosterPath
	default:
		return ""
	}
}

// Overview returns the synopsis.
func (e Entry) Overview() string {
	switch {
	case e.Kind == KindMovie && e.Movie != nil:
		return e.Movie.Overview
	case e.Kind == KindShow && e.Show != nil:
		return e.Show.Overview
	default:
		return ""
	}
}

// GenreIDs returns the genre ids of the entry.
func (e Entry) GenreIDs() []int64 {
	switch {
	case e.Kind == KindMovie && e.Movie != nil:
		return e.Movie.GenreIDs
	case e.Kind == KindShow && e.Show != nil:
		return e.Show.GenreIDs
	default:
		return nil
	}
}

// Validate checks that the entry payload matches its kind.
func (e Entry) Validate() error {
	if !e.Kind.Valid() {
		return ErrUnknownKind
	}
	if (e.Kind == KindMovie && e.Movie == nil) || (e.Kind == KindShow && e.Show == nil) {
		return ErrEmptyEntry
	}
	if e.ID() <= 0 {
		return ErrInvalidID
	}
	return nil
}

// rawEntry captures the fields needed to discriminate an untyped entry.
type rawEntry struct {
	ID        int64   `json:"id"`
	Title     *string `json:"title"`
	Name      *string `json:"name"`
	MediaType string  `json:"media_type"`
	MediaKind string  `json:"media_kind"`

	hasTitle bool
}

// DecodeEntry decodes an untyped catalog JSON object into an Entry.
// An explicit media_type or media_kind tag wins; otherwise an object with a
// title field is a movie and anything else is a show.
func DecodeEntry(data []byte) (Entry, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Entry{}, fmt.Errorf("decode entry: %w", err)
	}
	var raw rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return Entry{}, fmt.Errorf("decode entry: %w", err)
	}
	// A title key marks a movie even when its value is null.
	_, raw.hasTitle = fields["title"]

	kind, err := discriminate(raw)
	if err != nil {
		return Entry{}, err
	}

	switch kind {
	case KindMovie:
		var m Movie
		if err := json.Unmarshal(data, &m); err != nil {
			return Entry{}, fmt.Errorf("decode movie: %w", err)
		}
		if m.Title == "" && raw.Name != nil {
			m.Title = *raw.Name
		}
		return MovieEntry(m), nil
	default:
		var s Show
		if err := json.Unmarshal(data, &s); err != nil {
			return Entry{}, fmt.Errorf("decode show: %w", err)
		}
		if s.Name == "" && raw.Title != nil {
			s.Name = *raw.Title
		}
		return ShowEntry(s), nil
	}
}

func discriminate(raw rawEntry) (MediaKind, error) {
	tag := raw.MediaKind
	if tag == "" {
		tag = raw.MediaType
	}
	if tag != "" {
		return ParseMediaKind(tag)
	}
	if raw.hasTitle {
		return KindMovie, nil
	}
	return KindShow, nil
}
