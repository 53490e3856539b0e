package core

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/archanaprabhat/CineMania/internal/model"
)

// FilterOp represents a comparison operator.
type FilterOp string

const (
	FilterOpEqual     FilterOp = "="  // Exact match
	FilterOpNotEqual  FilterOp = "!=" // Not equal
	FilterOpContains  FilterOp = "~"  // Contains substring
	FilterOpRegex     FilterOp = "~=" // Regex match
	FilterOpGreater   FilterOp = ">"  // Greater than
	FilterOpLess      FilterOp = "<"  // Less than
	FilterOpGreaterEq FilterOp = ">=" // Greater than or equal
	FilterOpLessEq    FilterOp = "<=" // Less than or equal
)

// FilterCondition represents a single filter condition.
type FilterCondition struct {
	Field    string   // Field name: title, kind, genre, rating, year, popularity, id, added
	Operator FilterOp // Comparison operator
	Value    string   // Value to compare against

	regex    *regexp.Regexp
	kindVal  model.MediaKind
	numVal   float64
	addedCut time.Time
}

// FilterExpr represents a compound filter expression.
// Multiple conditions are ANDed together.
type FilterExpr struct {
	Conditions []FilterCondition
}

// FilterOptions specifies simple criteria for filtering.
type FilterOptions struct {
	Kind      model.MediaKind // "" = any
	Genre     string          // genre name or slug, "" = any
	MinRating float64         // 0 = any
	Year      int             // 0 = any
	Since     time.Duration   // added within this window (0=all)
	Limit     int             // Maximum results (0=unlimited)
}

// Filter returns the items matching opts, in their original order.
func Filter[T any](items []T, view func(T) Fields, opts FilterOptions) []T {
	now := time.Now()
	genre := model.GenreSlug(opts.Genre)
	result := make([]T, 0, len(items))

	for _, it := range items {
		f := view(it)

		if opts.Kind != "" && f.Kind != opts.Kind {
			continue
		}
		if opts.MinRating > 0 && f.Rating < opts.MinRating {
			continue
		}
		if opts.Year > 0 && f.Year() != opts.Year {
			continue
		}
		if opts.Since > 0 && time.Unix(f.AddedAt, 0).Before(now.Add(-opts.Since)) {
			continue
		}
		if genre != "" && !hasGenre(f.Genres, genre) {
			continue
		}

		result = append(result, it)
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result
}

func hasGenre(genres []string, slug string) bool {
	return slices.ContainsFunc(genres, func(g string) bool {
		return model.GenreSlug(g) == slug
	})
}

// ParseDuration parses a duration string with extended formats.
// Supports: 48h, 7d, 1w, 0 (all time)
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if s == "0" || s == "" {
		return 0, nil
	}

	if daysStr, found := strings.CutSuffix(s, "d"); found {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	if weeksStr, found := strings.CutSuffix(s, "w"); found {
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	return time.ParseDuration(s)
}

// ParseFilter parses a filter expression string into a FilterExpr.
// Format: "field=value,field2~value2,field3>value3"
// Multiple conditions are comma-separated and ANDed together.
//
// Supported fields: title, kind, genre, rating, year, popularity, id, added
// Supported operators: = (equal), != (not equal), ~ (contains), ~= (regex), >, <, >=, <=
//
// Examples:
//   - "title~dune" - title contains "dune"
//   - "kind=movie,rating>=7" - well rated movies
//   - "genre=sci-fi-fantasy" - genre by name or slug
//   - "year>=2020,year<2023"
//   - "added<7d" - added to the watchlist in the last week
func ParseFilter(expr string) (*FilterExpr, error) {
	if expr == "" {
		return &FilterExpr{}, nil
	}

	filter := &FilterExpr{
		Conditions: make([]FilterCondition, 0),
	}

	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		filter.Conditions = append(filter.Conditions, cond)
	}

	return filter, nil
}

// parseCondition parses a single condition like "kind=movie" or "title~dune"
func parseCondition(s string) (FilterCondition, error) {
	// Longest operators first so "!=" is not read as "=".
	operators := []FilterOp{
		FilterOpNotEqual,
		FilterOpGreaterEq,
		FilterOpLessEq,
		FilterOpRegex,
		FilterOpEqual,
		FilterOpContains,
		FilterOpGreater,
		FilterOpLess,
	}

	for _, op := range operators {
		idx := strings.Index(s, string(op))
		if idx > 0 {
			cond := FilterCondition{
				Field:    strings.ToLower(strings.TrimSpace(s[:idx])),
				Operator: op,
				Value:    strings.TrimSpace(s[idx+len(op):]),
			}

			if err := cond.init(); err != nil {
				return FilterCondition{}, err
			}
			return cond, nil
		}
	}

	return FilterCondition{}, fmt.Errorf("invalid filter condition: %s (missing operator)", s)
}

// init pre-parses and validates the condition value.
func (c *FilterCondition) init() error {
	switch c.Field {
	case "title", "name":
		c.Field = "title"
	case "genre", "genres":
		c.Field = "genre"
	case "kind", "type", "media_type":
		c.Field = "kind"
		k, err := model.ParseMediaKind(c.Value)
		if err != nil {
			return err
		}
		c.kindVal = k
	case "rating", "score", "vote":
		c.Field = "rating"
		if err := c.parseNumber(); err != nil {
			return err
		}
	case "year":
		if err := c.parseNumber(); err != nil {
			return err
		}
	case "popularity", "pop":
		c.Field = "popularity"
		if err := c.parseNumber(); err != nil {
			return err
		}
	case "id":
		if err := c.parseNumber(); err != nil {
			return err
		}
	case "added", "added_at":
		c.Field = "added"
		dur, err := ParseDuration(c.Value)
		if err != nil {
			return fmt.Errorf("invalid added value: %w", err)
		}
		c.addedCut = time.Now().Add(-dur)
	default:
		return fmt.Errorf("unknown filter field: %s", c.Field)
	}

	if c.Operator == FilterOpRegex {
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		c.regex = re
	}

	return nil
}

func (c *FilterCondition) parseNumber() error {
	v, err := strconv.ParseFloat(c.Value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s value: %s", c.Field, c.Value)
	}
	c.numVal = v
	return nil
}

// Match tests if f matches the filter expression.
// All conditions must match (AND logic).
func (e *FilterExpr) Match(f Fields) bool {
	for _, cond := range e.Conditions {
		if !cond.Match(f) {
			return false
		}
	}
	return true
}

// Match tests if f matches this single condition.
func (c *FilterCondition) Match(f Fields) bool {
	switch c.Field {
	case "title":
		return c.matchString(f.Title)
	case "kind":
		return c.matchKind(f.Kind)
	case "genre":
		return c.matchGenres(f.Genres)
	case "rating":
		return c.matchNumber(f.Rating)
	case "year":
		return c.matchNumber(float64(f.Year()))
	case "popularity":
		return c.matchNumber(f.Popularity)
	case "id":
		return c.matchNumber(float64(f.ID))
	case "added":
		return c.matchAdded(time.Unix(f.AddedAt, 0))
	default:
		return false
	}
}

// matchString matches a string field. Contains is case and accent insensitive.
func (c *FilterCondition) matchString(fieldValue string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return strings.EqualFold(fieldValue, c.Value)
	case FilterOpNotEqual:
		return !strings.EqualFold(fieldValue, c.Value)
	case FilterOpContains:
		return strings.Contains(Fold(fieldValue), Fold(c.Value))
	case FilterOpRegex:
		return c.regex != nil && c.regex.MatchString(fieldValue)
	default:
		return false
	}
}

func (c *FilterCondition) matchKind(k model.MediaKind) bool {
	switch c.Operator {
	case FilterOpEqual:
		return k == c.kindVal
	case FilterOpNotEqual:
		return k != c.kindVal
	default:
		return false
	}
}

// matchGenres matches when any genre satisfies the condition; "!=" requires none to.
func (c *FilterCondition) matchGenres(genres []string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return hasGenre(genres, model.GenreSlug(c.Value))
	case FilterOpNotEqual:
		return !hasGenre(genres, model.GenreSlug(c.Value))
	case FilterOpContains, FilterOpRegex:
		return slices.ContainsFunc(genres, c.matchString)
	default:
		return false
	}
}

// matchNumber matches a numeric field.
func (c *FilterCondition) matchNumber(fieldValue float64) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.numVal
	case FilterOpNotEqual:
		return fieldValue != c.numVal
	case FilterOpGreater:
		return fieldValue > c.numVal
	case FilterOpLess:
		return fieldValue < c.numVal
	case FilterOpGreaterEq:
		return fieldValue >= c.numVal
	case FilterOpLessEq:
		return fieldValue <= c.numVal
	default:
		return false
	}
}

// matchAdded compares against "now minus the duration": added<7d means newer than a week.
func (c *FilterCondition) matchAdded(fieldValue time.Time) bool {
	switch c.Operator {
	case FilterOpLess:
		return fieldValue.After(c.addedCut)
	case FilterOpLessEq:
		return !fieldValue.Before(c.addedCut)
	case FilterOpGreater:
		return fieldValue.Before(c.addedCut)
	case FilterOpGreaterEq:
		return !fieldValue.After(c.addedCut)
	default:
		return false
	}
}

// FilterWithExpr filters items using a filter expression.
func FilterWithExpr[T any](items []T, view func(T) Fields, expr *FilterExpr) []T {
	if expr == nil || len(expr.Conditions) == 0 {
		return items
	}

	result := make([]T, 0, len(items))
	for _, it := range items {
		if expr.Match(view(it)) {
			result = append(result, it)
		}
	}
	return result
}
