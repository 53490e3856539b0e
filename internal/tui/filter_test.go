package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFilterExpression(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected bool
	}{
		// Valid filter expressions
		{"kind_equal", "kind=movie", true},
		{"kind_not_equal", "kind!=show", true},
		{"title_contains", "title~dune", true},
		{"title_regex", "title~=(?i)^the", true},
		{"rating_greater", "rating>8", true},
		{"rating_less_eq", "rating<=5.5", true},
		{"year_range", "year>=2020,year<2023", true},
		{"genre", "genre=drama", true},
		{"added", "added<7d", true},
		{"multiple", "kind=show,rating>=8", true},

		// Plain text search
		{"plain_word", "dune", false},
		{"plain_phrase", "the lord of the rings", false},
		{"email_address", "user@example.com", false},
		{"url", "https://example.com", false},
		{"unknown_field", "director=villeneuve", false},
		{"just_equals", "=value", false},
		{"number", "2049", false},
		{"empty", "", false},

		// Edge cases
		{"bad_number", "rating>high", false},
		{"bad_kind", "kind=podcast", false},
		{"case_insensitive_field", "KIND=movie", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isFilterExpression(tt.query), "query: %q", tt.query)
		})
	}
}
