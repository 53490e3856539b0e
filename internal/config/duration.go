package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/archanaprabhat/CineMania/internal/core"
)

// Duration is a time.Duration read from config text.
// Bare integers are milliseconds; otherwise the value is a Go duration or a
// day/week count such as "2d" or "1w".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return fmt.Errorf("invalid duration %q: must not be negative", s)
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := core.ParseDuration(s)
	if err == nil && dur < 0 {
		err = errors.New("must not be negative")
	}
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
