package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archanaprabhat/CineMania/internal/adapter/output"
	"github.com/archanaprabhat/CineMania/internal/config"
)

func TestClipboardCommand(t *testing.T) {
	installed := func(names ...string) func(string) (string, error) {
		return func(name string) (string, error) {
			for _, n := range names {
				if n == name {
					return "/usr/bin/" + n, nil
				}
			}
			return "", errors.New("not found")
		}
	}
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	t.Run("configured command wins", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Clipboard.Command = "my-copy --primary"
		got := clipboardCommand(cfg, env(nil), installed())
		assert.Equal(t, []string{"my-copy", "--primary"}, got)
	})

	t.Run("wayland", func(t *testing.T) {
		got := clipboardCommand(nil, env(map[string]string{"WAYLAND_DISPLAY": "wayland-0", "DISPLAY": ":0"}), installed("wl-copy", "xclip"))
		assert.Equal(t, []string{"wl-copy"}, got)
	})

	t.Run("x11 skips wl-copy without wayland", func(t *testing.T) {
		got := clipboardCommand(nil, env(map[string]string{"DISPLAY": ":0"}), installed("wl-copy", "xsel"))
		assert.Equal(t, []string{"xsel", "--clipboard", "--input"}, got)
	})

	t.Run("macOS", func(t *testing.T) {
		got := clipboardCommand(config.DefaultConfig(), env(nil), installed("pbcopy"))
		assert.Equal(t, []string{"pbcopy"}, got)
	})

	t.Run("nothing", func(t *testing.T) {
		assert.Nil(t, clipboardCommand(nil, env(nil), installed("xclip")))
	})
}

func TestEncodeRows(t *testing.T) {
	rows := []output.Row{{ID: 42, DisplayTitle: "Dune"}, {ID: 7, DisplayTitle: "Severance"}}

	ids, err := encodeRows(rows, output.FormatIDs)
	assert.NoError(t, err)
	assert.Equal(t, "42\n7\n", ids)

	js, err := encodeRows(rows, output.FormatJSON)
	assert.NoError(t, err)
	assert.Contains(t, js, `"display_title": "Dune"`)
}
