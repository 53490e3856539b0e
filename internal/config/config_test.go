package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "jsonl", cfg.Store.Backend)
	assert.True(t, cfg.Store.Watch)
	assert.Equal(t, 3, cfg.Catalog.SearchLimit)
	assert.Equal(t, "dmenu", cfg.List.Format)
	assert.Equal(t, "added", cfg.Sort.Field)
	assert.Equal(t, "desc", cfg.Sort.Order)
	assert.Equal(t, 3*time.Second, cfg.TUI.Toast.Duration())
	assert.True(t, cfg.TUI.ShowHelp)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.NotEmpty(t, cfg.Templates.Dmenu)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Store.Backend, cfg.Store.Backend)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[store]
backend = "sqlite"
path = "/var/lib/cinemania/watchlist.db"
watch = false

[catalog]
data_dir = "/srv/cinemania/data"
search_limit = 5

[list]
format = "json"
kind = "movie"

[sort]
field = "rating"
order = "asc"

[templates]
dmenu = "{{.Row.DisplayTitle}}"

[templates.custom]
short = "{{.Row.ID}}"

[tui]
toast = "1500ms"

[server]
addr = ":9000"
read_timeout = "2s"

[log]
level = "debug"
file = "/tmp/cinemania.log"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/var/lib/cinemania/watchlist.db", cfg.Store.Path)
	assert.False(t, cfg.Store.Watch)
	assert.Equal(t, "/srv/cinemania/data", cfg.Catalog.DataDir)
	assert.Equal(t, 5, cfg.Catalog.SearchLimit)
	assert.Equal(t, "json", cfg.List.Format)
	assert.Equal(t, "movie", cfg.List.Kind)
	assert.Equal(t, "rating", cfg.Sort.Field)
	assert.Equal(t, "asc", cfg.Sort.Order)
	assert.Equal(t, "{{.Row.DisplayTitle}}", cfg.Templates.Dmenu)
	assert.Equal(t, "{{.Row.ID}}", cfg.Templates.Custom["short"])
	assert.Equal(t, 1500*time.Millisecond, cfg.TUI.Toast.Duration())
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout.Duration())
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout.Duration())
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset sections keep defaults.
	assert.True(t, cfg.TUI.ShowHelp)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store\nbackend ="), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"backend", "[store]\nbackend = \"postgres\"\n"},
		{"format", "[list]\nformat = \"xml\"\n"},
		{"order", "[sort]\norder = \"sideways\"\n"},
		{"level", "[log]\nlevel = \"loud\"\n"},
		{"duration", "[tui]\ntoast = \"soon\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[catalog]\ndata_dir = \"~/movies\"\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "movies"), cfg.Catalog.DataDir)
}

func TestConfig_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Store.Backend = "sqlite"
	cfg.TUI.Toast = Duration(5 * time.Second)
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", loaded.Store.Backend)
	assert.Equal(t, 5*time.Second, loaded.TUI.Toast.Duration())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestConfig_GetTemplate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Templates.Custom["short"] = "{{.Row.ID}}"

	assert.Equal(t, DefaultDmenuTmpl, cfg.GetTemplate("dmenu"))
	assert.Equal(t, "{{.Row.ID}}", cfg.GetTemplate("short"))
	assert.Equal(t, "", cfg.GetTemplate("missing"))
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	assert.Equal(t, "/xdg/config/cinemania/config.toml", ConfigPath())
}

func TestDataPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	assert.Equal(t, "/xdg/data/cinemania", DataPath())
	assert.Equal(t, "/xdg/data/cinemania/data", DefaultConfig().Catalog.DataDir)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("2500")))
	assert.Equal(t, 2500*time.Millisecond, d.Duration())

	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	require.NoError(t, d.UnmarshalText([]byte(" 2d ")))
	assert.Equal(t, 48*time.Hour, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("later")))
	assert.Error(t, d.UnmarshalText([]byte("-5")))
	assert.Error(t, d.UnmarshalText([]byte("-1s")))

	text, err := Duration(3 * time.Second).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "3s", string(text))

	type wrapper struct {
		Toast Duration `toml:"toast"`
	}
	out, err := toml.Marshal(wrapper{Toast: Duration(time.Second)})
	require.NoError(t, err)
	assert.Regexp(t, `toast = ['"]1s['"]`, string(out))
}
