package tui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/archanaprabhat/CineMania/internal/adapter/output"
	"github.com/archanaprabhat/CineMania/internal/config"
)

const clipboardTimeout = 5 * time.Second

var errNoClipboard = errors.New("no clipboard command available (set [clipboard] command)")

// clipboardTool is a command that reads the clipboard contents from stdin.
type clipboardTool struct {
	env  string // only used when this variable is set, "" = always
	argv []string
}

// clipboardTools are tried in order.
var clipboardTools = []clipboardTool{
	{env: "WAYLAND_DISPLAY", argv: []string{"wl-copy"}},
	{env: "DISPLAY", argv: []string{"xclip", "-selection", "clipboard"}},
	{env: "DISPLAY", argv: []string{"xsel", "--clipboard", "--input"}},
	{argv: []string{"pbcopy"}},
}

// copyText pipes text into the clipboard command.
func copyText(text string, cfg *config.Config) error {
	argv := clipboardCommand(cfg, os.Getenv, exec.LookPath)
	if len(argv) == 0 {
		return errNoClipboard
	}

	ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
	defer cancel()

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdin = strings.NewReader(text)
	return c.Run()
}

// clipboardCommand returns the configured command, or the first installed
// tool whose display server is running.
func clipboardCommand(cfg *config.Config, getenv func(string) string, lookPath func(string) (string, error)) []string {
	if cfg != nil {
		if argv := strings.Fields(cfg.Clipboard.Command); len(argv) > 0 {
			return argv
		}
	}

	for _, t := range clipboardTools {
		if t.env != "" && getenv(t.env) == "" {
			continue
		}
		if _, err := lookPath(t.argv[0]); err == nil {
			return t.argv
		}
	}
	return nil
}

// encodeRows renders rows in a clipboard format.
func encodeRows(rows []output.Row, format output.FormatType) (string, error) {
	var buf bytes.Buffer
	if err := output.NewFormatter(format, output.FormatterOptions{}).Format(&buf, rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}
