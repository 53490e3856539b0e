package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats rows as a YAML sequence.
type YAMLFormatter struct {
	opts FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(opts FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

// Format writes rows as YAML.
func (f *YAMLFormatter) Format(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	return f.FormatSingle(w, rows)
}

// FormatSingle writes a single value as YAML.
func (f *YAMLFormatter) FormatSingle(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
