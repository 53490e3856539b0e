package output

import (
	"fmt"
	"io"
)

// IDsFormatter outputs just the catalog ids, one per line.
// Useful for piping to other commands (e.g., cinemania remove --stdin).
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// Format writes ids to the writer, one per line.
func (f *IDsFormatter) Format(w io.Writer, rows []Row) error {
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, r.ID); err != nil {
			return err
		}
	}
	return nil
}
