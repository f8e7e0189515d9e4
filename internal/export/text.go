package export

import (
	"fmt"
	"io"
	"strings"
)

// TextExporter prints the filtered task list, one task per line
type TextExporter struct{}

// Name returns the format identifier
func (TextExporter) Name() string { return "text" }

// Export writes the rows of the snapshot's view in display order
func (TextExporter) Export(w io.Writer, s Snapshot) error {
	if len(s.View.Tasks) == 0 {
		_, err := fmt.Fprintln(w, s.View.EmptyMessage)
		return err
	}

	for _, row := range s.View.Tasks {
		check := "[ ]"
		if row.Task.Completed {
			check = "[x]"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s %s %-6s %s", check, row.Icon, row.Label, row.Task.Title)
		fmt.Fprintf(&b, "  (%s", row.Due)
		if row.Overdue {
			b.WriteString(", overdue")
		}
		b.WriteString(")")
		if row.ProjectName != "" {
			fmt.Fprintf(&b, "  #%s", row.ProjectName)
		}

		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	Register("text", func() Exporter { return TextExporter{} })
}
