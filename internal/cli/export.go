package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdxmph/tasks-tui/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Format string
	Output string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all tasks and projects in another format",
		Long: fmt.Sprintf(`Write all tasks and projects to stdout or a file.

Available formats: %s.
The taskwarrior format can be piped into 'task import'.`, strings.Join(export.Formats(), ", ")),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "json", "output format")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")

	return cmd
}

func runExport(opts *ExportOptions, out, errOut io.Writer) error {
	exporter, err := export.New(opts.Format)
	if err != nil {
		return err
	}

	a, err := openApp(opts.RootOptions, appModeBatch, errOut)
	if err != nil {
		return err
	}
	defer a.Close()

	snap := export.NewSnapshot(a.manager, time.Now())

	if opts.Output == "" {
		return exporter.Export(out, snap)
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := exporter.Export(f, snap); err != nil {
		f.Close()
		return fmt.Errorf("exporting %s: %w", opts.Format, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	fmt.Fprintf(errOut, "Exported %d tasks to %s\n", len(snap.Tasks), opts.Output)
	return nil
}
