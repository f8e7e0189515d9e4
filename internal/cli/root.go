package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pdxmph/tasks-tui/internal/tui"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	Ephemeral  bool
}

// NewRootCommand creates the root command. Run without a subcommand it
// starts the interactive tracker.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tasks-tui",
		Short: "A terminal task and project tracker",
		Long: `A terminal task and project tracker.

Tasks carry a title, description, due date and priority and may belong to a
project. Everything is kept in a local SQLite database.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, cmd.ErrOrStderr())
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/tasks-tui/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "database path (overrides the config file)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&opts.Ephemeral, "ephemeral", false, "keep data in memory only")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewFixturesCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

func runTUI(opts *RootOptions, stderr io.Writer) error {
	a, err := openApp(opts, appModeInteractive, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.New(a.manager, a.defaultPriority())

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
