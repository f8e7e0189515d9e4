package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdxmph/tasks-tui/internal/config"
	"github.com/pdxmph/tasks-tui/internal/db"
	"github.com/pdxmph/tasks-tui/internal/storage"
	"github.com/pdxmph/tasks-tui/internal/tracker"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty database",
		Long: `Create an empty database at the configured path.

A config file with the default settings is written too if none exists yet.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			if err := db.Initialize(cfg.Database.Path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database created at %s\n", cfg.Database.Path)

			written, path, err := writeDefaultConfig(rootOpts, cfg)
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			}
			return nil
		},
	}
}

// writeDefaultConfig saves cfg unless a config file is already present
func writeDefaultConfig(opts *RootOptions, cfg *config.Config) (bool, string, error) {
	if opts.ConfigPath == "" {
		path := filepath.Join(config.Dir(), "config.toml")
		if _, err := os.Stat(path); err == nil {
			return false, path, nil
		}
		return true, path, cfg.Save()
	}

	path := config.ExpandPath(opts.ConfigPath)
	if _, err := os.Stat(path); err == nil {
		return false, path, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, path, fmt.Errorf("creating config directory: %w", err)
	}
	return true, path, cfg.SaveTo(path)
}

// NewFixturesCommand creates the fixtures command.
func NewFixturesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures <path>",
		Short: "Create a database filled with sample data",
		Long: `Create a new database at <path> with sample projects and tasks.

Due dates are relative to today, so some tasks are overdue and some are
coming up. Point the tracker at it with --db.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			a := &app{cfg: cfg}
			if err := a.setupLogging(rootOpts, appModeBatch, cmd.ErrOrStderr()); err != nil {
				return err
			}

			path := config.ExpandPath(args[0])
			today := tracker.DateOf(time.Now())

			err = db.CreateFixturesDatabase(path, func(d *db.DB) error {
				m := tracker.New(storage.New(d, a.log), tracker.WithLogger(a.log))
				m.Initialize()
				return tracker.Seed(m, today)
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Fixtures database created at %s\n", path)
			return nil
		},
	}
}
