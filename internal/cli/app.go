package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdxmph/tasks-tui/internal/config"
	"github.com/pdxmph/tasks-tui/internal/db"
	"github.com/pdxmph/tasks-tui/internal/logging"
	"github.com/pdxmph/tasks-tui/internal/storage"
	"github.com/pdxmph/tasks-tui/internal/tracker"
)

type appMode int

const (
	// appModeInteractive creates a missing database and sends logs to the
	// configured log file, since the TUI owns the terminal
	appModeInteractive appMode = iota
	// appModeBatch requires an existing database and logs warnings to stderr
	appModeBatch
)

// app is everything a command needs once configuration is resolved
type app struct {
	cfg     *config.Config
	db      *db.DB
	log     *logging.Logger
	manager *tracker.Manager
	logFile io.Closer
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.LoadFrom(config.ExpandPath(opts.ConfigPath))
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.DBPath != "" {
		cfg.Database.Path = config.ExpandPath(opts.DBPath)
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	return cfg, nil
}

// openApp resolves config, logging and storage and loads the tracker.
// Batch logs go to stderr.
func openApp(opts *RootOptions, mode appMode, stderr io.Writer) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	if err := a.setupLogging(opts, mode, stderr); err != nil {
		return nil, err
	}

	var kv storage.KV
	switch {
	case opts.Ephemeral:
		kv = storage.NewMemoryKV()
	default:
		if mode == appModeInteractive && !db.Exists(cfg.Database.Path) {
			if err := db.Initialize(cfg.Database.Path); err != nil {
				a.Close()
				return nil, fmt.Errorf("creating database: %w", err)
			}
			a.log.Info("database_created", logging.Fields{"path": cfg.Database.Path})
		}

		database, err := db.Open(cfg.Database.Path)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.db = database
		kv = database
	}

	a.manager = tracker.New(storage.New(kv, a.log), tracker.WithLogger(a.log))
	a.manager.Initialize()
	return a, nil
}

// setupLogging points the process logger at the right sink for mode
func (a *app) setupLogging(opts *RootOptions, mode appMode, stderr io.Writer) error {
	a.log = logging.Default()

	levelName := a.cfg.Log.Level
	if mode == appModeBatch && opts.LogLevel == "" {
		levelName = "warn"
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	a.log.SetLevel(level)

	if mode == appModeBatch || a.cfg.Log.File == "" {
		a.log.SetOutput(stderr)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(a.cfg.Log.File), 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(a.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	a.log.SetOutput(f)
	a.logFile = f
	return nil
}

func (a *app) defaultPriority() tracker.Priority {
	p, err := tracker.ParsePriority(a.cfg.UI.DefaultPriority)
	if err != nil {
		a.log.Warn("config_default_priority_invalid", logging.Fields{"value": a.cfg.UI.DefaultPriority})
		return tracker.PriorityMedium
	}
	return p
}

// Close releases the database and log file
func (a *app) Close() error {
	var firstErr error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
	}
	if a.logFile != nil {
		a.log.SetOutput(os.Stderr)
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}
