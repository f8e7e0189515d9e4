package db

import (
	"fmt"

	"github.com/pdxmph/tasks-tui/internal/logging"
)

// CreateFixturesDatabase creates a fresh database at dbPath and hands it to
// seed to fill with sample data
func CreateFixturesDatabase(dbPath string, seed func(*DB) error) error {
	// Initialize empty database
	if err := Initialize(dbPath); err != nil {
		return fmt.Errorf("initializing fixtures database: %w", err)
	}

	// Open database to add test data
	database, err := Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening fixtures database: %w", err)
	}
	defer database.Close()

	if err := seed(database); err != nil {
		return fmt.Errorf("seeding fixtures: %w", err)
	}

	keys, err := database.Keys()
	if err != nil {
		return fmt.Errorf("listing fixture keys: %w", err)
	}
	log.Info("fixtures_created", logging.Fields{"path": dbPath, "keys": len(keys)})

	return nil
}
