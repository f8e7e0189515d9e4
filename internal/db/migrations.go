package db

import (
	"fmt"

	"github.com/pdxmph/tasks-tui/internal/logging"
)

// currentSchemaVersion tracks PRAGMA user_version:
// 0 - kv(key, value) only
// 1 - created_at / updated_at bookkeeping columns
const currentSchemaVersion = 1

var log = logging.Default().WithComponent("db")

// RunMigrations applies any pending database migrations
func (db *DB) RunMigrations() error {
	var version int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading user_version: %w", err)
	}

	if version < 1 {
		if err := db.runTimestampMigration(); err != nil {
			return err
		}
	}

	if _, err := db.conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("setting user_version: %w", err)
	}

	return nil
}

func (db *DB) runTimestampMigration() error {
	// Databases from before versioning may not even have the table
	if _, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		return fmt.Errorf("ensuring kv table: %w", err)
	}

	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('kv')
		WHERE name IN ('created_at', 'updated_at')
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking for timestamp columns: %w", err)
	}

	if count >= 2 {
		return nil
	}

	log.Info("migration_start", logging.Fields{"migration": "kv_timestamps"})

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	// SQLite refuses non-constant defaults on ALTER TABLE, so backfill instead
	_, err = tx.Exec(`ALTER TABLE kv ADD COLUMN created_at DATETIME`)
	if err != nil && err.Error() != "duplicate column name: created_at" {
		return fmt.Errorf("adding created_at column: %w", err)
	}

	_, err = tx.Exec(`ALTER TABLE kv ADD COLUMN updated_at DATETIME`)
	if err != nil && err.Error() != "duplicate column name: updated_at" {
		return fmt.Errorf("adding updated_at column: %w", err)
	}

	now := db.now().UTC()
	if _, err := tx.Exec(`UPDATE kv SET created_at = ? WHERE created_at IS NULL`, now); err != nil {
		return fmt.Errorf("backfilling created_at: %w", err)
	}
	if _, err := tx.Exec(`UPDATE kv SET updated_at = ? WHERE updated_at IS NULL`, now); err != nil {
		return fmt.Errorf("backfilling updated_at: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	log.Info("migration_complete", logging.Fields{"migration": "kv_timestamps"})
	return nil
}
