package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS receipts (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					created_at DATETIME NOT NULL,
					last_updated DATETIME NOT NULL,
					image_path TEXT NOT NULL DEFAULT '',
					vendor_name TEXT NOT NULL DEFAULT '',
					total_amount INTEGER NOT NULL CHECK (total_amount >= 0),
					potential_tax_saving INTEGER NOT NULL DEFAULT 0 CHECK (potential_tax_saving >= 0),
					category TEXT NOT NULL DEFAULT '',
					is_verified INTEGER NOT NULL DEFAULT 0,
					notes TEXT NOT NULL DEFAULT ''
				)`,

				`CREATE TABLE IF NOT EXISTS user_profiles (
					user_id TEXT PRIMARY KEY,
					income_bracket TEXT NOT NULL CHECK (income_bracket IN ('low', 'medium', 'high')),
					filing_status TEXT NOT NULL CHECK (filing_status IN ('single', 'married')),
					created_at DATETIME NOT NULL,
					last_updated DATETIME NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS user_progress (
					user_id TEXT PRIMARY KEY,
					total_receipts_scanned INTEGER NOT NULL DEFAULT 0,
					total_potential_savings INTEGER NOT NULL DEFAULT 0,
					current_streak INTEGER NOT NULL DEFAULT 0,
					longest_streak INTEGER NOT NULL DEFAULT 0,
					last_scan_date DATETIME,
					unlocked_achievement_ids TEXT NOT NULL DEFAULT '[]',
					created_at DATETIME NOT NULL,
					last_updated DATETIME NOT NULL
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add catalog state for achievement unlocks and tip displays",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS achievement_unlocks (
					user_id TEXT NOT NULL,
					achievement_id TEXT NOT NULL,
					unlocked_at DATETIME NOT NULL,
					PRIMARY KEY (user_id, achievement_id)
				)`,
				`CREATE TABLE IF NOT EXISTS tip_displays (
					user_id TEXT NOT NULL,
					tip_id TEXT NOT NULL,
					display_count INTEGER NOT NULL DEFAULT 0 CHECK (display_count >= 0),
					last_updated DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (user_id, tip_id)
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index receipts by user and scan time",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_receipts_user_created ON receipts(user_id, created_at)`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion returns the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
