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
		Description: "Catalog entries",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS catalog_entries (
					position INTEGER PRIMARY KEY,
					display_name TEXT NOT NULL,
					normalized_name TEXT NOT NULL,
					category TEXT NOT NULL DEFAULT '',
					family TEXT NOT NULL DEFAULT '',
					imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_catalog_normalized ON catalog_entries(normalized_name)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Verification runs and items",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS verification_runs (
					id TEXT PRIMARY KEY,
					source TEXT NOT NULL DEFAULT '',
					threshold INTEGER NOT NULL,
					summary TEXT NOT NULL,
					created_at DATETIME NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS verification_items (
					run_id TEXT NOT NULL,
					position INTEGER NOT NULL,
					item TEXT NOT NULL,
					final_brand TEXT NOT NULL,
					outcome TEXT NOT NULL,
					matched_name TEXT NOT NULL DEFAULT '',
					method TEXT NOT NULL DEFAULT '',
					score INTEGER NOT NULL DEFAULT 0,
					threshold INTEGER NOT NULL DEFAULT 0,
					matched BOOLEAN NOT NULL DEFAULT 0,
					reclassified BOOLEAN NOT NULL DEFAULT 0,
					details TEXT NOT NULL DEFAULT '',
					error TEXT NOT NULL DEFAULT '',
					PRIMARY KEY (run_id, position),
					FOREIGN KEY (run_id) REFERENCES verification_runs(id) ON DELETE CASCADE
				)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Indexes for run history and outcome queries",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE INDEX idx_runs_created ON verification_runs(created_at)`,
				`CREATE INDEX idx_items_outcome ON verification_items(outcome)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate runs all pending migrations.
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
