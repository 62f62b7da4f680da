package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/winback/internal/model"
)

// ReplaceCatalog swaps the stored catalog for entries in a single transaction.
// Entries must already carry their normalized names.
func (s *SQLiteStorage) ReplaceCatalog(ctx context.Context, entries []model.CatalogEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCatalogEntries(entries); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_entries`); err != nil {
			return fmt.Errorf("failed to clear catalog: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO catalog_entries (position, display_name, normalized_name, category, family)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for i, e := range entries {
			if _, err := stmt.ExecContext(ctx, i, e.DisplayName, e.NormalizedName, e.Category, e.Family); err != nil {
				return fmt.Errorf("failed to insert catalog entry %q: %w", e.DisplayName, err)
			}
		}
		return nil
	})
}

// LoadCatalog returns the stored catalog in import order.
func (s *SQLiteStorage) LoadCatalog(ctx context.Context) ([]model.CatalogEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, display_name, normalized_name, category, family
		FROM catalog_entries
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.CatalogEntry
	for rows.Next() {
		var e model.CatalogEntry
		if err := rows.Scan(&e.Position, &e.DisplayName, &e.NormalizedName, &e.Category, &e.Family); err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog: %w", err)
	}

	return entries, nil
}

// CountCatalog returns the number of stored catalog entries.
func (s *SQLiteStorage) CountCatalog(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count catalog: %w", err)
	}
	return count, nil
}
