// Package testutil provides shared test fixtures for catalog indexes and
// in-memory storage.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/winback/internal/model"
	"github.com/Veraticus/winback/internal/normalize"
	"github.com/Veraticus/winback/internal/service"
	"github.com/Veraticus/winback/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
	Catalog []model.CatalogEntry
}

// SetupTestDB creates a new in-memory test database seeded with the fixture.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.FixtureMinimal)
func SetupTestDB(t *testing.T, f Fixture) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{Catalog: f.Entries()})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, service.Storage) error
	Catalog        []model.CatalogEntry
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	// Create in-memory SQLite storage
	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	catalog := make([]model.CatalogEntry, len(opts.Catalog))
	for i, e := range opts.Catalog {
		if e.NormalizedName == "" {
			e.NormalizedName = normalize.Normalize(e.DisplayName)
		}
		catalog[i] = e
	}
	if len(catalog) > 0 {
		if err := store.ReplaceCatalog(ctx, catalog); err != nil {
			t.Fatalf("failed to seed catalog: %v", err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage: store,
		Catalog: catalog,
		t:       t,
	}
}

// MustLoadCatalog returns the stored catalog or fails the test.
func (db *TestDB) MustLoadCatalog() []model.CatalogEntry {
	db.t.Helper()
	entries, err := db.Storage.LoadCatalog(context.Background())
	if err != nil {
		db.t.Fatalf("failed to load catalog: %v", err)
	}
	return entries
}
