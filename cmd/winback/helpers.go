package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/winback/internal/catalog"
	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/config"
	"github.com/Veraticus/winback/internal/model"
	"github.com/Veraticus/winback/internal/storage"
)

// initStorage opens the audit database and runs pending migrations.
func initStorage(ctx context.Context, settings *config.Settings) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadIndex loads the catalog from path when given, falling back to the
// configured catalog file and then to the catalog imported into store.
func loadIndex(ctx context.Context, settings *config.Settings, path string, store *storage.SQLiteStorage) (*catalog.Index, error) {
	if path == "" {
		path = settings.CatalogPath
	}

	var src catalog.Source
	switch {
	case path != "":
		s, err := catalog.SourceForPath(config.ExpandPath(path))
		if err != nil {
			return nil, common.NewUserError("Unsupported catalog file", err)
		}
		src = s
	case store != nil:
		src = catalog.SourceFunc{Fn: store.LoadCatalog, Label: "database " + store.Path()}
	default:
		return nil, common.NewUserError("No catalog configured; pass --catalog or run 'winback catalog import'",
			common.ErrCatalogUnavailable)
	}

	idx, err := catalog.Load(ctx, src, settings.Catalog)
	if err != nil {
		if errors.Is(err, common.ErrEmptyCatalog) && store != nil && path == "" {
			return nil, common.NewUserError("The stored catalog is empty; run 'winback catalog import <file>'", err)
		}
		return nil, common.NewUserError("Catalog could not be loaded, nothing was verified", err)
	}
	return idx, nil
}

// readBatch reads line items from path, or from stdin when path is "-".
func readBatch(path string, stdin io.Reader) ([]model.LineItem, error) {
	if path == "-" {
		return model.DecodeBatch(stdin)
	}

	f, err := os.Open(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open batch: %w", err)
	}
	defer func() { _ = f.Close() }()

	return model.DecodeBatch(f)
}
