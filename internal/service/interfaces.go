// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/winback/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Catalog operations
	ReplaceCatalog(ctx context.Context, entries []model.CatalogEntry) error
	LoadCatalog(ctx context.Context) ([]model.CatalogEntry, error)
	CountCatalog(ctx context.Context) (int, error)

	// Verification run operations
	SaveRun(ctx context.Context, run *model.VerificationRun) error
	GetRun(ctx context.Context, id string) (*model.VerificationRun, error)
	ListRuns(ctx context.Context, limit int) ([]model.VerificationRun, error)

	// Maintenance
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
