// Package storage provides the audit persistence layer for winback.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/winback/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrEmptySlice   = errors.New("slice cannot be empty")
	ErrInvalidRun   = errors.New("invalid verification run")
	ErrInvalidEntry = errors.New("invalid catalog entry")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCatalogEntries validates a catalog import.
func validateCatalogEntries(entries []model.CatalogEntry) error {
	if entries == nil {
		return fmt.Errorf("%w: entries", ErrNilParameter)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: entries", ErrEmptySlice)
	}

	for i, e := range entries {
		if strings.TrimSpace(e.DisplayName) == "" {
			return fmt.Errorf("entry at index %d: %w: missing display name", i, ErrInvalidEntry)
		}
		if strings.TrimSpace(e.NormalizedName) == "" {
			return fmt.Errorf("entry at index %d: %w: missing normalized name", i, ErrInvalidEntry)
		}
	}
	return nil
}

// validateRun validates a verification run before it is saved.
func validateRun(run *model.VerificationRun) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if run.Threshold < 0 || run.Threshold > 100 {
		return fmt.Errorf("%w: threshold %d out of range", ErrInvalidRun, run.Threshold)
	}

	seen := make(map[int]struct{}, len(run.Result.Items)+len(run.Result.Excluded))
	for _, item := range run.Result.Items {
		if _, dup := seen[item.Position]; dup {
			return fmt.Errorf("%w: duplicate position %d", ErrInvalidRun, item.Position)
		}
		seen[item.Position] = struct{}{}
	}
	for _, e := range run.Result.Excluded {
		if _, dup := seen[e.Position]; dup {
			return fmt.Errorf("%w: duplicate position %d", ErrInvalidRun, e.Position)
		}
		seen[e.Position] = struct{}{}
	}
	return nil
}
