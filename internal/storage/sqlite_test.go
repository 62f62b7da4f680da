package storage

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)

	for _, table := range []string{"catalog_entries", "verification_runs", "verification_items"} {
		var count int
		err := store.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s", table)
	}
}

func TestCatalog_ReplaceAndLoad(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	first := []model.CatalogEntry{
		{DisplayName: "Sopralène Flam 180", NormalizedName: "SOPRALENE FLAM 180", Family: "SOPRALENE"},
		{DisplayName: "ALSAN 500 P", NormalizedName: "ALSAN 500 P", Category: "Liquid", Family: "ALSAN"},
	}
	require.NoError(t, store.ReplaceCatalog(ctx, first))

	second := []model.CatalogEntry{
		{DisplayName: "SOPRAFIX HP", NormalizedName: "SOPRAFIX HP", Family: "SOPRAFIX"},
	}
	require.NoError(t, store.ReplaceCatalog(ctx, second))

	loaded, err := store.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1, "replace drops the previous catalog")
	assert.Equal(t, "SOPRAFIX HP", loaded[0].DisplayName)
	assert.Equal(t, "SOPRAFIX", loaded[0].Family)
	assert.Equal(t, 0, loaded[0].Position)

	count, err := store.CountCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCatalog_ReplaceValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		wantErr error
		name    string
		entries []model.CatalogEntry
	}{
		{name: "nil", entries: nil, wantErr: ErrNilParameter},
		{name: "empty", entries: []model.CatalogEntry{}, wantErr: ErrEmptySlice},
		{name: "missing name", entries: []model.CatalogEntry{{NormalizedName: "X"}}, wantErr: ErrInvalidEntry},
		{name: "not normalized", entries: []model.CatalogEntry{{DisplayName: "x"}}, wantErr: ErrInvalidEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.ReplaceCatalog(ctx, tt.entries)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func testRun() *model.VerificationRun {
	items := []model.VerifiedItem{
		{
			Position: 0,
			Final:    model.BrandOwn,
			Item: model.LineItem{
				Designation: "ELASTOPHENE FLAM 25 AR",
				TotalPrice:  400,
				Guess:       model.BrandCompetitor,
				Extra:       map[string]json.RawMessage{"quantity": json.RawMessage("12")},
			},
			Verification: model.Verification{
				MatchedName:  "ELASTOPHENE FLAM 25 AR - GRIS - 10 m x 1 m",
				Method:       model.MethodFuzzy,
				Details:      "closest match",
				Outcome:      model.OutcomeReclassified,
				Score:        95,
				Threshold:    70,
				Matched:      true,
				Reclassified: true,
			},
		},
		{
			Position: 2,
			Final:    model.BrandCompetitor,
			Item:     model.LineItem{Designation: "Membrane IKO Premium", TotalPrice: 150, Guess: model.BrandCompetitor},
			Verification: model.Verification{
				Method:    model.MethodNone,
				Outcome:   model.OutcomeConfirmedCompetitor,
				Threshold: 70,
			},
		},
	}
	excluded := []model.ExcludedItem{
		{
			Position: 1,
			Reason:   "phrase: TRANSPORT",
			Item:     model.LineItem{Designation: "Frais de transport", TotalPrice: 250, Guess: model.BrandUnknown},
		},
	}

	return &model.VerificationRun{
		Source:    "invoice-42.json",
		Threshold: 70,
		Result: model.BatchResult{
			Items:    items,
			Excluded: excluded,
			Summary: model.VerificationSummary{
				TotalProducts:     3,
				ExcludedCount:     1,
				AnalyzedCount:     2,
				ReclassifiedCount: 1,
				OwnBrandAmount:    400,
				CompetitorAmount:  150,
				ExcludedAmount:    250,
				Accuracy:          0.5,
			},
		},
	}
}

func TestRuns_SaveAndGet(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	run := testRun()
	require.NoError(t, store.SaveRun(ctx, run))
	require.NotEmpty(t, run.ID, "an ID is assigned")
	assert.False(t, run.CreatedAt.IsZero())

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "invoice-42.json", got.Source)
	assert.Equal(t, 70, got.Threshold)
	assert.WithinDuration(t, run.CreatedAt, got.CreatedAt, time.Second)
	assert.Equal(t, run.Result.Summary, got.Result.Summary)
	assert.Equal(t, run.Result.Items, got.Result.Items)
	assert.Equal(t, run.Result.Excluded, got.Result.Excluded)
}

func TestRuns_GetMissing(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetRun(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRuns_SaveDuplicatePosition(t *testing.T) {
	store := createTestStorage(t)

	run := testRun()
	run.Result.Excluded[0].Position = 0
	err := store.SaveRun(context.Background(), run)
	assert.ErrorIs(t, err, ErrInvalidRun)
}

func TestRuns_List(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := testRun()
		run.ID = []string{"a", "b", "c"}[i]
		run.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, store.SaveRun(ctx, run))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
	assert.Equal(t, 3, runs[0].Result.Summary.TotalProducts)
	assert.Empty(t, runs[0].Result.Items, "list does not load items")

	all, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMarkBusy(t *testing.T) {
	busy := markBusy(sqlite3.Error{Code: sqlite3.ErrBusy})
	assert.True(t, common.IsRetryable(busy))

	locked := markBusy(sqlite3.Error{Code: sqlite3.ErrLocked})
	assert.True(t, common.IsRetryable(locked))

	other := errors.New("constraint failed")
	assert.False(t, common.IsRetryable(markBusy(other)))
}
