package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/model"
	"github.com/Veraticus/winback/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(names ...string) []model.CatalogEntry {
	out := make([]model.CatalogEntry, len(names))
	for i, n := range names {
		out[i] = model.CatalogEntry{DisplayName: n}
	}
	return out
}

func TestNewIndex(t *testing.T) {
	idx, err := NewIndex(entries(
		"ELASTOPHENE FLAM 25 AR - GRIS - 10 m x 1 m",
		"  ",
		"Sopralène Flam 180 AR",
		"SOPRALENE FLAM 180 AR",
	), Options{Families: []string{"ELASTOPHENE", "SOPRALENE"}})
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Len(), "blank names are skipped")
	assert.Equal(t, "ELASTOPHENE FLAM 25 AR GRIS 10 X 1", idx.Entry(0).NormalizedName)
	assert.Equal(t, "ELASTOPHENE", idx.Entry(0).Family)
	assert.Equal(t, "SOPRALENE", idx.Entry(1).Family)

	for i, e := range idx.Entries() {
		assert.Equal(t, i, e.Position)
	}
}

func TestNewIndex_FamiliesAreNormalized(t *testing.T) {
	idx, err := NewIndex(entries(
		"Élastophène Flam 25",
		"ALSAN 500 P",
		"MAMMOUTH NEODYL",
	), Options{Families: []string{"élastophène", "alsan", " "}})
	require.NoError(t, err)

	assert.Equal(t, "ELASTOPHENE", idx.Entry(0).Family)
	assert.Equal(t, "ALSAN", idx.Entry(1).Family)
	assert.Equal(t, "", idx.Entry(2).Family)
	assert.Equal(t, []string{"ALSAN", "ELASTOPHENE"}, idx.Families())
}

func TestNewIndex_Empty(t *testing.T) {
	_, err := NewIndex(entries("", "--"), Options{})
	assert.ErrorIs(t, err, common.ErrEmptyCatalog)

	_, err = NewIndex(nil, Options{})
	assert.ErrorIs(t, err, common.ErrEmptyCatalog)
}

func TestIndex_LookupExact(t *testing.T) {
	idx, err := NewIndex(entries(
		"Sopralène Flam 180 AR",
		"ALSAN 500 P",
		"SOPRALENE FLAM 180 AR",
	), Options{})
	require.NoError(t, err)

	got := idx.LookupExact("SOPRALENE FLAM 180 AR")
	require.Len(t, got, 2)
	assert.Equal(t, "Sopralène Flam 180 AR", got[0].DisplayName, "catalog order is kept")
	assert.Equal(t, "SOPRALENE FLAM 180 AR", got[1].DisplayName)

	assert.Empty(t, idx.LookupExact("ALSAN"))

	for key, list := range idx.exact {
		assert.NotEmpty(t, list, "exact map entry %q", key)
	}
}

func TestIndex_Candidates(t *testing.T) {
	names := make([]string, 0, 30)
	for i := 0; i < 12; i++ {
		names = append(names, fmt.Sprintf("SOPRALENE FLAM %d AR", 100+i))
	}
	for i := 0; i < 12; i++ {
		names = append(names, fmt.Sprintf("ALSAN %d P", 300+i))
	}
	names = append(names, "PAVATEX PAVATHERM 60")

	idx, err := NewIndex(entries(names...), Options{MinCandidates: 10})
	require.NoError(t, err)

	t.Run("pruned to sharing entries", func(t *testing.T) {
		got, pruned := idx.CandidatesNormalized("SOPRALENE FLAM 999")
		assert.True(t, pruned)
		assert.Len(t, got, 12)
		for i := 1; i < len(got); i++ {
			assert.Less(t, got[i-1].Position, got[i].Position)
		}
	})

	t.Run("falls back to full catalog", func(t *testing.T) {
		got, pruned := idx.CandidatesNormalized("PAVATEX PAVATHERM")
		assert.False(t, pruned)
		assert.Len(t, got, idx.Len())
	})

	t.Run("raw text is normalized", func(t *testing.T) {
		assert.Len(t, idx.Candidates("alsan / 400"), 12)
	})

	t.Run("token index entries exist in catalog", func(t *testing.T) {
		for tok, positions := range idx.tokens {
			for _, p := range positions {
				require.Less(t, p, idx.Len(), "token %s", tok)
			}
		}
	})
}

type flakySource struct {
	err   error
	data  []model.CatalogEntry
	fails int
	calls int
}

func (s *flakySource) Load(_ context.Context) ([]model.CatalogEntry, error) {
	s.calls++
	if s.calls <= s.fails {
		return nil, s.err
	}
	return s.data, nil
}

func (s *flakySource) Name() string { return "flaky" }

func TestLoad(t *testing.T) {
	ctx := context.Background()
	retry := service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

	t.Run("success", func(t *testing.T) {
		idx, err := Load(ctx, &flakySource{data: entries("ALSAN 500 P")}, Options{Retry: retry})
		require.NoError(t, err)
		assert.Equal(t, 1, idx.Len())
	})

	t.Run("retries transient errors", func(t *testing.T) {
		src := &flakySource{
			data:  entries("ALSAN 500 P"),
			fails: 2,
			err:   &common.RetryableError{Err: errors.New("database is locked"), Retryable: true},
		}
		idx, err := Load(ctx, src, Options{Retry: retry})
		require.NoError(t, err)
		assert.Equal(t, 3, src.calls)
		assert.Equal(t, 1, idx.Len())
	})

	t.Run("unreadable source", func(t *testing.T) {
		src := &flakySource{fails: 10, err: errors.New("permission denied")}
		_, err := Load(ctx, src, Options{Retry: retry})
		require.Error(t, err)
		assert.True(t, IsLoadError(err))
		assert.Equal(t, 1, src.calls, "plain errors are not retried")
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := Load(ctx, &flakySource{}, Options{Retry: retry})
		require.Error(t, err)
		assert.True(t, IsLoadError(err))
		assert.ErrorIs(t, err, common.ErrEmptyCatalog)
	})

	t.Run("nil source", func(t *testing.T) {
		_, err := Load(ctx, nil, Options{})
		assert.True(t, IsLoadError(err))
	})
}
