// Package catalog loads the vendor's reference product catalog and indexes it
// for exact lookup and token-based candidate pruning.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/model"
	"github.com/Veraticus/winback/internal/normalize"
	"github.com/Veraticus/winback/internal/service"
)

// DefaultMinCandidates is the pruned candidate count under which Candidates
// falls back to the full catalog.
const DefaultMinCandidates = 10

// CatalogLoadError reports a catalog that could not be loaded. It is fatal:
// no matching is possible without a catalog.
type CatalogLoadError struct {
	Err    error
	Source string
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("failed to load catalog from %s: %v", e.Source, e.Err)
}

func (e *CatalogLoadError) Unwrap() error {
	return e.Err
}

// Options configures index construction.
type Options struct {
	// Families are brand-family keywords used to derive CatalogEntry.Family
	// when the source does not provide one. They are normalized on use.
	Families      []string
	Retry         service.RetryOptions
	MinCandidates int
}

// Index is the read-only, shareable catalog index.
type Index struct {
	exact         map[string][]*model.CatalogEntry
	tokens        map[string][]int
	entries       []model.CatalogEntry
	minCandidates int
}

// Load reads the catalog once from src and builds the index.
func Load(ctx context.Context, src Source, opts Options) (*Index, error) {
	if src == nil {
		return nil, &CatalogLoadError{Source: "<nil>", Err: common.ErrUnsupportedSource}
	}

	var entries []model.CatalogEntry
	err := common.WithRetry(ctx, func() error {
		var loadErr error
		entries, loadErr = src.Load(ctx)
		return loadErr
	}, opts.Retry)
	if err != nil {
		return nil, &CatalogLoadError{Source: src.Name(), Err: err}
	}

	idx, err := NewIndex(entries, opts)
	if err != nil {
		return nil, &CatalogLoadError{Source: src.Name(), Err: err}
	}

	slog.Info("Loaded catalog",
		"source", src.Name(),
		"entries", idx.Len(),
		"distinct_names", len(idx.exact),
		"tokens", len(idx.tokens))

	return idx, nil
}

// NewIndex builds an index from already loaded entries. Entries whose name
// normalizes to nothing are skipped; at least one usable entry is required.
func NewIndex(entries []model.CatalogEntry, opts Options) (*Index, error) {
	minCandidates := opts.MinCandidates
	if minCandidates <= 0 {
		minCandidates = DefaultMinCandidates
	}

	families := make([]string, 0, len(opts.Families))
	for _, f := range opts.Families {
		if n := normalize.Normalize(f); n != "" {
			families = append(families, n)
		}
	}

	idx := &Index{
		entries:       make([]model.CatalogEntry, 0, len(entries)),
		exact:         make(map[string][]*model.CatalogEntry),
		tokens:        make(map[string][]int),
		minCandidates: minCandidates,
	}

	for _, e := range entries {
		normalized := normalize.Normalize(e.DisplayName)
		if normalized == "" {
			slog.Debug("Skipping catalog entry with empty name", "display_name", e.DisplayName)
			continue
		}
		e.NormalizedName = normalized
		e.Position = len(idx.entries)
		if e.Family == "" {
			e.Family = deriveFamily(normalized, families)
		}
		idx.entries = append(idx.entries, e)
	}

	if len(idx.entries) == 0 {
		return nil, common.ErrEmptyCatalog
	}

	// Pointers are taken only after the slice stops growing.
	for i := range idx.entries {
		e := &idx.entries[i]
		idx.exact[e.NormalizedName] = append(idx.exact[e.NormalizedName], e)
		for _, tok := range normalize.SignificantTokens(e.NormalizedName) {
			idx.tokens[tok] = append(idx.tokens[tok], i)
		}
	}

	return idx, nil
}

func deriveFamily(normalized string, families []string) string {
	for _, f := range families {
		if normalize.ContainsToken(normalized, f) {
			return f
		}
	}
	return ""
}

// Len returns the number of catalog entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entry returns the entry at catalog position i.
func (idx *Index) Entry(i int) *model.CatalogEntry {
	return &idx.entries[i]
}

// Entries returns every entry in catalog order.
func (idx *Index) Entries() []*model.CatalogEntry {
	out := make([]*model.CatalogEntry, len(idx.entries))
	for i := range idx.entries {
		out[i] = &idx.entries[i]
	}
	return out
}

// LookupExact returns the entries whose normalized name equals normalized,
// in catalog order.
func (idx *Index) LookupExact(normalized string) []*model.CatalogEntry {
	return idx.exact[normalized]
}

// Candidates returns the entries sharing at least one significant token with
// rawText. When fewer than the configured minimum share a token, the full
// catalog is returned.
func (idx *Index) Candidates(rawText string) []*model.CatalogEntry {
	cands, _ := idx.CandidatesNormalized(normalize.Normalize(rawText))
	return cands
}

// CandidatesNormalized is Candidates for already normalized text. The second
// return value reports whether the result was pruned.
func (idx *Index) CandidatesNormalized(normalized string) ([]*model.CatalogEntry, bool) {
	seen := make(map[int]struct{})
	for _, tok := range normalize.SignificantTokens(normalized) {
		for _, i := range idx.tokens[tok] {
			seen[i] = struct{}{}
		}
	}

	if len(seen) < idx.minCandidates {
		return idx.Entries(), false
	}

	positions := make([]int, 0, len(seen))
	for i := range seen {
		positions = append(positions, i)
	}
	sort.Ints(positions)

	out := make([]*model.CatalogEntry, len(positions))
	for j, i := range positions {
		out[j] = &idx.entries[i]
	}
	return out, true
}

// Families returns the distinct non-empty families present in the catalog.
func (idx *Index) Families() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range idx.entries {
		if e.Family == "" {
			continue
		}
		if _, ok := seen[e.Family]; ok {
			continue
		}
		seen[e.Family] = struct{}{}
		out = append(out, e.Family)
	}
	sort.Strings(out)
	return out
}

// IsLoadError reports whether err is a CatalogLoadError.
func IsLoadError(err error) bool {
	var loadErr *CatalogLoadError
	return errors.As(err, &loadErr)
}
