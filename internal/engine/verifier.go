// Package engine verifies invoice line items against the vendor catalog and
// reclassifies competitor guesses that match an own-brand product.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/winback/internal/catalog"
	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/exclusion"
	"github.com/Veraticus/winback/internal/model"
	"github.com/Veraticus/winback/internal/normalize"
	"github.com/Veraticus/winback/internal/similarity"
)

// scanCheckInterval is how many entries are scored between context checks.
const scanCheckInterval = 256

// Verifier classifies line items against a shared, read-only catalog index.
// A Verifier holds no mutable state and may serve concurrent batches.
type Verifier struct {
	index     *catalog.Index
	filter    *exclusion.Filter
	scorer    *similarity.Scorer
	logger    *slog.Logger
	observers []Observer
	cfg       Config
}

// Option customizes a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger used for batch-level messages.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// WithObserver registers an observer for per-item events.
func WithObserver(o Observer) Option {
	return func(v *Verifier) {
		v.observers = append(v.observers, o)
	}
}

// New creates a verifier. A nil index is accepted so that callers can keep
// running after a failed catalog load, but every call then fails with
// common.ErrCatalogUnavailable. Nil filter and scorer fall back to defaults.
func New(index *catalog.Index, filter *exclusion.Filter, scorer *similarity.Scorer, cfg Config, opts ...Option) (*Verifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if filter == nil {
		filter = exclusion.NewFilter(exclusion.DefaultConfig())
	}
	if scorer == nil {
		s, err := similarity.NewScorer(similarity.DefaultConfig())
		if err != nil {
			return nil, err
		}
		scorer = s
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}

	v := &Verifier{
		index:  index,
		filter: filter,
		scorer: scorer,
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Config returns the verifier configuration.
func (v *Verifier) Config() Config {
	return v.cfg
}

// Match finds the best catalog entry for a designation. Stages run in order:
// exact lookup, flagship keyword priority, fuzzy scan. A fuzzy best under the
// noise floor yields method none with score 0.
func (v *Verifier) Match(ctx context.Context, designation string) (model.MatchResult, error) {
	if v.index == nil {
		return model.MatchResult{}, common.ErrCatalogUnavailable
	}
	if !utf8.ValidString(designation) {
		return noMatch("designation is not valid UTF-8"),
			fmt.Errorf("%w: designation is not valid UTF-8", common.ErrInvalidLineItem)
	}

	normalized := normalize.Normalize(designation)
	if normalized == "" {
		return noMatch("designation is empty after normalization"),
			fmt.Errorf("%w: empty designation", common.ErrInvalidLineItem)
	}

	if exact := v.index.LookupExact(normalized); len(exact) > 0 {
		return model.MatchResult{
			Matched: true,
			Score:   100,
			Entry:   exact[0],
			Method:  model.MethodExact,
			Details: fmt.Sprintf("normalized designation equals catalog name %q", exact[0].DisplayName),
		}, nil
	}

	best, breakdown, err := v.scan(ctx, normalized)
	if err != nil {
		return noMatch("scan interrupted"), err
	}

	if breakdown.Flagship {
		return model.MatchResult{
			Matched: breakdown.Score >= v.cfg.Threshold,
			Score:   breakdown.Score,
			Entry:   best,
			Method:  model.MethodKeywordPriority,
			Details: fmt.Sprintf("flagship brand keyword present; closest %q (%s)", best.DisplayName, breakdown),
		}, nil
	}

	if best == nil || breakdown.Score < v.cfg.NoiseFloor {
		details := "no catalog entry scored above the noise floor"
		if best != nil {
			details = fmt.Sprintf("closest %q scored %d, below noise floor %d", best.DisplayName, breakdown.Score, v.cfg.NoiseFloor)
		}
		return noMatch(details), nil
	}

	return model.MatchResult{
		Matched: breakdown.Score >= v.cfg.Threshold,
		Score:   breakdown.Score,
		Entry:   best,
		Method:  model.MethodFuzzy,
		Details: fmt.Sprintf("closest %q (%s)", best.DisplayName, breakdown),
	}, nil
}

func noMatch(details string) model.MatchResult {
	return model.MatchResult{Method: model.MethodNone, Details: details}
}

// scan returns the first entry in catalog order with the highest score.
// Pruning only changes the order entries are scored in: candidates sharing a
// token go first, and the rest of the catalog is skipped only when a
// candidate reaches 100 and no earlier entry could tie it.
func (v *Verifier) scan(ctx context.Context, normalized string) (*model.CatalogEntry, similarity.Breakdown, error) {
	entries := v.index.Entries()
	if v.cfg.MaxScan > 0 && len(entries) > v.cfg.MaxScan {
		entries = entries[:v.cfg.MaxScan]
	}
	if !v.cfg.Pruning {
		return v.scoreAll(ctx, normalized, entries)
	}

	candidates, pruned := v.index.CandidatesNormalized(normalized)
	if !pruned {
		return v.scoreAll(ctx, normalized, entries)
	}

	limit := len(entries)
	inCandidates := make(map[int]struct{}, len(candidates))
	first := make([]*model.CatalogEntry, 0, len(candidates))
	for _, c := range candidates {
		if c.Position < limit {
			first = append(first, c)
			inCandidates[c.Position] = struct{}{}
		}
	}

	best, breakdown, err := v.scoreAll(ctx, normalized, first)
	if err != nil {
		return nil, similarity.Breakdown{}, err
	}

	if best != nil && breakdown.Score == 100 {
		limit = best.Position
	}
	rest := make([]*model.CatalogEntry, 0, limit)
	for _, e := range entries[:limit] {
		if _, ok := inCandidates[e.Position]; !ok {
			rest = append(rest, e)
		}
	}

	other, otherBreakdown, err := v.scoreAll(ctx, normalized, rest)
	if err != nil {
		return nil, similarity.Breakdown{}, err
	}
	if other != nil && (best == nil || otherBreakdown.Score > breakdown.Score ||
		(otherBreakdown.Score == breakdown.Score && other.Position < best.Position)) {
		best, breakdown = other, otherBreakdown
	}

	return best, breakdown, nil
}

func (v *Verifier) scoreAll(ctx context.Context, normalized string, candidates []*model.CatalogEntry) (*model.CatalogEntry, similarity.Breakdown, error) {
	var (
		best      *model.CatalogEntry
		breakdown similarity.Breakdown
	)
	for i, entry := range candidates {
		if i%scanCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, similarity.Breakdown{}, err
			}
		}

		b := v.scorer.Score(normalized, entry.NormalizedName)
		if best == nil || b.Score > breakdown.Score {
			best, breakdown = entry, b
			if b.Score == 100 {
				break
			}
		}
	}

	return best, breakdown, nil
}

// VerifyItem verifies a single line item. Excluded items come back with
// OutcomeExcluded; per-item scoring failures come back as a no-match with
// Verification.Error set. Only catalog unavailability and cancellation of
// ctx are returned as errors.
func (v *Verifier) VerifyItem(ctx context.Context, item model.LineItem) (model.VerifiedItem, error) {
	if v.index == nil {
		return model.VerifiedItem{}, common.ErrCatalogUnavailable
	}

	if excluded, ok := v.exclude(0, item); ok {
		v.emit(excludedEvent(excluded))
		return model.VerifiedItem{
			Item:  item,
			Final: item.Guess,
			Verification: model.Verification{
				Method:    model.MethodNone,
				Outcome:   model.OutcomeExcluded,
				Details:   excluded.Reason,
				Threshold: v.cfg.Threshold,
			},
		}, nil
	}

	return v.verify(ctx, 0, item)
}

// exclude applies the item validity checks and the exclusion filter.
func (v *Verifier) exclude(position int, item model.LineItem) (model.ExcludedItem, bool) {
	reason := ""
	switch {
	case item.Invalid != "":
		reason = fmt.Sprintf("%s: %s", common.ErrInvalidLineItem, item.Invalid)
	case item.TotalPrice < 0:
		reason = fmt.Sprintf("%s: negative total_price", exclusion.RuleCredit)
	default:
		if d := v.filter.Check(item.Designation); d.Excluded {
			reason = d.Reason()
		}
	}
	if reason == "" {
		return model.ExcludedItem{}, false
	}

	return model.ExcludedItem{Item: item, Position: position, Reason: reason}, true
}

func excludedEvent(e model.ExcludedItem) Event {
	return Event{
		Kind:        EventExcluded,
		Position:    e.Position,
		Designation: e.Item.Designation,
		Outcome:     model.OutcomeExcluded,
		Reason:      e.Reason,
	}
}

// verify scores one surviving item and applies the decision rule.
func (v *Verifier) verify(ctx context.Context, position int, item model.LineItem) (model.VerifiedItem, error) {
	start := time.Now()

	itemCtx := ctx
	if v.cfg.ItemTimeout > 0 {
		var cancel context.CancelFunc
		itemCtx, cancel = context.WithTimeout(ctx, v.cfg.ItemTimeout)
		defer cancel()
	}

	result, err := v.Match(itemCtx, item.Designation)
	if err != nil {
		if errors.Is(err, common.ErrCatalogUnavailable) {
			return model.VerifiedItem{}, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.VerifiedItem{}, ctxErr
		}
		result = noMatch(result.Details)
	}

	final, outcome, reclassified := decide(item.Guess, result)

	verified := model.VerifiedItem{
		Item:     item,
		Final:    final,
		Position: position,
		Verification: model.Verification{
			Score:        result.Score,
			MatchedName:  result.MatchedName(),
			Method:       result.Method,
			Threshold:    v.cfg.Threshold,
			Details:      result.Details,
			Outcome:      outcome,
			Matched:      result.Matched,
			Reclassified: reclassified,
		},
	}
	if err != nil {
		verified.Verification.Error = err.Error()
	}

	v.emit(Event{
		Kind:        eventKind(result, err),
		Position:    position,
		Designation: item.Designation,
		Score:       result.Score,
		MatchedName: result.MatchedName(),
		Outcome:     outcome,
		Reason:      result.Details,
		Err:         err,
		Elapsed:     time.Since(start),
	})

	return verified, nil
}

// decide applies the reconciliation rule. Items only ever move toward
// own-brand: the catalog lists own products only, so a missing match is not
// evidence of a competitor product.
func decide(guess model.Brand, result model.MatchResult) (model.Brand, model.Outcome, bool) {
	if result.Matched {
		switch guess {
		case model.BrandOwn:
			return model.BrandOwn, model.OutcomeConfirmedOwn, false
		case model.BrandCompetitor:
			return model.BrandOwn, model.OutcomeReclassified, true
		default:
			return model.BrandOwn, model.OutcomeClassifiedOwn, false
		}
	}

	switch guess {
	case model.BrandOwn:
		return model.BrandOwn, model.OutcomePotentialMisclassification, false
	case model.BrandCompetitor:
		return model.BrandCompetitor, model.OutcomeConfirmedCompetitor, false
	default:
		return model.BrandCompetitor, model.OutcomeClassifiedCompetitor, false
	}
}

func eventKind(result model.MatchResult, err error) EventKind {
	if err != nil {
		return EventError
	}
	switch result.Method {
	case model.MethodExact:
		return EventExact
	case model.MethodKeywordPriority:
		return EventKeyword
	case model.MethodFuzzy:
		return EventFuzzy
	default:
		return EventNoMatch
	}
}

func (v *Verifier) emit(e Event) {
	for _, o := range v.observers {
		o.Observe(e)
	}
}
