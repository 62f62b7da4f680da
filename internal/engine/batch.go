package engine

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/model"
	"github.com/Veraticus/winback/internal/report"
)

// VerifyBatch verifies one invoice worth of line items. Exclusion runs first
// and sequentially; surviving items are scored in parallel and returned in
// input order. Cancelling ctx aborts the batch without partial results.
func (v *Verifier) VerifyBatch(ctx context.Context, items []model.LineItem) (*model.BatchResult, error) {
	if v.index == nil {
		return nil, common.ErrCatalogUnavailable
	}
	start := time.Now()

	var (
		excluded  []model.ExcludedItem
		survivors []int
	)
	for i, item := range items {
		if e, ok := v.exclude(i, item); ok {
			excluded = append(excluded, e)
			v.emit(excludedEvent(e))
			continue
		}
		survivors = append(survivors, i)
	}

	verified := make([]model.VerifiedItem, len(survivors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.cfg.Workers)

	for slot, position := range survivors {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item, err := v.verify(gctx, position, items[position])
			if err != nil {
				return err
			}
			verified[slot] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verification batch aborted: %w", err)
	}
	// A cancellation that lands after the last scan still aborts the batch.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("verification batch aborted: %w", err)
	}

	result := &model.BatchResult{
		Items:    verified,
		Excluded: excluded,
		Summary:  report.Summarize(excluded, verified, v.cfg.HighConfidence),
	}

	v.logger.Info("Verified batch",
		"total", result.Summary.TotalProducts,
		"excluded", result.Summary.ExcludedCount,
		"reclassified", result.Summary.ReclassifiedCount,
		"errors", result.Summary.ErrorCount,
		"duration", time.Since(start))

	return result, nil
}
