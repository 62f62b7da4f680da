// Package report aggregates verification outcomes for auditing.
package report

import (
	"errors"
	"fmt"
	"math"

	"github.com/Veraticus/winback/internal/model"
)

// amountTolerance absorbs float rounding when totals are compared.
const amountTolerance = 0.005

// ErrUnbalanced is returned by Reconcile when the summary buckets do not add
// up to the input amounts.
var ErrUnbalanced = errors.New("summary amounts do not reconcile")

// Summarize aggregates a batch. It is a pure function of its inputs and
// returns an all-zero summary for an empty batch.
func Summarize(excluded []model.ExcludedItem, verified []model.VerifiedItem, highConfidence int) model.VerificationSummary {
	s := model.VerificationSummary{
		TotalProducts: len(excluded) + len(verified),
		ExcludedCount: len(excluded),
		AnalyzedCount: len(verified),
	}

	for _, e := range excluded {
		s.ExcludedAmount += e.Item.TotalPrice
	}

	for _, item := range verified {
		v := item.Verification
		amount := item.Item.TotalPrice

		switch v.Outcome {
		case model.OutcomeReclassified:
			s.ReclassifiedCount++
			s.ReclassifiedAmount += amount
		case model.OutcomeConfirmedOwn:
			s.ConfirmedOwnCount++
		case model.OutcomeConfirmedCompetitor:
			s.ConfirmedCompetitorCount++
		case model.OutcomePotentialMisclassification:
			s.PotentialMisclassificationCount++
		case model.OutcomeClassifiedOwn:
			s.ClassifiedOwnCount++
		case model.OutcomeClassifiedCompetitor:
			s.ClassifiedCompetitorCount++
		}

		if item.Final == model.BrandOwn {
			s.OwnBrandAmount += amount
		} else {
			s.CompetitorAmount += amount
		}

		if v.Matched && v.Score >= highConfidence {
			s.HighConfidenceCount++
		}
		if v.Error != "" {
			s.ErrorCount++
		}
	}

	if s.AnalyzedCount > 0 {
		s.Accuracy = float64(s.HighConfidenceCount) / float64(s.AnalyzedCount)
	}

	return s
}

// Reconcile checks that own-brand, competitor and excluded amounts add up
// to the sum of the input amounts.
func Reconcile(s model.VerificationSummary, items []model.LineItem) error {
	var input float64
	for _, item := range items {
		input += item.TotalPrice
	}

	got := s.OwnBrandAmount + s.CompetitorAmount + s.ExcludedAmount
	if math.Abs(got-input) > amountTolerance {
		return fmt.Errorf("%w: own %.2f + competitor %.2f + excluded %.2f = %.2f, input %.2f",
			ErrUnbalanced, s.OwnBrandAmount, s.CompetitorAmount, s.ExcludedAmount, got, input)
	}
	if s.TotalProducts != len(items) {
		return fmt.Errorf("%w: summary counts %d items, input has %d",
			ErrUnbalanced, s.TotalProducts, len(items))
	}
	return nil
}
