package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/winback/internal/model"
)

func verified(designation string, amount float64, guess, final model.Brand, outcome model.Outcome, score int) model.VerifiedItem {
	return model.VerifiedItem{
		Item:  model.LineItem{Designation: designation, TotalPrice: amount, Guess: guess},
		Final: final,
		Verification: model.Verification{
			Outcome:      outcome,
			Score:        score,
			Threshold:    70,
			Matched:      score >= 70,
			Reclassified: outcome == model.OutcomeReclassified,
		},
	}
}

func excludedItem(designation string, amount float64) model.ExcludedItem {
	return model.ExcludedItem{
		Item:   model.LineItem{Designation: designation, TotalPrice: amount},
		Reason: "phrase: TRANSPORT",
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil, 95)

	assert.Equal(t, model.VerificationSummary{}, s)
	assert.Zero(t, s.Accuracy)
}

func TestSummarize_Batch(t *testing.T) {
	excluded := []model.ExcludedItem{
		excludedItem("Frais de transport exceptionnel", 250),
		excludedItem("Eco-participation", 12.5),
	}
	items := []model.VerifiedItem{
		verified("ELASTOPHENE FLAM 25 AR", 400, model.BrandCompetitor, model.BrandOwn, model.OutcomeReclassified, 97),
		verified("SOPRALENE FLAM 180", 300, model.BrandOwn, model.BrandOwn, model.OutcomeConfirmedOwn, 100),
		verified("Membrane XYZ", 150, model.BrandCompetitor, model.BrandCompetitor, model.OutcomeConfirmedCompetitor, 0),
	}

	s := Summarize(excluded, items, 95)

	assert.Equal(t, 5, s.TotalProducts)
	assert.Equal(t, 2, s.ExcludedCount)
	assert.Equal(t, 3, s.AnalyzedCount)
	assert.Equal(t, 1, s.ReclassifiedCount)
	assert.Equal(t, 1, s.ConfirmedOwnCount)
	assert.Equal(t, 1, s.ConfirmedCompetitorCount)
	assert.Equal(t, 2, s.HighConfidenceCount)
	assert.InDelta(t, 700, s.OwnBrandAmount, 0.001)
	assert.InDelta(t, 150, s.CompetitorAmount, 0.001)
	assert.InDelta(t, 262.5, s.ExcludedAmount, 0.001)
	assert.InDelta(t, 400, s.ReclassifiedAmount, 0.001)
	assert.InDelta(t, 2.0/3.0, s.Accuracy, 0.0001)
}

func TestSummarize_CountsErrorsAndUnknownGuesses(t *testing.T) {
	failed := verified("bad", 10, model.BrandUnknown, model.BrandCompetitor, model.OutcomeClassifiedCompetitor, 0)
	failed.Verification.Error = "invalid line item: designation is not valid UTF-8"

	items := []model.VerifiedItem{
		failed,
		verified("SOPRAFIX", 20, model.BrandUnknown, model.BrandOwn, model.OutcomeClassifiedOwn, 88),
		verified("SOPREMA thing", 30, model.BrandOwn, model.BrandOwn, model.OutcomePotentialMisclassification, 40),
	}

	s := Summarize(nil, items, 95)

	assert.Equal(t, 1, s.ErrorCount)
	assert.Equal(t, 1, s.ClassifiedCompetitorCount)
	assert.Equal(t, 1, s.ClassifiedOwnCount)
	assert.Equal(t, 1, s.PotentialMisclassificationCount)
	assert.Zero(t, s.HighConfidenceCount)
	assert.InDelta(t, 50, s.OwnBrandAmount, 0.001)
	assert.InDelta(t, 10, s.CompetitorAmount, 0.001)
}

func TestReconcile(t *testing.T) {
	excluded := []model.ExcludedItem{excludedItem("Transport", 250)}
	items := []model.VerifiedItem{
		verified("A", 100.10, model.BrandCompetitor, model.BrandOwn, model.OutcomeReclassified, 90),
		verified("B", 0.2, model.BrandCompetitor, model.BrandCompetitor, model.OutcomeConfirmedCompetitor, 0),
	}
	input := []model.LineItem{excluded[0].Item, items[0].Item, items[1].Item}

	s := Summarize(excluded, items, 95)
	require.NoError(t, Reconcile(s, input))

	s.OwnBrandAmount += 1
	err := Reconcile(s, input)
	require.ErrorIs(t, err, ErrUnbalanced)

	s = Summarize(excluded, items, 95)
	err = Reconcile(s, input[:2])
	require.ErrorIs(t, err, ErrUnbalanced)
}
