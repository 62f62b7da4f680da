package model

// Outcome is the terminal state of one line item in a verification batch.
type Outcome string

// Outcome constants.
const (
	OutcomeExcluded                   Outcome = "excluded"
	OutcomeReclassified               Outcome = "reclassified"
	OutcomeConfirmedOwn               Outcome = "confirmed-own"
	OutcomeConfirmedCompetitor        Outcome = "confirmed-competitor"
	OutcomePotentialMisclassification Outcome = "potential-misclassification"
	OutcomeClassifiedOwn              Outcome = "classified-own"
	OutcomeClassifiedCompetitor       Outcome = "classified-competitor"
)

// Verification is the audit block attached to every classified line item.
type Verification struct {
	MatchedName  string      `json:"matched_name,omitempty"`
	Method       MatchMethod `json:"method"`
	Details      string      `json:"details"`
	Outcome      Outcome     `json:"outcome"`
	Error        string      `json:"error,omitempty"`
	Score        int         `json:"score"`
	Threshold    int         `json:"threshold"`
	Matched      bool        `json:"matched"`
	Reclassified bool        `json:"reclassified"`
}

// VerifiedItem is a line item together with its final classification.
type VerifiedItem struct {
	Verification Verification `json:"verification"`
	Final        Brand        `json:"final"`
	Item         LineItem     `json:"item"`
	Position     int          `json:"position"`
}

// ExcludedItem is a line item removed before scoring because it is not a product.
type ExcludedItem struct {
	Reason   string   `json:"reason"`
	Item     LineItem `json:"item"`
	Position int      `json:"position"`
}

// VerificationSummary aggregates the outcomes of one batch.
type VerificationSummary struct {
	TotalProducts                   int     `json:"total_products"`
	ExcludedCount                   int     `json:"excluded_count"`
	AnalyzedCount                   int     `json:"analyzed_count"`
	ReclassifiedCount               int     `json:"reclassified_count"`
	ConfirmedOwnCount               int     `json:"confirmed_own_count"`
	ConfirmedCompetitorCount        int     `json:"confirmed_competitor_count"`
	PotentialMisclassificationCount int     `json:"potential_misclassification_count"`
	ClassifiedOwnCount              int     `json:"classified_own_count"`
	ClassifiedCompetitorCount       int     `json:"classified_competitor_count"`
	HighConfidenceCount             int     `json:"high_confidence_count"`
	ErrorCount                      int     `json:"error_count"`
	OwnBrandAmount                  float64 `json:"own_brand_amount"`
	CompetitorAmount                float64 `json:"competitor_amount"`
	ExcludedAmount                  float64 `json:"excluded_amount"`
	ReclassifiedAmount              float64 `json:"reclassified_amount"`
	Accuracy                        float64 `json:"accuracy"`
}

// BatchResult is everything a verification batch produces.
type BatchResult struct {
	Items    []VerifiedItem      `json:"items"`
	Excluded []ExcludedItem      `json:"excluded"`
	Summary  VerificationSummary `json:"summary"`
}
