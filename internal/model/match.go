package model

// MatchMethod tags how a match result was produced.
type MatchMethod string

// Match method constants.
const (
	MethodExact           MatchMethod = "exact"
	MethodKeywordPriority MatchMethod = "keyword-priority"
	MethodFuzzy           MatchMethod = "fuzzy"
	MethodNone            MatchMethod = "none"
)

// MatchResult is the outcome of scoring one designation against the catalog.
type MatchResult struct {
	Entry   *CatalogEntry `json:"-"`
	Method  MatchMethod   `json:"method"`
	Details string        `json:"details"`
	Score   int           `json:"score"`
	Matched bool          `json:"matched"`
}

// MatchedName returns the display name of the winning entry, or "".
func (r MatchResult) MatchedName() string {
	if r.Entry == nil {
		return ""
	}
	return r.Entry.DisplayName
}
