package normalize

import "strings"

// MinSignificantLength is the shortest token used for candidate pruning.
const MinSignificantLength = 3

// stopwords are normalized filler words ignored when indexing tokens.
var stopwords = map[string]struct{}{
	"LE": {}, "LA": {}, "LES": {}, "DE": {}, "DU": {}, "DES": {}, "ET": {},
	"EN": {}, "UN": {}, "UNE": {}, "AU": {}, "AUX": {}, "POUR": {}, "AVEC": {},
	"SUR": {}, "PAR": {}, "SANS": {}, "THE": {}, "AND": {}, "FOR": {},
	"WITH": {}, "OF": {},
}

// IsStopword reports whether a normalized token is a stopword.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

// Tokens splits normalized text into tokens of at least minLen runes.
func Tokens(normalized string, minLen int) []string {
	fields := strings.Fields(normalized)
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= minLen {
			out = append(out, f)
		}
	}
	return out
}

// SignificantTokens returns the distinct tokens worth indexing: at least
// MinSignificantLength runes and not a stopword, in first-seen order.
func SignificantTokens(normalized string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range Tokens(normalized, MinSignificantLength) {
		if IsStopword(t) {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ContainsToken reports whether normalized text contains token as a whole word.
func ContainsToken(normalized, token string) bool {
	if token == "" {
		return false
	}
	return strings.Contains(" "+normalized+" ", " "+token+" ")
}
