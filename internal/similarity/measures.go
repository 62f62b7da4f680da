// Package similarity implements the string similarity measures used to match
// invoice designations against catalog names. Every measure takes two
// normalized strings and returns a score between 0 and 100.
package similarity

import (
	"github.com/Veraticus/winback/internal/normalize"
	"github.com/agnivade/levenshtein"
)

// DefaultNGramSize is the n used by the character n-gram measure.
const DefaultNGramSize = 3

// EditDistance returns the Levenshtein distance between a and b over runes.
// A negative maxDistance means unbounded. Otherwise the computation stops as
// soon as every cell of a DP row exceeds maxDistance and returns maxDistance+1;
// distances up to maxDistance are exact.
func EditDistance(a, b string, maxDistance int) int {
	if maxDistance < 0 {
		return levenshtein.ComputeDistance(a, b)
	}

	ra, rb := []rune(a), []rune(b)
	if abs(len(ra)-len(rb)) > maxDistance {
		return maxDistance + 1
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			rowMin = min(rowMin, cur[j])
		}
		if rowMin > maxDistance {
			return maxDistance + 1
		}
		prev, cur = cur, prev
	}

	if prev[len(rb)] > maxDistance {
		return maxDistance + 1
	}
	return prev[len(rb)]
}

// EditScore is the edit distance normalized to 0..100 by the longer length.
func EditScore(a, b string) float64 {
	maxLen := max(runeLen(a), runeLen(b))
	if maxLen == 0 {
		return 100
	}
	d := EditDistance(a, b, -1)
	return max(0, (1-float64(d)/float64(maxLen))*100)
}

// TokenSetScore is the Jaccard overlap of the tokens of length >= 2.
// It is 100 when both token sets are empty and 0 when exactly one is.
func TokenSetScore(a, b string) float64 {
	return jaccard(toSet(normalize.Tokens(a, 2)), toSet(normalize.Tokens(b, 2)))
}

// NGramScore is the Jaccard overlap of the character n-grams of a and b.
// Inputs shorter than n fall back to TokenSetScore.
func NGramScore(a, b string, n int) float64 {
	if n <= 0 {
		n = DefaultNGramSize
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < n || len(rb) < n {
		return TokenSetScore(a, b)
	}
	return jaccard(ngrams(ra, n), ngrams(rb, n))
}

// LCSScore is the longest common subsequence length over the longer length.
func LCSScore(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	maxLen := max(len(ra), len(rb))
	if maxLen == 0 {
		return 100
	}
	return float64(lcsLength(ra, rb)) / float64(maxLen) * 100
}

func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else {
				cur[j] = max(prev[j], cur[j-1])
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func ngrams(r []rune, n int) map[string]struct{} {
	set := make(map[string]struct{}, len(r)-n+1)
	for i := 0; i+n <= len(r); i++ {
		set[string(r[i:i+n])] = struct{}{}
	}
	return set
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union) * 100
}

func runeLen(s string) int {
	return len([]rune(s))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
