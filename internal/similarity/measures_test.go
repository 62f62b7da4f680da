package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		name        string
		a, b        string
		maxDistance int
		want        int
	}{
		{name: "classic", a: "kitten", b: "sitting", maxDistance: -1, want: 3},
		{name: "empty side", a: "", b: "abc", maxDistance: -1, want: 3},
		{name: "equal", a: "abc", b: "abc", maxDistance: -1, want: 0},
		{name: "runes not bytes", a: "ÉLAN", b: "ELAN", maxDistance: -1, want: 1},
		{name: "bounded within limit", a: "kitten", b: "sitting", maxDistance: 5, want: 3},
		{name: "bounded exact limit", a: "kitten", b: "sitting", maxDistance: 3, want: 3},
		{name: "bounded exceeded", a: "kitten", b: "sitting", maxDistance: 2, want: 3},
		{name: "bounded early exit", a: "abcdef", b: "uvwxyz", maxDistance: 1, want: 2},
		{name: "bounded length gap", a: "a", b: "abcdefgh", maxDistance: 3, want: 4},
		{name: "bounded zero", a: "abc", b: "abc", maxDistance: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EditDistance(tt.a, tt.b, tt.maxDistance))
		})
	}
}

func TestEditDistance_BoundDoesNotChangeResult(t *testing.T) {
	pairs := [][2]string{
		{"ELASTOPHENE FLAM 25 AR", "ELASTOPHENE FLAM 25 AR GRIS 10 X 1"},
		{"SOPRALENE FLAM 180", "SOPRALENE FLAM 250 AR"},
		{"MEMBRANE IKO PREMIUM", "ALSAN 500 P"},
		{"", "PAVATEX"},
	}
	for _, p := range pairs {
		assert.Equal(t, EditDistance(p[0], p[1], -1), EditDistance(p[0], p[1], 1000), "%q vs %q", p[0], p[1])
	}
}

func TestEditScore(t *testing.T) {
	assert.InDelta(t, 66.67, EditScore("ABC", "ABD"), 0.01)
	assert.Equal(t, 100.0, EditScore("", ""))
	assert.Equal(t, 0.0, EditScore("ABC", ""))
	assert.Equal(t, 0.0, EditScore("ABC", "XYZ"))
}

func TestTokenSetScore(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "both empty after filtering", a: "A B", b: "C D", want: 100},
		{name: "partial overlap", a: "FLAM 25", b: "FLAM 40", want: 100.0 / 3},
		{name: "one empty", a: "FLAM", b: "", want: 0},
		{name: "one empty after filtering", a: "X", b: "FLAM", want: 0},
		{name: "order independent", a: "FLAM SOPRALENE", b: "SOPRALENE FLAM", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TokenSetScore(tt.a, tt.b), 0.001)
		})
	}
}

func TestNGramScore(t *testing.T) {
	assert.InDelta(t, 100.0/3, NGramScore("ABCD", "ABCE", 3), 0.001)
	assert.InDelta(t, 100.0, NGramScore("ALSAN", "ALSAN", 0), 0.001)
	assert.InDelta(t, 50.0, NGramScore("AB", "AB CD", 3), 0.001, "short input falls back to token set")
}

func TestLCSScore(t *testing.T) {
	assert.InDelta(t, 60.0, LCSScore("ABCDE", "ACE"), 0.001)
	assert.InDelta(t, 60.0, LCSScore("ACE", "ABCDE"), 0.001)
	assert.Equal(t, 100.0, LCSScore("", ""))
	assert.Equal(t, 0.0, LCSScore("ABC", ""))
}

func TestMeasures_Bounded(t *testing.T) {
	inputs := []string{"", "A", "ALSAN 500 P", "ELASTOPHENE FLAM 25 AR GRIS 10 X 1", "ZZZZ"}
	for _, a := range inputs {
		for _, b := range inputs {
			for _, v := range []float64{EditScore(a, b), TokenSetScore(a, b), NGramScore(a, b, 3), LCSScore(a, b)} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 100.0)
			}
		}
	}
}
