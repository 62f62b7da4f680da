package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "  \t ", want: ""},
		{name: "uppercases", input: "sopralene flam", want: "SOPRALENE FLAM"},
		{name: "punctuation becomes space", input: "FLAM-40/AR.", want: "FLAM 40 AR"},
		{name: "accents folded", input: "Élastophène", want: "ELASTOPHENE"},
		{name: "folded before uppercasing", input: "ǰ ΐ", want: "J Ι"},
		{name: "standalone units dropped", input: "ROULEAU 10 m x 1 m", want: "ROULEAU 10 X 1"},
		{name: "square and cubic metres dropped", input: "Isolant 5 m² et 2 m³", want: "ISOLANT 5 ET 2"},
		{name: "glued units kept", input: "PANNEAU 120MM", want: "PANNEAU 120MM"},
		{name: "collapses whitespace", input: "  ALSAN   500  \n P ", want: "ALSAN 500 P"},
		{name: "catalog style name", input: "ELASTOPHENE FLAM 25 AR - GRIS - 10 m x 1 m", want: "ELASTOPHENE FLAM 25 AR GRIS 10 X 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Élastophène FLAM-40",
		"ELASTOPHENE FLAM 25 AR - GRIS - 10 m x 1 m",
		"Frais de transport (exceptionnel) 12,5 %",
		"m m m",
		"ǆungla ﬁbre ß",
		"ǰ",
		"ΐ",
		"Ǯ ǰ ΰ ẖ",
		"  -- ",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_CaseAndPunctuationInsensitive(t *testing.T) {
	assert.Equal(t, Normalize("elastophene flam 40"), Normalize("Élastophène FLAM-40"))
	assert.Equal(t, Normalize("Sopralène, Flam 180!"), Normalize("SOPRALENE FLAM 180"))
}

func TestSignificantTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "drops short tokens", input: "ALSAN 500 P", want: []string{"ALSAN", "500"}},
		{name: "drops stopwords", input: "BANDE DE RENFORT POUR ANGLE", want: []string{"BANDE", "RENFORT", "ANGLE"}},
		{name: "deduplicates", input: "FLAM FLAM 180", want: []string{"FLAM", "180"}},
		{name: "empty", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SignificantTokens(tt.input))
		})
	}
}

func TestContainsToken(t *testing.T) {
	assert.True(t, ContainsToken("MEMBRANE SOPREMA FLAM", "SOPREMA"))
	assert.True(t, ContainsToken("SOPREMA", "SOPREMA"))
	assert.False(t, ContainsToken("SOPREMAX FLAM", "SOPREMA"))
	assert.False(t, ContainsToken("SOPREMA", ""))
}
