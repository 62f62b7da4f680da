package normalize

import (
	"testing"
	"unicode/utf8"
)

// FuzzNormalize_Idempotent checks that normalizing twice changes nothing.
func FuzzNormalize_Idempotent(f *testing.F) {
	seedCorpus := []string{
		"Élastophène FLAM-40",
		"SOPRALENE FLAM 180 AR",
		"Frais de port 12,5 %",
		"ǰ",
		"ΐ",
		"ﬁbre ß ǆ",
		"10 m² x 1 m",
		"",
	}
	for _, seed := range seedCorpus {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, in string) {
		if !utf8.ValidString(in) {
			t.Skip()
		}
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(%q) = %q, normalized again = %q", in, once, twice)
		}
	})
}
