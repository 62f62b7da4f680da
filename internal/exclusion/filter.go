// Package exclusion recognizes invoice line items that are not products
// (transport, taxes, fees, discounts, packaging) so they can be removed
// before any catalog scoring happens.
package exclusion

import (
	"regexp"
	"strings"

	"github.com/Veraticus/winback/internal/normalize"
)

// Rule names reported in a Decision.
const (
	RuleEmpty      = "empty"
	RuleException  = "exception"
	RulePhrase     = "phrase"
	RulePercentage = "percentage"
	RuleCredit     = "credit"
)

var (
	percentageRe = regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*%|\bt\.v\.a\b|\b(?:tva|vat|remises?|rabais|discounts?)\b`)
	creditRe     = regexp.MustCompile(`(?i)^\s*(?:-\s*\d|\(\s*-?\s*\d|avoir\b|cr[eé]dit\b)`)
)

// Config lists the phrases that exclude an item and the exceptions that
// protect legitimate products from those phrases.
type Config struct {
	Phrases    []string `mapstructure:"phrases"`
	Exceptions []string `mapstructure:"exceptions"`
}

// DefaultConfig returns the curated phrase and exception lists.
func DefaultConfig() Config {
	return Config{
		Phrases:    DefaultPhrases(),
		Exceptions: DefaultExceptions(),
	}
}

// DefaultPhrases returns the curated non-product phrases.
func DefaultPhrases() []string {
	return []string{
		// transport
		"frais de port", "port", "transport", "livraison", "fret", "affretement",
		"messagerie", "freight", "shipping", "delivery",
		// taxes
		"ecotaxe", "eco taxe", "eco participation", "ecoparticipation",
		"eco contribution", "tva", "vat", "taxe", "taxes", "tgap",
		// administrative fees
		"frais administratifs", "frais de dossier", "frais de gestion",
		"frais de facturation", "frais fixes", "minimum de facturation",
		// commission
		"commission",
		// labor and installation services
		"main d oeuvre", "main doeuvre", "main d œuvre", "frais de pose", "pose seule",
		"prestation", "installation", "intervention", "deplacement",
		// packaging and deposits
		"emballage", "palette", "palettes", "consigne", "deconsigne",
		// insurance and warranty
		"assurance", "garantie",
		// discounts and credits
		"remise", "ristourne", "rabais", "escompte", "avoir", "discount", "rebate",
		// down payments
		"acompte", "arrhes", "down payment",
	}
}

// DefaultExceptions returns products whose names resemble excluded phrases.
func DefaultExceptions() []string {
	return []string{
		"tissu de renfort", "armature de renfort", "voile de renfort",
		"grille de renfort", "membrane autocollante", "membrane auto adhesive",
		"membrane adhesive", "bande autocollante", "ecran sous toiture",
	}
}

// Decision explains why an item was or was not excluded.
type Decision struct {
	Rule     string
	Match    string
	Excluded bool
}

// Reason renders the decision for audit output.
func (d Decision) Reason() string {
	switch {
	case d.Rule == "":
		return ""
	case d.Match == "":
		return d.Rule
	default:
		return d.Rule + ": " + d.Match
	}
}

// Filter applies the exclusion rules. It is immutable and safe for
// concurrent use.
type Filter struct {
	phrases    []phrase
	exceptions []phrase
}

// phrase is a normalized rule phrase split into tokens.
type phrase struct {
	text   string
	tokens []string
}

// in reports whether the phrase tokens appear consecutively in tokens. Each
// designation token may carry a plural S or X after the phrase token.
func (p phrase) in(tokens []string) bool {
	for start := 0; start+len(p.tokens) <= len(tokens); start++ {
		matched := true
		for i, want := range p.tokens {
			if !tokenMatches(tokens[start+i], want) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func tokenMatches(got, want string) bool {
	if got == want {
		return true
	}
	return len(got) == len(want)+1 && strings.HasPrefix(got, want) &&
		(got[len(want)] == 'S' || got[len(want)] == 'X')
}

// NewFilter normalizes the configured phrases into a filter.
func NewFilter(cfg Config) *Filter {
	return &Filter{
		phrases:    normalizeAll(cfg.Phrases),
		exceptions: normalizeAll(cfg.Exceptions),
	}
}

func normalizeAll(in []string) []phrase {
	out := make([]phrase, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, p := range in {
		n := normalize.Normalize(p)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, phrase{text: n, tokens: strings.Fields(n)})
	}
	return out
}

// IsExcluded reports whether designation is not a product.
func (f *Filter) IsExcluded(designation string) bool {
	return f.Check(designation).Excluded
}

// Check runs the rules in order: empty text, exceptions, phrases,
// percentage/VAT/discount pattern, leading negative amount or credit.
func (f *Filter) Check(designation string) Decision {
	if strings.TrimSpace(designation) == "" {
		return Decision{Excluded: true, Rule: RuleEmpty}
	}

	normalized := normalize.Normalize(designation)
	if normalized == "" {
		return Decision{Excluded: true, Rule: RuleEmpty, Match: designation}
	}

	tokens := strings.Fields(normalized)
	for _, e := range f.exceptions {
		if e.in(tokens) {
			return Decision{Rule: RuleException, Match: e.text}
		}
	}

	for _, p := range f.phrases {
		if p.in(tokens) {
			return Decision{Excluded: true, Rule: RulePhrase, Match: p.text}
		}
	}

	if m := percentageRe.FindString(designation); m != "" {
		return Decision{Excluded: true, Rule: RulePercentage, Match: strings.TrimSpace(m)}
	}

	if m := creditRe.FindString(designation); m != "" {
		return Decision{Excluded: true, Rule: RuleCredit, Match: strings.TrimSpace(m)}
	}

	return Decision{}
}
