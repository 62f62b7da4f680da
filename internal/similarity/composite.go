package similarity

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/normalize"
)

// BrandPolicy selects how the flagship brand keyword affects a score.
type BrandPolicy string

// Brand policy constants.
const (
	// BrandFloor raises the score to at least BrandFloor.
	BrandFloor BrandPolicy = "floor"
	// BrandAdditive adds BrandBonus before clamping.
	BrandAdditive BrandPolicy = "additive"
)

// Length buckets, chosen from the query length in runes.
const (
	BucketShort  = "short"
	BucketMedium = "medium"
	BucketLong   = "long"
)

// Weights blends the four measures. They are normalized by their sum.
type Weights struct {
	Edit     float64 `mapstructure:"edit"`
	TokenSet float64 `mapstructure:"token_set"`
	NGram    float64 `mapstructure:"ngram"`
	LCS      float64 `mapstructure:"lcs"`
}

func (w Weights) sum() float64 {
	return w.Edit + w.TokenSet + w.NGram + w.LCS
}

// Config holds the composite scoring constants.
type Config struct {
	Flagship           string
	BrandPolicy        BrandPolicy
	Families           []string
	Short              Weights
	Medium             Weights
	Long               Weights
	ShortMax           int
	MediumMax          int
	NGramSize          int
	InclusionBonus     float64
	LongInclusionBonus float64
	FamilyBonus        float64
	BrandFloor         float64
	BrandBonus         float64
}

// DefaultConfig returns the canonical rule set.
func DefaultConfig() Config {
	return Config{
		Short:              Weights{Edit: 0.40, TokenSet: 0.20, NGram: 0.15, LCS: 0.25},
		Medium:             Weights{Edit: 0.30, TokenSet: 0.25, NGram: 0.25, LCS: 0.20},
		Long:               Weights{Edit: 0.20, TokenSet: 0.35, NGram: 0.30, LCS: 0.15},
		ShortMax:           15,
		MediumMax:          30,
		NGramSize:          DefaultNGramSize,
		InclusionBonus:     20,
		LongInclusionBonus: 15,
		FamilyBonus:        10,
		Flagship:           "SOPREMA",
		Families:           DefaultFamilies(),
		BrandPolicy:        BrandFloor,
		BrandFloor:         80,
		BrandBonus:         40,
	}
}

// DefaultFamilies returns the vendor's secondary brand-family keywords.
func DefaultFamilies() []string {
	return []string{
		"ELASTOPHENE", "SOPRALENE", "SOPRAFIX", "SOPRASTAR", "SOPRAVAP",
		"SOPRASOLAR", "SOPRATHERM", "SOPRADAL", "ALSAN", "PAVATEX",
		"EFIGREEN", "EFYOS", "MAMMOUTH", "FLAGON", "COLPHENE", "SOPRAJOINT",
	}
}

// Validate checks the configuration for values the scorer cannot use.
func (c Config) Validate() error {
	for name, w := range map[string]Weights{BucketShort: c.Short, BucketMedium: c.Medium, BucketLong: c.Long} {
		if w.Edit < 0 || w.TokenSet < 0 || w.NGram < 0 || w.LCS < 0 || w.sum() <= 0 {
			return fmt.Errorf("%w: %s weights must be non-negative with a positive sum", common.ErrInvalidConfig, name)
		}
	}
	if c.ShortMax <= 0 || c.MediumMax < c.ShortMax {
		return fmt.Errorf("%w: bucket bounds %d/%d", common.ErrInvalidConfig, c.ShortMax, c.MediumMax)
	}
	switch c.BrandPolicy {
	case BrandFloor, BrandAdditive:
	default:
		return fmt.Errorf("%w: brand policy %q", common.ErrInvalidConfig, c.BrandPolicy)
	}
	return nil
}

// Breakdown exposes every component of a composite score.
type Breakdown struct {
	Bucket    string
	Edit      float64
	TokenSet  float64
	NGram     float64
	LCS       float64
	Blend     float64
	Inclusion float64
	Family    float64
	Score     int
	Flagship  bool
}

// String renders the breakdown as a short rationale.
func (b Breakdown) String() string {
	s := fmt.Sprintf("score=%d bucket=%s edit=%.0f tokens=%.0f ngram=%.0f lcs=%.0f",
		b.Score, b.Bucket, b.Edit, b.TokenSet, b.NGram, b.LCS)
	if b.Inclusion > 0 {
		s += fmt.Sprintf(" inclusion=+%.0f", b.Inclusion)
	}
	if b.Family > 0 {
		s += fmt.Sprintf(" family=+%.0f", b.Family)
	}
	if b.Flagship {
		s += " flagship"
	}
	return s
}

// Scorer combines the measures into one 0..100 confidence score.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	flagship string
	families []string
	cfg      Config
}

// NewScorer validates cfg and returns a scorer. Brand keywords are normalized.
func NewScorer(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	families := make([]string, 0, len(cfg.Families))
	for _, f := range cfg.Families {
		if n := normalize.Normalize(f); n != "" {
			families = append(families, n)
		}
	}

	return &Scorer{
		cfg:      cfg,
		flagship: normalize.Normalize(cfg.Flagship),
		families: families,
	}, nil
}

// Config returns the scorer configuration.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Families returns the normalized brand-family keywords.
func (s *Scorer) Families() []string {
	return s.families
}

// HasFlagship reports whether normalized text contains the flagship keyword.
func (s *Scorer) HasFlagship(normalized string) bool {
	return s.flagship != "" && normalize.ContainsToken(normalized, s.flagship)
}

// Score computes the composite score of a normalized query against a
// normalized candidate.
func (s *Scorer) Score(query, candidate string) Breakdown {
	b := Breakdown{
		Edit:     EditScore(query, candidate),
		TokenSet: TokenSetScore(query, candidate),
		NGram:    NGramScore(query, candidate, s.cfg.NGramSize),
		LCS:      LCSScore(query, candidate),
	}

	var w Weights
	b.Bucket, w = s.bucket(runeLen(query))
	b.Blend = (w.Edit*b.Edit + w.TokenSet*b.TokenSet + w.NGram*b.NGram + w.LCS*b.LCS) / w.sum()

	if query != "" && candidate != "" &&
		(strings.Contains(candidate, query) || strings.Contains(query, candidate)) {
		b.Inclusion = s.cfg.InclusionBonus
		if b.Bucket == BucketLong {
			b.Inclusion = s.cfg.LongInclusionBonus
		}
	}

	for _, f := range s.families {
		if normalize.ContainsToken(query, f) && normalize.ContainsToken(candidate, f) {
			b.Family += s.cfg.FamilyBonus
		}
	}

	total := b.Blend + b.Inclusion + b.Family

	if s.HasFlagship(query) {
		b.Flagship = true
		total = s.applyBrandPolicy(total)
	}

	b.Score = clampRound(total)
	return b
}

func (s *Scorer) applyBrandPolicy(score float64) float64 {
	if s.cfg.BrandPolicy == BrandAdditive {
		return score + s.cfg.BrandBonus
	}
	return max(score, s.cfg.BrandFloor)
}

func (s *Scorer) bucket(length int) (string, Weights) {
	switch {
	case length <= s.cfg.ShortMax:
		return BucketShort, s.cfg.Short
	case length <= s.cfg.MediumMax:
		return BucketMedium, s.cfg.Medium
	default:
		return BucketLong, s.cfg.Long
	}
}

func clampRound(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(min(100, max(0, v))))
}
