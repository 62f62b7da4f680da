package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/winback/internal/catalog"
	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/engine"
	"github.com/Veraticus/winback/internal/exclusion"
	"github.com/Veraticus/winback/internal/similarity"
)

// Settings is the resolved configuration of a verification run.
type Settings struct {
	CatalogPath  string
	DatabasePath string
	Exclusion    exclusion.Config
	Scoring      similarity.Config
	Catalog      catalog.Options
	Engine       engine.Config
}

// SetDefaults registers the default values of every engine key on v.
func SetDefaults(v *viper.Viper) {
	ec := engine.DefaultConfig()
	v.SetDefault("matching.threshold", ec.Threshold)
	v.SetDefault("matching.noise_floor", ec.NoiseFloor)
	v.SetDefault("matching.high_confidence", ec.HighConfidence)
	v.SetDefault("matching.workers", ec.Workers)
	v.SetDefault("matching.max_scan", ec.MaxScan)
	v.SetDefault("matching.item_timeout", ec.ItemTimeout)
	v.SetDefault("matching.pruning", ec.Pruning)
	v.SetDefault("matching.min_candidates", catalog.DefaultMinCandidates)

	sc := similarity.DefaultConfig()
	v.SetDefault("scoring.short_max", sc.ShortMax)
	v.SetDefault("scoring.medium_max", sc.MediumMax)
	v.SetDefault("scoring.ngram_size", sc.NGramSize)
	v.SetDefault("scoring.inclusion_bonus", sc.InclusionBonus)
	v.SetDefault("scoring.long_inclusion_bonus", sc.LongInclusionBonus)
	v.SetDefault("scoring.family_bonus", sc.FamilyBonus)

	v.SetDefault("brand.flagship", sc.Flagship)
	v.SetDefault("brand.policy", string(sc.BrandPolicy))
	v.SetDefault("brand.floor", sc.BrandFloor)
	v.SetDefault("brand.bonus", sc.BrandBonus)
	v.SetDefault("brand.families", sc.Families)

	v.SetDefault("exclusion.replace_defaults", false)
	v.SetDefault("catalog.path", "")
	v.SetDefault("database.path", "~/.local/share/winback/winback.db")
}

// LoadEngineConfig resolves settings from the global viper instance.
func LoadEngineConfig() (*Settings, error) {
	return Load(viper.GetViper())
}

// Load resolves settings from v. Keys that are not set keep their defaults.
// Configured exclusion phrases and exceptions extend the curated lists
// unless exclusion.replace_defaults is set.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		Engine:  engine.DefaultConfig(),
		Scoring: similarity.DefaultConfig(),
	}

	if v.IsSet("matching.threshold") {
		s.Engine.Threshold = v.GetInt("matching.threshold")
	}
	if v.IsSet("matching.noise_floor") {
		s.Engine.NoiseFloor = v.GetInt("matching.noise_floor")
	}
	if v.IsSet("matching.high_confidence") {
		s.Engine.HighConfidence = v.GetInt("matching.high_confidence")
	}
	if v.IsSet("matching.workers") {
		s.Engine.Workers = v.GetInt("matching.workers")
	}
	if v.IsSet("matching.max_scan") {
		s.Engine.MaxScan = v.GetInt("matching.max_scan")
	}
	if v.IsSet("matching.item_timeout") {
		s.Engine.ItemTimeout = v.GetDuration("matching.item_timeout")
	}
	if v.IsSet("matching.pruning") {
		s.Engine.Pruning = v.GetBool("matching.pruning")
	}
	s.Catalog.MinCandidates = v.GetInt("matching.min_candidates")

	for key, w := range map[string]*similarity.Weights{
		"scoring.short":  &s.Scoring.Short,
		"scoring.medium": &s.Scoring.Medium,
		"scoring.long":   &s.Scoring.Long,
	} {
		if !v.IsSet(key) {
			continue
		}
		if err := v.UnmarshalKey(key, w); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, key, err)
		}
	}
	if v.IsSet("scoring.short_max") {
		s.Scoring.ShortMax = v.GetInt("scoring.short_max")
	}
	if v.IsSet("scoring.medium_max") {
		s.Scoring.MediumMax = v.GetInt("scoring.medium_max")
	}
	if v.IsSet("scoring.ngram_size") {
		s.Scoring.NGramSize = v.GetInt("scoring.ngram_size")
	}
	if v.IsSet("scoring.inclusion_bonus") {
		s.Scoring.InclusionBonus = v.GetFloat64("scoring.inclusion_bonus")
	}
	if v.IsSet("scoring.long_inclusion_bonus") {
		s.Scoring.LongInclusionBonus = v.GetFloat64("scoring.long_inclusion_bonus")
	}
	if v.IsSet("scoring.family_bonus") {
		s.Scoring.FamilyBonus = v.GetFloat64("scoring.family_bonus")
	}

	if v.IsSet("brand.flagship") {
		s.Scoring.Flagship = v.GetString("brand.flagship")
	}
	if v.IsSet("brand.policy") {
		s.Scoring.BrandPolicy = similarity.BrandPolicy(strings.ToLower(v.GetString("brand.policy")))
	}
	if v.IsSet("brand.floor") {
		s.Scoring.BrandFloor = v.GetFloat64("brand.floor")
	}
	if v.IsSet("brand.bonus") {
		s.Scoring.BrandBonus = v.GetFloat64("brand.bonus")
	}
	if v.IsSet("brand.families") {
		s.Scoring.Families = v.GetStringSlice("brand.families")
	}
	s.Catalog.Families = s.Scoring.Families

	s.Exclusion = exclusion.DefaultConfig()
	if v.GetBool("exclusion.replace_defaults") {
		s.Exclusion = exclusion.Config{}
	}
	s.Exclusion.Phrases = append(s.Exclusion.Phrases, v.GetStringSlice("exclusion.phrases")...)
	s.Exclusion.Exceptions = append(s.Exclusion.Exceptions, v.GetStringSlice("exclusion.exceptions")...)

	s.CatalogPath = ExpandPath(v.GetString("catalog.path"))
	s.DatabasePath = ExpandPath(v.GetString("database.path"))

	if err := s.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := s.Scoring.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
