package engine

import (
	"fmt"
	"time"

	"github.com/Veraticus/winback/internal/common"
)

// Config holds the decision thresholds and scan limits of the verifier.
type Config struct {
	// Threshold is the minimum score for an item to match the catalog.
	Threshold int
	// NoiseFloor is the score under which the best fuzzy candidate is discarded.
	NoiseFloor int
	// HighConfidence is the score counted as a high-confidence match.
	HighConfidence int
	// Workers bounds the number of items scored concurrently.
	Workers int
	// MaxScan limits fuzzy scoring to the first MaxScan catalog entries (0 = all).
	MaxScan int
	// ItemTimeout bounds the scan of a single item (0 = no limit).
	ItemTimeout time.Duration
	// Pruning scores entries sharing a significant token first and stops
	// early on a perfect score. Results are the same as without pruning.
	Pruning bool
}

// DefaultConfig returns the canonical thresholds.
func DefaultConfig() Config {
	return Config{
		Threshold:      70,
		NoiseFloor:     60,
		HighConfidence: 95,
		Workers:        4,
		Pruning:        true,
	}
}

// Validate checks that the thresholds are consistent.
func (c Config) Validate() error {
	for name, v := range map[string]int{
		"threshold":       c.Threshold,
		"noise_floor":     c.NoiseFloor,
		"high_confidence": c.HighConfidence,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: %s must be within 0..100, got %d", common.ErrInvalidConfig, name, v)
		}
	}
	if c.NoiseFloor > c.Threshold {
		return fmt.Errorf("%w: noise_floor %d is above threshold %d", common.ErrInvalidConfig, c.NoiseFloor, c.Threshold)
	}
	if c.HighConfidence < c.Threshold {
		return fmt.Errorf("%w: high_confidence %d is below threshold %d", common.ErrInvalidConfig, c.HighConfidence, c.Threshold)
	}
	if c.Workers < 0 || c.MaxScan < 0 || c.ItemTimeout < 0 {
		return fmt.Errorf("%w: workers, max_scan and item_timeout must not be negative", common.ErrInvalidConfig)
	}
	return nil
}
