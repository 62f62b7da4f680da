package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Brand is the classification of a line item relative to the vendor catalog.
type Brand string

// Brand constants.
const (
	BrandOwn        Brand = "own"
	BrandCompetitor Brand = "competitor"
	BrandUnknown    Brand = "unknown"
)

// IsValid reports whether b is one of the known brand values.
func (b Brand) IsValid() bool {
	switch b {
	case BrandOwn, BrandCompetitor, BrandUnknown:
		return true
	}
	return false
}

// Known JSON keys of a line item. Every other key is carried in Extra.
const (
	keyDesignation  = "designation"
	keyTotalPrice   = "total_price"
	keyIsCompetitor = "is_competitor"
)

// LineItem is one invoice row to classify.
type LineItem struct {
	// Extra holds pass-through fields from the upstream extractor.
	Extra       map[string]json.RawMessage `json:"-"`
	Designation string                     `json:"designation"`
	// Invalid is set when the designation was missing or not a string.
	Invalid    string  `json:"-"`
	Guess      Brand   `json:"-"`
	TotalPrice float64 `json:"total_price"`
}

// UnmarshalJSON decodes a line item, tolerating malformed designations.
// A missing or non-string designation marks the item Invalid instead of
// failing the whole batch.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("line item is not an object: %w", err)
	}

	*li = LineItem{Guess: BrandUnknown}

	if v, ok := raw[keyDesignation]; ok {
		if err := json.Unmarshal(v, &li.Designation); err != nil || isNull(v) {
			li.Invalid = "designation is not a string"
		}
		delete(raw, keyDesignation)
	} else {
		li.Invalid = "designation is missing"
	}

	if v, ok := raw[keyTotalPrice]; ok {
		if !isNull(v) {
			if err := json.Unmarshal(v, &li.TotalPrice); err != nil {
				return fmt.Errorf("total_price is not a number: %w", err)
			}
		}
		delete(raw, keyTotalPrice)
	}

	if v, ok := raw[keyIsCompetitor]; ok {
		if !isNull(v) {
			var competitor bool
			if err := json.Unmarshal(v, &competitor); err != nil {
				return fmt.Errorf("is_competitor is not a boolean: %w", err)
			}
			li.Guess = BrandOwn
			if competitor {
				li.Guess = BrandCompetitor
			}
		}
		delete(raw, keyIsCompetitor)
	}

	if len(raw) > 0 {
		li.Extra = raw
	}
	return nil
}

// MarshalJSON encodes the item with its pass-through fields.
func (li LineItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(li.Extra)+3)
	for k, v := range li.Extra {
		out[k] = v
	}
	out[keyDesignation] = li.Designation
	out[keyTotalPrice] = li.TotalPrice
	switch li.Guess {
	case BrandOwn:
		out[keyIsCompetitor] = false
	case BrandCompetitor:
		out[keyIsCompetitor] = true
	default:
		out[keyIsCompetitor] = nil
	}
	return json.Marshal(out)
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
