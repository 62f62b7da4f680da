package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// batchEnvelope is the object form of a batch file.
type batchEnvelope struct {
	Items     []LineItem `json:"items"`
	LineItems []LineItem `json:"line_items"`
}

// DecodeBatch reads a batch of line items. Both a bare JSON array and an
// object with an "items" or "line_items" array are accepted.
func DecodeBatch(r io.Reader) ([]LineItem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("batch is empty")
	}

	if trimmed[0] == '[' {
		var items []LineItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode batch: %w", err)
		}
		return items, nil
	}

	var env batchEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to decode batch: %w", err)
	}
	if env.Items != nil {
		return env.Items, nil
	}
	return env.LineItems, nil
}
