package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItem_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		designation string
		invalid     string
		guess       Brand
		price       float64
		extra       []string
	}{
		{
			name:        "competitor guess",
			input:       `{"designation": "ELASTOPHENE FLAM 25", "total_price": 400.5, "is_competitor": true}`,
			designation: "ELASTOPHENE FLAM 25",
			guess:       BrandCompetitor,
			price:       400.5,
		},
		{
			name:        "own guess",
			input:       `{"designation": "ALSAN 500", "total_price": 10, "is_competitor": false}`,
			designation: "ALSAN 500",
			guess:       BrandOwn,
			price:       10,
		},
		{
			name:        "null guess is unknown",
			input:       `{"designation": "ALSAN 500", "is_competitor": null}`,
			designation: "ALSAN 500",
			guess:       BrandUnknown,
		},
		{
			name:    "missing designation",
			input:   `{"total_price": 12}`,
			invalid: "designation is missing",
			guess:   BrandUnknown,
			price:   12,
		},
		{
			name:    "numeric designation",
			input:   `{"designation": 42}`,
			invalid: "designation is not a string",
			guess:   BrandUnknown,
		},
		{
			name:    "null designation",
			input:   `{"designation": null}`,
			invalid: "designation is not a string",
			guess:   BrandUnknown,
		},
		{
			name:        "extra fields are kept",
			input:       `{"designation": "X", "quantity": 3, "unit": "m2"}`,
			designation: "X",
			guess:       BrandUnknown,
			extra:       []string{"quantity", "unit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var li LineItem
			require.NoError(t, json.Unmarshal([]byte(tt.input), &li))

			assert.Equal(t, tt.designation, li.Designation)
			assert.Equal(t, tt.invalid, li.Invalid)
			assert.Equal(t, tt.guess, li.Guess)
			assert.InDelta(t, tt.price, li.TotalPrice, 0.0001)
			for _, k := range tt.extra {
				assert.Contains(t, li.Extra, k)
			}
		})
	}
}

func TestLineItem_UnmarshalJSONErrors(t *testing.T) {
	for _, input := range []string{
		`[1, 2]`,
		`{"designation": "X", "total_price": "ten"}`,
		`{"designation": "X", "is_competitor": "yes"}`,
	} {
		var li LineItem
		assert.Error(t, json.Unmarshal([]byte(input), &li), input)
	}
}

func TestLineItem_MarshalJSON(t *testing.T) {
	var li LineItem
	require.NoError(t, json.Unmarshal([]byte(`{"designation": "X", "total_price": 5, "is_competitor": true, "sku": "A-1"}`), &li))
	li.Guess = BrandOwn

	out, err := json.Marshal(li)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "X", back["designation"])
	assert.Equal(t, false, back["is_competitor"])
	assert.Equal(t, "A-1", back["sku"])
}

func TestDecodeBatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "array", input: `[{"designation": "A"}, {"designation": "B"}]`, want: 2},
		{name: "items envelope", input: `{"items": [{"designation": "A"}]}`, want: 1},
		{name: "line_items envelope", input: `{"invoice": "F-1", "line_items": [{"designation": "A"}]}`, want: 1},
		{name: "empty array", input: `[]`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := DecodeBatch(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}

	_, err := DecodeBatch(strings.NewReader("   "))
	assert.Error(t, err)
	_, err = DecodeBatch(strings.NewReader(`{"items": 3}`))
	assert.Error(t, err)
}

func TestBrand_IsValid(t *testing.T) {
	assert.True(t, BrandOwn.IsValid())
	assert.True(t, BrandUnknown.IsValid())
	assert.False(t, Brand("maybe").IsValid())
}
