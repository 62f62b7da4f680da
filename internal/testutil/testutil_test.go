package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB(t *testing.T) {
	db := SetupTestDB(t, FixtureMinimal)

	entries := db.MustLoadCatalog()
	require.Len(t, entries, len(FixtureMinimal.Products))
	assert.Equal(t, string(ProductElastopheneGris), entries[0].DisplayName)
	assert.Equal(t, "ELASTOPHENE FLAM 25 AR GRIS 10 X 1", entries[0].NormalizedName)
}

func TestNewTestIndex(t *testing.T) {
	idx := NewTestIndex(t, FixtureStandard)

	assert.Equal(t, len(FixtureStandard.Products), idx.Len())
	assert.Equal(t, "SOPRALENE", idx.Entry(1).Family)
}
