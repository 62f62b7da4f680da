package testutil

import (
	"testing"

	"github.com/Veraticus/winback/internal/catalog"
	"github.com/Veraticus/winback/internal/model"
	"github.com/Veraticus/winback/internal/similarity"
)

// ProductName is a catalog display name used by fixtures.
type ProductName string

// Products shared across tests.
const (
	ProductElastopheneGris ProductName = "ELASTOPHENE FLAM 25 AR - GRIS - 10 m x 1 m"
	ProductSopraleneFlam   ProductName = "SOPRALENE FLAM 180 AR"
	ProductAlsan500        ProductName = "ALSAN 500 P"
	ProductSoprafixHP      ProductName = "SOPRAFIX HP"
	ProductSoprastarFlam   ProductName = "SOPRASTAR FLAM HP"
	ProductSopravapAlu     ProductName = "SOPRAVAP ALU"
	ProductPavatexIsolair  ProductName = "PAVATEX ISOLAIR L"
	ProductEfigreenAcier   ProductName = "EFIGREEN ACIER"
	ProductEfyosStick      ProductName = "EFYOS STICK"
	ProductMammouthNeodyl  ProductName = "MAMMOUTH NEODYL"
	ProductColpheneBSW     ProductName = "COLPHENE BSW"
	ProductSopradal40      ProductName = "SOPRADAL 40"
)

// Fixture is a named, ordered set of catalog products.
type Fixture struct {
	Name     string
	Products []ProductName
}

// Predefined catalogs.
var (
	// FixtureMinimal holds the products used by the verification scenarios.
	FixtureMinimal = Fixture{
		Name: "minimal",
		Products: []ProductName{
			ProductElastopheneGris,
			ProductSopraleneFlam,
			ProductAlsan500,
		},
	}

	// FixtureStandard covers most brand families.
	FixtureStandard = Fixture{
		Name: "standard",
		Products: []ProductName{
			ProductElastopheneGris,
			ProductSopraleneFlam,
			ProductAlsan500,
			ProductSoprafixHP,
			ProductSoprastarFlam,
			ProductSopravapAlu,
			ProductPavatexIsolair,
			ProductEfigreenAcier,
			ProductEfyosStick,
			ProductMammouthNeodyl,
			ProductColpheneBSW,
			ProductSopradal40,
		},
	}
)

// Entries returns the fixture as catalog entries in fixture order.
func (f Fixture) Entries() []model.CatalogEntry {
	out := make([]model.CatalogEntry, len(f.Products))
	for i, p := range f.Products {
		out[i] = model.CatalogEntry{DisplayName: string(p)}
	}
	return out
}

// NewTestIndex builds a catalog index from a fixture with the default brand
// families, failing the test on error.
func NewTestIndex(t *testing.T, f Fixture) *catalog.Index {
	t.Helper()
	return NewTestIndexWithOptions(t, f.Entries(), catalog.Options{})
}

// NewTestIndexWithOptions builds an index from arbitrary entries. Families
// default to the scorer's brand families when opts leaves them empty.
func NewTestIndexWithOptions(t *testing.T, entries []model.CatalogEntry, opts catalog.Options) *catalog.Index {
	t.Helper()
	if len(opts.Families) == 0 {
		opts.Families = similarity.DefaultFamilies()
	}
	idx, err := catalog.NewIndex(entries, opts)
	if err != nil {
		t.Fatalf("failed to build catalog index: %v", err)
	}
	return idx
}
