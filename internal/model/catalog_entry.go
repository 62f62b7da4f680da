// Package model defines the core data structures for the winback application.
package model

// CatalogEntry is one reference product from the vendor's own catalog.
// Entries are created in bulk when the catalog is loaded and never mutated.
type CatalogEntry struct {
	DisplayName    string `json:"display_name" yaml:"name"`
	NormalizedName string `json:"normalized_name" yaml:"-"`
	Category       string `json:"category,omitempty" yaml:"category,omitempty"`
	Family         string `json:"family,omitempty" yaml:"family,omitempty"`
	Position       int    `json:"position" yaml:"-"`
}

// String returns the display name of the entry.
func (e CatalogEntry) String() string {
	return e.DisplayName
}
