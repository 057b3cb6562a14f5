package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// UnitType describes how a product is sold
type UnitType string

const (
	UnitTypeWeight UnitType = "weight"
	UnitTypeUnit   UnitType = "unit"
)

// Valid reports whether u is a known unit type
func (u UnitType) Valid() bool {
	return u == UnitTypeWeight || u == UnitTypeUnit
}

// Product is a sellable entry inside a category. Disabled is a pointer so
// an explicit false survives a round trip.
type Product struct {
	ID           string   `json:"id" yaml:"id"`
	ExternalID   string   `json:"externalId,omitempty" yaml:"externalId,omitempty"`
	Name         string   `json:"name" yaml:"name"`
	PricePerUnit float64  `json:"pricePerUnit" yaml:"pricePerUnit"`
	UnitType     UnitType `json:"unitType" yaml:"unitType"`
	Disabled     *bool    `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Category groups products; product order defines UI and receipt order
type Category struct {
	ID       string    `json:"id" yaml:"id"`
	Label    string    `json:"label" yaml:"label"`
	Products []Product `json:"products" yaml:"products"`
	Disabled *bool     `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// MarshalJSON writes a missing product list as [] rather than null
func (c Category) MarshalJSON() ([]byte, error) {
	type category Category
	out := category(c)
	if out.Products == nil {
		out.Products = []Product{}
	}
	return json.Marshal(out)
}

// Catalog is the ordered list of categories for one store (or the global one)
type Catalog []Category

// Validate checks identifier uniqueness and unit types.
// It never reorders anything.
func (c Catalog) Validate() error {
	seenCategories := make(map[string]struct{}, len(c))
	for i, cat := range c {
		if cat.ID == "" {
			return fmt.Errorf("%w: category %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := seenCategories[cat.ID]; dup {
			return fmt.Errorf("%w: duplicate category id %q", ErrInvalidCatalog, cat.ID)
		}
		seenCategories[cat.ID] = struct{}{}

		seenProducts := make(map[string]struct{}, len(cat.Products))
		for j, p := range cat.Products {
			if p.ID == "" {
				return fmt.Errorf("%w: product %d in category %q has no id", ErrInvalidCatalog, j, cat.ID)
			}
			if _, dup := seenProducts[p.ID]; dup {
				return fmt.Errorf("%w: duplicate product id %q in category %q", ErrInvalidCatalog, p.ID, cat.ID)
			}
			seenProducts[p.ID] = struct{}{}

			if !p.UnitType.Valid() {
				return fmt.Errorf("%w: product %q has unit type %q", ErrInvalidCatalog, p.ID, p.UnitType)
			}
			if p.PricePerUnit < 0 {
				return fmt.Errorf("%w: product %q has a negative price", ErrInvalidCatalog, p.ID)
			}
		}
	}
	return nil
}

// FindProduct looks a product up by id across all categories
func (c Catalog) FindProduct(productID string) (Product, bool) {
	for _, cat := range c {
		for _, p := range cat.Products {
			if p.ID == productID {
				return p, true
			}
		}
	}
	return Product{}, false
}

// GlobalCatalogKey is the storage key of the catalog shared by all stores
const GlobalCatalogKey = "categories"

// CatalogKey returns the storage key for a store scoped catalog.
// An empty store id denotes the global catalog.
func CatalogKey(storeID string) string {
	if storeID == "" {
		return GlobalCatalogKey
	}
	return GlobalCatalogKey + "_" + storeID
}

// CatalogRecord is a persisted catalog together with its write version
type CatalogRecord struct {
	Key        string    `json:"-"`
	StoreID    string    `json:"storeId,omitempty"`
	Categories Catalog   `json:"categories"`
	Version    int64     `json:"version"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
