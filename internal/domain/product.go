// Package domain defines the catalog business models and core rules.
package domain

import (
	"strings"
	"time"
)

// Product is a normalized catalog entry. Every Product held by the catalog
// store has passed normalization: id > 0, name non-empty, price >= 0.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Stock       int64   `json:"stock,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Dimensions  string  `json:"dimensions,omitempty"`
}

// CatalogSnapshot is the persisted form of a loaded catalog. It is replaced
// wholesale on every successful load, never merged.
type CatalogSnapshot struct {
	Products  []Product `json:"products"`
	Timestamp int64     `json:"timestamp"` // unix milliseconds
}

// SnapshotTime returns the snapshot timestamp as a time.Time.
func (s *CatalogSnapshot) SnapshotTime() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// SortField enumerates the sortable product fields.
type SortField string

const (
	SortByName     SortField = "name"
	SortByPrice    SortField = "price"
	SortByCategory SortField = "category"
	SortByBrand    SortField = "brand"
)

// SortOrder enumerates sort directions.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions selects the field and direction for the derived catalog view.
type SortOptions struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// DefaultSort is name ascending.
func DefaultSort() SortOptions {
	return SortOptions{Field: SortByName, Order: SortAsc}
}

// ProductFilter narrows the derived catalog view. Zero values mean
// "no filtering" for the respective criterion.
type ProductFilter struct {
	Search   string   `json:"search,omitempty"`
	Category string   `json:"category,omitempty"`
	Brand    string   `json:"brand,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

// IsZero reports whether the filter excludes nothing.
func (f ProductFilter) IsZero() bool {
	return f.Search == "" && f.Category == "" && f.Brand == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// Matches reports whether the product passes every configured criterion:
// case-insensitive substring search across name/description/brand, exact
// category and brand matches, and inclusive price bounds.
func (f ProductFilter) Matches(p *Product) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystack := strings.ToLower(p.Name + " " + p.Description + " " + p.Brand)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// CartItem is a cart line. The product is held by value: a snapshot taken
// at add time, deliberately insulated from later catalog reloads.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int64   `json:"quantity"`
}

// Order is a placed order: the cart lines copied at checkout time, with a
// sequential id and the placement instant.
type Order struct {
	ID    int64      `json:"id"`
	Items []CartItem `json:"items"`
	Date  time.Time  `json:"date"`
}
