package parser

import (
	"fmt"
	"strings"

	"github.com/petshop/storefront/internal/domain"
)

// DefaultPlaceholderImage is used when a row carries no image.
const DefaultPlaceholderImage = "/placeholder-product.jpg"

// DefaultCategory is the catch-all category for uncategorized rows.
const DefaultCategory = "Geral"

// Normalizer maps parser rows onto structurally valid Products. It never
// fails: missing or wrong-typed attributes are replaced by defaults, so the
// catalog store only ever holds well-formed entries.
//
// Coercion rule: parsers own all string-to-number conversion. The
// normalizer accepts numeric values as-is and defaults anything else to 0.
type Normalizer struct {
	Placeholder string
}

// NewNormalizer creates a normalizer with the given placeholder image path;
// empty means DefaultPlaceholderImage.
func NewNormalizer(placeholder string) *Normalizer {
	if placeholder == "" {
		placeholder = DefaultPlaceholderImage
	}
	return &Normalizer{Placeholder: placeholder}
}

// Normalize builds the Product for the row at position index (0-based).
func (n *Normalizer) Normalize(row Row, index int) domain.Product {
	p := domain.Product{
		ID:          int64(index + 1),
		Name:        fmt.Sprintf("Produto %d", index+1),
		Image:       n.Placeholder,
		Category:    DefaultCategory,
		Price:       numberField(row, "price"),
		Stock:       int64(numberField(row, "stock")),
		Weight:      numberField(row, "weight"),
		Description: stringField(row, "description"),
		Brand:       stringField(row, "brand"),
		Dimensions:  stringField(row, "dimensions"),
	}

	if id := int64(numberField(row, "id")); id > 0 {
		p.ID = id
	}
	if name := stringField(row, "name"); name != "" {
		p.Name = name
	}
	if image := stringField(row, "image"); image != "" {
		p.Image = image
	}
	if category := stringField(row, "category"); category != "" {
		p.Category = category
	}
	if p.Price < 0 {
		p.Price = 0
	}
	if p.Stock < 0 {
		p.Stock = 0
	}
	if p.Weight < 0 {
		p.Weight = 0
	}
	return p
}

// NormalizeAll maps every row in order, synthesizing ids from row position
// where the source has none.
func (n *Normalizer) NormalizeAll(rows []Row) []domain.Product {
	products := make([]domain.Product, len(rows))
	for i, row := range rows {
		products[i] = n.Normalize(row, i)
	}
	return products
}

func stringField(row Row, key string) string {
	if v, ok := row[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// numberField returns the row value when it is already numeric, else 0.
// JSON decoding yields float64; CSV parsing coerces ahead of time.
func numberField(row Row, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
