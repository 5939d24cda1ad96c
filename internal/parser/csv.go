package parser

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// headerAliases folds localized column names onto the canonical field set.
// The catalog sources ship with Portuguese headers.
var headerAliases = map[string]string{
	"nome":      "name",
	"preço":     "price",
	"preco":     "price",
	"imagem":    "image",
	"categoria": "category",
	"marca":     "brand",
	"estoque":   "stock",
	"descrição": "description",
	"descricao": "description",
	"peso":      "weight",
	"dimensões": "dimensions",
	"dimensoes": "dimensions",
}

// numericFields are coerced to float64 by this parser; everything else
// stays a trimmed string.
var numericFields = map[string]bool{
	"id":     true,
	"price":  true,
	"stock":  true,
	"weight": true,
}

// CSVParser parses delimited text with a header row.
type CSVParser struct{}

// NewCSVParser creates a CSV parser.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse reads the named file and returns one Row per record that carries
// both a name and a price. Malformed numeric values never fail the parse;
// they default to zero.
func (p *CSVParser) Parse(ctx context.Context, source string) ([]Row, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", source, err)
	}
	defer f.Close()
	return p.ParseReader(ctx, f, source)
}

// ParseReader parses delimited text from r; source is used for error
// reporting only.
func (p *CSVParser) ParseReader(ctx context.Context, r io.Reader, source string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // ragged rows are handled per field

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &FormatError{Source: source, Reason: "malformed delimited text", Err: err}
	}
	if len(records) == 0 {
		return nil, &FormatError{Source: source, Reason: "missing header row"}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = normalizeHeader(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make(Row, len(header))
		for i, field := range header {
			if i >= len(rec) || field == "" {
				continue
			}
			value := strings.TrimSpace(rec[i])
			if numericFields[field] {
				row[field] = parseDecimal(value)
			} else {
				row[field] = value
			}
		}
		// Rows without a name or price are not products; drop them
		// instead of failing the whole catalog.
		name, _ := row["name"].(string)
		price, _ := row["price"].(float64)
		if name == "" || price == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if canonical, ok := headerAliases[h]; ok {
		return canonical
	}
	return h
}

// parseDecimal parses a number accepting a comma as decimal separator.
// Unparsable values become 0.
func parseDecimal(s string) float64 {
	s = strings.ReplaceAll(s, ",", ".")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}
