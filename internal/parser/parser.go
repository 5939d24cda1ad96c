// Package parser turns raw catalog sources (delimited text, JSON documents,
// columnar binary files) into an intermediate row representation and
// normalizes rows into Products.
package parser

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"
)

// Row is the intermediate representation produced by every parser: a
// mapping from canonical field name to value. Numeric fields are coerced
// to float64 by the parser that owns the source format; the normalizer
// never re-parses strings.
type Row map[string]any

// Kind identifies a source format.
type Kind string

const (
	KindCSV     Kind = "csv"
	KindJSON    Kind = "json"
	KindParquet Kind = "parquet"
)

// KindForSource resolves the format from the lowercase extension of the
// source name. The mapping is total: unknown or missing extensions fall
// back to JSON.
func KindForSource(name string) Kind {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")) {
	case "csv":
		return KindCSV
	case "parquet":
		return KindParquet
	default:
		return KindJSON
	}
}

// Parser produces rows from a named source.
type Parser interface {
	Parse(ctx context.Context, source string) ([]Row, error)
}

// Registry holds one parser per source kind and dispatches by extension.
type Registry struct {
	csv     *CSVParser
	json    *JSONParser
	parquet *BridgeParser
}

// NewRegistry builds the parser set. bridgeBaseURL is the server hosting
// the parquet bridge endpoint; client defaults to a 30s-timeout client.
func NewRegistry(bridgeBaseURL string, client *http.Client) *Registry {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Registry{
		csv:     NewCSVParser(),
		json:    NewJSONParser(client),
		parquet: NewBridgeParser(bridgeBaseURL, client),
	}
}

// ForSource returns the parser for the source's kind.
func (r *Registry) ForSource(name string) Parser {
	switch KindForSource(name) {
	case KindCSV:
		return r.csv
	case KindParquet:
		return r.parquet
	default:
		return r.json
	}
}
