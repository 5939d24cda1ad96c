package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// JSONParser parses a JSON document expected to hold a top-level array of
// row objects. Sources may be local paths or http(s) URLs.
type JSONParser struct {
	client *http.Client
}

// NewJSONParser creates a JSON parser using the given HTTP client for URL
// sources.
func NewJSONParser(client *http.Client) *JSONParser {
	return &JSONParser{client: client}
}

// Parse fetches the document and returns its elements verbatim; filtering
// and defaulting are the normalizer's job.
func (p *JSONParser) Parse(ctx context.Context, source string) ([]Row, error) {
	raw, err := p.fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &FormatError{Source: source, Reason: "invalid JSON document", Err: err}
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, &FormatError{Source: source, Reason: "expected a top-level array of products"}
	}

	rows := make([]Row, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			rows = append(rows, Row(m))
		} else {
			// Non-object elements carry no fields; the normalizer will
			// substitute defaults for every attribute.
			rows = append(rows, Row{})
		}
	}
	return rows, nil
}

func (p *JSONParser) fetch(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("build request for %s: %w", source, err)
		}
		res, err := p.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return nil, &TransportError{URL: source, Status: res.StatusCode}
		}
		return readAll(res.Body)
	}

	raw, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return raw, nil
}
