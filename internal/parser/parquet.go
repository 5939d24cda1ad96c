package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// BridgeParser reads columnar binary sources through the parquet bridge
// endpoint: binary decoding happens out of process, the client only sees a
// JSON array of rows.
type BridgeParser struct {
	baseURL string
	client  *http.Client
}

// NewBridgeParser creates a bridge-backed parquet parser.
func NewBridgeParser(baseURL string, client *http.Client) *BridgeParser {
	return &BridgeParser{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Parse requests the sandboxed file path from the bridge and decodes the
// returned array.
func (p *BridgeParser) Parse(ctx context.Context, source string) ([]Row, error) {
	file := strings.TrimLeft(source, "/")
	endpoint := fmt.Sprintf("%s/api/loadParquet?file=%s", p.baseURL, url.QueryEscape(file))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build bridge request: %w", err)
	}
	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call parquet bridge: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &TransportError{URL: endpoint, Status: res.StatusCode}
	}

	raw, err := readAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read bridge response: %w", err)
	}

	var rows []Row
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, &FormatError{Source: source, Reason: "bridge did not return an array of rows", Err: err}
	}
	return rows, nil
}

func readAll(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return raw, nil
}
