package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONParser_RemoteArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Ração","price":89.9},{"id":2,"name":"Coleira","price":45}]`))
	}))
	defer srv.Close()

	p := NewJSONParser(srv.Client())
	rows, err := p.Parse(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Parse() returned %d rows, want 2", len(rows))
	}
	if rows[0]["name"] != "Ração" {
		t.Errorf("name = %v, want Ração", rows[0]["name"])
	}
	// encoding/json decodes numbers as float64
	if rows[1]["price"] != float64(45) {
		t.Errorf("price = %v, want 45", rows[1]["price"])
	}
}

func TestJSONParser_NonArrayDocument(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "object", body: `{"products":[]}`},
		{name: "string", body: `"hello"`},
		{name: "number", body: `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewJSONParser(srv.Client())
			_, err := p.Parse(context.Background(), srv.URL)

			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Errorf("Parse() error = %v, want *FormatError", err)
			}
		})
	}
}

func TestJSONParser_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name": "Trunca`))
	}))
	defer srv.Close()

	p := NewJSONParser(srv.Client())
	_, err := p.Parse(context.Background(), srv.URL)

	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Parse() error = %v, want *FormatError", err)
	}
}

func TestJSONParser_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewJSONParser(srv.Client())
	_, err := p.Parse(context.Background(), srv.URL)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Parse() error = %v, want *TransportError", err)
	}
	if transportErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", transportErr.Status)
	}
}

// Non-object array elements become empty rows rather than failing the load.
func TestJSONParser_NonObjectElements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"Valid"}, 17, null, "str"]`))
	}))
	defer srv.Close()

	p := NewJSONParser(srv.Client())
	rows, err := p.Parse(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Parse() returned %d rows, want 4", len(rows))
	}
	for i := 1; i < 4; i++ {
		if len(rows[i]) != 0 {
			t.Errorf("row %d = %v, want empty", i, rows[i])
		}
	}
}

func TestJSONParser_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	if err := os.WriteFile(path, []byte(`[{"name":"Local","price":10}]`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	p := NewJSONParser(http.DefaultClient)
	rows, err := p.Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "Local" {
		t.Errorf("Parse() = %v, want one row named Local", rows)
	}
}

func TestBridgeParser_DecodesRows(t *testing.T) {
	var gotPath, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFile = r.URL.Query().Get("file")
		w.Write([]byte(`[{"name":"Aquário","price":320.5}]`))
	}))
	defer srv.Close()

	p := NewBridgeParser(srv.URL, srv.Client())
	rows, err := p.Parse(context.Background(), "/data/products.parquet")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if gotPath != "/api/loadParquet" {
		t.Errorf("request path = %q, want /api/loadParquet", gotPath)
	}
	if gotFile != "data/products.parquet" {
		t.Errorf("file param = %q, want data/products.parquet", gotFile)
	}
	if len(rows) != 1 || rows[0]["name"] != "Aquário" {
		t.Errorf("Parse() = %v, want one row named Aquário", rows)
	}
}

func TestBridgeParser_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"file not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewBridgeParser(srv.URL, srv.Client())
	_, err := p.Parse(context.Background(), "missing.parquet")

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Parse() error = %v, want *TransportError", err)
	}
}

func TestKindForSource(t *testing.T) {
	tests := []struct {
		source string
		want   Kind
	}{
		{source: "products.csv", want: KindCSV},
		{source: "products.CSV", want: KindCSV},
		{source: "products.parquet", want: KindParquet},
		{source: "products.json", want: KindJSON},
		{source: "products", want: KindJSON},
		{source: "https://example.com/feed", want: KindJSON},
		{source: "weird.xlsx", want: KindJSON},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := KindForSource(tt.source); got != tt.want {
				t.Errorf("KindForSource(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestRegistry_ForSource(t *testing.T) {
	r := NewRegistry("http://localhost:8080", nil)

	if _, ok := r.ForSource("a.csv").(*CSVParser); !ok {
		t.Errorf("ForSource(a.csv) is not a CSVParser")
	}
	if _, ok := r.ForSource("a.parquet").(*BridgeParser); !ok {
		t.Errorf("ForSource(a.parquet) is not a BridgeParser")
	}
	if _, ok := r.ForSource("a.json").(*JSONParser); !ok {
		t.Errorf("ForSource(a.json) is not a JSONParser")
	}
}
