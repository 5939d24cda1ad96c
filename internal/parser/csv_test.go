package parser

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCSVParser_PortugueseHeaders(t *testing.T) {
	input := "Nome,Preço,Categoria,Marca,Estoque,Peso\n" +
		"Ração Golden,\"89,90\",Alimentação,Golden,12,15\n"

	p := NewCSVParser()
	rows, err := p.ParseReader(context.Background(), strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ParseReader() returned %d rows, want 1", len(rows))
	}

	row := rows[0]
	if got := row["name"]; got != "Ração Golden" {
		t.Errorf("name = %v, want Ração Golden", got)
	}
	if got := row["price"]; got != 89.90 {
		t.Errorf("price = %v, want 89.9", got)
	}
	if got := row["category"]; got != "Alimentação" {
		t.Errorf("category = %v, want Alimentação", got)
	}
	if got := row["stock"]; got != float64(12) {
		t.Errorf("stock = %v, want 12", got)
	}
}

func TestCSVParser_DecimalComma(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{name: "comma separator", in: "12,50", want: 12.50},
		{name: "dot separator", in: "12.50", want: 12.50},
		{name: "integer", in: "42", want: 42},
		{name: "garbage", in: "abc", want: 0},
		{name: "empty", in: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseDecimal(tt.in); got != tt.want {
				t.Errorf("parseDecimal(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCSVParser_DropsIncompleteRows(t *testing.T) {
	input := "name,price,brand\n" +
		"Brinquedo,25.00,Kong\n" + // kept
		",10.00,Marca\n" + // no name
		"Sem Preço,,Marca\n" + // no price
		"Preço Ruim,abc,Marca\n" + // price coerces to 0
		"Coleira,49.90,Zee.Dog\n" // kept

	p := NewCSVParser()
	rows, err := p.ParseReader(context.Background(), strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ParseReader() kept %d rows, want 2", len(rows))
	}
	if rows[0]["name"] != "Brinquedo" || rows[1]["name"] != "Coleira" {
		t.Errorf("kept rows = %v and %v, want Brinquedo and Coleira", rows[0]["name"], rows[1]["name"])
	}
}

func TestCSVParser_RaggedRows(t *testing.T) {
	input := "name,price,brand\n" +
		"Arranhador,119.90\n" + // short row: brand missing
		"Tapete,39.90,Petz,extra\n" // long row: surplus ignored

	p := NewCSVParser()
	rows, err := p.ParseReader(context.Background(), strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ParseReader() returned %d rows, want 2", len(rows))
	}
	if _, ok := rows[0]["brand"]; ok {
		t.Errorf("short row carries a brand value, want it absent")
	}
	if rows[1]["brand"] != "Petz" {
		t.Errorf("brand = %v, want Petz", rows[1]["brand"])
	}
}

func TestCSVParser_EmptyInput(t *testing.T) {
	p := NewCSVParser()
	_, err := p.ParseReader(context.Background(), strings.NewReader(""), "empty.csv")

	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("ParseReader() error = %v, want *FormatError", err)
	}
}

func TestCSVParser_MissingFile(t *testing.T) {
	p := NewCSVParser()
	_, err := p.Parse(context.Background(), "does-not-exist.csv")
	if err == nil {
		t.Fatal("Parse() error = nil, want open error")
	}
}
