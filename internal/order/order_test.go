package order

import (
	"context"
	"testing"
	"time"

	"github.com/petshop/storefront/internal/domain"
	"github.com/petshop/storefront/internal/storage"
)

func checkoutItems() []domain.CartItem {
	return []domain.CartItem{
		{Product: domain.Product{ID: 1, Name: "Ração Premium", Price: 100}, Quantity: 2},
		{Product: domain.Product{ID: 2, Name: "Coleira Ajustável", Price: 45}, Quantity: 1},
	}
}

func TestStore_AddAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	orders := NewStore(storage.NewMemoryStore())

	first, err := orders.Add(ctx, checkoutItems())
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if first.ID != 1 {
		t.Errorf("first order id = %d, want 1", first.ID)
	}

	second, err := orders.Add(ctx, checkoutItems())
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if second.ID != 2 {
		t.Errorf("second order id = %d, want 2", second.ID)
	}
}

// Ids continue from the last recorded order, not from the history length.
func TestStore_IDsContinueAcrossReload(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()

	first := NewStore(mem)
	if _, err := first.Add(ctx, checkoutItems()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := first.Add(ctx, checkoutItems()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	second := NewStore(mem)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	placed, err := second.Add(ctx, checkoutItems())
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if placed.ID != 3 {
		t.Errorf("order id after reload = %d, want 3", placed.ID)
	}
}

// The history copies the lines at checkout: the caller clearing or
// mutating its cart afterwards must not touch what was placed.
func TestStore_ItemsCopiedAtCheckout(t *testing.T) {
	ctx := context.Background()
	orders := NewStore(storage.NewMemoryStore())

	items := checkoutItems()
	placed, err := orders.Add(ctx, items)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	items[0].Quantity = 99

	got, ok := orders.Get(placed.ID)
	if !ok {
		t.Fatalf("Get(%d) not found", placed.ID)
	}
	if got.Items[0].Quantity != 2 {
		t.Errorf("stored quantity = %d after caller mutation, want 2", got.Items[0].Quantity)
	}
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()
	orders := NewStore(storage.NewMemoryStore())
	orders.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	placed, err := orders.Add(ctx, checkoutItems())
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, ok := orders.Get(placed.ID)
	if !ok {
		t.Fatalf("Get(%d) not found", placed.ID)
	}
	if !got.Date.Equal(placed.Date) {
		t.Errorf("Get() date = %v, want %v", got.Date, placed.Date)
	}
	if len(got.Items) != 2 {
		t.Errorf("Get() returned %d lines, want 2", len(got.Items))
	}

	if _, ok := orders.Get(99); ok {
		t.Error("Get(99) found an order, want miss")
	}
}

func TestStore_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()

	first := NewStore(mem)
	if _, err := first.Add(ctx, checkoutItems()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	second := NewStore(mem)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	history := second.Orders()
	if len(history) != 1 {
		t.Fatalf("Orders() returned %d orders, want 1", len(history))
	}
	if history[0].Items[0].Product.Name != "Ração Premium" {
		t.Errorf("reloaded product name = %q, want %q", history[0].Items[0].Product.Name, "Ração Premium")
	}
}

func TestStore_LoadCorruptedStartsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStore()
	mem.Corrupt("orders")

	orders := NewStore(mem)
	if err := orders.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := len(orders.Orders()); got != 0 {
		t.Errorf("Orders() returned %d after corrupted load, want 0", got)
	}

	placed, err := orders.Add(ctx, checkoutItems())
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if placed.ID != 1 {
		t.Errorf("order id after corrupted load = %d, want 1", placed.ID)
	}
}
