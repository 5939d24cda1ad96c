// Package cart holds the shopping cart: line items persisted through the
// storage port, with products snapshotted by value at add time.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/petshop/storefront/internal/domain"
	"github.com/petshop/storefront/internal/pricing"
	"github.com/petshop/storefront/internal/storage"
)

// cartKey is the storage key owned by the cart.
const cartKey = "cart"

// Store is the cart state machine.
type Store struct {
	store storage.Store

	mu    sync.Mutex
	items []domain.CartItem
}

// NewStore creates an empty cart over the given storage.
func NewStore(store storage.Store) *Store {
	return &Store{store: store}
}

// Load hydrates the cart from storage. A corrupted entry is deleted and
// the cart starts empty.
func (s *Store) Load(ctx context.Context) error {
	var items []domain.CartItem
	err := s.store.Get(ctx, cartKey, &items)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if rmErr := s.store.Remove(ctx, cartKey); rmErr != nil {
			return rmErr
		}
		s.mu.Lock()
		s.items = nil
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Add puts one unit of the product in the cart, incrementing the quantity
// of an existing line. The product is copied, not referenced: later
// catalog reloads do not change what was added.
func (s *Store) Add(ctx context.Context, p domain.Product) error {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].Product.ID == p.ID {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, domain.CartItem{Product: p, Quantity: 1})
	}
	s.mu.Unlock()

	return s.persist(ctx)
}

// Remove drops the line for the given product id.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.Product.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.mu.Unlock()

	return s.persist(ctx)
}

// Clear empties the cart and its persisted state.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	return s.store.Remove(ctx, cartKey)
}

// Items returns the cart lines.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total returns the cart total at base prices.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// TotalForRole returns the cart total at role-adjusted display prices.
func (s *Store) TotalForRole(role domain.UserRole) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += pricing.PriceByRole(role, item.Product.Price) * float64(item.Quantity)
	}
	return total
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)
	s.mu.Unlock()
	return s.store.Set(ctx, cartKey, items)
}
