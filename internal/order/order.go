// Package order holds the order history: cart lines snapshotted at
// checkout, persisted through the storage port with sequential ids.
package order

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/petshop/storefront/internal/domain"
	"github.com/petshop/storefront/internal/storage"
)

// ordersKey is the storage key owned by the order history.
const ordersKey = "orders"

// Store is the order history state machine.
type Store struct {
	store storage.Store
	now   func() time.Time

	mu     sync.Mutex
	orders []domain.Order
}

// NewStore creates an empty order history over the given storage.
func NewStore(store storage.Store) *Store {
	return &Store{store: store, now: time.Now}
}

// Load hydrates the history from storage. A corrupted entry is deleted
// and the history starts empty.
func (s *Store) Load(ctx context.Context) error {
	var orders []domain.Order
	err := s.store.Get(ctx, ordersKey, &orders)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if rmErr := s.store.Remove(ctx, ordersKey); rmErr != nil {
			return rmErr
		}
		s.mu.Lock()
		s.orders = nil
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	return nil
}

// Add places an order from the given cart lines. Ids continue from the
// last recorded order. The lines are copied, not referenced: the caller
// clearing its cart afterwards does not touch the history.
func (s *Store) Add(ctx context.Context, items []domain.CartItem) (domain.Order, error) {
	lines := make([]domain.CartItem, len(items))
	copy(lines, items)

	s.mu.Lock()
	id := int64(1)
	if n := len(s.orders); n > 0 {
		id = s.orders[n-1].ID + 1
	}
	placed := domain.Order{ID: id, Items: lines, Date: s.now()}
	s.orders = append(s.orders, placed)
	s.mu.Unlock()

	return placed, s.persist(ctx)
}

// Get returns the order with the given id.
func (s *Store) Get(id int64) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

// Orders returns the recorded orders, oldest first.
func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	orders := make([]domain.Order, len(s.orders))
	copy(orders, s.orders)
	s.mu.Unlock()
	return s.store.Set(ctx, ordersKey, orders)
}
