// Package catalog holds the product catalog: durable snapshot cache,
// in-memory store and derived filtered/sorted views.
package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/petshop/storefront/internal/domain"
	"github.com/petshop/storefront/internal/storage"
)

// snapshotKey is the storage key owned by the catalog cache.
const snapshotKey = "products"

// Cache persists catalog snapshots through the storage port and judges
// their staleness.
type Cache struct {
	store  storage.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewCache creates a catalog cache over the given store.
func NewCache(store storage.Store, logger *zap.Logger) *Cache {
	return &Cache{store: store, logger: logger, now: time.Now}
}

// Persist writes the snapshot {products, now} under the catalog key,
// replacing any previous value.
func (c *Cache) Persist(ctx context.Context, products []domain.Product) (*domain.CatalogSnapshot, error) {
	snap := &domain.CatalogSnapshot{
		Products:  products,
		Timestamp: c.now().UnixMilli(),
	}
	if err := c.store.Set(ctx, snapshotKey, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Restore reads the persisted snapshot. A missing key yields (nil, nil).
// A corrupted value is self-healing: the key is deleted and the caller
// proceeds with an empty catalog instead of an error. A backend failure
// is returned as-is so a reachable snapshot is never destroyed over a
// transient outage.
func (c *Cache) Restore(ctx context.Context) (*domain.CatalogSnapshot, error) {
	var snap domain.CatalogSnapshot
	err := c.store.Get(ctx, snapshotKey, &snap)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		if !storage.IsDecodeError(err) {
			return nil, err
		}
		c.logger.Warn("corrupted catalog snapshot, clearing", zap.Error(err))
		if rmErr := c.store.Remove(ctx, snapshotKey); rmErr != nil {
			return nil, rmErr
		}
		return nil, nil
	}
	return &snap, nil
}

// Erase removes the persisted snapshot.
func (c *Cache) Erase(ctx context.Context) error {
	return c.store.Remove(ctx, snapshotKey)
}

// IsStale reports whether a snapshot taken at ts has outlived ttl.
func (c *Cache) IsStale(ts time.Time, ttl time.Duration) bool {
	return c.now().Sub(ts) > ttl
}
