package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/petshop/storefront/internal/domain"
	"github.com/petshop/storefront/internal/parser"
)

// ValidationError reports a catalog-level validation failure.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ErrEmptyCatalog is returned when a source parses successfully but yields
// no products. The previous collection is left untouched.
var ErrEmptyCatalog = &ValidationError{Reason: "no products found in source"}

// ParserResolver selects a parser for a source name. Satisfied by
// *parser.Registry.
type ParserResolver interface {
	ForSource(name string) parser.Parser
}

// Store holds the in-memory catalog plus its loading/error/staleness state
// and the active filter and sort. The derived filtered view is recomputed
// lazily, keyed on a version counter bumped by every write to its inputs.
//
// Concurrent LoadProducts calls are not deduplicated: writes to the
// loading/error state race last-writer-wins, matching the storefront's
// fire-and-forget load semantics. Callers that care should gate reentry
// themselves.
type Store struct {
	cache      *Cache
	parsers    ParserResolver
	normalizer *parser.Normalizer
	ttl        time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu          sync.Mutex
	products    []domain.Product
	loading     bool
	loadErr     string
	lastUpdated time.Time
	filter      domain.ProductFilter
	sortOpts    domain.SortOptions

	version     uint64
	viewVersion uint64
	view        []domain.Product
}

// NewStore creates a catalog store. ttl bounds snapshot freshness for
// non-forced loads.
func NewStore(cache *Cache, parsers ParserResolver, normalizer *parser.Normalizer, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		cache:      cache,
		parsers:    parsers,
		normalizer: normalizer,
		ttl:        ttl,
		logger:     logger,
		now:        time.Now,
		sortOpts:   domain.DefaultSort(),
		version:    1,
	}
}

// Load hydrates the in-memory catalog from the persisted snapshot. It is
// pure hydration: no network access, idempotent, and a no-op when nothing
// is persisted.
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.cache.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restore catalog: %w", err)
	}
	if snap == nil {
		return nil
	}

	s.mu.Lock()
	s.products = snap.Products
	s.lastUpdated = snap.SnapshotTime()
	s.version++
	s.mu.Unlock()
	return nil
}

// LoadProducts loads the catalog from the named source. Without
// forceRefresh it first hydrates from cache and short-circuits when the
// cached catalog is non-empty and not stale. Failures are recorded in the
// store's error state for display and also returned to the caller. The
// loading flag is reset on every exit path.
func (s *Store) LoadProducts(ctx context.Context, source string, forceRefresh bool) error {
	if !forceRefresh {
		if err := s.Load(ctx); err != nil {
			return err
		}
		s.mu.Lock()
		fresh := len(s.products) > 0 && !s.cache.IsStale(s.lastUpdated, s.ttl)
		s.mu.Unlock()
		if fresh {
			return nil
		}
	}

	s.mu.Lock()
	s.loading = true
	s.loadErr = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	rows, err := s.parsers.ForSource(source).Parse(ctx, source)
	if err != nil {
		err = fmt.Errorf("load products from %s: %w", source, err)
		s.recordError(err)
		return err
	}

	products := s.normalizer.NormalizeAll(rows)
	if len(products) == 0 {
		s.recordError(ErrEmptyCatalog)
		return ErrEmptyCatalog
	}

	if err := s.set(ctx, products); err != nil {
		s.recordError(err)
		return err
	}

	s.logger.Info("catalog loaded",
		zap.String("source", source),
		zap.Int("products", len(products)),
		zap.Bool("force_refresh", forceRefresh),
	)
	return nil
}

// set replaces the collection, persists the snapshot and stamps
// lastUpdated from it.
func (s *Store) set(ctx context.Context, products []domain.Product) error {
	snap, err := s.cache.Persist(ctx, products)
	if err != nil {
		return fmt.Errorf("persist catalog: %w", err)
	}

	s.mu.Lock()
	s.products = products
	s.lastUpdated = snap.SnapshotTime()
	s.version++
	s.mu.Unlock()
	return nil
}

func (s *Store) recordError(err error) {
	s.mu.Lock()
	s.loadErr = err.Error()
	s.mu.Unlock()
}

// Products returns the full normalized collection.
func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Loading reports whether a load is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the human-readable message of the last failed load, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// LastUpdated returns the timestamp of the last successful set.
func (s *Store) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdated
}

// IsDataStale reports whether the catalog has outlived its TTL.
func (s *Store) IsDataStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.IsStale(s.lastUpdated, s.ttl)
}

// SetFilter replaces the active filter and invalidates the derived view.
func (s *Store) SetFilter(f domain.ProductFilter) {
	s.mu.Lock()
	s.filter = f
	s.version++
	s.mu.Unlock()
}

// Filter returns the active filter.
func (s *Store) Filter() domain.ProductFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetSort replaces the sort order and invalidates the derived view.
func (s *Store) SetSort(opts domain.SortOptions) {
	s.mu.Lock()
	s.sortOpts = opts
	s.version++
	s.mu.Unlock()
}

// Sort returns the active sort order.
func (s *Store) Sort() domain.SortOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortOpts
}

// FilteredProducts returns the derived view: the collection filtered by
// the active criteria and sorted by the configured field and order. The
// result is memoized against the store version and recomputed only after
// a write to products, filter or sort. Callers must not mutate it.
func (s *Store) FilteredProducts() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewVersion == s.version && s.view != nil {
		return s.view
	}

	s.view = View(s.products, s.filter, s.sortOpts)
	s.viewVersion = s.version
	return s.view
}

// ClearCache erases the persisted snapshot and empties the in-memory
// collection. The active filter and sort are kept.
func (s *Store) ClearCache(ctx context.Context) error {
	if err := s.cache.Erase(ctx); err != nil {
		return fmt.Errorf("erase catalog cache: %w", err)
	}

	s.mu.Lock()
	s.products = nil
	s.lastUpdated = time.Time{}
	s.version++
	s.mu.Unlock()
	return nil
}

// View computes a filtered, sorted projection of products. Textual fields
// compare case-insensitively, price numerically. Ties keep no particular
// order: the sort is not stable.
func View(products []domain.Product, filter domain.ProductFilter, opts domain.SortOptions) []domain.Product {
	view := make([]domain.Product, 0, len(products))
	for i := range products {
		if filter.Matches(&products[i]) {
			view = append(view, products[i])
		}
	}

	sort.Slice(view, func(i, j int) bool {
		less := compareProducts(&view[i], &view[j], opts.Field) < 0
		if opts.Order == domain.SortDesc {
			return compareProducts(&view[j], &view[i], opts.Field) < 0
		}
		return less
	})
	return view
}

func compareProducts(a, b *domain.Product, field domain.SortField) int {
	switch field {
	case domain.SortByPrice:
		switch {
		case a.Price < b.Price:
			return -1
		case a.Price > b.Price:
			return 1
		default:
			return 0
		}
	case domain.SortByCategory:
		return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
	case domain.SortByBrand:
		return strings.Compare(strings.ToLower(a.Brand), strings.ToLower(b.Brand))
	default:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
}
