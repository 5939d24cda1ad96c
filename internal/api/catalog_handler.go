package api

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/petshop/storefront/internal/catalog"
	"github.com/petshop/storefront/internal/domain"
	"github.com/petshop/storefront/internal/middleware"
	"github.com/petshop/storefront/internal/pricing"
	"github.com/petshop/storefront/internal/resp"
)

// pricedProduct is a product annotated with the display price for the
// requesting role.
type pricedProduct struct {
	domain.Product
	DisplayPrice float64 `json:"display_price"`
}

// catalogListing is the body of the catalog listing endpoint.
type catalogListing struct {
	Products    []pricedProduct `json:"products"`
	Total       int             `json:"total"`
	Role        domain.UserRole `json:"role"`
	DiscountPct int             `json:"discount_pct"`
	Stale       bool            `json:"stale"`
}

// CatalogHandler serves the read-only catalog views.
type CatalogHandler struct {
	store  *catalog.Store
	source string
	logger *zap.Logger
}

// NewCatalogHandler creates a catalog handler. source is the default
// catalog source used by reloads.
func NewCatalogHandler(store *catalog.Store, source string, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{store: store, source: source, logger: logger}
}

// List handles GET /api/products. Filter and sort come from query
// parameters and are applied per request; the session role (when present)
// selects the display pricing, anonymous callers pay consumer prices.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	filter, opts, err := listingQuery(r)
	if err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
		return
	}

	role := domain.UserRoleConsumer
	if user := middleware.UserFromContext(r.Context()); user != nil {
		role = user.Role
	}

	view := catalog.View(h.store.Products(), filter, opts)
	priced := make([]pricedProduct, len(view))
	for i, p := range view {
		priced[i] = pricedProduct{
			Product:      p,
			DisplayPrice: pricing.PriceByRole(role, p.Price),
		}
	}

	listing := &catalogListing{
		Products:    priced,
		Total:       len(priced),
		Role:        role,
		DiscountPct: pricing.GetDiscountPercentage(role),
		Stale:       h.store.IsDataStale(),
	}
	resp.OK(w, listing, reqID, "")
}

// Reload handles POST /api/products/reload: an admin-only forced reload
// of the catalog from its default source.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	reqID := middleware.RequestIDFromContext(r.Context())

	if err := h.store.LoadProducts(r.Context(), h.source, true); err != nil {
		h.logger.Error("catalog reload failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadGateway, resp.CodeInternalError, h.store.Err(), reqID, "")
		return
	}

	result := map[string]any{
		"reloaded":     true,
		"products":     len(h.store.Products()),
		"last_updated": h.store.LastUpdated(),
	}
	resp.OK(w, &result, reqID, "")
}

// listingQuery parses filter and sort parameters.
func listingQuery(r *http.Request) (domain.ProductFilter, domain.SortOptions, error) {
	q := r.URL.Query()

	filter := domain.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
	}
	if v := q.Get("min_price"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, domain.SortOptions{}, errInvalidNumber("min_price")
		}
		filter.MinPrice = &n
	}
	if v := q.Get("max_price"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, domain.SortOptions{}, errInvalidNumber("max_price")
		}
		filter.MaxPrice = &n
	}

	opts := domain.DefaultSort()
	switch field := domain.SortField(q.Get("sort_by")); field {
	case domain.SortByName, domain.SortByPrice, domain.SortByCategory, domain.SortByBrand:
		opts.Field = field
	case "":
	default:
		return filter, opts, errInvalidSort(q.Get("sort_by"))
	}
	if q.Get("sort_order") == string(domain.SortDesc) {
		opts.Order = domain.SortDesc
	}
	return filter, opts, nil
}

type queryError string

func (e queryError) Error() string { return string(e) }

func errInvalidNumber(param string) error { return queryError("invalid numeric value for " + param) }
func errInvalidSort(field string) error   { return queryError("unknown sort field " + field) }
