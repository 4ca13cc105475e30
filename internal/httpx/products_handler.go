package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-shop-admin/internal/catalog"
	"github.com/ariefcatur/go-shop-admin/internal/inventory"
	"github.com/ariefcatur/go-shop-admin/internal/shopify"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProductCounter interface {
	CountProducts(ctx context.Context, creds shopify.Credentials) (int, error)
}

type ProductsHandler struct {
	Catalog    *catalog.Fetcher
	Aggregator *inventory.Aggregator
	Counter    ProductCounter
	Log        *zap.Logger
}

func (h *ProductsHandler) Register(r chi.Router) {
	ew := errorWriter{log: h.Log}
	r.Get("/api/products/all", ew.handle(h.listProducts))
	r.Get("/api/products/count", ew.handle(h.countProducts))
	r.Get("/api/products/inventory", ew.handle(h.productInventory))
	r.Get("/api/low-inventory", ew.handle(h.lowInventory))
	r.Get("/api/products/low-inventory", ew.handle(h.embeddedLowInventory))
}

// listProducts serves the product table from the first catalog page. The
// match count before paging goes into X-Total-Count.
func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) error {
	creds, err := credentials(r)
	if err != nil {
		return err
	}
	products, err := h.Catalog.FetchFirstPage(r.Context(), creds, shopify.MaxPageSize)
	if err != nil {
		return failed("Failed to fetch products from Shopify", err)
	}
	q := r.URL.Query()
	page := catalog.List(products, catalog.Query{
		Search: q.Get("search"),
		Filter: q.Get("filter"),
		Sort:   q.Get("sort"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", shopify.MaxPageSize),
	})
	w.Header().Set("X-Total-Count", strconv.Itoa(page.Total))
	writeJSON(w, http.StatusOK, page.Items)
	return nil
}

func (h *ProductsHandler) countProducts(w http.ResponseWriter, r *http.Request) error {
	creds, err := credentials(r)
	if err != nil {
		return err
	}
	n, err := h.Counter.CountProducts(r.Context(), creds)
	if err != nil {
		return failed("Failed to count products", err)
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
	return nil
}

// productInventory walks the whole catalog and attaches the stock of every
// variant. Variants whose lookup failed carry a null quantity.
func (h *ProductsHandler) productInventory(w http.ResponseWriter, r *http.Request) error {
	stocked, err := h.stocked(r)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, stocked)
	return nil
}

func (h *ProductsHandler) lowInventory(w http.ResponseWriter, r *http.Request) error {
	stocked, err := h.stocked(r)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, inventory.LowStock(stocked, threshold(r)))
	return nil
}

func (h *ProductsHandler) stocked(r *http.Request) ([]inventory.StockedProduct, error) {
	creds, err := credentials(r)
	if err != nil {
		return nil, err
	}
	products, err := h.Catalog.FetchAll(r.Context(), creds, shopify.MaxPageSize)
	if err != nil {
		return nil, failed("Failed to fetch inventory data", err)
	}
	return h.Aggregator.Aggregate(r.Context(), creds, products), nil
}

// embeddedLowInventory trusts inventory_quantity as embedded in the first
// catalog page.
func (h *ProductsHandler) embeddedLowInventory(w http.ResponseWriter, r *http.Request) error {
	creds, err := credentials(r)
	if err != nil {
		return err
	}
	products, err := h.Catalog.FetchFirstPage(r.Context(), creds, shopify.MaxPageSize)
	if err != nil {
		return failed("Failed to fetch low-inventory products", err)
	}
	t := threshold(r)
	low := inventory.EmbeddedLowStock(products, t)
	writeJSON(w, http.StatusOK, map[string]any{"threshold": t, "count": len(low), "products": low})
	return nil
}

// threshold is the `threshold` query value; missing, zero, negative or
// malformed values mean the default.
func threshold(r *http.Request) int {
	return queryInt(r, "threshold", inventory.DefaultThreshold)
}
