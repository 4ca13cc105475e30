package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-shop-admin/internal/catalog"
	"github.com/ariefcatur/go-shop-admin/internal/inventory"
	"github.com/ariefcatur/go-shop-admin/internal/shopify"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	Catalog *catalog.Fetcher
	Service *inventory.Service
	Log     *zap.Logger
}

func (h *InventoryHandler) Register(r chi.Router) {
	ew := errorWriter{log: h.Log}
	r.Get("/api/inventory-items", ew.handle(h.listItems))
	r.Put("/api/inventory-items/{id}", ew.handle(h.updateItem))
	r.Put("/api/products/update-inventory", ew.handle(h.setQuantity))
}

func (h *InventoryHandler) listItems(w http.ResponseWriter, r *http.Request) error {
	creds, err := credentials(r)
	if err != nil {
		return err
	}
	products, err := h.Catalog.FetchFirstPage(r.Context(), creds, shopify.MaxPageSize)
	if err != nil {
		return failed("Failed to fetch products", err)
	}
	items, err := h.Service.ListItems(r.Context(), creds, products)
	if err != nil {
		return failed("Failed to fetch inventory items", err)
	}
	writeJSON(w, http.StatusOK, items)
	return nil
}

func (h *InventoryHandler) updateItem(w http.ResponseWriter, r *http.Request) error {
	creds, err := credentials(r)
	if err != nil {
		return err
	}
	var req inventory.UpdateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	item, err := h.Service.UpdateItem(r.Context(), creds, chi.URLParam(r, "id"), req)
	if err != nil {
		return failed("Failed to update inventory item", err)
	}
	writeJSON(w, http.StatusOK, item)
	return nil
}

func (h *InventoryHandler) setQuantity(w http.ResponseWriter, r *http.Request) error {
	creds, err := credentials(r)
	if err != nil {
		return err
	}
	var req inventory.SetQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	res, err := h.Service.SetQuantity(r.Context(), creds, req)
	if err != nil {
		return failed("Failed to update inventory", err)
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}
