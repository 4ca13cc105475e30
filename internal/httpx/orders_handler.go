package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-shop-admin/internal/orders"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrdersHandler struct {
	Service *orders.Service
	Log     *zap.Logger
}

func (h *OrdersHandler) Register(r chi.Router) {
	ew := errorWriter{log: h.Log}
	r.Get("/api/orders/all", ew.handle(h.listOrders))
	r.Post("/api/orders/update", ew.handle(h.updateOrder))
	r.Get("/api/orders/{id}", ew.handle(h.getOrder))
	r.Put("/api/orders/{id}", ew.handle(h.updateTracking))
	r.Get("/api/fulfillment_orders", ew.handle(h.fulfillmentOrders))
	r.Get("/api/fulfillment-details", ew.handle(h.fulfillmentDetails))
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) error {
	creds, err := credentials(r)
	if err != nil {
		return err
	}
	productID, err := queryID(r, "product_id")
	if err != nil {
		return err
	}
	q := r.URL.Query()
	res, err := h.Service.List(r.Context(), creds, orders.Query{
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 100),
		Status:     orders.ParseStatus(q.Get("status")),
		DateFilter: q.Get("date_filter"),
		Search:     q.Get("search"),
		ProductID:  productID,
	})
	if err != nil {
		return failed("Failed to process orders", err)
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) error {
	creds, err := credentials(r)
	if err != nil {
		return err
	}
	o, err := h.Service.Get(r.Context(), creds, chi.URLParam(r, "id"))
	if err != nil {
		return failed("Failed to fetch order", err)
	}
	writeJSON(w, http.StatusOK, o)
	return nil
}

func (h *OrdersHandler) updateTracking(w http.ResponseWriter, r *http.Request) error {
	creds, err := credentials(r)
	if err != nil {
		return err
	}
	var req orders.TrackingRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	res, err := h.Service.UpdateTracking(r.Context(), creds, chi.URLParam(r, "id"), req)
	if err != nil {
		return failed("Failed to update order", err)
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

func (h *OrdersHandler) updateOrder(w http.ResponseWriter, r *http.Request) error {
	creds, err := credentials(r)
	if err != nil {
		return err
	}
	var req orders.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	res, err := h.Service.Update(r.Context(), creds, req)
	if err != nil {
		return failed("Failed to update order", err)
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

func (h *OrdersHandler) fulfillmentOrders(w http.ResponseWriter, r *http.Request) error {
	creds, err := credentials(r)
	if err != nil {
		return err
	}
	fos, err := h.Service.FulfillmentOrders(r.Context(), creds)
	if err != nil {
		return failed("Failed to fetch orders", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"fulfillment_orders": fos})
	return nil
}

func (h *OrdersHandler) fulfillmentDetails(w http.ResponseWriter, r *http.Request) error {
	creds, err := credentials(r)
	if err != nil {
		return err
	}
	fs, err := h.Service.FulfillmentDetails(r.Context(), creds)
	if err != nil {
		return failed("Failed to fetch fulfillment details", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"fulfillments": fs})
	return nil
}
