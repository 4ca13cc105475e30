package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type OrderQuery struct {
	Status          string // defaults to "any"
	Limit           int
	FinancialStatus string
	CreatedAtMin    time.Time
	CreatedAtMax    time.Time
	ProductID       int64
}

func (q OrderQuery) values() url.Values {
	v := url.Values{}
	status := q.Status
	if status == "" {
		status = "any"
	}
	v.Set("status", status)
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.FinancialStatus != "" {
		v.Set("financial_status", q.FinancialStatus)
	}
	if !q.CreatedAtMin.IsZero() {
		v.Set("created_at_min", q.CreatedAtMin.UTC().Format(time.RFC3339))
	}
	if !q.CreatedAtMax.IsZero() {
		v.Set("created_at_max", q.CreatedAtMax.UTC().Format(time.RFC3339))
	}
	if q.ProductID != 0 {
		v.Set("product_id", strconv.FormatInt(q.ProductID, 10))
	}
	return v
}

// ListOrders reads a single page of orders. No cursor is followed.
func (c *Client) ListOrders(ctx context.Context, creds Credentials, q OrderQuery) ([]Order, error) {
	var body struct {
		Orders []Order `json:"orders"`
	}
	if _, err := c.get(ctx, creds, call{op: "fetch orders", path: "orders.json", query: q.values()}, &body); err != nil {
		return nil, err
	}
	return body.Orders, nil
}

func (c *Client) GetOrder(ctx context.Context, creds Credentials, id int64, fields []string) (Order, error) {
	v := url.Values{}
	if len(fields) > 0 {
		v.Set("fields", strings.Join(fields, ","))
	}
	var body struct {
		Order Order `json:"order"`
	}
	if _, err := c.get(ctx, creds, call{op: "fetch order", path: fmt.Sprintf("orders/%d.json", id), query: v}, &body); err != nil {
		return Order{}, err
	}
	return body.Order, nil
}

type OrderUpdate struct {
	ID              int64            `json:"id"`
	TrackingNumber  *string          `json:"tracking_number,omitempty"`
	Customer        *CustomerUpdate  `json:"customer,omitempty"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
}

type CustomerUpdate struct {
	Email string `json:"email"`
}

type ShippingAddress struct {
	Address1 string `json:"address1"`
}

func (c *Client) UpdateOrder(ctx context.Context, creds Credentials, upd OrderUpdate) (json.RawMessage, error) {
	b, _, err := c.do(ctx, creds, call{
		op:     "update order",
		method: http.MethodPut,
		path:   fmt.Sprintf("orders/%d.json", upd.ID),
		body:   map[string]any{"order": upd},
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

func (c *Client) FulfillmentOrders(ctx context.Context, creds Credentials, orderID int64) ([]json.RawMessage, error) {
	var body struct {
		FulfillmentOrders []json.RawMessage `json:"fulfillment_orders"`
	}
	_, err := c.get(ctx, creds, call{
		op:      "fetch fulfillment orders",
		version: c.invVersion,
		path:    fmt.Sprintf("orders/%d/fulfillment_orders.json", orderID),
	}, &body)
	if err != nil {
		return nil, err
	}
	return body.FulfillmentOrders, nil
}

func (c *Client) Fulfillments(ctx context.Context, creds Credentials, fulfillmentOrderID int64) ([]json.RawMessage, error) {
	var body struct {
		Fulfillments []json.RawMessage `json:"fulfillments"`
	}
	_, err := c.get(ctx, creds, call{
		op:   "fetch fulfillments",
		path: fmt.Sprintf("fulfillment_orders/%d/fulfillments.json", fulfillmentOrderID),
	}, &body)
	if err != nil {
		return nil, err
	}
	return body.Fulfillments, nil
}
