package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ariefcatur/go-shop-admin/internal/apperr"
	"github.com/ariefcatur/go-shop-admin/internal/events"
	"github.com/ariefcatur/go-shop-admin/internal/listing"
	"github.com/ariefcatur/go-shop-admin/internal/shopify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// singleOrderFields is what the tracking screen reads for one order.
var singleOrderFields = []string{"id", "name", "tracking_number", "fulfillment_status"}

type Upstream interface {
	ListOrders(ctx context.Context, creds shopify.Credentials, q shopify.OrderQuery) ([]shopify.Order, error)
	GetOrder(ctx context.Context, creds shopify.Credentials, id int64, fields []string) (shopify.Order, error)
	UpdateOrder(ctx context.Context, creds shopify.Credentials, upd shopify.OrderUpdate) (json.RawMessage, error)
	FulfillmentOrders(ctx context.Context, creds shopify.Credentials, orderID int64) ([]json.RawMessage, error)
	Fulfillments(ctx context.Context, creds shopify.Credentials, fulfillmentOrderID int64) ([]json.RawMessage, error)
}

type Service struct {
	Upstream Upstream
	Events   events.Publisher
	Producer string
	Log      *zap.Logger
	Now      func() time.Time // defaults to time.Now in Location
	Location *time.Location
}

func (s *Service) now() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

// List reads one upstream page of orders and applies every filter of q
// in memory before slicing the requested page. Orders beyond the first
// page are never seen.
func (s *Service) List(ctx context.Context, creds shopify.Credentials, q Query) (Result, error) {
	uq := shopify.OrderQuery{
		Limit:           shopify.MaxPageSize,
		FinancialStatus: q.Status.financial(),
		ProductID:       q.ProductID,
	}
	var bucket *Range
	if r, ok := ResolveBucket(q.DateFilter, s.now()); ok {
		bucket = &r
		uq.CreatedAtMin, uq.CreatedAtMax = r.Start, r.End
	}

	all, err := s.Upstream.ListOrders(ctx, creds, uq)
	if err != nil {
		return Result{}, err
	}
	page := listing.Apply(all, listing.Spec[shopify.Order]{
		Filter: q.matcher(bucket),
		Page:   q.Page,
		Limit:  q.Limit,
	})
	return Result{Orders: page.Items, TotalCount: page.Total}, nil
}

func (s *Service) Get(ctx context.Context, creds shopify.Credentials, rawID string) (shopify.Order, error) {
	id, err := shopify.ParseID(rawID)
	if err != nil {
		return shopify.Order{}, apperr.Invalid("id", "Invalid order ID")
	}
	return s.Upstream.GetOrder(ctx, creds, id, singleOrderFields)
}

// UpdateTracking sets the tracking number of one order.
func (s *Service) UpdateTracking(ctx context.Context, creds shopify.Credentials, rawID string, req TrackingRequest) (json.RawMessage, error) {
	id, err := shopify.ParseID(rawID)
	if err != nil {
		return nil, apperr.Invalid("id", "Invalid order ID")
	}
	if err := apperr.Struct(req); err != nil {
		return nil, err
	}
	return s.update(ctx, creds, shopify.OrderUpdate{ID: id, TrackingNumber: &req.TrackingNumber})
}

// Update changes the tracking number, customer email or first shipping
// address line. Omitted fields are left untouched upstream.
func (s *Service) Update(ctx context.Context, creds shopify.Credentials, req UpdateRequest) (json.RawMessage, error) {
	if err := apperr.Struct(req); err != nil {
		var ve *apperr.ValidationError
		if errors.As(err, &ve) && ve.Field == "orderId" {
			return nil, apperr.Invalid("orderId", "Order ID is required")
		}
		return nil, err
	}
	id, err := shopify.ParseID(req.OrderID)
	if err != nil {
		return nil, apperr.Invalid("orderId", "Invalid order ID")
	}
	upd := shopify.OrderUpdate{ID: id, TrackingNumber: req.TrackingNumber}
	if req.CustomerEmail != nil {
		upd.Customer = &shopify.CustomerUpdate{Email: *req.CustomerEmail}
	}
	if req.ShippingAddress != nil {
		upd.ShippingAddress = &shopify.ShippingAddress{Address1: *req.ShippingAddress}
	}
	return s.update(ctx, creds, upd)
}

func (s *Service) update(ctx context.Context, creds shopify.Credentials, upd shopify.OrderUpdate) (json.RawMessage, error) {
	res, err := s.Upstream.UpdateOrder(ctx, creds, upd)
	if err != nil {
		return nil, err
	}
	s.logger().Info("order updated", zap.String("shop", creds.Shop), zap.Int64("order_id", upd.ID))

	if s.Events != nil {
		p := events.OrderUpdatedPayload{OrderID: upd.ID, TrackingNumber: upd.TrackingNumber}
		if upd.Customer != nil {
			p.CustomerEmail = &upd.Customer.Email
		}
		ev, err := events.New(ctx, events.EventOrderUpdated, s.Producer, creds.Shop, strconv.FormatInt(upd.ID, 10), p)
		if err == nil {
			err = s.Events.Publish(ctx, ev)
		}
		if err != nil {
			s.logger().Warn("audit event dropped", zap.Int64("order_id", upd.ID), zap.Error(err))
		}
	}
	return res, nil
}

// FulfillmentOrders collects the fulfillment orders of every order on the
// first upstream page. An order whose lookup fails contributes nothing.
func (s *Service) FulfillmentOrders(ctx context.Context, creds shopify.Credentials) ([]json.RawMessage, error) {
	all, err := s.Upstream.ListOrders(ctx, creds, shopify.OrderQuery{})
	if err != nil {
		return nil, err
	}

	results := make([][]json.RawMessage, len(all))
	var g errgroup.Group
	for i, o := range all {
		g.Go(func() error {
			fos, err := s.Upstream.FulfillmentOrders(ctx, creds, o.ID)
			if err != nil {
				s.logger().Warn("fulfillment orders skipped", zap.Int64("order_id", o.ID), zap.Error(err))
				return nil
			}
			results[i] = fos
			return nil
		})
	}
	_ = g.Wait()

	out := []json.RawMessage{}
	for _, fos := range results {
		out = append(out, fos...)
	}
	return out, nil
}

// FulfillmentDetails looks up the fulfillments behind every fulfillment id
// of the first page of orders. The first failing lookup fails the call.
func (s *Service) FulfillmentDetails(ctx context.Context, creds shopify.Credentials) ([]json.RawMessage, error) {
	all, err := s.Upstream.ListOrders(ctx, creds, shopify.OrderQuery{})
	if err != nil {
		return nil, err
	}
	var ids []int64
	for _, o := range all {
		for _, f := range o.Fulfillments {
			ids = append(ids, f.ID)
		}
	}
	if len(ids) == 0 {
		return nil, apperr.Invalid("fulfillments", "No fulfillments found for the orders")
	}

	results := make([][]json.RawMessage, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			fs, err := s.Upstream.Fulfillments(gctx, creds, id)
			if err != nil {
				return fmt.Errorf("fulfillment order %d: %w", id, err)
			}
			results[i] = fs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := []json.RawMessage{}
	for _, fs := range results {
		out = append(out, fs...)
	}
	return out, nil
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
