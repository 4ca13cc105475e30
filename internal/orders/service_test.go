package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/go-shop-admin/internal/apperr"
	"github.com/ariefcatur/go-shop-admin/internal/events"
	"github.com/ariefcatur/go-shop-admin/internal/shopify"
)

var creds = shopify.Credentials{Shop: "demo.myshopify.com", AccessToken: "tok"}

// fakeShop answers like the orders endpoint: at most MaxPageSize orders per
// call, no cursor.
type fakeShop struct {
	mu         sync.Mutex
	orders     []shopify.Order
	queries    []shopify.OrderQuery
	updates    []shopify.OrderUpdate
	failFO     map[int64]bool
	failF      map[int64]bool
	fulfillCnt int
}

func (f *fakeShop) ListOrders(_ context.Context, _ shopify.Credentials, q shopify.OrderQuery) ([]shopify.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if len(f.orders) > shopify.MaxPageSize {
		return f.orders[:shopify.MaxPageSize], nil
	}
	return f.orders, nil
}

func (f *fakeShop) GetOrder(_ context.Context, _ shopify.Credentials, id int64, fields []string) (shopify.Order, error) {
	return shopify.Order{ID: id, Name: fmt.Sprintf("#%d", id)}, nil
}

func (f *fakeShop) UpdateOrder(_ context.Context, _ shopify.Credentials, upd shopify.OrderUpdate) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, upd)
	return json.RawMessage(fmt.Sprintf(`{"order":{"id":%d}}`, upd.ID)), nil
}

func (f *fakeShop) FulfillmentOrders(_ context.Context, _ shopify.Credentials, orderID int64) ([]json.RawMessage, error) {
	if f.failFO[orderID] {
		return nil, &shopify.UpstreamError{Op: "fetch fulfillment orders", Status: 404, Body: "not found"}
	}
	return []json.RawMessage{json.RawMessage(fmt.Sprintf(`{"order_id":%d}`, orderID))}, nil
}

func (f *fakeShop) Fulfillments(_ context.Context, _ shopify.Credentials, id int64) ([]json.RawMessage, error) {
	f.mu.Lock()
	f.fulfillCnt++
	f.mu.Unlock()
	if f.failF[id] {
		return nil, &shopify.UpstreamError{Op: "fetch fulfillments", Status: 500, Body: "boom"}
	}
	return []json.RawMessage{json.RawMessage(fmt.Sprintf(`{"id":%d}`, id))}, nil
}

func shopWithOrders(n int) *fakeShop {
	f := &fakeShop{}
	for i := 1; i <= n; i++ {
		f.orders = append(f.orders, shopify.Order{ID: int64(i), Name: fmt.Sprintf("#%d", 1000+i)})
	}
	return f
}

func TestListReadsSingleUpstreamPage(t *testing.T) {
	for _, n := range []int{250, 251} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			svc := &Service{Upstream: shopWithOrders(n)}
			res, err := svc.List(context.Background(), creds, Query{Limit: 1000})
			if err != nil {
				t.Fatal(err)
			}
			if res.TotalCount != 250 || len(res.Orders) != 250 {
				t.Fatalf("total = %d, page = %d, want 250", res.TotalCount, len(res.Orders))
			}
		})
	}
}

func TestListPaginatesFilteredSet(t *testing.T) {
	f := shopWithOrders(30)
	svc := &Service{Upstream: f}

	res, err := svc.List(context.Background(), creds, Query{Page: 2, Limit: 4, Search: "#100"})
	if err != nil {
		t.Fatal(err)
	}
	// #1001 .. #1009 match
	if res.TotalCount != 9 || len(res.Orders) != 4 || res.Orders[0].ID != 5 {
		t.Fatalf("res = total %d, %d orders, first %d", res.TotalCount, len(res.Orders), res.Orders[0].ID)
	}
	q := f.queries[0]
	if q.Limit != shopify.MaxPageSize || q.FinancialStatus != "" {
		t.Fatalf("upstream query = %+v", q)
	}
}

func TestListForwardsFiltersUpstream(t *testing.T) {
	f := shopWithOrders(0)
	now := time.Date(2024, 6, 15, 15, 0, 0, 0, time.UTC)
	svc := &Service{Upstream: f, Now: func() time.Time { return now }, Location: time.UTC}

	if _, err := svc.List(context.Background(), creds, Query{Status: "paid", DateFilter: "today", ProductID: 9}); err != nil {
		t.Fatal(err)
	}
	q := f.queries[0]
	if q.FinancialStatus != "paid" || q.ProductID != 9 {
		t.Fatalf("upstream query = %+v", q)
	}
	if !q.CreatedAtMin.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) || !q.CreatedAtMax.Equal(now) {
		t.Fatalf("created range = %v .. %v", q.CreatedAtMin, q.CreatedAtMax)
	}

	if _, err := svc.List(context.Background(), creds, Query{Status: StatusUnfulfilled}); err != nil {
		t.Fatal(err)
	}
	if f.queries[1].FinancialStatus != "" {
		t.Fatalf("fulfillment status forwarded as financial status")
	}
}

func TestListAppliesDateBucketClientSide(t *testing.T) {
	now := time.Date(2024, 6, 15, 15, 0, 0, 0, time.UTC)
	f := &fakeShop{orders: []shopify.Order{
		{ID: 1, CreatedAt: time.Date(2024, 6, 15, 0, 0, 1, 0, time.UTC)},
		{ID: 2, CreatedAt: time.Date(2024, 6, 14, 23, 59, 59, 0, time.UTC)},
	}}
	svc := &Service{Upstream: f, Now: func() time.Time { return now }, Location: time.UTC}

	res, err := svc.List(context.Background(), creds, Query{DateFilter: "today"})
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalCount != 1 || res.Orders[0].ID != 1 {
		t.Fatalf("res = %+v", res)
	}
}

func TestUpdateValidation(t *testing.T) {
	f := shopWithOrders(0)
	svc := &Service{Upstream: f}
	bad := "not-an-email"

	_, err := svc.Update(context.Background(), creds, UpdateRequest{})
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) || ve.Message != "Order ID is required" {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.Update(context.Background(), creds, UpdateRequest{OrderID: "1", CustomerEmail: &bad}); !apperr.IsValidation(err) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.UpdateTracking(context.Background(), creds, "1", TrackingRequest{}); !apperr.IsValidation(err) {
		t.Fatalf("err = %v", err)
	}
	if len(f.updates) != 0 {
		t.Fatalf("updates sent: %+v", f.updates)
	}
}

func TestUpdatePublishesEvent(t *testing.T) {
	f := shopWithOrders(0)
	pub := &recorder{}
	svc := &Service{Upstream: f, Events: pub, Producer: "test"}
	email := "jo@example.com"
	addr := "Jl. Sudirman 1"

	res, err := svc.Update(context.Background(), creds, UpdateRequest{OrderID: "gid://shopify/Order/42", CustomerEmail: &email, ShippingAddress: &addr})
	if err != nil {
		t.Fatal(err)
	}
	if string(res) != `{"order":{"id":42}}` {
		t.Fatalf("res = %s", res)
	}
	upd := f.updates[0]
	if upd.ID != 42 || upd.TrackingNumber != nil || upd.Customer.Email != email || upd.ShippingAddress.Address1 != addr {
		t.Fatalf("update = %+v", upd)
	}
	if len(pub.events) != 1 || pub.events[0].EventType != events.EventOrderUpdated || pub.events[0].Shop != creds.Shop {
		t.Fatalf("events = %+v", pub.events)
	}
}

func TestFulfillmentOrdersBestEffort(t *testing.T) {
	f := shopWithOrders(3)
	f.failFO = map[int64]bool{2: true}
	svc := &Service{Upstream: f}

	got, err := svc.FulfillmentOrders(context.Background(), creds)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got[0]) != `{"order_id":1}` || string(got[1]) != `{"order_id":3}` {
		t.Fatalf("got %s", got)
	}
}

func TestFulfillmentDetails(t *testing.T) {
	t.Run("no fulfillments", func(t *testing.T) {
		svc := &Service{Upstream: shopWithOrders(2)}
		_, err := svc.FulfillmentDetails(context.Background(), creds)
		if !apperr.IsValidation(err) {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("fails fast", func(t *testing.T) {
		f := &fakeShop{
			orders: []shopify.Order{{ID: 1, Fulfillments: []shopify.Fulfillment{{ID: 10}, {ID: 11}}}},
			failF:  map[int64]bool{11: true},
		}
		svc := &Service{Upstream: f}
		_, err := svc.FulfillmentDetails(context.Background(), creds)
		var ue *shopify.UpstreamError
		if !errors.As(err, &ue) {
			t.Fatalf("err = %v", err)
		}
	})
	t.Run("ordered", func(t *testing.T) {
		f := &fakeShop{orders: []shopify.Order{
			{ID: 1, Fulfillments: []shopify.Fulfillment{{ID: 10}}},
			{ID: 2, Fulfillments: []shopify.Fulfillment{{ID: 20}, {ID: 21}}},
		}}
		svc := &Service{Upstream: f}
		got, err := svc.FulfillmentDetails(context.Background(), creds)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 3 || string(got[2]) != `{"id":21}` {
			t.Fatalf("got %s", got)
		}
	})
}

type recorder struct{ events []events.Envelope }

func (r *recorder) Publish(_ context.Context, ev events.Envelope) error {
	r.events = append(r.events, ev)
	return nil
}
