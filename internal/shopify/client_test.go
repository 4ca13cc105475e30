package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL})
}

var creds = Credentials{Shop: "demo.myshopify.com", AccessToken: "shpat_test"}

func TestListProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "shpat_test" {
			t.Errorf("token header = %q", got)
		}
		if r.URL.Path != "/admin/api/2024-10/products.json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "250" {
			t.Errorf("limit = %s", r.URL.Query().Get("limit"))
		}
		w.Header().Set("Link", `<https://demo.myshopify.com/admin/api/2024-10/products.json?limit=250&page_info=abc123>; rel="next"`)
		_, _ = io.WriteString(w, `{"products":[{"id":1,"title":"Hat","vendor":"Acme","variants":[{"id":11,"inventory_item_id":111,"inventory_quantity":4}]}]}`)
	})

	page, err := c.ListProducts(context.Background(), creds, ProductQuery{Limit: 250})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if page.Next != "abc123" {
		t.Fatalf("next = %q", page.Next)
	}
	if len(page.Products) != 1 || page.Products[0].Variants[0].InventoryItemID != 111 {
		t.Fatalf("unexpected products: %+v", page.Products)
	}

	// unknown fields survive a round trip
	b, err := json.Marshal(page.Products[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"vendor":"Acme"`) {
		t.Fatalf("vendor dropped: %s", b)
	}
}

func TestUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"errors":"Exceeded 2 calls per second"}`)
	})

	_, err := c.ListOrders(context.Background(), creds, OrderQuery{Limit: 250})
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if ue.Status != http.StatusTooManyRequests || !strings.Contains(ue.Body, "Exceeded") {
		t.Fatalf("unexpected error: %+v", ue)
	}
}

func TestInventoryCallsUseInventoryVersion(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		mu.Unlock()
		switch {
		case strings.HasSuffix(r.URL.Path, "inventory_levels.json"):
			_, _ = io.WriteString(w, `{"inventory_levels":[{"inventory_item_id":1,"location_id":9,"available":3}]}`)
		case strings.HasSuffix(r.URL.Path, "locations.json"):
			_, _ = io.WriteString(w, `{"locations":[{"id":9,"name":"Main"}]}`)
		case strings.HasSuffix(r.URL.Path, "inventory_levels/set.json"):
			var set InventoryLevelSet
			_ = json.NewDecoder(r.Body).Decode(&set)
			if set.Available != 7 || set.LocationID != 9 {
				t.Errorf("set payload = %+v", set)
			}
			_, _ = io.WriteString(w, `{"inventory_level":{"inventory_item_id":1,"location_id":9,"available":7}}`)
		}
	})
	ctx := context.Background()

	levels, err := c.InventoryLevels(ctx, creds, []int64{1, 2})
	if err != nil || len(levels) != 1 || *levels[0].Available != 3 {
		t.Fatalf("levels = %+v, err = %v", levels, err)
	}
	if _, err := c.Locations(ctx, creds); err != nil {
		t.Fatal(err)
	}
	raw, err := c.SetInventoryLevel(ctx, creds, InventoryLevelSet{LocationID: 9, InventoryItemID: 1, Available: 7})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"available":7`) {
		t.Fatalf("raw = %s", raw)
	}
	mu.Lock()
	defer mu.Unlock()
	for _, p := range paths {
		if !strings.HasPrefix(p, "/admin/api/2024-01/") {
			t.Errorf("expected inventory API version, got %s", p)
		}
	}
	if paths[0] != "/admin/api/2024-01/inventory_levels.json?inventory_item_ids=1%2C2" {
		t.Errorf("levels query = %s", paths[0])
	}
}
