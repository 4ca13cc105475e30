package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/ariefcatur/go-shop-admin/internal/apperr"
	"github.com/ariefcatur/go-shop-admin/internal/events"
	"github.com/ariefcatur/go-shop-admin/internal/shopify"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ItemChunkSize bounds the ids list of one inventory_items lookup.
const ItemChunkSize = 100

type Upstream interface {
	Locations(ctx context.Context, creds shopify.Credentials) ([]shopify.Location, error)
	SetInventoryLevel(ctx context.Context, creds shopify.Credentials, set shopify.InventoryLevelSet) (json.RawMessage, error)
	InventoryItems(ctx context.Context, creds shopify.Credentials, ids []int64) ([]shopify.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, creds shopify.Credentials, id int64, upd shopify.InventoryItemUpdate) (shopify.InventoryItem, error)
}

type Service struct {
	Upstream Upstream
	Events   events.Publisher
	Producer string
	Log      *zap.Logger
}

// SetQuantityRequest is the body of an inventory quantity update. Ids and
// quantity may arrive as JSON numbers or numeric strings.
type SetQuantityRequest struct {
	ProductID         json.RawMessage `json:"productId"`
	VariantID         json.RawMessage `json:"variantId"`
	InventoryItemID   json.RawMessage `json:"inventoryItemId"`
	InventoryQuantity json.RawMessage `json:"inventoryQuantity"`
}

type setQuantity struct {
	productID, variantID, itemID int64
	quantity                     int
}

func (r SetQuantityRequest) validate() (setQuantity, error) {
	var s setQuantity
	itemID, ok, err := shopify.IDFromJSON(r.InventoryItemID)
	if !ok {
		return s, apperr.Invalid("inventoryItemId", "Inventory item ID is required")
	}
	if err != nil {
		return s, apperr.Invalid("inventoryItemId", "Invalid inventory item ID")
	}
	qty, ok, err := shopify.IntFromJSON(r.InventoryQuantity)
	if !ok || err != nil || qty != int64(int(qty)) {
		return s, apperr.Invalid("inventoryQuantity", "Invalid inventory quantity")
	}
	// product and variant ids are informational only
	s.productID, _, _ = shopify.IDFromJSON(r.ProductID)
	s.variantID, _, _ = shopify.IDFromJSON(r.VariantID)
	s.itemID = itemID
	s.quantity = int(qty)
	return s, nil
}

// SetQuantity overwrites the available quantity at the shop's first location.
// The location is looked up on every call and no concurrency check is made.
func (s *Service) SetQuantity(ctx context.Context, creds shopify.Credentials, req SetQuantityRequest) (json.RawMessage, error) {
	in, err := req.validate()
	if err != nil {
		return nil, err
	}

	locs, err := s.Upstream.Locations(ctx, creds)
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 || locs[0].ID == 0 {
		return nil, shopify.ErrNoLocation
	}

	set := shopify.InventoryLevelSet{LocationID: locs[0].ID, InventoryItemID: in.itemID, Available: in.quantity}
	s.logger().Info("updating inventory",
		zap.String("shop", creds.Shop),
		zap.Int64("inventory_item_id", set.InventoryItemID),
		zap.Int64("location_id", set.LocationID),
		zap.Int("available", set.Available),
	)
	res, err := s.Upstream.SetInventoryLevel(ctx, creds, set)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, creds, events.EventInventoryLevelSet, in.itemID, events.InventoryLevelSetPayload{
		InventoryItemID: in.itemID,
		LocationID:      set.LocationID,
		Available:       set.Available,
		ProductID:       in.productID,
		VariantID:       in.variantID,
	})
	return res, nil
}

type UpdateItemRequest struct {
	SKU     *string `json:"sku" validate:"omitempty,max=255"`
	Tracked *bool   `json:"tracked"`
	Cost    *string `json:"cost"`
}

// UpdateItem changes sku, tracked flag or unit cost of one inventory item.
func (s *Service) UpdateItem(ctx context.Context, creds shopify.Credentials, rawID string, req UpdateItemRequest) (shopify.InventoryItem, error) {
	id, err := shopify.ParseID(rawID)
	if err != nil {
		return shopify.InventoryItem{}, apperr.Invalid("id", "Invalid inventory item ID")
	}
	if err := apperr.Struct(req); err != nil {
		return shopify.InventoryItem{}, err
	}
	upd := shopify.InventoryItemUpdate{SKU: req.SKU, Tracked: req.Tracked}
	if req.Cost != nil && *req.Cost != "" {
		d, err := decimal.NewFromString(*req.Cost)
		if err != nil || d.IsNegative() {
			return shopify.InventoryItem{}, apperr.Invalid("cost", "Invalid cost")
		}
		cost := d.StringFixed(2)
		upd.Cost = &cost
	}

	item, err := s.Upstream.UpdateInventoryItem(ctx, creds, id, upd)
	if err != nil {
		return shopify.InventoryItem{}, err
	}
	s.publish(ctx, creds, events.EventInventoryItemUpdated, id, events.InventoryItemUpdatedPayload{
		InventoryItemID: id,
		SKU:             upd.SKU,
		Tracked:         upd.Tracked,
		Cost:            upd.Cost,
	})
	return item, nil
}

// ListItems resolves the inventory items behind every variant of products,
// in variant order. Any failing lookup fails the listing.
func (s *Service) ListItems(ctx context.Context, creds shopify.Credentials, products []shopify.Product) ([]shopify.InventoryItem, error) {
	var ids []int64
	for _, p := range products {
		for _, v := range p.Variants {
			if v.InventoryItemID != 0 {
				ids = append(ids, v.InventoryItemID)
			}
		}
	}
	chunks := slices.Collect(slices.Chunk(ids, ItemChunkSize))
	results := make([][]shopify.InventoryItem, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			items, err := s.Upstream.InventoryItems(gctx, creds, chunk)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]shopify.InventoryItem, 0, len(ids))
	for _, items := range results {
		out = append(out, items...)
	}
	return out, nil
}

func (s *Service) publish(ctx context.Context, creds shopify.Credentials, eventType string, id int64, payload any) {
	if s.Events == nil {
		return
	}
	ev, err := events.New(ctx, eventType, s.Producer, creds.Shop, strconv.FormatInt(id, 10), payload)
	if err == nil {
		err = s.Events.Publish(ctx, ev)
	}
	if err != nil {
		s.logger().Warn("audit event dropped", zap.String("event_type", eventType), zap.Error(fmt.Errorf("publish: %w", err)))
	}
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
