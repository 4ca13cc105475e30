package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// InventoryLevels looks up stock for a batch of inventory items across all
// locations of the shop.
func (c *Client) InventoryLevels(ctx context.Context, creds Credentials, itemIDs []int64) ([]InventoryLevel, error) {
	v := url.Values{"inventory_item_ids": {joinIDs(itemIDs)}}
	var body struct {
		InventoryLevels []InventoryLevel `json:"inventory_levels"`
	}
	_, err := c.get(ctx, creds, call{
		op:      "fetch inventory levels",
		version: c.invVersion,
		path:    "inventory_levels.json",
		query:   v,
	}, &body)
	if err != nil {
		return nil, err
	}
	return body.InventoryLevels, nil
}

func (c *Client) InventoryItems(ctx context.Context, creds Credentials, ids []int64) ([]InventoryItem, error) {
	v := url.Values{"ids": {joinIDs(ids)}}
	var body struct {
		InventoryItems []InventoryItem `json:"inventory_items"`
	}
	if _, err := c.get(ctx, creds, call{op: "fetch inventory items", path: "inventory_items.json", query: v}, &body); err != nil {
		return nil, err
	}
	return body.InventoryItems, nil
}

// InventoryItemUpdate carries only the fields the caller wants changed.
type InventoryItemUpdate struct {
	SKU     *string `json:"sku,omitempty"`
	Tracked *bool   `json:"tracked,omitempty"`
	Cost    *string `json:"cost,omitempty"`
}

func (c *Client) UpdateInventoryItem(ctx context.Context, creds Credentials, id int64, upd InventoryItemUpdate) (InventoryItem, error) {
	b, _, err := c.do(ctx, creds, call{
		op:     "update inventory item",
		method: http.MethodPut,
		path:   fmt.Sprintf("inventory_items/%d.json", id),
		body:   map[string]any{"inventory_item": upd},
	})
	if err != nil {
		return InventoryItem{}, err
	}
	var body struct {
		InventoryItem InventoryItem `json:"inventory_item"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return InventoryItem{}, fmt.Errorf("update inventory item: decode: %w", err)
	}
	return body.InventoryItem, nil
}

func (c *Client) Locations(ctx context.Context, creds Credentials) ([]Location, error) {
	var body struct {
		Locations []Location `json:"locations"`
	}
	if _, err := c.get(ctx, creds, call{op: "fetch locations", version: c.invVersion, path: "locations.json"}, &body); err != nil {
		return nil, err
	}
	return body.Locations, nil
}

type InventoryLevelSet struct {
	LocationID      int64 `json:"location_id"`
	InventoryItemID int64 `json:"inventory_item_id"`
	Available       int   `json:"available"`
}

// SetInventoryLevel overwrites the available quantity and returns the
// upstream answer untouched.
func (c *Client) SetInventoryLevel(ctx context.Context, creds Credentials, set InventoryLevelSet) (json.RawMessage, error) {
	b, _, err := c.do(ctx, creds, call{
		op:      "update inventory",
		method:  http.MethodPost,
		version: c.invVersion,
		path:    "inventory_levels/set.json",
		body:    set,
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
