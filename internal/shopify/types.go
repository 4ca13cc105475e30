package shopify

import (
	"encoding/json"
	"time"
)

// Credentials identify one installed shop.
type Credentials struct {
	Shop        string
	AccessToken string
}

// Product keeps the upstream document it was decoded from so it can be
// written back out verbatim.
type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`

	raw json.RawMessage
}

type productAlias Product

func (p *Product) UnmarshalJSON(b []byte) error {
	var a productAlias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*p = Product(a)
	p.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	return json.Marshal(productAlias(p))
}

type Variant struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id,omitempty"`
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	InventoryItemID   int64  `json:"inventory_item_id"`
	InventoryQuantity *int   `json:"inventory_quantity"` // nil = unknown
}

type InventoryLevel struct {
	InventoryItemID int64 `json:"inventory_item_id"`
	LocationID      int64 `json:"location_id"`
	Available       *int  `json:"available"`
}

type InventoryItem struct {
	ID      int64   `json:"id"`
	SKU     string  `json:"sku"`
	Tracked bool    `json:"tracked"`
	Cost    *string `json:"cost"`

	raw json.RawMessage
}

type inventoryItemAlias InventoryItem

func (it *InventoryItem) UnmarshalJSON(b []byte) error {
	var a inventoryItemAlias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*it = InventoryItem(a)
	it.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (it InventoryItem) MarshalJSON() ([]byte, error) {
	if len(it.raw) > 0 {
		return it.raw, nil
	}
	return json.Marshal(inventoryItemAlias(it))
}

type Location struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type LineItem struct {
	ID        int64  `json:"id"`
	ProductID *int64 `json:"product_id"` // null for custom line items
	Quantity  int    `json:"quantity"`
}

type Fulfillment struct {
	ID             int64  `json:"id"`
	TrackingNumber string `json:"tracking_number"`
}

type Order struct {
	ID                int64         `json:"id"`
	Name              string        `json:"name"`
	Customer          *Customer     `json:"customer"`
	FinancialStatus   string        `json:"financial_status"`
	FulfillmentStatus string        `json:"fulfillment_status"` // "" = unfulfilled
	CreatedAt         time.Time     `json:"created_at"`
	LineItems         []LineItem    `json:"line_items"`
	TrackingNumber    string        `json:"tracking_number,omitempty"`
	Fulfillments      []Fulfillment `json:"fulfillments"`

	raw json.RawMessage
}

type orderAlias Order

func (o *Order) UnmarshalJSON(b []byte) error {
	var a orderAlias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*o = Order(a)
	o.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (o Order) MarshalJSON() ([]byte, error) {
	if len(o.raw) > 0 {
		return o.raw, nil
	}
	return json.Marshal(orderAlias(o))
}
