package inventory

import (
	"context"
	"slices"

	"github.com/ariefcatur/go-shop-admin/internal/shopify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ChunkSize bounds the inventory_item_ids list of one lookup call.
const ChunkSize = 50

type LevelLookup interface {
	InventoryLevels(ctx context.Context, creds shopify.Credentials, itemIDs []int64) ([]shopify.InventoryLevel, error)
}

type StockedVariant struct {
	VariantID         int64  `json:"variantId"`
	InventoryItemID   int64  `json:"inventoryItemId"`
	Title             string `json:"title"`
	SKU               string `json:"sku,omitempty"`
	InventoryQuantity *int   `json:"inventoryQuantity"` // nil = unresolved
}

type StockedProduct struct {
	ProductID int64            `json:"productId"`
	Title     string           `json:"title"`
	Inventory []StockedVariant `json:"inventory"`
}

type Aggregator struct {
	Levels LevelLookup
	// Fanout caps concurrent lookups; <= 0 means no cap.
	Fanout int
	Log    *zap.Logger
}

type lookup struct {
	product int
	ids     []int64
	avail   map[int64]int
}

// Aggregate resolves the stock of every variant. A failed chunk is skipped
// and leaves its variants unresolved; it never fails the call.
func (a *Aggregator) Aggregate(ctx context.Context, creds shopify.Credentials, products []shopify.Product) []StockedProduct {
	out := make([]StockedProduct, len(products))
	var jobs []*lookup
	for i, p := range products {
		out[i] = StockedProduct{ProductID: p.ID, Title: p.Title, Inventory: make([]StockedVariant, len(p.Variants))}
		ids := make([]int64, 0, len(p.Variants))
		for j, v := range p.Variants {
			out[i].Inventory[j] = StockedVariant{
				VariantID:       v.ID,
				InventoryItemID: v.InventoryItemID,
				Title:           v.Title,
				SKU:             v.SKU,
			}
			if v.InventoryItemID != 0 {
				ids = append(ids, v.InventoryItemID)
			}
		}
		for chunk := range slices.Chunk(ids, ChunkSize) {
			jobs = append(jobs, &lookup{product: i, ids: chunk})
		}
	}

	var g errgroup.Group
	if a.Fanout > 0 {
		g.SetLimit(a.Fanout)
	}
	for _, job := range jobs {
		g.Go(func() error {
			levels, err := a.Levels.InventoryLevels(ctx, creds, job.ids)
			if err != nil {
				a.logger().Warn("inventory chunk skipped",
					zap.String("shop", creds.Shop),
					zap.Int64("product_id", products[job.product].ID),
					zap.Int("items", len(job.ids)),
					zap.Error(err),
				)
				return nil
			}
			job.avail = firstAvailable(levels)
			return nil
		})
	}
	_ = g.Wait()

	for _, job := range jobs {
		if job.avail == nil {
			continue
		}
		inv := out[job.product].Inventory
		for k := range inv {
			if q, ok := job.avail[inv[k].InventoryItemID]; ok && slices.Contains(job.ids, inv[k].InventoryItemID) {
				inv[k].InventoryQuantity = &q
			}
		}
	}
	return out
}

// firstAvailable keeps the first level reported per item; levels without an
// available figure are ignored.
func firstAvailable(levels []shopify.InventoryLevel) map[int64]int {
	m := make(map[int64]int, len(levels))
	for _, l := range levels {
		if l.Available == nil {
			continue
		}
		if _, seen := m[l.InventoryItemID]; !seen {
			m[l.InventoryItemID] = *l.Available
		}
	}
	return m
}

func (a *Aggregator) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}
