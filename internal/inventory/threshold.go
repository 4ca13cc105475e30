package inventory

import "github.com/ariefcatur/go-shop-admin/internal/shopify"

const DefaultThreshold = 10

// LowStock keeps the products having at least one resolved variant below
// threshold, listing only those variants. Unresolved variants never qualify
// and input order is kept.
func LowStock(stocked []StockedProduct, threshold int) []StockedProduct {
	out := []StockedProduct{}
	for _, p := range stocked {
		var low []StockedVariant
		for _, v := range p.Inventory {
			if v.InventoryQuantity != nil && *v.InventoryQuantity < threshold {
				low = append(low, v)
			}
		}
		if len(low) > 0 {
			out = append(out, StockedProduct{ProductID: p.ProductID, Title: p.Title, Inventory: low})
		}
	}
	return out
}

// EmbeddedLowStock reads inventory_quantity as embedded in the product
// payload and returns whole products. It may disagree with LowStock for the
// same shop state.
func EmbeddedLowStock(products []shopify.Product, threshold int) []shopify.Product {
	out := []shopify.Product{}
	for _, p := range products {
		for _, v := range p.Variants {
			if v.InventoryQuantity != nil && *v.InventoryQuantity < threshold {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
