package catalog

import (
	"strings"

	"github.com/ariefcatur/go-shop-admin/internal/listing"
	"github.com/ariefcatur/go-shop-admin/internal/shopify"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// LowInventoryBelow is the stock level under which the product table flags a
// product as low.
const LowInventoryBelow = 10

const (
	FilterAll          = "all"
	FilterLowInventory = "low_inventory"
	FilterOutOfStock   = "out_of_stock"
	FilterInStock      = "in_stock"

	SortTitle     = "title"
	SortInventory = "inventory"
)

// Query is the product table request. Stock filters and sorting look at the
// first variant only.
type Query struct {
	Search string
	Filter string
	Sort   string
	Page   int
	Limit  int
}

// List applies q to products in memory.
func List(products []shopify.Product, q Query) listing.Page[shopify.Product] {
	return listing.Apply(products, listing.Spec[shopify.Product]{
		Filter: q.filter(),
		Less:   q.less(),
		Page:   q.Page,
		Limit:  q.Limit,
	})
}

func firstQuantity(p shopify.Product) (int, bool) {
	if len(p.Variants) == 0 || p.Variants[0].InventoryQuantity == nil {
		return 0, false
	}
	return *p.Variants[0].InventoryQuantity, true
}

func (q Query) filter() func(shopify.Product) bool {
	c := cases.Fold()
	needle := c.String(strings.TrimSpace(q.Search))
	return func(p shopify.Product) bool {
		if needle != "" {
			hit := strings.Contains(c.String(p.Title), needle)
			if !hit && len(p.Variants) > 0 && p.Variants[0].SKU != "" {
				hit = strings.Contains(c.String(p.Variants[0].SKU), needle)
			}
			if !hit {
				return false
			}
		}
		qty, known := firstQuantity(p)
		switch q.Filter {
		case FilterLowInventory:
			return known && qty < LowInventoryBelow
		case FilterOutOfStock:
			return known && qty == 0
		case FilterInStock:
			return known && qty > 0
		}
		return true
	}
}

func (q Query) less() func(a, b shopify.Product) bool {
	switch q.Sort {
	case SortTitle:
		col := collate.New(language.Und, collate.IgnoreCase)
		return func(a, b shopify.Product) bool { return col.CompareString(a.Title, b.Title) < 0 }
	case SortInventory:
		return func(a, b shopify.Product) bool {
			qa, _ := firstQuantity(a)
			qb, _ := firstQuantity(b)
			return qa < qb
		}
	}
	return nil
}
