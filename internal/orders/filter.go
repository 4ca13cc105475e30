package orders

import (
	"strings"

	"github.com/ariefcatur/go-shop-admin/internal/shopify"
	"golang.org/x/text/cases"
)

// searchMatcher matches the term against the order name or the
// "first last" customer name, ignoring case.
func searchMatcher(term string) func(shopify.Order) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	// a Caser is not safe for concurrent use
	c := cases.Fold()
	needle := c.String(term)
	return func(o shopify.Order) bool {
		if strings.Contains(c.String(o.Name), needle) {
			return true
		}
		if o.Customer == nil {
			return false
		}
		return strings.Contains(c.String(o.Customer.FirstName+" "+o.Customer.LastName), needle)
	}
}

func hasProduct(o shopify.Order, productID int64) bool {
	for _, li := range o.LineItems {
		if li.ProductID != nil && *li.ProductID == productID {
			return true
		}
	}
	return false
}

// matcher combines every client-side filter of q into one predicate.
func (q Query) matcher(bucket *Range) func(shopify.Order) bool {
	search := searchMatcher(q.Search)
	return func(o shopify.Order) bool {
		if bucket != nil && !bucket.Contains(o.CreatedAt) {
			return false
		}
		if q.ProductID != 0 && !hasProduct(o, q.ProductID) {
			return false
		}
		switch q.Status {
		case StatusFulfilled:
			if !fulfilled(o.FulfillmentStatus) {
				return false
			}
		case StatusUnfulfilled:
			if fulfilled(o.FulfillmentStatus) {
				return false
			}
		}
		return search == nil || search(o)
	}
}
