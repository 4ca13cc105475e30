package catalog

import (
	"context"

	"github.com/ariefcatur/go-shop-admin/internal/shopify"
)

type ProductLister interface {
	ListProducts(ctx context.Context, creds shopify.Credentials, q shopify.ProductQuery) (shopify.ProductPage, error)
}

type Fetcher struct {
	Upstream ProductLister
}

// FetchAll walks every product page of the shop in upstream order.
// The first failing page aborts the whole walk.
func (f *Fetcher) FetchAll(ctx context.Context, creds shopify.Credentials, pageSize int) ([]shopify.Product, error) {
	q := shopify.ProductQuery{Limit: ClampPageSize(pageSize)}
	var out []shopify.Product
	for {
		page, err := f.Upstream.ListProducts(ctx, creds, q)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Products...)
		if page.Next == "" {
			return out, nil
		}
		q.PageInfo = page.Next
	}
}

// FetchFirstPage reads one page only; shops with more products than limit
// are truncated.
func (f *Fetcher) FetchFirstPage(ctx context.Context, creds shopify.Credentials, limit int) ([]shopify.Product, error) {
	page, err := f.Upstream.ListProducts(ctx, creds, shopify.ProductQuery{Limit: ClampPageSize(limit)})
	if err != nil {
		return nil, err
	}
	return page.Products, nil
}

// ClampPageSize maps n onto 1..250, with 0 and negatives meaning the maximum.
func ClampPageSize(n int) int {
	if n <= 0 || n > shopify.MaxPageSize {
		return shopify.MaxPageSize
	}
	return n
}
