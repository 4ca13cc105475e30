package shopify

import (
	"context"
	"net/url"
	"strconv"
)

type ProductQuery struct {
	Limit    int
	PageInfo string
}

type ProductPage struct {
	Products []Product
	// Next is the cursor of the following page, "" on the last one.
	Next string
}

func (c *Client) ListProducts(ctx context.Context, creds Credentials, q ProductQuery) (ProductPage, error) {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.PageInfo != "" {
		v.Set("page_info", q.PageInfo)
	}
	var body struct {
		Products []Product `json:"products"`
	}
	h, err := c.get(ctx, creds, call{op: "fetch products", path: "products.json", query: v}, &body)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{Products: body.Products, Next: NextPageInfo(h.Get("Link"))}, nil
}

func (c *Client) CountProducts(ctx context.Context, creds Credentials) (int, error) {
	var body struct {
		Count int `json:"count"`
	}
	if _, err := c.get(ctx, creds, call{op: "count products", path: "products/count.json"}, &body); err != nil {
		return 0, err
	}
	return body.Count, nil
}
