package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultAPIVersion          = "2024-10"
	DefaultInventoryAPIVersion = "2024-01"
	MaxPageSize                = 250

	accessTokenHeader = "X-Shopify-Access-Token"
	maxErrorBody      = 4 << 10
)

type Options struct {
	// BaseURL replaces https://{shop} when set (proxies, tests).
	BaseURL             string
	APIVersion          string
	InventoryAPIVersion string
	Timeout             time.Duration
	HTTPClient          *http.Client
	Logger              *zap.Logger
}

// Client talks to the Shopify Admin REST API. It holds no per-shop state;
// credentials travel with every call.
type Client struct {
	http       *http.Client
	baseURL    string
	version    string
	invVersion string
	log        *zap.Logger
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	if opts.APIVersion == "" {
		opts.APIVersion = DefaultAPIVersion
	}
	if opts.InventoryAPIVersion == "" {
		opts.InventoryAPIVersion = DefaultInventoryAPIVersion
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http:       hc,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		version:    opts.APIVersion,
		invVersion: opts.InventoryAPIVersion,
		log:        log,
	}
}

func (c *Client) endpoint(creds Credentials, version, path string, q url.Values) string {
	base := c.baseURL
	if base == "" {
		base = "https://" + creds.Shop
	}
	u := base + "/admin/api/" + version + "/" + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

type call struct {
	op      string
	method  string
	version string
	path    string
	query   url.Values
	body    any
}

// do runs one upstream request and returns the raw body and headers.
// Non-2xx answers become *UpstreamError.
func (c *Client) do(ctx context.Context, creds Credentials, cl call) ([]byte, http.Header, error) {
	var rd io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: encode body: %w", cl.op, err)
		}
		rd = bytes.NewReader(b)
	}
	version := cl.version
	if version == "" {
		version = c.version
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, c.endpoint(creds, version, cl.path, cl.query), rd)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: build request: %w", cl.op, err)
	}
	req.Header.Set(accessTokenHeader, creds.AccessToken)
	req.Header.Set("Accept", "application/json")
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", cl.op, err)
	}
	defer resp.Body.Close()

	c.log.Debug("shopify call",
		zap.String("op", cl.op),
		zap.String("shop", creds.Shop),
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, nil, &UpstreamError{Op: cl.op, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: read body: %w", cl.op, err)
	}
	return b, resp.Header, nil
}

func (c *Client) get(ctx context.Context, creds Credentials, cl call, out any) (http.Header, error) {
	cl.method = http.MethodGet
	b, h, err := c.do(ctx, creds, cl)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", cl.op, err)
	}
	return h, nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
