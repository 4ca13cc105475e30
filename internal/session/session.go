// Package session resolves the installed shop behind an admin request.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-shop-admin/internal/apperr"
	"github.com/ariefcatur/go-shop-admin/internal/shopify"
)

// ShopHeader carries the shop domain on webhook deliveries.
const ShopHeader = "X-Shopify-Shop-Domain"

var ErrNotFound = errors.New("session not found")

// Session is the offline access grant of one shop.
type Session struct {
	Shop        string `db:"shop" redis:"shop" json:"shop"`
	AccessToken string `db:"access_token" redis:"access_token" json:"access_token"`
	Scope       string `db:"scope" redis:"scope" json:"scope"`
}

func (s Session) Credentials() shopify.Credentials {
	return shopify.Credentials{Shop: s.Shop, AccessToken: s.AccessToken}
}

// Store loads sessions written by the app install flow. Get returns
// ErrNotFound for an unknown shop.
type Store interface {
	Get(ctx context.Context, shop string) (Session, error)
	Save(ctx context.Context, s Session) error
}

// OfflineID is the session id the install flow uses for a shop's offline token.
func OfflineID(shop string) string { return "offline_" + shop }

// NormalizeShop lowercases the domain and strips a scheme or trailing slash.
func NormalizeShop(shop string) string {
	shop = strings.ToLower(strings.TrimSpace(shop))
	shop = strings.TrimPrefix(shop, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	return strings.TrimSuffix(shop, "/")
}

type ctxKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's session or apperr.ErrSessionMissing.
func FromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	if !ok || s.AccessToken == "" {
		return Session{}, apperr.ErrSessionMissing
	}
	return s, nil
}

// Middleware verifies the request's session token and attaches the session
// of the shop it was issued for. Requests without a valid token or a usable
// session are handed to fail with apperr.ErrSessionMissing; store failures
// are passed through wrapped.
func Middleware(store Store, tokens *TokenVerifier, fail func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearer(r)
			if err != nil {
				fail(w, r, fmt.Errorf("%w: %v", apperr.ErrSessionMissing, err))
				return
			}
			shop, err := tokens.Shop(raw)
			if err != nil {
				fail(w, r, fmt.Errorf("%w: %v", apperr.ErrSessionMissing, err))
				return
			}
			s, err := store.Get(r.Context(), shop)
			switch {
			case errors.Is(err, ErrNotFound):
				fail(w, r, apperr.ErrSessionMissing)
				return
			case err != nil:
				fail(w, r, fmt.Errorf("load session: %w", err))
				return
			case s.AccessToken == "":
				fail(w, r, apperr.ErrSessionMissing)
				return
			}
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), s)))
		})
	}
}
