package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errNoBearer     = errors.New("missing bearer token")
	errNoSecret     = errors.New("api secret not configured")
	errNoDest       = errors.New("token has no destination shop")
	errShopMismatch = errors.New("token issuer does not match destination")
)

// TokenClaims is the payload of an embedded-app session token. Dest is the
// shop's admin origin, e.g. https://demo.myshopify.com.
type TokenClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// TokenVerifier checks session tokens the admin frontend sends as
// "Authorization: Bearer <jwt>". They are HS256-signed with the app secret
// and addressed to the app's API key.
type TokenVerifier struct {
	Secret string
	APIKey string // checked against aud when set
	Leeway time.Duration
	Now    func() time.Time
}

// Shop verifies raw and returns the normalized shop domain it was issued for.
func (v *TokenVerifier) Shop(raw string) (string, error) {
	if v.Secret == "" {
		return "", errNoSecret
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.Leeway),
	}
	if v.APIKey != "" {
		opts = append(opts, jwt.WithAudience(v.APIKey))
	}
	if v.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(v.Now))
	}

	var claims TokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return []byte(v.Secret), nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}

	shop := NormalizeShop(claims.Dest)
	if shop == "" {
		return "", errNoDest
	}
	if strings.TrimSuffix(NormalizeShop(claims.Issuer), "/admin") != shop {
		return "", errShopMismatch
	}
	return shop, nil
}

func bearer(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || strings.TrimSpace(tok) == "" {
		return "", errNoBearer
	}
	return strings.TrimSpace(tok), nil
}
