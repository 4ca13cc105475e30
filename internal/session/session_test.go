package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/go-shop-admin/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret = "shpss_test"
	testAPIKey = "api-key"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type mapStore map[string]Session

func (m mapStore) Get(_ context.Context, shop string) (Session, error) {
	if shop == "broken.myshopify.com" {
		return Session{}, errors.New("db down")
	}
	s, ok := m[shop]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m mapStore) Save(_ context.Context, s Session) error {
	m[s.Shop] = s
	return nil
}

func verifier() *TokenVerifier {
	return &TokenVerifier{Secret: testSecret, APIKey: testAPIKey, Now: func() time.Time { return testNow }}
}

// sign builds a session token for shop; edit adjusts the claims first.
func sign(t *testing.T, secret, shop string, edit func(*TokenClaims)) string {
	t.Helper()
	c := TokenClaims{
		Dest: "https://" + shop,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://" + shop + "/admin",
			Audience:  jwt.ClaimStrings{testAPIKey},
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(testNow.Add(-10 * time.Second)),
			NotBefore: jwt.NewNumericDate(testNow.Add(-10 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Minute)),
		},
	}
	if edit != nil {
		edit(&c)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestMiddleware(t *testing.T) {
	store := mapStore{
		"demo.myshopify.com":  {Shop: "demo.myshopify.com", AccessToken: "shpat_1"},
		"empty.myshopify.com": {Shop: "empty.myshopify.com"},
	}

	tests := []struct {
		name     string
		auth     string
		shopHdr  string
		wantShop string
		wantErr  error
	}{
		{"valid token", "Bearer " + sign(t, testSecret, "demo.myshopify.com", nil), "", "demo.myshopify.com", nil},
		{"missing token", "", "", "", apperr.ErrSessionMissing},
		{"shop header alone", "", "demo.myshopify.com", "", apperr.ErrSessionMissing},
		{"not bearer", "Basic abc", "", "", apperr.ErrSessionMissing},
		{"forged signature", "Bearer " + sign(t, "wrong-secret", "demo.myshopify.com", nil), "", "", apperr.ErrSessionMissing},
		{"expired", "Bearer " + sign(t, testSecret, "demo.myshopify.com", func(c *TokenClaims) {
			c.ExpiresAt = jwt.NewNumericDate(testNow.Add(-time.Minute))
		}), "", "", apperr.ErrSessionMissing},
		{"not yet valid", "Bearer " + sign(t, testSecret, "demo.myshopify.com", func(c *TokenClaims) {
			c.NotBefore = jwt.NewNumericDate(testNow.Add(time.Minute))
		}), "", "", apperr.ErrSessionMissing},
		{"other audience", "Bearer " + sign(t, testSecret, "demo.myshopify.com", func(c *TokenClaims) {
			c.Audience = jwt.ClaimStrings{"other-app"}
		}), "", "", apperr.ErrSessionMissing},
		{"issuer mismatch", "Bearer " + sign(t, testSecret, "demo.myshopify.com", func(c *TokenClaims) {
			c.Issuer = "https://evil.myshopify.com/admin"
		}), "", "", apperr.ErrSessionMissing},
		{"unknown shop", "Bearer " + sign(t, testSecret, "other.myshopify.com", nil), "", "", apperr.ErrSessionMissing},
		{"empty access token", "Bearer " + sign(t, testSecret, "empty.myshopify.com", nil), "", "", apperr.ErrSessionMissing},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotShop string
			var gotErr error
			h := Middleware(store, verifier(), func(w http.ResponseWriter, _ *http.Request, err error) {
				gotErr = err
				w.WriteHeader(http.StatusBadRequest)
			})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				s, err := FromContext(r.Context())
				if err != nil {
					t.Fatal(err)
				}
				gotShop = s.Shop
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/products/all?shop=demo.myshopify.com", nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			if tc.shopHdr != "" {
				req.Header.Set(ShopHeader, tc.shopHdr)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if gotShop != tc.wantShop {
				t.Fatalf("shop = %q, want %q", gotShop, tc.wantShop)
			}
			if tc.wantErr == nil && gotErr != nil || tc.wantErr != nil && !errors.Is(gotErr, tc.wantErr) {
				t.Fatalf("err = %v, want %v", gotErr, tc.wantErr)
			}
		})
	}
}

func TestMiddlewarePassesStoreFailure(t *testing.T) {
	var gotErr error
	h := Middleware(mapStore{}, verifier(), func(_ http.ResponseWriter, _ *http.Request, err error) { gotErr = err })(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { t.Fatal("handler reached") }))
	req := httptest.NewRequest(http.MethodGet, "/api/orders/all", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, testSecret, "broken.myshopify.com", nil))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if gotErr == nil || errors.Is(gotErr, apperr.ErrSessionMissing) {
		t.Fatalf("err = %v", gotErr)
	}
}

func TestTokenVerifierWithoutSecretRejects(t *testing.T) {
	v := &TokenVerifier{Now: func() time.Time { return testNow }}
	if _, err := v.Shop(sign(t, testSecret, "demo.myshopify.com", nil)); err == nil {
		t.Fatal("token accepted without a configured secret")
	}
}

func TestTokenVerifierRejectsOtherAlgorithms(t *testing.T) {
	c := TokenClaims{
		Dest: "https://demo.myshopify.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://demo.myshopify.com/admin",
			Audience:  jwt.ClaimStrings{testAPIKey},
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier().Shop(tok); err == nil {
		t.Fatal("unsigned token accepted")
	}
}

func TestTokenVerifierRequiresExpiry(t *testing.T) {
	tok := sign(t, testSecret, "demo.myshopify.com", func(c *TokenClaims) { c.ExpiresAt = nil })
	if _, err := verifier().Shop(tok); err == nil {
		t.Fatal("token without exp accepted")
	}
}

func TestFromContextWithoutSession(t *testing.T) {
	if _, err := FromContext(context.Background()); !errors.Is(err, apperr.ErrSessionMissing) {
		t.Fatalf("err = %v", err)
	}
}
