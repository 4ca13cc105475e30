package httpx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ariefcatur/go-shop-admin/internal/events"
	"github.com/ariefcatur/go-shop-admin/internal/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	hmacHeader      = "X-Shopify-Hmac-Sha256"
	topicHeader     = "X-Shopify-Topic"
	webhookIDHeader = "X-Shopify-Webhook-Id"
)

var (
	errInvalidSignature = errors.New("Invalid webhook signature")
	errWebhookTooLarge  = errors.New("Webhook body too large")
)

// WebhookHandler verifies Shopify webhooks and forwards them to the event
// bus as they are.
type WebhookHandler struct {
	Secret   string
	Events   events.Publisher
	Producer string
	Log      *zap.Logger
}

func (h *WebhookHandler) Register(r chi.Router) {
	ew := errorWriter{log: h.Log}
	r.Post("/webhooks", ew.handle(h.receive))
}

func (h *WebhookHandler) receive(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errWebhookTooLarge
		}
		return failed("Failed to read webhook", err)
	}
	if !validSignature(h.Secret, body, r.Header.Get(hmacHeader)) {
		return errInvalidSignature
	}
	if !json.Valid(body) {
		body, _ = json.Marshal(string(body))
	}

	shop := session.NormalizeShop(r.Header.Get(session.ShopHeader))
	topic := r.Header.Get(topicHeader)
	ev, err := events.New(r.Context(), events.EventWebhookReceived, h.Producer, shop, r.Header.Get(webhookIDHeader),
		events.WebhookReceivedPayload{Topic: topic, WebhookID: r.Header.Get(webhookIDHeader), Body: body})
	if err != nil {
		return failed("Failed to accept webhook", err)
	}
	if err := h.Events.Publish(r.Context(), ev); err != nil {
		return failed("Failed to accept webhook", err)
	}
	if h.Log != nil {
		h.Log.Info("webhook accepted", zap.String("shop", shop), zap.String("topic", topic))
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

// validSignature checks the base64 HMAC-SHA256 of body. An empty secret
// rejects everything.
func validSignature(secret string, body []byte, sig string) bool {
	if secret == "" || sig == "" {
		return false
	}
	want, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), want)
}
