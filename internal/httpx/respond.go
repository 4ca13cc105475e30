package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-shop-admin/internal/apperr"
	"github.com/ariefcatur/go-shop-admin/internal/session"
	"github.com/ariefcatur/go-shop-admin/internal/shopify"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const maxBody = 1 << 20

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// routeError names the operation that failed, as shown to the caller.
type routeError struct {
	msg string
	err error
}

func (e *routeError) Error() string { return e.msg + ": " + e.err.Error() }
func (e *routeError) Unwrap() error { return e.err }

func failed(msg string, err error) error {
	if err == nil {
		return nil
	}
	return &routeError{msg: msg, err: err}
}

// apiHandler returns its error instead of writing it.
type apiHandler func(w http.ResponseWriter, r *http.Request) error

type errorWriter struct {
	log *zap.Logger
}

func (e errorWriter) handle(h apiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			e.write(w, r, err)
		}
	}
}

// write maps err onto a status and the {error, details} body.
func (e errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	code, body := classify(err)
	fields := []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", code),
		zap.Error(err),
	}
	if s, serr := session.FromContext(r.Context()); serr == nil {
		fields = append(fields, zap.String("shop", s.Shop))
	}
	log := e.log
	if log == nil {
		log = zap.NewNop()
	}
	if code >= http.StatusInternalServerError {
		log.Error("request failed", fields...)
	} else {
		log.Warn("request rejected", fields...)
	}
	writeJSON(w, code, body)
}

func classify(err error) (int, errorBody) {
	var (
		ve  *apperr.ValidationError
		ue  *shopify.UpstreamError
		re  *routeError
		msg = "Internal server error"
	)
	if errors.As(err, &re) {
		msg = re.msg
	}
	switch {
	case errors.Is(err, apperr.ErrSessionMissing):
		return http.StatusBadRequest, errorBody{Error: apperr.ErrSessionMissing.Error()}
	case errors.As(err, &ve):
		return http.StatusBadRequest, errorBody{Error: ve.Message}
	case errors.Is(err, errInvalidSignature):
		return http.StatusUnauthorized, errorBody{Error: err.Error()}
	case errors.Is(err, errWebhookTooLarge):
		return http.StatusRequestEntityTooLarge, errorBody{Error: errWebhookTooLarge.Error()}
	case errors.As(err, &ue):
		return http.StatusInternalServerError, errorBody{Error: msg, Details: ue.Details()}
	}
	details := err.Error()
	if re != nil {
		details = re.err.Error()
	}
	return http.StatusInternalServerError, errorBody{Error: msg, Details: details}
}

// decodeJSON reads a JSON body of at most 1 MiB.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return apperr.Invalid("body", "Invalid JSON body")
	}
	return nil
}

// queryInt reads a positive integer query parameter, def otherwise.
func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func queryID(r *http.Request, key string) (int64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	id, err := shopify.ParseID(v)
	if err != nil {
		return 0, apperr.Invalid(key, fmt.Sprintf("Invalid %s", key))
	}
	return id, nil
}

func credentials(r *http.Request) (shopify.Credentials, error) {
	s, err := session.FromContext(r.Context())
	if err != nil {
		return shopify.Credentials{}, err
	}
	return s.Credentials(), nil
}
