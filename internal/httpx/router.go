package httpx

import (
	"github.com/ariefcatur/go-shop-admin/internal/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type registrar interface {
	Register(r chi.Router)
}

// MountAdmin registers handlers behind the session middleware.
func MountAdmin(r chi.Router, store session.Store, tokens *session.TokenVerifier, log *zap.Logger, handlers ...registrar) {
	r.Group(func(r chi.Router) {
		r.Use(session.Middleware(store, tokens, errorWriter{log: log}.write))
		for _, h := range handlers {
			h.Register(r)
		}
	})
}
