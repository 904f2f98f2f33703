// Package handler exposes the session engine to view collaborators over
// HTTP: read models are GETs, write intents are mutations, and every error
// maps onto the taxonomy of validation failure, navigation guard, or
// programmer misuse.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"github.com/stylehub/storefront/internal/domain/cart"
	"github.com/stylehub/storefront/internal/domain/catalog"
	"github.com/stylehub/storefront/internal/domain/checkout"
	"github.com/stylehub/storefront/internal/domain/plugin"
	"github.com/stylehub/storefront/internal/domain/promo"
	"github.com/stylehub/storefront/internal/session"
)

const sessionHeader = "X-Session-ID"

// Handler serves the storefront API.
type Handler struct {
	sessions *session.Manager
	validate *validator.Validate
}

// New constructs a Handler over the session manager.
func New(sessions *session.Manager) *Handler {
	return &Handler{
		sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes builds the API router. Every route runs behind the session
// middleware, which resolves or creates the caller's session from the
// X-Session-ID header.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.withSession)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)
	})
	r.Route("/filter", func(r chi.Router) {
		r.Get("/", h.getFilter)
		r.Post("/", h.setFilter)
		r.Delete("/", h.clearFilters)
	})
	r.Post("/search", h.setSearchQuery)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addToCart)
		r.Put("/items/{index}", h.updateQuantity)
		r.Delete("/items/{index}", h.removeFromCart)
	})

	r.Route("/checkout", func(r chi.Router) {
		r.Get("/", h.getCheckout)
		r.Post("/shipping", h.submitShipping)
		r.Post("/payment", h.submitPayment)
		r.Post("/back", h.backToShipping)
		r.Get("/order", h.getOrder)
	})

	r.Route("/plugins", func(r chi.Router) {
		r.Get("/", h.listPlugins)
		r.Post("/", h.registerPlugin)
		r.Delete("/{id}", h.unregisterPlugin)
		r.Post("/{id}/toggle", h.togglePlugin)
		r.Patch("/{id}/config", h.updatePluginConfig)
	})

	r.Route("/notification", func(r chi.Router) {
		r.Get("/", h.getNotification)
		r.Delete("/", h.hideNotification)
	})

	return r
}

type sessionKey struct{}

// withSession resolves the caller's session, creating one when the header
// is missing or stale, and echoes the id on the response.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := h.sessions.GetOrCreate(r.Header.Get(sessionHeader))
		w.Header().Set(sessionHeader, s.ID())
		ctx := context.WithValue(r.Context(), sessionKey{}, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey{}).(*session.Session)
}

// decode parses the JSON body into dst and runs struct validation.
func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, "decode body")
	}
	return h.validate.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the uniform error body. Redirect carries the view the
// client should navigate to on navigation-guard failures.
type errorResponse struct {
	Code     int      `json:"code"`
	Message  string   `json:"message"`
	Fields   []string `json:"fields,omitempty"`
	Redirect string   `json:"redirect,omitempty"`
}

// writeError maps domain errors onto HTTP statuses: validation failures are
// 422, navigation guards are 409 with a redirect target, programmer misuse
// (bad indices, malformed bodies) is 400, unknown ids are 404.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	resp := errorResponse{Message: err.Error()}

	var vErr *checkout.ValidationError
	switch {
	case errors.As(err, &vErr):
		status = http.StatusUnprocessableEntity
		resp.Fields = vErr.Fields
	case errors.Is(err, checkout.ErrEmptyCart):
		status = http.StatusConflict
		resp.Redirect = "/cart"
	case errors.Is(err, checkout.ErrSettleInProgress),
		errors.Is(err, checkout.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, checkout.ErrUnsupportedMethod),
		errors.Is(err, promo.ErrInvalidCode):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, plugin.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, cart.ErrIndexOutOfRange),
		errors.Is(err, cart.ErrInvalidQuantity):
		status = http.StatusBadRequest
	}

	resp.Code = status
	writeJSON(w, status, resp)
}
