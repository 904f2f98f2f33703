package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toCartResponse(sessionFrom(r).CartSnapshot()))
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	var req addToCartRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.AddToCart(req.ProductID, req.Quantity, req.Color, req.Size); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(s.CartSnapshot()))
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	index, err := cartIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.RemoveFromCart(index); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(s.CartSnapshot()))
}

// updateQuantity sets the row's quantity to an absolute value; zero or a
// negative value removes the row.
func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	index, err := cartIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateQuantityRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.UpdateQuantity(index, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(s.CartSnapshot()))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	s.ClearCart()
	writeJSON(w, http.StatusOK, toCartResponse(s.CartSnapshot()))
}

func cartIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, errors.Wrap(err, "parse cart index")
	}
	return index, nil
}
