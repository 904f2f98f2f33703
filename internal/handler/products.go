package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// listProducts returns the session's filtered product view. Pass ?all=true
// for the full catalog regardless of the active filter.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	if r.URL.Query().Get("all") == "true" {
		writeJSON(w, http.StatusOK, toProductResponses(s.Products()))
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(s.FilteredProducts()))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	p, err := s.FindProduct(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) getFilter(w http.ResponseWriter, r *http.Request) {
	f := sessionFrom(r).Filter()
	writeJSON(w, http.StatusOK, filterResponse{
		Category:     f.Category,
		Color:        f.Color,
		MinPrice:     f.MinPrice,
		MaxPrice:     f.MaxPrice,
		DiscountOnly: f.DiscountOnly,
		SearchQuery:  f.SearchQuery,
	})
}

// setFilter merges a partial filter into the session and returns the
// re-derived view, so views never observe a filter change without its
// matching product list.
func (h *Handler) setFilter(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	var req filterRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		writeError(w, err)
		return
	}
	s.SetFilter(patch)
	writeJSON(w, http.StatusOK, toProductResponses(s.FilteredProducts()))
}

func (h *Handler) clearFilters(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	s.ClearFilters()
	writeJSON(w, http.StatusOK, toProductResponses(s.FilteredProducts()))
}

func (h *Handler) setSearchQuery(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	var req searchRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.SetSearchQuery(req.Query)
	writeJSON(w, http.StatusOK, toProductResponses(s.FilteredProducts()))
}
