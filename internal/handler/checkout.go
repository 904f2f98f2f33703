package handler

import (
	"net/http"

	"github.com/stylehub/storefront/internal/domain/checkout"
)

// getCheckout reports the current step. Completed checkouts also carry the
// order id for the confirmation view. Entering with an empty cart answers
// 409 with a redirect back to the cart view.
func (h *Handler) getCheckout(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	if err := s.CheckoutGuard(); err != nil {
		writeError(w, err)
		return
	}

	resp := checkoutResponse{Step: string(s.CheckoutStep())}
	if o := s.Order(); o != nil {
		resp.OrderID = o.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) submitShipping(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	var req shippingRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.SubmitShipping(req.toAddress()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{Step: string(s.CheckoutStep())})
}

func (h *Handler) submitPayment(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	var req paymentRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	info := checkout.PaymentInfo{
		CardNumber: req.CardNumber,
		CardName:   req.CardName,
		ExpiryDate: req.ExpiryDate,
		CVV:        req.CVV,
	}
	if err := s.SubmitPayment(checkout.PaymentMethod(req.Method), info, req.PromoCode); err != nil {
		writeError(w, err)
		return
	}

	// Settlement is asynchronous: the client polls GET /checkout until the
	// step reads completed, then fetches the order.
	writeJSON(w, http.StatusAccepted, checkoutResponse{Step: string(s.CheckoutStep())})
}

func (h *Handler) backToShipping(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	if err := s.BackToShipping(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{Step: string(s.CheckoutStep())})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	o := s.Order()
	if o == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Code:    http.StatusNotFound,
			Message: "no completed order",
		})
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}
