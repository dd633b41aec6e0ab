package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Uvaancovie/poolbeanbags-storefront/internal/checkout"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/domain"
)

// OrderReader is the slice of the backend client the confirmation page needs.
type OrderReader interface {
	GetOrder(ctx context.Context, id string) (json.RawMessage, error)
}

type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	orders       OrderReader
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator, orders OrderReader) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		orders:       orders,
	}
}

// POST /api/orders
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	var req domain.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.orchestrator.Submit(r.Context(), sessionID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// GET /api/orders/{id} — the confirmation page re-fetches the authoritative
// order record; the backend's repriced totals win over anything the cart
// displayed.
func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id is required")
		return
	}

	raw, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}
