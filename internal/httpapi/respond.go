package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Uvaancovie/poolbeanbags-storefront/internal/backend"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/cart"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/catalog"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/checkout"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps domain and upstream failures onto HTTP statuses.
func handleServiceError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		respondError(w, http.StatusBadRequest, "validation_failed", vErr.Error())
		return
	}

	var upstream *backend.UpstreamError
	if errors.As(err, &upstream) {
		respondError(w, upstream.StatusCode, "upstream_rejected", upstream.Message)
		return
	}

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "your cart is empty")
	case errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", "cart item not found")
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong, please try again")
	}
}
