package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Uvaancovie/poolbeanbags-storefront/internal/cart"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/domain"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/pricing"
)

type CartHandler struct {
	store *cart.Store
}

func NewCartHandler(store *cart.Store) *CartHandler {
	return &CartHandler{store: store}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items     []domain.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Totals    pricing.Totals    `json:"totals"`
}

// cartResponse prices every response with the shipping delivery method so the
// cart badge and the cart page always show the same numbers.
func cartResponse(c *domain.Cart) CartResponseDTO {
	items := c.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartResponseDTO{
		Items:     items,
		ItemCount: c.ItemCount(),
		Totals:    pricing.Quote(c.Items, domain.DeliveryShipping),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	c, err := h.store.Get(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Quantity == 0 {
		req.Quantity = 1
	}

	c, err := h.store.AddItem(r.Context(), sessionID, domain.AddToCartRequest{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(c))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	lineID := chi.URLParam(r, "id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.store.UpdateQuantity(r.Context(), sessionID, lineID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	lineID := chi.URLParam(r, "id")

	c, err := h.store.RemoveItem(r.Context(), sessionID, lineID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	if err := h.store.Clear(r.Context(), sessionID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(&domain.Cart{SessionID: sessionID}))
}

// Quote prices the current cart for a delivery method passed as a query
// parameter. The checkout page uses it to switch totals between pickup and
// courier without mutating anything.
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())

	method := domain.DeliveryMethod(r.URL.Query().Get("delivery_method"))
	if method == "" {
		method = domain.DeliveryShipping
	}
	if !method.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_delivery_method", "delivery_method must be pickup or shipping")
		return
	}

	totals, err := h.store.Totals(r.Context(), sessionID, method)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, totals)
}
