package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Uvaancovie/poolbeanbags-storefront/internal/bridge"
)

// NewRouter wires the storefront's HTTP surface: cart CRUD, checkout submit,
// order confirmation and the payment bridge routes.
func NewRouter(cartHandler *CartHandler, checkoutHandler *CheckoutHandler, paymentBridge *bridge.Bridge, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Get("/quote", cartHandler.Quote)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{id}", cartHandler.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Post("/", checkoutHandler.Submit)
			r.Get("/{id}", checkoutHandler.GetOrder)
		})

		// The PayFast retry loop can legitimately outlive the normal request
		// timeout while the upstream cold-starts, so the bridge routes run
		// without one.
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", paymentBridge.Checkout)
			r.Post("/payfast", paymentBridge.PayFast)
			r.Post("/ozow", paymentBridge.Ozow)
		})
	})

	return r
}
