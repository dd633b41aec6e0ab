package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Uvaancovie/poolbeanbags-storefront/internal/backend"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/cart"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/checkout"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/domain"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/events"
)

// newCheckoutTestRouter wires the real store and orchestrator against an
// httptest order API, mirroring the production wiring end to end.
func newCheckoutTestRouter(t *testing.T, orderAPI *httptest.Server) (http.Handler, *memRepo) {
	t.Helper()

	repo := newMemRepo()
	store := cart.NewStore(repo, memCache{}, memCatalog{})
	client := backend.NewClient(orderAPI.URL, 5*time.Second)
	orchestrator := checkout.NewOrchestrator(store, client, events.NoopPublisher{})

	cartHandler := NewCartHandler(store)
	checkoutHandler := NewCheckoutHandler(orchestrator, client)

	r := chi.NewRouter()
	r.Use(SessionMiddleware)
	r.Post("/api/cart/items", cartHandler.AddItem)
	r.Post("/api/orders", checkoutHandler.Submit)
	r.Get("/api/orders/{id}", checkoutHandler.GetOrder)
	return r, repo
}

func validCheckoutBody() domain.CheckoutRequest {
	return domain.CheckoutRequest{
		FirstName:      "Jo",
		LastName:       "Naidoo",
		Email:          "jo@example.com",
		Phone:          "0821234567",
		DeliveryMethod: domain.DeliveryShipping,
		ShippingAddress: &domain.Address{
			Line1:      "1 Beach Rd",
			City:       "Durban",
			PostalCode: "4001",
		},
	}
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := withSession(httptest.NewRequest(http.MethodPost, path, &buf))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmit_SuccessClearsCart(t *testing.T) {
	orderAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"order":{"id":"ord-1","orderNo":"PB-1001"}}`))
	}))
	defer orderAPI.Close()

	router, repo := newCheckoutTestRouter(t, orderAPI)

	postJSON(t, router, "/api/cart/items", AddItemRequestDTO{ProductID: 1, Quantity: 1})

	rec := postJSON(t, router, "/api/orders", validCheckoutBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var result checkout.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "ord-1", result.OrderID)
	assert.Equal(t, "PB-1001", result.OrderNo)

	// Persisted cart is gone once the order exists.
	assert.Empty(t, repo.carts)
}

func TestSubmit_MissingPostalCodeNeverHitsBackend(t *testing.T) {
	var calls atomic.Int32
	orderAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer orderAPI.Close()

	router, repo := newCheckoutTestRouter(t, orderAPI)

	postJSON(t, router, "/api/cart/items", AddItemRequestDTO{ProductID: 1, Quantity: 1})

	body := validCheckoutBody()
	body.ShippingAddress.PostalCode = ""
	rec := postJSON(t, router, "/api/orders", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, calls.Load())

	// Cart survives the rejected submit.
	require.Contains(t, repo.carts, "test-session")
	assert.Len(t, repo.carts["test-session"].Items, 1)
}

func TestSubmit_EmptyCart(t *testing.T) {
	orderAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer orderAPI.Close()

	router, _ := newCheckoutTestRouter(t, orderAPI)

	rec := postJSON(t, router, "/api/orders", validCheckoutBody())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty")
}

func TestSubmit_UpstreamRejectionSurfacesDetails(t *testing.T) {
	orderAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"invalid order","details":"product discontinued"}`))
	}))
	defer orderAPI.Close()

	router, repo := newCheckoutTestRouter(t, orderAPI)

	postJSON(t, router, "/api/cart/items", AddItemRequestDTO{ProductID: 1, Quantity: 1})
	rec := postJSON(t, router, "/api/orders", validCheckoutBody())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "product discontinued")
	assert.NotEmpty(t, repo.carts)
}

func TestGetOrder_ProxiesBackendRecord(t *testing.T) {
	orderAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/ord-1", r.URL.Path)
		w.Write([]byte(`{"order":{"id":"ord-1","status":"paid","total_cents":490000}}`))
	}))
	defer orderAPI.Close()

	router, _ := newCheckoutTestRouter(t, orderAPI)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/orders/ord-1", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"order":{"id":"ord-1","status":"paid","total_cents":490000}}`, rec.Body.String())
}
