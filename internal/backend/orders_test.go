package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_Success(t *testing.T) {
	var received CreateOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"order":{"id":"ord-1","orderNo":"PB-1001"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	order, err := client.CreateOrder(context.Background(), &CreateOrderRequest{
		Items:         []OrderItem{{ProductID: 1, Quantity: 2}},
		CustomerEmail: "jo@example.com",
		DeliveryInfo:  DeliveryInfo{DeliveryMethod: "pickup", PickupDate: "2026-09-05", PickupTime: "10:00"},
		TotalCents:    500000,
	})
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
	assert.Equal(t, "PB-1001", order.OrderNo)

	// Items must go up as product/quantity pairs only.
	require.Len(t, received.Items, 1)
	assert.Equal(t, int64(1), received.Items[0].ProductID)
	assert.Nil(t, received.ShippingAddress)
}

func TestCreateOrder_UpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"invalid order","details":"product 9 is out of stock"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.CreateOrder(context.Background(), &CreateOrderRequest{})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnprocessableEntity, upstream.StatusCode)
	assert.Equal(t, "product 9 is out of stock", upstream.Message)
}

func TestCreateOrder_RejectionWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.CreateOrder(context.Background(), &CreateOrderRequest{})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "order service rejected the request", upstream.Message)
}

func TestGetOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/ord-1", r.URL.Path)
		w.Write([]byte(`{"order":{"id":"ord-1","status":"paid"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	raw, err := client.GetOrder(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"order":{"id":"ord-1","status":"paid"}}`, string(raw))
}
