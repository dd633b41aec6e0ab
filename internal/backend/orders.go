// Package backend is the HTTP client for the external order API that owns
// order records once a checkout is submitted.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is used when no API base is configured.
const DefaultBaseURL = "https://poolbeanbags-api.onrender.com"

type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country,omitempty"`
}

type DeliveryInfo struct {
	DeliveryMethod string `json:"delivery_method"`
	PickupDate     string `json:"pickup_date,omitempty"`
	PickupTime     string `json:"pickup_time,omitempty"`
}

// CreateOrderRequest is the order API's expected shape. Items carry no price:
// the backend reprices from its own catalog, so a stale client snapshot can
// never fix the amount charged.
type CreateOrderRequest struct {
	Items           []OrderItem  `json:"items"`
	ShippingAddress *Address     `json:"shipping_address"`
	BillingAddress  Address      `json:"billing_address"`
	DeliveryInfo    DeliveryInfo `json:"delivery_info"`
	CustomerEmail   string       `json:"customer_email"`
	TotalCents      int64        `json:"total_cents"`
}

type CreatedOrder struct {
	ID      string `json:"id"`
	OrderNo string `json:"orderNo"`
}

// UpstreamError carries the order API's rejection through to the caller with
// whatever detail the response body offered.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("order API returned status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) CreateOrder(ctx context.Context, order *CreateOrderRequest) (*CreatedOrder, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    decodeUpstreamMessage(resp),
		}
	}

	var body struct {
		Order CreatedOrder `json:"order"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	return &body.Order, nil
}

// GetOrder fetches the authoritative order record for the confirmation page.
// The backend's repriced totals are returned as-is.
func (c *Client) GetOrder(ctx context.Context, id string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/orders/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    decodeUpstreamMessage(resp),
		}
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", id, err)
	}

	return raw, nil
}

// decodeUpstreamMessage pulls the error/details fields out of a rejection
// body when present, falling back to a generic message.
func decodeUpstreamMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Details != "" {
			return body.Details
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return "order service rejected the request"
}
