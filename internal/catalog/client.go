// Package catalog is the HTTP client for the external product API. The cart
// store uses it to resolve the unit price snapshotted onto a new line item.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	BasePriceCents int64  `json:"base_price_cents"`
	PromoPercent   int    `json:"promo_percent"`
	ImageURL       string `json:"image_url"`
}

// EffectivePriceCents applies the active promotion to the base price. This is
// the price a new cart line snapshots.
func (p Product) EffectivePriceCents() int64 {
	if p.PromoPercent <= 0 || p.PromoPercent >= 100 {
		return p.BasePriceCents
	}
	return p.BasePriceCents * int64(100-p.PromoPercent) / 100
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	url := fmt.Sprintf("%s/api/products/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build product request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product API returned status %d", resp.StatusCode)
	}

	var body struct {
		Product Product `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode product %d: %w", id, err)
	}

	return &body.Product, nil
}
