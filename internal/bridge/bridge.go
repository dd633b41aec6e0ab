// Package bridge exposes the same-origin payment proxy routes. Each route
// accepts a JSON body from the browser, forwards it to the configured
// upstream, and relays the upstream status and body unchanged.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// PayFast's upstream runs on a free tier that cold-starts; the first attempt
// regularly times out while it wakes up.
var defaultRetrySchedule = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

const defaultAttemptTimeout = 30 * time.Second

type proxyResult struct {
	status      int
	contentType string
	body        []byte
}

type Bridge struct {
	payfastURL  string
	ozowURL     string
	checkoutURL string

	client         *http.Client
	retrySchedule  []time.Duration
	attemptTimeout time.Duration
	breaker        *gobreaker.CircuitBreaker[*proxyResult]
}

type Config struct {
	PayFastURL  string
	OzowURL     string
	CheckoutURL string

	// RetrySchedule and AttemptTimeout shorten the PayFast retry loop in
	// tests; zero values take the production defaults.
	RetrySchedule  []time.Duration
	AttemptTimeout time.Duration
}

func New(cfg Config) *Bridge {
	schedule := cfg.RetrySchedule
	if schedule == nil {
		schedule = defaultRetrySchedule
	}
	timeout := cfg.AttemptTimeout
	if timeout == 0 {
		timeout = defaultAttemptTimeout
	}

	breaker := gobreaker.NewCircuitBreaker[*proxyResult](gobreaker.Settings{
		Name:    "checkout-upstream",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Bridge{
		payfastURL:     cfg.PayFastURL,
		ozowURL:        cfg.OzowURL,
		checkoutURL:    cfg.CheckoutURL,
		client:         &http.Client{},
		retrySchedule:  schedule,
		attemptTimeout: timeout,
		breaker:        breaker,
	}
}

// PayFast forwards to the PayFast create endpoint with bounded retry: one
// attempt per schedule entry, each with its own timeout, sleeping the entry's
// delay before the next attempt. Exhaustion answers 503 immediately with a
// readable message.
func (b *Bridge) PayFast(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var lastErr error
	for attempt, delay := range b.retrySchedule {
		result, errFwd := b.forward(r.Context(), b.payfastURL, body)
		if errFwd == nil {
			relay(w, result)
			return
		}
		lastErr = errFwd
		log.Printf("payfast attempt %d/%d failed: %v", attempt+1, len(b.retrySchedule), errFwd)

		if attempt == len(b.retrySchedule)-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	log.Printf("payfast upstream unreachable after %d attempts: %v", len(b.retrySchedule), lastErr)
	respondError(w, http.StatusServiceUnavailable,
		"Payment service is temporarily unavailable. Please try again in a moment.")
}

// Ozow forwards to the Ozow create endpoint, single attempt.
func (b *Bridge) Ozow(w http.ResponseWriter, r *http.Request) {
	b.forwardOnce(w, r, b.ozowURL)
}

// Checkout forwards to the configurable checkout upstream behind a circuit
// breaker, so a dead upstream fails fast instead of tying up connections.
func (b *Bridge) Checkout(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	result, err := b.breaker.Execute(func() (*proxyResult, error) {
		return b.forward(r.Context(), b.checkoutURL, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			respondError(w, http.StatusServiceUnavailable, "checkout service is unavailable")
			return
		}
		log.Printf("checkout proxy failed: %v", err)
		respondError(w, http.StatusBadGateway, "checkout service did not respond")
		return
	}

	relay(w, result)
}

func (b *Bridge) forwardOnce(w http.ResponseWriter, r *http.Request, upstream string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	result, err := b.forward(r.Context(), upstream, body)
	if err != nil {
		log.Printf("proxy to %s failed: %v", upstream, err)
		respondError(w, http.StatusBadGateway, "payment service did not respond")
		return
	}

	relay(w, result)
}

// forward posts the body to the upstream and captures whatever comes back.
// Any HTTP response, success or not, is a result to relay; only transport
// failures are errors.
func (b *Bridge) forward(ctx context.Context, upstream string, body []byte) (*proxyResult, error) {
	ctx, cancel := context.WithTimeout(ctx, b.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, upstream, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	return &proxyResult{
		status:      resp.StatusCode,
		contentType: contentType,
		body:        respBody,
	}, nil
}

func relay(w http.ResponseWriter, result *proxyResult) {
	w.Header().Set("Content-Type", result.contentType)
	w.WriteHeader(result.status)
	if _, err := w.Write(result.body); err != nil {
		log.Printf("failed to write proxy response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Printf("failed to encode error response: %v", err)
	}
}
