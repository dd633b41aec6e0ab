// Package events publishes order lifecycle events for the back-office. The
// storefront never depends on a publish succeeding: order creation already
// happened upstream by the time an event goes out.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type OrderSubmittedItem struct {
	ProductID      int64  `json:"product_id"`
	Title          string `json:"title"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type OrderSubmittedEvent struct {
	OrderID        string               `json:"order_id"`
	OrderNo        string               `json:"order_no"`
	SessionID      string               `json:"session_id"`
	CustomerEmail  string               `json:"customer_email"`
	DeliveryMethod string               `json:"delivery_method"`
	Items          []OrderSubmittedItem `json:"items"`
	TotalCents     int64                `json:"total_cents"`
	SubmittedAt    time.Time            `json:"submitted_at"`
}

type Publisher interface {
	OrderSubmitted(ctx context.Context, event *OrderSubmittedEvent) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "storefront-orders",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) OrderSubmitted(ctx context.Context, event *OrderSubmittedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID), // order_id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.submitted")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) OrderSubmitted(context.Context, *OrderSubmittedEvent) error { return nil }
