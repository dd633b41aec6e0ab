// Package checkout turns a session's cart plus the customer's delivery form
// into an order submission against the external order API.
package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Uvaancovie/poolbeanbags-storefront/internal/backend"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/domain"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/events"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/pricing"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// StoreAddress is the billing address used for pickup orders, where no
// customer address is collected.
var StoreAddress = backend.Address{
	Line1:      "12 Marine Drive",
	City:       "Durban",
	Province:   "KwaZulu-Natal",
	PostalCode: "4001",
	Country:    "ZA",
}

// CartStore is the slice of the cart store checkout needs.
type CartStore interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// OrderAPI is the slice of the backend client checkout needs.
type OrderAPI interface {
	CreateOrder(ctx context.Context, order *backend.CreateOrderRequest) (*backend.CreatedOrder, error)
}

type Result struct {
	OrderID string `json:"order_id"`
	OrderNo string `json:"order_no"`
}

type Orchestrator struct {
	cart      CartStore
	orders    OrderAPI
	publisher events.Publisher
}

func NewOrchestrator(cart CartStore, orders OrderAPI, publisher events.Publisher) *Orchestrator {
	return &Orchestrator{
		cart:      cart,
		orders:    orders,
		publisher: publisher,
	}
}

// Submit validates the checkout form against the session's cart, submits the
// order, and clears the cart on success. Validation failures return before
// any network call; upstream failures leave the cart intact so the customer
// can retry without re-adding items.
func (o *Orchestrator) Submit(ctx context.Context, sessionID string, req domain.CheckoutRequest) (*Result, error) {
	cart, err := o.cart.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload := buildOrderPayload(cart, req)

	created, err := o.orders.CreateOrder(ctx, payload)
	if err != nil {
		return nil, err
	}

	// The order now exists independently of the cart. A failed clear is not
	// a failed checkout.
	if errClear := o.cart.Clear(ctx, sessionID); errClear != nil {
		log.Printf("failed to clear cart after order %s: %v", created.ID, errClear)
	}

	o.publishSubmitted(cart, req, created, payload.TotalCents)

	return &Result{OrderID: created.ID, OrderNo: created.OrderNo}, nil
}

func buildOrderPayload(cart *domain.Cart, req domain.CheckoutRequest) *backend.CreateOrderRequest {
	items := make([]backend.OrderItem, len(cart.Items))
	for i, it := range cart.Items {
		items[i] = backend.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		}
	}

	var shipping *backend.Address
	billing := StoreAddress
	if req.DeliveryMethod == domain.DeliveryShipping {
		shipping = &backend.Address{
			Line1:      req.ShippingAddress.Line1,
			Line2:      req.ShippingAddress.Line2,
			City:       req.ShippingAddress.City,
			Province:   req.ShippingAddress.Province,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		}
		billing = *shipping
	}

	totals := pricing.Quote(cart.Items, req.DeliveryMethod)

	return &backend.CreateOrderRequest{
		Items:           items,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		DeliveryInfo: backend.DeliveryInfo{
			DeliveryMethod: string(req.DeliveryMethod),
			PickupDate:     req.PickupDate,
			PickupTime:     req.PickupTime,
		},
		CustomerEmail: req.Email,
		TotalCents:    totals.TotalCents,
	}
}

func (o *Orchestrator) publishSubmitted(cart *domain.Cart, req domain.CheckoutRequest, created *backend.CreatedOrder, totalCents int64) {
	items := make([]events.OrderSubmittedItem, len(cart.Items))
	for i, it := range cart.Items {
		items[i] = events.OrderSubmittedItem{
			ProductID:      it.ProductID,
			Title:          it.Title,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := o.publisher.OrderSubmitted(ctx, &events.OrderSubmittedEvent{
		OrderID:        created.ID,
		OrderNo:        created.OrderNo,
		SessionID:      cart.SessionID,
		CustomerEmail:  req.Email,
		DeliveryMethod: string(req.DeliveryMethod),
		Items:          items,
		TotalCents:     totalCents,
		SubmittedAt:    time.Now(),
	})
	if err != nil {
		log.Printf("failed to publish order.submitted for %s: %v", created.ID, err)
	}
}
