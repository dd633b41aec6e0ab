package domain

import "fmt"

type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryShipping DeliveryMethod = "shipping"
)

func (m DeliveryMethod) Valid() bool {
	return m == DeliveryPickup || m == DeliveryShipping
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country,omitempty"`
}

// AddToCartRequest is the narrow, validated input to the cart store. The unit
// price is resolved server-side from the catalog at add time, never taken from
// the caller.
type AddToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (r AddToCartRequest) Validate() error {
	if r.ProductID <= 0 {
		return &ValidationError{Field: "product_id", Reason: "must be positive"}
	}
	if r.Quantity <= 0 || r.Quantity > 99 {
		return &ValidationError{Field: "quantity", Reason: "must be between 1 and 99"}
	}
	return nil
}

// CheckoutRequest carries the customer and delivery form fields collected on
// the checkout page.
type CheckoutRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	DeliveryMethod  DeliveryMethod `json:"delivery_method"`
	ShippingAddress *Address       `json:"shipping_address,omitempty"`
	PickupDate      string         `json:"pickup_date,omitempty"`
	PickupTime      string         `json:"pickup_time,omitempty"`
}

// ValidationError marks a checkout or cart input rejected before any network
// call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (r CheckoutRequest) Validate() error {
	switch {
	case r.FirstName == "":
		return &ValidationError{Field: "first_name", Reason: "required"}
	case r.LastName == "":
		return &ValidationError{Field: "last_name", Reason: "required"}
	case r.Email == "":
		return &ValidationError{Field: "email", Reason: "required"}
	case r.Phone == "":
		return &ValidationError{Field: "phone", Reason: "required"}
	}

	if !r.DeliveryMethod.Valid() {
		return &ValidationError{Field: "delivery_method", Reason: "must be pickup or shipping"}
	}

	if r.DeliveryMethod == DeliveryShipping {
		if r.ShippingAddress == nil {
			return &ValidationError{Field: "shipping_address", Reason: "required"}
		}
		switch {
		case r.ShippingAddress.Line1 == "":
			return &ValidationError{Field: "shipping_address.line1", Reason: "required"}
		case r.ShippingAddress.City == "":
			return &ValidationError{Field: "shipping_address.city", Reason: "required"}
		case r.ShippingAddress.PostalCode == "":
			return &ValidationError{Field: "shipping_address.postal_code", Reason: "required"}
		}
	}

	if r.DeliveryMethod == DeliveryPickup {
		if r.PickupDate == "" {
			return &ValidationError{Field: "pickup_date", Reason: "required"}
		}
		if r.PickupTime == "" {
			return &ValidationError{Field: "pickup_time", Reason: "required"}
		}
	}

	return nil
}
