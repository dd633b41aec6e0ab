package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validShipping() CheckoutRequest {
	return CheckoutRequest{
		FirstName:      "Jo",
		LastName:       "Naidoo",
		Email:          "jo@example.com",
		Phone:          "0821234567",
		DeliveryMethod: DeliveryShipping,
		ShippingAddress: &Address{
			Line1:      "1 Beach Rd",
			City:       "Durban",
			PostalCode: "4001",
		},
	}
}

func TestCheckoutRequest_Validate(t *testing.T) {
	require.NoError(t, validShipping().Validate())

	tests := []struct {
		name   string
		mutate func(*CheckoutRequest)
		field  string
	}{
		{"missing first name", func(r *CheckoutRequest) { r.FirstName = "" }, "first_name"},
		{"missing email", func(r *CheckoutRequest) { r.Email = "" }, "email"},
		{"missing phone", func(r *CheckoutRequest) { r.Phone = "" }, "phone"},
		{"bad delivery method", func(r *CheckoutRequest) { r.DeliveryMethod = "drone" }, "delivery_method"},
		{"missing address line", func(r *CheckoutRequest) { r.ShippingAddress.Line1 = "" }, "shipping_address.line1"},
		{"missing city", func(r *CheckoutRequest) { r.ShippingAddress.City = "" }, "shipping_address.city"},
		{"missing postal code", func(r *CheckoutRequest) { r.ShippingAddress.PostalCode = "" }, "shipping_address.postal_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validShipping()
			tt.mutate(&req)

			err := req.Validate()
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestCheckoutRequest_PickupSchedule(t *testing.T) {
	req := validShipping()
	req.DeliveryMethod = DeliveryPickup
	req.ShippingAddress = nil

	err := req.Validate()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "pickup_date", vErr.Field)

	req.PickupDate = "2026-09-05"
	err = req.Validate()
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "pickup_time", vErr.Field)

	req.PickupTime = "10:00"
	assert.NoError(t, req.Validate())
}

func TestAddToCartRequest_Validate(t *testing.T) {
	assert.NoError(t, AddToCartRequest{ProductID: 1, Quantity: 1}.Validate())
	assert.Error(t, AddToCartRequest{ProductID: 0, Quantity: 1}.Validate())
	assert.Error(t, AddToCartRequest{ProductID: 1, Quantity: 0}.Validate())
	assert.Error(t, AddToCartRequest{ProductID: 1, Quantity: 100}.Validate())
}

func TestNewLineItemID_Distinct(t *testing.T) {
	a := NewLineItemID(1, time.Now())
	b := NewLineItemID(1, time.Now())
	assert.NotEqual(t, a, b)
}
