// Package pricing computes delivery cost for cart lines, in cents.
//
// One shipping policy applies everywhere: each line is classified by its
// title and charged a per-unit rate for its class. Pickup orders ship free.
package pricing

import (
	"strings"

	"github.com/Uvaancovie/poolbeanbags-storefront/internal/domain"
)

type ProductClass string

const (
	ClassLounger ProductClass = "lounger"
	ClassBeanBag ProductClass = "beanbag"
)

// Per-unit courier rates. Loungers are bulky and cost far more to move than a
// standard bean bag.
const (
	ShippingPerLoungerCents int64 = 45000
	ShippingPerBeanBagCents int64 = 15000
)

// Classify buckets a product by title substring match, case-insensitive.
// Anything that is not a lounger ships at the standard bean-bag rate.
func Classify(title string) ProductClass {
	if strings.Contains(strings.ToLower(title), "lounger") {
		return ClassLounger
	}
	return ClassBeanBag
}

func rateFor(class ProductClass) int64 {
	if class == ClassLounger {
		return ShippingPerLoungerCents
	}
	return ShippingPerBeanBagCents
}

// ShippingCents sums the per-class rate times quantity across items. An empty
// list costs nothing.
func ShippingCents(items []domain.LineItem) int64 {
	var sum int64
	for _, it := range items {
		sum += rateFor(Classify(it.Title)) * int64(it.Quantity)
	}
	return sum
}

type Totals struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TotalCents    int64 `json:"total_cents"`
}

// Quote prices a cart for the given delivery method. Pickup is always free
// delivery; shipping is charged per item class.
func Quote(items []domain.LineItem, method domain.DeliveryMethod) Totals {
	var subtotal int64
	for _, it := range items {
		subtotal += it.UnitPriceCents * int64(it.Quantity)
	}

	var shipping int64
	if method == domain.DeliveryShipping {
		shipping = ShippingCents(items)
	}

	return Totals{
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TotalCents:    subtotal + shipping,
	}
}
