package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LineItem is one product entry held by the cart. UnitPriceCents is captured
// once when the line is created (promotion already applied) and never updated;
// later catalog price changes do not touch lines already in the cart.
type LineItem struct {
	ID             string    `json:"id" bson:"id"`
	ProductID      int64     `json:"product_id" bson:"product_id"`
	Title          string    `json:"title" bson:"title"`
	Slug           string    `json:"slug" bson:"slug"`
	UnitPriceCents int64     `json:"unit_price_cents" bson:"unit_price_cents"`
	Quantity       int       `json:"quantity" bson:"quantity"`
	ImageURL       string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	AddedAt        time.Time `json:"added_at" bson:"added_at"`
}

// NewLineItemID builds the composite line id from the product id and the
// creation instant. The uuid suffix keeps ids distinct when the same product
// is re-added within the same millisecond after a removal.
func NewLineItemID(productID int64, at time.Time) string {
	return fmt.Sprintf("%d-%d-%s", productID, at.UnixMilli(), uuid.NewString()[:8])
}

type Cart struct {
	ID        string     `bson:"_id,omitempty"`
	SessionID string     `bson:"session_id"`
	Items     []LineItem `bson:"items"`
	CreatedAt time.Time  `bson:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// Clone returns a copy whose Items slice shares nothing with the receiver, so
// one caller mutating its cart cannot tear another caller's view of it.
func (c *Cart) Clone() *Cart {
	cp := *c
	if c.Items != nil {
		cp.Items = make([]LineItem, len(c.Items))
		copy(cp.Items, c.Items)
	}
	return &cp
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount is the sum of line quantities, used for the cart badge.
func (c *Cart) ItemCount() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) SubtotalCents() int64 {
	var sum int64
	for _, it := range c.Items {
		sum += it.UnitPriceCents * int64(it.Quantity)
	}
	return sum
}

// FindItem returns the index of the line with the given composite id, or -1.
func (c *Cart) FindItem(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// FindProduct returns the index of the line holding the given product, or -1.
// Adding an already-present product merges into this line instead of creating
// a duplicate.
func (c *Cart) FindProduct(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
