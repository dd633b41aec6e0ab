package cart

import (
	"context"
	"errors"

	"github.com/Uvaancovie/poolbeanbags-storefront/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")

	// ErrCorruptCart tags a stored cart that could not be decoded. The store
	// recovers by starting the session over with an empty cart, but the error
	// is logged so the recovery is observable.
	ErrCorruptCart = errors.New("stored cart is corrupt")
)

// Repository persists whole carts keyed by session. Every mutation writes the
// full cart back; there are no field-level updates, so the last writer for a
// session fully determines the stored state.
type Repository interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Upsert(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
