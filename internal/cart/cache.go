package cart

import (
	"context"
	"errors"

	"github.com/Uvaancovie/poolbeanbags-storefront/internal/domain"
)

type Cache interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Set(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrCacheMiss = errors.New("cache miss")
