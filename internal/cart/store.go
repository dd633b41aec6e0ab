package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Uvaancovie/poolbeanbags-storefront/internal/catalog"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/domain"
	"github.com/Uvaancovie/poolbeanbags-storefront/internal/pricing"
)

// PriceSource resolves the current catalog price (promotion applied) for a
// product at the moment it is added to the cart.
type PriceSource interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
}

// Store is the single source of truth for a session's cart. All consumers
// (cart page, checkout, payment buttons) read the same computed values.
type Store struct {
	repo    Repository
	cache   Cache
	catalog PriceSource
	sfg     singleflight.Group // prevents cache stampede
}

func NewStore(repo Repository, cache Cache, catalog PriceSource) *Store {
	return &Store{
		repo:    repo,
		cache:   cache,
		catalog: catalog,
	}
}

// Get returns the session's cart, reading through the cache. A missing cart
// yields a fresh empty one. A corrupt stored cart is logged and recovered to
// an empty cart; the session starts over rather than failing.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return cart, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.Get(ctx, sessionID)
		if errGet != nil {
			if errors.Is(errGet, ErrCartNotFound) {
				return emptyCart(sessionID), nil
			}
			if errors.Is(errGet, ErrCorruptCart) {
				log.Printf("recovering corrupt cart for session %s: %v", sessionID, errGet)
				return emptyCart(sessionID), nil
			}
			return nil, errGet
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), sessionID, cart); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	// Each caller gets its own copy. The cart held inside the singleflight
	// group is shared with concurrent callers and with the async cache fill,
	// and callers mutate what Get hands them.
	return v.(*domain.Cart).Clone(), nil
}

// AddItem merges the product into an existing line when one exists, otherwise
// snapshots the catalog's current effective price onto a new line.
func (s *Store) AddItem(ctx context.Context, sessionID string, req domain.AddToCartRequest) (*domain.Cart, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if i := cart.FindProduct(req.ProductID); i >= 0 {
		cart.Items[i].Quantity += req.Quantity
	} else {
		product, errGet := s.catalog.GetProduct(ctx, req.ProductID)
		if errGet != nil {
			return nil, errGet
		}

		now := time.Now()
		cart.Items = append(cart.Items, domain.LineItem{
			ID:             domain.NewLineItemID(product.ID, now),
			ProductID:      product.ID,
			Title:          product.Title,
			Slug:           product.Slug,
			UnitPriceCents: product.EffectivePriceCents(),
			Quantity:       req.Quantity,
			ImageURL:       product.ImageURL,
			AddedAt:        now,
		})
	}

	return cart, s.persist(ctx, cart)
}

// UpdateQuantity replaces the line's quantity in place. A non-positive
// quantity removes the line entirely.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, lineID)
	}

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	i := cart.FindItem(lineID)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	cart.Items[i].Quantity = quantity

	return cart, s.persist(ctx, cart)
}

// RemoveItem deletes the line with the given composite id. An absent id is a
// no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, sessionID, lineID string) (*domain.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	i := cart.FindItem(lineID)
	if i < 0 {
		return cart, nil
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	return cart, s.persist(ctx, cart)
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	err := s.repo.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		log.Printf("repo delete cart error: %v", err)
		return err
	}

	s.invalidateCache(sessionID)
	return nil
}

// Totals prices the session's cart for the given delivery method. An empty
// cart totals zero with no shipping charge.
func (s *Store) Totals(ctx context.Context, sessionID string, method domain.DeliveryMethod) (pricing.Totals, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return pricing.Totals{}, err
	}
	return pricing.Quote(cart.Items, method), nil
}

func (s *Store) persist(ctx context.Context, cart *domain.Cart) error {
	if err := s.repo.Upsert(ctx, cart); err != nil {
		log.Printf("repo upsert cart error: %v", err)
		return err
	}

	s.invalidateCache(cart.SessionID)
	return nil
}

func (s *Store) invalidateCache(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

func emptyCart(sessionID string) *domain.Cart {
	now := time.Now()
	return &domain.Cart{
		SessionID: sessionID,
		Items:     nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
