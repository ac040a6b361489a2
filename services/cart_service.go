package services

import (
	"context"
	"errors"

	"giftwell-backend/apperr"
	"giftwell-backend/models"
	"giftwell-backend/repository"
)

// cartWriteRetries bounds the optimistic-concurrency retry loop. Conflicts
// only occur when the same user mutates their cart from two requests at
// once, so contention is short-lived.
const cartWriteRetries = 5

var errCartMissing = errors.New("cart missing")

type CartService struct {
	store repository.CartStore
}

func NewCartService(store repository.CartStore) *CartService {
	return &CartService{store: store}
}

// Get returns the user's cart, or an empty one if none exists yet.
func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.store.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.NewCart(userID), nil
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return cart, nil
}

// AddItem validates item and applies the add-or-increment rule, creating
// the cart lazily on first use.
func (s *CartService) AddItem(ctx context.Context, userID string, item models.CartItem) (*models.Cart, error) {
	if err := item.Validate(); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	return s.mutate(ctx, userID, true, func(c *models.Cart) error {
		c.AddItem(item)
		return nil
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, apperr.Validation(models.ErrInvalidQuantity.Error())
	}
	cart, err := s.mutate(ctx, userID, false, func(c *models.Cart) error {
		if !c.SetQuantity(productID, quantity) {
			return apperr.NotFound("Item not found in cart")
		}
		return nil
	})
	if errors.Is(err, errCartMissing) {
		return nil, apperr.NotFound("Cart not found")
	}
	return cart, err
}

// RemoveItem deletes a line. Removing an item that is not in the cart is
// a no-op; a missing cart is a 404.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	cart, err := s.mutate(ctx, userID, false, func(c *models.Cart) error {
		c.RemoveItem(productID)
		return nil
	})
	if errors.Is(err, errCartMissing) {
		return nil, apperr.NotFound("Cart not found")
	}
	return cart, err
}

// Merge reconciles a client-held guest cart with the server-side cart
// after login. Items failing validation are skipped, not fatal.
func (s *CartService) Merge(ctx context.Context, userID string, items []models.CartItem) (*models.Cart, error) {
	return s.mutate(ctx, userID, true, func(c *models.Cart) error {
		c.Merge(items)
		return nil
	})
}

// Clear empties the cart. Clearing an absent cart succeeds.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	_, err := s.mutate(ctx, userID, false, func(c *models.Cart) error {
		c.Clear()
		return nil
	})
	if errors.Is(err, errCartMissing) {
		return nil
	}
	return err
}

// mutate runs a read-modify-write cycle under optimistic concurrency:
// reload and retry on version conflict so concurrent mutations of the
// same cart never lose an update. When create is false and no cart
// exists, errCartMissing is returned for the caller to interpret.
func (s *CartService) mutate(ctx context.Context, userID string, create bool, fn func(*models.Cart) error) (*models.Cart, error) {
	for attempt := 0; attempt < cartWriteRetries; attempt++ {
		fresh := false
		cart, err := s.store.Get(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			if !create {
				return nil, errCartMissing
			}
			cart, fresh = models.NewCart(userID), true
		} else if err != nil {
			return nil, apperr.Internal(err)
		}

		if err := fn(cart); err != nil {
			return nil, err
		}

		if fresh {
			switch err := s.store.Insert(ctx, cart); {
			case err == nil:
				return cart, nil
			case errors.Is(err, repository.ErrDuplicateKey):
				continue // lost the creation race, reload and reapply
			default:
				return nil, apperr.Internal(err)
			}
		}

		ok, err := s.store.Update(ctx, cart)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if ok {
			return cart, nil
		}
	}
	return nil, apperr.Internal(errors.New("cart update contention not resolved"))
}
