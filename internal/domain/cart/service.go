package cart

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/example/ec-order-pipeline/internal/userclient"
)

var (
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrUserNotFound           = errors.New("user not found")
	ErrUserServiceUnavailable = errors.New("user service unavailable")
)

// UserValidator answers whether the acting user exists, distinguishing a
// missing user from an unreachable user service.
type UserValidator interface {
	Lookup(ctx context.Context, userID string) userclient.LookupResult
}

// Service owns per-user cart state.
type Service struct {
	store Store
	users UserValidator
}

func NewService(store Store, users UserValidator) *Service {
	return &Service{store: store, users: users}
}

// AddItem merges the requested quantity into the user's line for the product.
// The add is rejected whole if the user does not validate; nothing is written.
func (s *Service) AddItem(ctx context.Context, userID string, productID int64, quantity int) (*Item, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	result := s.users.Lookup(ctx, userID)
	switch result.Outcome {
	case userclient.NotFound:
		log.Printf("[Cart] Add rejected, user not found: userID=%s", userID)
		return nil, ErrUserNotFound
	case userclient.Unreachable:
		log.Printf("[Cart] Add rejected, user service unreachable: userID=%s cause=%v", userID, result.Cause)
		return nil, fmt.Errorf("%w: %v", ErrUserServiceUnavailable, result.Cause)
	}

	item, err := s.store.UpsertItem(ctx, userID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	log.Printf("[Cart] Item added: userID=%s productID=%d quantity=%d price=%s",
		userID, productID, item.Quantity, item.Price)
	return item, nil
}

// Items returns the user's current cart lines. Ordering is unspecified.
func (s *Service) Items(ctx context.Context, userID string) ([]Item, error) {
	return s.store.ItemsByUser(ctx, userID)
}

// RemoveItem deletes the matching line and reports whether one existed. An
// absent line is not an error.
func (s *Service) RemoveItem(ctx context.Context, userID string, productID int64) (bool, error) {
	removed, err := s.store.RemoveItem(ctx, userID, productID)
	if err != nil {
		return false, fmt.Errorf("remove cart item: %w", err)
	}
	if removed {
		log.Printf("[Cart] Item removed: userID=%s productID=%d", userID, productID)
	}
	return removed, nil
}

// Clear deletes every line for the user. Safe to call on an empty cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.store.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	log.Printf("[Cart] Cart cleared: userID=%s", userID)
	return nil
}
