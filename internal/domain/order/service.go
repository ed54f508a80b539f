package order

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/example/ec-order-pipeline/internal/domain/cart"
	"github.com/example/ec-order-pipeline/internal/pricing"
	"github.com/example/ec-order-pipeline/internal/userclient"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart              = errors.New("cart is empty")
	ErrUserNotFound           = errors.New("user not found")
	ErrUserServiceUnavailable = errors.New("user service unavailable")
	ErrOrderNotFound          = errors.New("order not found")
)

// CartReader is the slice of the cart service the orchestrator needs.
type CartReader interface {
	Items(ctx context.Context, userID string) ([]cart.Item, error)
	Clear(ctx context.Context, userID string) error
}

// UserValidator answers whether the acting user exists, distinguishing a
// missing user from an unreachable user service.
type UserValidator interface {
	Lookup(ctx context.Context, userID string) userclient.LookupResult
}

// Publisher hands a committed order to the event channel.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, o *Order) error
}

// Service orchestrates checkout: validate user, snapshot cart, persist the
// order atomically, clear the cart, publish the event.
type Service struct {
	store     Store
	carts     CartReader
	users     UserValidator
	publisher Publisher
}

func NewService(store Store, carts CartReader, users UserValidator, publisher Publisher) *Service {
	return &Service{
		store:     store,
		carts:     carts,
		users:     users,
		publisher: publisher,
	}
}

// CreateOrder converts the user's cart into a persisted order.
//
// Failures before the store commit leave no trace. The cart clear and the
// event publish run only after the commit and can never unwind it: a failed
// clear or publish is logged and the order stands.
func (s *Service) CreateOrder(ctx context.Context, userID string) (*Response, error) {
	result := s.users.Lookup(ctx, userID)
	switch result.Outcome {
	case userclient.NotFound:
		log.Printf("[Order] Checkout rejected, user not found: userID=%s", userID)
		return nil, ErrUserNotFound
	case userclient.Unreachable:
		log.Printf("[Order] Checkout rejected, user service unreachable: userID=%s cause=%v", userID, result.Cause)
		return nil, fmt.Errorf("%w: %v", ErrUserServiceUnavailable, result.Cause)
	}

	items, err := s.carts.Items(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(items) == 0 {
		log.Printf("[Order] Checkout rejected, empty cart: userID=%s", userID)
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	orderItems := make([]Item, len(items))
	for i, line := range items {
		total = total.Add(line.Price)
		orderItems[i] = Item{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		}
	}

	o := &Order{
		UserID:      userID,
		TotalAmount: total,
		Status:      StatusConfirmed,
		Items:       orderItems,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	log.Printf("[Order] Order saved: orderID=%d userID=%s totalAmount=%s items=%d",
		o.ID, userID, o.TotalAmount, len(o.Items))

	// The order is committed; everything below is best-effort and must not be
	// cut short by the caller hanging up.
	ctx = context.WithoutCancel(ctx)
	if err := s.carts.Clear(ctx, userID); err != nil {
		log.Printf("[Order] Failed to clear cart after checkout: userID=%s err=%v", userID, err)
	}

	if err := s.publisher.PublishOrderCreated(ctx, o); err != nil {
		log.Printf("[Order] Failed to publish order created event: orderID=%d err=%v", o.ID, err)
	}

	return projectResponse(o), nil
}

// GetOrder returns a persisted order by ID, projected the same way a creation
// response is.
func (s *Service) GetOrder(ctx context.Context, id int64) (*Response, error) {
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return projectResponse(o), nil
}

func projectResponse(o *Order) *Response {
	items := make([]ItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = ItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: pricing.UnitPrice,
			Subtotal:  item.Price,
		}
	}
	return &Response{
		ID:          o.ID,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		Items:       items,
		CreatedAt:   o.CreatedAt,
	}
}
