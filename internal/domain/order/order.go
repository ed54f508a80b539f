package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status of an order. Orders are created CONFIRMED; later transitions are
// outside this pipeline.
type Status string

const StatusConfirmed Status = "CONFIRMED"

// Order is the durable financial record produced by a checkout. It owns its
// items exclusively; they are snapshots of the cart lines at creation time and
// never change afterwards.
type Order struct {
	ID          int64           `json:"id"`
	UserID      string          `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	Items       []Item          `json:"items"`
}

// Item is one order line, copied from a cart line at checkout. Price is the
// line price for the whole quantity.
type Item struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Store persists orders. Create must write the header and every item as one
// atomic unit and fill in the generated IDs and CreatedAt.
type Store interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
}

// Response is the caller-facing projection of a created order.
type Response struct {
	ID          int64           `json:"id"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      Status          `json:"status"`
	Items       []ItemResponse  `json:"items"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type ItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
