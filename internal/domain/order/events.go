package order

import (
	"time"

	"github.com/example/ec-order-pipeline/internal/pricing"
	"github.com/shopspring/decimal"
)

// EventOrderCreated is the event type published once per committed order.
const EventOrderCreated = "OrderCreated"

// CreatedEvent is the immutable snapshot of an order placed on the event
// channel. It is produced exactly once per persisted order and may be
// delivered to consumers more than once.
type CreatedEvent struct {
	OrderID     int64              `json:"orderId"`
	UserID      string             `json:"userId"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Status      Status             `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
	Items       []CreatedEventItem `json:"items"`
}

type CreatedEventItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// NewCreatedEvent copies the order into its event form. The event holds its
// own item slice so later mutations of the order cannot leak into it.
func NewCreatedEvent(o *Order) CreatedEvent {
	items := make([]CreatedEventItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = CreatedEventItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: pricing.UnitPrice,
		}
	}
	return CreatedEvent{
		OrderID:     o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		Items:       items,
	}
}
