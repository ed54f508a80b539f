package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Item is one cart line, keyed uniquely by (UserID, ProductID). Price is the
// line price for the whole quantity, recomputed from the merged quantity on
// every add.
type Item struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"userId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store is the persistence contract for cart lines. UpsertItem must apply the
// merge atomically so concurrent adds for the same line never lose updates and
// never surface a conflict to the caller, including two first adds racing on
// a line that does not exist yet.
type Store interface {
	UpsertItem(ctx context.Context, userID string, productID int64, quantity int) (*Item, error)
	ItemsByUser(ctx context.Context, userID string) ([]Item, error)
	RemoveItem(ctx context.Context, userID string, productID int64) (bool, error)
	Clear(ctx context.Context, userID string) error
}
