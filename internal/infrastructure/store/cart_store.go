package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/ec-order-pipeline/internal/domain/cart"
	"github.com/example/ec-order-pipeline/internal/pricing"
)

// PostgresCartStore persists cart lines in PostgreSQL.
type PostgresCartStore struct {
	db *sql.DB
}

func NewPostgresCartStore(db *sql.DB) *PostgresCartStore {
	return &PostgresCartStore{db: db}
}

// UpsertItem merges quantity into the (userID, productID) line as one atomic
// upsert. Concurrent adds for the same line serialize on the unique index, so
// two first adds both land as a merge instead of one failing with a conflict.
// The line price is recomputed from the merged quantity, never accumulated.
func (s *PostgresCartStore) UpsertItem(ctx context.Context, userID string, productID int64, quantity int) (*cart.Item, error) {
	item := cart.Item{UserID: userID, ProductID: productID}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity, price)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, product_id) DO UPDATE
		 SET quantity = cart_items.quantity + EXCLUDED.quantity,
		     price = $5 * (cart_items.quantity + EXCLUDED.quantity),
		     updated_at = now()
		 RETURNING id, quantity, price, created_at, updated_at`,
		userID, productID, quantity, pricing.LinePrice(quantity), pricing.UnitPrice,
	).Scan(&item.ID, &item.Quantity, &item.Price, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}
	return &item, nil
}

func (s *PostgresCartStore) ItemsByUser(ctx context.Context, userID string) ([]cart.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, product_id, quantity, price, created_at, updated_at
		 FROM cart_items
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []cart.Item
	for rows.Next() {
		var item cart.Item
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
			&item.Price, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresCartStore) RemoveItem(ctx context.Context, userID string, productID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *PostgresCartStore) Clear(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

var _ cart.Store = (*PostgresCartStore)(nil)
