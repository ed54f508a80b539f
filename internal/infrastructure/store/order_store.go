package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/ec-order-pipeline/internal/domain/order"
)

// PostgresOrderStore persists orders and their items in PostgreSQL.
type PostgresOrderStore struct {
	db *sql.DB
}

func NewPostgresOrderStore(db *sql.DB) *PostgresOrderStore {
	return &PostgresOrderStore{db: db}
}

// Create writes the order header and every item in a single transaction, so a
// reader never observes a header without its items and a failed write leaves
// nothing behind. Generated IDs and CreatedAt are filled into o.
func (s *PostgresOrderStore) Create(ctx context.Context, o *order.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, total_amount, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		o.UserID, o.TotalAmount, string(o.Status),
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			item.OrderID, item.ProductID, item.Quantity, item.Price,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetByID loads an order with its items. Returns (nil, nil) when absent.
func (s *PostgresOrderStore) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, total_amount, status, created_at FROM orders WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.UserID, &o.TotalAmount, &status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.Status = order.Status(status)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, price
		 FROM order_items
		 WHERE order_id = $1
		 ORDER BY id ASC`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item order.Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

var _ order.Store = (*PostgresOrderStore)(nil)
