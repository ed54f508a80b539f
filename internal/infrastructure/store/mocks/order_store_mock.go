package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/example/ec-order-pipeline/internal/domain/order"
)

// MockOrderStore is an in-memory implementation of order.Store for testing.
type MockOrderStore struct {
	mu     sync.Mutex
	orders map[int64]*order.Order
	nextID int64

	// For tracking calls and injecting failures in tests
	CreateCalls int
	CreateErr   error
	GetErr      error
}

// NewMockOrderStore creates a new MockOrderStore
func NewMockOrderStore() *MockOrderStore {
	return &MockOrderStore{
		orders: make(map[int64]*order.Order),
	}
}

func (m *MockOrderStore) Create(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}

	m.nextID++
	o.ID = m.nextID
	o.CreatedAt = time.Now()
	for i := range o.Items {
		o.Items[i].ID = int64(i + 1)
		o.Items[i].OrderID = o.ID
	}

	stored := *o
	stored.Items = append([]order.Item(nil), o.Items...)
	m.orders[o.ID] = &stored
	return nil
}

func (m *MockOrderStore) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *o
	copied.Items = append([]order.Item(nil), o.Items...)
	return &copied, nil
}

// Len returns the number of stored orders.
func (m *MockOrderStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

var _ order.Store = (*MockOrderStore)(nil)
