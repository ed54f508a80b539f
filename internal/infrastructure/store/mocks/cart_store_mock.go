package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/example/ec-order-pipeline/internal/domain/cart"
	"github.com/example/ec-order-pipeline/internal/pricing"
)

// MockCartStore is an in-memory implementation of cart.Store for testing.
type MockCartStore struct {
	mu     sync.Mutex
	items  map[string]map[int64]*cart.Item // userID -> productID -> item
	nextID int64

	// For tracking calls and injecting failures in tests
	UpsertCalls []UpsertCall
	ClearCalls  []string
	UpsertErr   error
	ItemsErr    error
	RemoveErr   error
	ClearErr    error
}

// UpsertCall records parameters passed to UpsertItem
type UpsertCall struct {
	UserID    string
	ProductID int64
	Quantity  int
}

// NewMockCartStore creates a new MockCartStore
func NewMockCartStore() *MockCartStore {
	return &MockCartStore{
		items: make(map[string]map[int64]*cart.Item),
	}
}

func (m *MockCartStore) UpsertItem(ctx context.Context, userID string, productID int64, quantity int) (*cart.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpsertCalls = append(m.UpsertCalls, UpsertCall{UserID: userID, ProductID: productID, Quantity: quantity})
	if m.UpsertErr != nil {
		return nil, m.UpsertErr
	}

	if m.items[userID] == nil {
		m.items[userID] = make(map[int64]*cart.Item)
	}

	now := time.Now()
	item, ok := m.items[userID][productID]
	if !ok {
		m.nextID++
		item = &cart.Item{
			ID:        m.nextID,
			UserID:    userID,
			ProductID: productID,
			CreatedAt: now,
		}
		m.items[userID][productID] = item
	}
	item.Quantity += quantity
	item.Price = pricing.LinePrice(item.Quantity)
	item.UpdatedAt = now

	copied := *item
	return &copied, nil
}

func (m *MockCartStore) ItemsByUser(ctx context.Context, userID string) ([]cart.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ItemsErr != nil {
		return nil, m.ItemsErr
	}

	var items []cart.Item
	for _, item := range m.items[userID] {
		items = append(items, *item)
	}
	return items, nil
}

func (m *MockCartStore) RemoveItem(ctx context.Context, userID string, productID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RemoveErr != nil {
		return false, m.RemoveErr
	}

	if _, ok := m.items[userID][productID]; !ok {
		return false, nil
	}
	delete(m.items[userID], productID)
	return true, nil
}

func (m *MockCartStore) Clear(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ClearCalls = append(m.ClearCalls, userID)
	if m.ClearErr != nil {
		return m.ClearErr
	}
	delete(m.items, userID)
	return nil
}

// Seed inserts an item directly, bypassing call recording.
func (m *MockCartStore) Seed(userID string, productID int64, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.items[userID] == nil {
		m.items[userID] = make(map[int64]*cart.Item)
	}
	m.nextID++
	m.items[userID][productID] = &cart.Item{
		ID:        m.nextID,
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     pricing.LinePrice(quantity),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// Len returns the number of items in a user's cart.
func (m *MockCartStore) Len(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items[userID])
}

var _ cart.Store = (*MockCartStore)(nil)
