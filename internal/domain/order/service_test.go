package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-order-pipeline/internal/domain/cart"
	"github.com/example/ec-order-pipeline/internal/domain/order"
	"github.com/example/ec-order-pipeline/internal/infrastructure/store/mocks"
	"github.com/example/ec-order-pipeline/internal/userclient"
)

// ============================================================
// Test doubles
// ============================================================

type stubValidator struct {
	result userclient.LookupResult
}

func (s *stubValidator) Lookup(ctx context.Context, userID string) userclient.LookupResult {
	return s.result
}

type stubPublisher struct {
	published []*order.Order
	ctxErrs   []error
	err       error
}

func (s *stubPublisher) PublishOrderCreated(ctx context.Context, o *order.Order) error {
	s.published = append(s.published, o)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return s.err
}

type fixture struct {
	orders    *mocks.MockOrderStore
	carts     *mocks.MockCartStore
	users     *stubValidator
	publisher *stubPublisher
	svc       *order.Service
}

func newFixture() *fixture {
	f := &fixture{
		orders:    mocks.NewMockOrderStore(),
		carts:     mocks.NewMockCartStore(),
		users:     &stubValidator{result: userclient.LookupResult{Outcome: userclient.Found, User: &userclient.User{ID: "u1"}}},
		publisher: &stubPublisher{},
	}
	cartSvc := cart.NewService(f.carts, f.users)
	f.svc = order.NewService(f.orders, cartSvc, f.users, f.publisher)
	return f
}

// ============================================================
// CreateOrder
// ============================================================

func TestService_CreateOrder(t *testing.T) {
	f := newFixture()
	// u1 added quantity 2 then 1 of the same product: one merged line.
	f.carts.Seed("u1", 7, 3)

	resp, err := f.svc.CreateOrder(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, order.StatusConfirmed, resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("300.00")),
		"total was %s", resp.TotalAmount)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(7), resp.Items[0].ProductID)
	assert.Equal(t, 3, resp.Items[0].Quantity)
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, resp.Items[0].Subtotal.Equal(decimal.RequireFromString("300.00")))

	// Cart cleared, event published, order persisted.
	assert.Equal(t, 0, f.carts.Len("u1"))
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, resp.ID, f.publisher.published[0].ID)
	assert.Equal(t, 1, f.orders.Len())
}

func TestService_CreateOrder_TotalIsSumOfSubtotals(t *testing.T) {
	f := newFixture()
	f.carts.Seed("u1", 7, 2)
	f.carts.Seed("u1", 8, 5)

	resp, err := f.svc.CreateOrder(context.Background(), "u1")
	require.NoError(t, err)

	sum := decimal.Zero
	for _, item := range resp.Items {
		sum = sum.Add(item.Subtotal)
	}
	assert.True(t, resp.TotalAmount.Equal(sum), "total %s != sum %s", resp.TotalAmount, sum)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("700.00")))
}

func TestService_CreateOrder_EmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateOrder(context.Background(), "u2")

	assert.ErrorIs(t, err, order.ErrEmptyCart)
	assert.Equal(t, 0, f.orders.Len())
	assert.Empty(t, f.publisher.published)
	assert.Empty(t, f.carts.ClearCalls)
}

func TestService_CreateOrder_UserNotFound(t *testing.T) {
	f := newFixture()
	f.carts.Seed("ghost", 7, 1)
	f.users.result = userclient.LookupResult{Outcome: userclient.NotFound}

	_, err := f.svc.CreateOrder(context.Background(), "ghost")

	assert.ErrorIs(t, err, order.ErrUserNotFound)
	assert.Equal(t, 0, f.orders.Len())
	assert.Equal(t, 1, f.carts.Len("ghost"), "cart must be untouched")
	assert.Empty(t, f.publisher.published)
}

func TestService_CreateOrder_UserServiceUnreachable(t *testing.T) {
	f := newFixture()
	f.carts.Seed("u1", 7, 1)
	f.users.result = userclient.LookupResult{
		Outcome: userclient.Unreachable,
		Cause:   errors.New("dial tcp: connection refused"),
	}

	_, err := f.svc.CreateOrder(context.Background(), "u1")

	// A down dependency is not a missing user.
	assert.ErrorIs(t, err, order.ErrUserServiceUnavailable)
	assert.NotErrorIs(t, err, order.ErrUserNotFound)
	assert.Equal(t, 0, f.orders.Len())
	assert.Equal(t, 1, f.carts.Len("u1"))
}

func TestService_CreateOrder_StoreFailureLeavesCartIntact(t *testing.T) {
	f := newFixture()
	f.carts.Seed("u1", 7, 2)
	f.orders.CreateErr = errors.New("db down")

	_, err := f.svc.CreateOrder(context.Background(), "u1")

	require.Error(t, err)
	assert.Equal(t, 1, f.carts.Len("u1"))
	assert.Empty(t, f.publisher.published)
}

func TestService_CreateOrder_PublishFailureDoesNotUnwindOrder(t *testing.T) {
	f := newFixture()
	f.carts.Seed("u1", 7, 2)
	f.publisher.err = errors.New("broker unavailable")

	resp, err := f.svc.CreateOrder(context.Background(), "u1")
	require.NoError(t, err)

	// The order committed and stays retrievable despite the failed publish.
	stored, err := f.svc.GetOrder(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, stored.ID)
	assert.Equal(t, 0, f.carts.Len("u1"))
}

func TestService_CreateOrder_CallerHangupDoesNotDropPublish(t *testing.T) {
	f := newFixture()
	f.carts.Seed("u1", 7, 2)

	// A client disconnecting right after the commit must not cancel the
	// post-commit clear and publish.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.CreateOrder(ctx, "u1")
	require.NoError(t, err)

	require.Len(t, f.publisher.published, 1)
	assert.NoError(t, f.publisher.ctxErrs[0], "publish context must outlive the request")
	assert.Equal(t, 0, f.carts.Len("u1"))
}

func TestService_CreateOrder_ClearFailureDoesNotUnwindOrder(t *testing.T) {
	f := newFixture()
	f.carts.Seed("u1", 7, 2)
	f.carts.ClearErr = errors.New("db down")

	resp, err := f.svc.CreateOrder(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, f.orders.Len())
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, resp.ID, f.publisher.published[0].ID)
}

// ============================================================
// GetOrder
// ============================================================

func TestService_GetOrder_ProjectsLikeCreate(t *testing.T) {
	f := newFixture()
	f.carts.Seed("u1", 7, 3)

	created, err := f.svc.CreateOrder(context.Background(), "u1")
	require.NoError(t, err)

	got, err := f.svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, order.StatusConfirmed, got.Status)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, got.Items[0].Subtotal.Equal(decimal.RequireFromString("300.00")))
}

func TestService_GetOrder_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetOrder(context.Background(), 12345)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}
