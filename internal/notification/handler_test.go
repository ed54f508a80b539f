package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-order-pipeline/internal/domain/order"
	"github.com/example/ec-order-pipeline/internal/notification"
	"github.com/example/ec-order-pipeline/internal/publisher"
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

type recordingEmail struct {
	calls []string
	err   error
}

func (r *recordingEmail) SendOrderConfirmation(to string, evt order.CreatedEvent) error {
	r.calls = append(r.calls, to)
	return r.err
}

type recordingSMS struct {
	calls []string
	err   error
}

func (r *recordingSMS) SendOrderConfirmation(phone string, evt order.CreatedEvent) error {
	r.calls = append(r.calls, phone)
	return r.err
}

type recordingInvoice struct {
	calls []int64
	err   error
}

func (r *recordingInvoice) Generate(evt order.CreatedEvent) error {
	r.calls = append(r.calls, evt.OrderID)
	return r.err
}

type fixture struct {
	users    *stubValidator
	email    *recordingEmail
	sms      *recordingSMS
	invoices *recordingInvoice
	handler  *notification.Handler
}

func newFixture() *fixture {
	f := &fixture{
		users: &stubValidator{result: userclient.LookupResult{
			Outcome: userclient.Found,
			User:    &userclient.User{ID: "u1", Email: "u1@example.com", Phone: "+1-555-0100"},
		}},
		email:    &recordingEmail{},
		sms:      &recordingSMS{},
		invoices: &recordingInvoice{},
	}
	f.handler = notification.NewHandler(f.users, f.email, f.sms, f.invoices)
	return f
}

func orderCreatedMessage(t *testing.T) ([]byte, []byte) {
	t.Helper()

	evt := order.CreatedEvent{
		OrderID:     42,
		UserID:      "u1",
		TotalAmount: decimal.RequireFromString("300.00"),
		Status:      order.StatusConfirmed,
		CreatedAt:   time.Now(),
		Items: []order.CreatedEventItem{
			{ProductID: 7, Quantity: 3, UnitPrice: decimal.RequireFromString("100.00")},
		},
	}
	data, err := json.Marshal(evt)
	require.NoError(t, err)

	env := publisher.Envelope{
		ID:         uuid.New().String(),
		Type:       order.EventOrderCreated,
		OccurredAt: time.Now(),
		Data:       data,
	}
	value, err := json.Marshal(env)
	require.NoError(t, err)

	return []byte(publisher.RoutingKeyOrderCreated), value
}

// ============================================================
// HandleMessage
// ============================================================

func TestHandler_HandleMessage(t *testing.T) {
	f := newFixture()
	key, value := orderCreatedMessage(t)

	err := f.handler.HandleMessage(context.Background(), key, value)
	require.NoError(t, err)

	assert.Equal(t, []string{"u1@example.com"}, f.email.calls)
	assert.Equal(t, []string{"+1-555-0100"}, f.sms.calls)
	assert.Equal(t, []int64{42}, f.invoices.calls)
}

func TestHandler_HandleMessage_EmailFailureDoesNotStopOtherActions(t *testing.T) {
	f := newFixture()
	f.email.err = errors.New("smtp: connection refused")
	key, value := orderCreatedMessage(t)

	err := f.handler.HandleMessage(context.Background(), key, value)

	// The message is acknowledged and the remaining actions still run.
	require.NoError(t, err)
	assert.Len(t, f.sms.calls, 1)
	assert.Len(t, f.invoices.calls, 1)
}

func TestHandler_HandleMessage_SMSFailureDoesNotStopInvoice(t *testing.T) {
	f := newFixture()
	f.sms.err = errors.New("gateway timeout")
	key, value := orderCreatedMessage(t)

	require.NoError(t, f.handler.HandleMessage(context.Background(), key, value))
	assert.Len(t, f.email.calls, 1)
	assert.Len(t, f.invoices.calls, 1)
}

func TestHandler_HandleMessage_UserNotFoundSkipsEmailAndSMS(t *testing.T) {
	f := newFixture()
	f.users.result = userclient.LookupResult{Outcome: userclient.NotFound}
	key, value := orderCreatedMessage(t)

	require.NoError(t, f.handler.HandleMessage(context.Background(), key, value))

	assert.Empty(t, f.email.calls)
	assert.Empty(t, f.sms.calls)
	// The invoice does not need user contact details.
	assert.Len(t, f.invoices.calls, 1)
}

func TestHandler_HandleMessage_UserServiceUnreachableSkipsEmailAndSMS(t *testing.T) {
	f := newFixture()
	f.users.result = userclient.LookupResult{
		Outcome: userclient.Unreachable,
		Cause:   errors.New("connection refused"),
	}
	key, value := orderCreatedMessage(t)

	require.NoError(t, f.handler.HandleMessage(context.Background(), key, value))

	assert.Empty(t, f.email.calls)
	assert.Empty(t, f.sms.calls)
	assert.Len(t, f.invoices.calls, 1)
}

func TestHandler_HandleMessage_IgnoresOtherRoutingKeys(t *testing.T) {
	f := newFixture()
	_, value := orderCreatedMessage(t)

	require.NoError(t, f.handler.HandleMessage(context.Background(), []byte("order.cancelled"), value))

	assert.Empty(t, f.email.calls)
	assert.Empty(t, f.sms.calls)
	assert.Empty(t, f.invoices.calls)
}

func TestHandler_HandleMessage_IgnoresOtherEventTypes(t *testing.T) {
	f := newFixture()

	env := publisher.Envelope{
		ID:         uuid.New().String(),
		Type:       "OrderCancelled",
		OccurredAt: time.Now(),
		Data:       json.RawMessage(`{}`),
	}
	value, err := json.Marshal(env)
	require.NoError(t, err)

	require.NoError(t, f.handler.HandleMessage(context.Background(), []byte(publisher.RoutingKeyOrderCreated), value))
	assert.Empty(t, f.invoices.calls)
}

func TestHandler_HandleMessage_MalformedPayloadIsAcked(t *testing.T) {
	f := newFixture()

	err := f.handler.HandleMessage(context.Background(), []byte(publisher.RoutingKeyOrderCreated), []byte("not json"))

	// A poison message must not wedge the queue.
	require.NoError(t, err)
	assert.Empty(t, f.email.calls)
	assert.Empty(t, f.invoices.calls)
}
