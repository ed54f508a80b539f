// Package notification fans an order-created event out to the notification
// actions (email, SMS, invoice). Each action's failure is contained so the
// remaining actions still run, and the message is acknowledged after the
// attempt either way — there is no redelivery or dead-letter path yet, so a
// failed action means that notification is lost.
package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/ec-order-pipeline/internal/domain/order"
	"github.com/example/ec-order-pipeline/internal/publisher"
	"github.com/example/ec-order-pipeline/internal/userclient"
)

type EmailSender interface {
	SendOrderConfirmation(to string, evt order.CreatedEvent) error
}

type SMSSender interface {
	SendOrderConfirmation(phone string, evt order.CreatedEvent) error
}

type InvoiceGenerator interface {
	Generate(evt order.CreatedEvent) error
}

type UserValidator interface {
	Lookup(ctx context.Context, userID string) userclient.LookupResult
}

// Handler processes order events from the notification queue.
type Handler struct {
	users    UserValidator
	email    EmailSender
	sms      SMSSender
	invoices InvoiceGenerator
}

func NewHandler(users UserValidator, email EmailSender, sms SMSSender, invoices InvoiceGenerator) *Handler {
	return &Handler{
		users:    users,
		email:    email,
		sms:      sms,
		invoices: invoices,
	}
}

// HandleMessage processes one message from the queue. It always returns nil:
// the consumer commits the offset after the attempt regardless of partial
// failure, matching the queue's ack-after-attempt contract.
func (h *Handler) HandleMessage(ctx context.Context, key, value []byte) error {
	if string(key) != publisher.RoutingKeyOrderCreated {
		return nil
	}

	var env publisher.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		log.Printf("[Notifier] Failed to unmarshal envelope: %v", err)
		return nil
	}
	if env.Type != order.EventOrderCreated {
		return nil
	}

	var evt order.CreatedEvent
	if err := json.Unmarshal(env.Data, &evt); err != nil {
		log.Printf("[Notifier] Failed to unmarshal order created event: %v", err)
		return nil
	}

	log.Printf("[Notifier] Received order created event: orderID=%d userID=%s", evt.OrderID, evt.UserID)
	h.process(ctx, evt)
	return nil
}

func (h *Handler) process(ctx context.Context, evt order.CreatedEvent) {
	result := h.users.Lookup(ctx, evt.UserID)
	switch result.Outcome {
	case userclient.Found:
		if err := h.email.SendOrderConfirmation(result.User.Email, evt); err != nil {
			log.Printf("[Notifier] Failed to send confirmation email: orderID=%d err=%v", evt.OrderID, err)
		}
		if err := h.sms.SendOrderConfirmation(result.User.Phone, evt); err != nil {
			log.Printf("[Notifier] Failed to send confirmation SMS: orderID=%d err=%v", evt.OrderID, err)
		}
	case userclient.NotFound:
		log.Printf("[Notifier] User not found, skipping email and SMS: userID=%s orderID=%d", evt.UserID, evt.OrderID)
	case userclient.Unreachable:
		log.Printf("[Notifier] User service unreachable, skipping email and SMS: orderID=%d cause=%v", evt.OrderID, result.Cause)
	}

	if err := h.invoices.Generate(evt); err != nil {
		log.Printf("[Notifier] Failed to generate invoice: orderID=%d err=%v", evt.OrderID, err)
	}

	log.Printf("[Notifier] Finished processing order created event: orderID=%d", evt.OrderID)
}
