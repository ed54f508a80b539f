package sms

import (
	"fmt"
	"log"

	"github.com/example/ec-order-pipeline/internal/domain/order"
)

// Gateway delivers a text message to a phone number.
type Gateway interface {
	Send(phone, message string) error
}

// LogGateway writes messages to the log instead of a real SMS provider.
// Stands in until a provider integration lands.
type LogGateway struct{}

func (LogGateway) Send(phone, message string) error {
	log.Printf("[SMS] To %s: %s", phone, message)
	return nil
}

// Service sends order confirmation texts.
type Service struct {
	gateway Gateway
}

func NewService(gateway Gateway) *Service {
	if gateway == nil {
		gateway = LogGateway{}
	}
	return &Service{gateway: gateway}
}

// SendOrderConfirmation sends a short confirmation text for the order.
func (s *Service) SendOrderConfirmation(phone string, evt order.CreatedEvent) error {
	message := fmt.Sprintf("Your order #%d has been confirmed. Total: %s",
		evt.OrderID, evt.TotalAmount.StringFixed(2))
	return s.gateway.Send(phone, message)
}
