package invoice

import (
	"fmt"
	"log"
	"strings"

	"github.com/example/ec-order-pipeline/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Service renders plain-text invoices for confirmed orders.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Generate renders the invoice for the order and hands it off. Currently the
// rendered invoice is logged; persistent invoice storage is out of scope.
func (s *Service) Generate(evt order.CreatedEvent) error {
	text, err := Render(evt)
	if err != nil {
		return err
	}
	log.Printf("[Invoice] Generated invoice for orderID=%d:\n%s", evt.OrderID, text)
	return nil
}

// Render builds the plain-text invoice body.
func Render(evt order.CreatedEvent) (string, error) {
	if len(evt.Items) == 0 {
		return "", fmt.Errorf("order %d has no items", evt.OrderID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INVOICE %d\n", evt.OrderID)
	fmt.Fprintf(&b, "Customer: %s\n", evt.UserID)
	fmt.Fprintf(&b, "Date: %s\n", evt.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Status: %s\n\n", evt.Status)
	fmt.Fprintf(&b, "%-12s %8s %12s %12s\n", "PRODUCT", "QTY", "UNIT PRICE", "SUBTOTAL")

	for _, item := range evt.Items {
		subtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(&b, "%-12d %8d %12s %12s\n",
			item.ProductID, item.Quantity, item.UnitPrice.StringFixed(2), subtotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nTOTAL: %s\n", evt.TotalAmount.StringFixed(2))
	return b.String(), nil
}
