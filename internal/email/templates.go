package email

import (
	"fmt"
	"strings"

	"github.com/example/ec-order-pipeline/internal/domain/order"
	"github.com/shopspring/decimal"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// BuildOrderConfirmationBody builds the HTML body for the order confirmation
// email.
func BuildOrderConfirmationBody(evt order.CreatedEvent) string {
	var itemsHTML strings.Builder
	for _, item := range evt.Items {
		subtotal := item.UnitPrice.Mul(decimalFromInt(item.Quantity))
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">Product %d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
			</tr>`,
			item.ProductID,
			item.Quantity,
			item.UnitPrice.StringFixed(2),
			subtotal.StringFixed(2),
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h1 style="font-size: 24px;">Thank you for your order</h1>

	<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
		<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
		<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%d</p>
	</div>

	<h2 style="font-size: 18px; border-bottom: 2px solid #667eea; padding-bottom: 10px;">Order details</h2>

	<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
		<thead>
			<tr style="background: #f8f9fa;">
				<th style="padding: 12px; text-align: left;">Product</th>
				<th style="padding: 12px; text-align: center;">Qty</th>
				<th style="padding: 12px; text-align: right;">Unit price</th>
				<th style="padding: 12px; text-align: right;">Subtotal</th>
			</tr>
		</thead>
		<tbody>
			%s
		</tbody>
	</table>

	<p style="font-size: 18px; text-align: right;"><strong>Total: %s</strong></p>
	<p style="font-size: 12px; color: #999;">Placed at %s</p>
</body>
</html>`,
		evt.OrderID,
		itemsHTML.String(),
		evt.TotalAmount.StringFixed(2),
		evt.CreatedAt.Format("2006-01-02 15:04:05 MST"),
	)
}
