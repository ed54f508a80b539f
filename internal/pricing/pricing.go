package pricing

import "github.com/shopspring/decimal"

// UnitPrice is the flat per-unit price applied to every product. The catalog
// price is intentionally not consulted; see the pricing note in DESIGN.md.
var UnitPrice = decimal.RequireFromString("100.00")

// LinePrice returns the price of a cart or order line as a function of its
// quantity.
func LinePrice(quantity int) decimal.Decimal {
	return UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
