package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one product/quantity/price line on an order. UnitPrice is a
// snapshot taken when the item was added, not a live reference to the
// product's current price.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

// LineTotal is quantity times the captured unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
