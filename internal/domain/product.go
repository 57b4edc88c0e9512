package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry with a finite stock pool. Stock is only ever
// mutated through the store-level ledger primitive, never by assigning
// StockQuantity in application code.
type Product struct {
	ID            string
	Name          string
	Price         decimal.Decimal
	StockQuantity int
	Active        bool
	CreatedAt     time.Time
}
