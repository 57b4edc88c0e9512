// Package payment holds the pluggable payment provider strategies and the
// registry they are resolved from.
package payment

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tilvera/storefront/internal/domain"
)

// Result is the outcome of a single charge attempt. A declined charge is a
// Result with Succeeded false, not an error; errors are reserved for the
// provider being unreachable.
type Result struct {
	Succeeded      bool
	TransactionID  string
	GatewayPayload string
	Reason         string
}

// Strategy wraps one payment provider. Implementations must be safe for
// concurrent use.
type Strategy interface {
	Method() domain.PaymentMethod
	Process(ctx context.Context, amount decimal.Decimal) (Result, error)
}
