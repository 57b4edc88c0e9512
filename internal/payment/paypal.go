package payment

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tilvera/storefront/internal/domain"
)

// PayPalStrategy simulates a PayPal order capture. The transaction id is the
// capture id; the gateway payload carries the approval token the storefront
// would redirect the buyer with.
type PayPalStrategy struct {
	declineReason string
}

type PayPalOption func(*PayPalStrategy)

func WithPayPalDecline(reason string) PayPalOption {
	return func(s *PayPalStrategy) {
		s.declineReason = reason
	}
}

func NewPayPalStrategy(opts ...PayPalOption) *PayPalStrategy {
	s := &PayPalStrategy{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PayPalStrategy) Method() domain.PaymentMethod {
	return domain.PaymentMethodPayPal
}

func (s *PayPalStrategy) Process(ctx context.Context, amount decimal.Decimal) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if s.declineReason != "" {
		return Result{Succeeded: false, Reason: s.declineReason}, nil
	}
	if !amount.IsPositive() {
		return Result{Succeeded: false, Reason: "amount must be positive"}, nil
	}

	captureID := strings.ToUpper(compactID()[:17])
	return Result{
		Succeeded:      true,
		TransactionID:  captureID,
		GatewayPayload: "EC-" + strings.ToUpper(compactID()[:20]),
	}, nil
}
