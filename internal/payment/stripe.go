package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilvera/storefront/internal/domain"
)

// StripeStrategy simulates a Stripe payment-intent flow: a successful charge
// yields an intent id as the transaction id and a client secret as the
// gateway payload.
type StripeStrategy struct {
	declineReason string
}

type StripeOption func(*StripeStrategy)

// WithStripeDecline makes every charge come back declined with the given
// reason (used to exercise the failure path without a live gateway).
func WithStripeDecline(reason string) StripeOption {
	return func(s *StripeStrategy) {
		s.declineReason = reason
	}
}

func NewStripeStrategy(opts ...StripeOption) *StripeStrategy {
	s := &StripeStrategy{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *StripeStrategy) Method() domain.PaymentMethod {
	return domain.PaymentMethodStripe
}

func (s *StripeStrategy) Process(ctx context.Context, amount decimal.Decimal) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if s.declineReason != "" {
		return Result{Succeeded: false, Reason: s.declineReason}, nil
	}
	if !amount.IsPositive() {
		return Result{Succeeded: false, Reason: "amount must be positive"}, nil
	}

	intentID := "pi_" + compactID()
	return Result{
		Succeeded:      true,
		TransactionID:  intentID,
		GatewayPayload: fmt.Sprintf("%s_secret_%s", intentID, compactID()),
	}, nil
}

func compactID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
