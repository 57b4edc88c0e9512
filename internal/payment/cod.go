package payment

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tilvera/storefront/internal/domain"
)

// CashOnDeliveryStrategy accepts every charge; the money changes hands at the
// door, so there is no gateway and no payload to store.
type CashOnDeliveryStrategy struct{}

func NewCashOnDeliveryStrategy() *CashOnDeliveryStrategy {
	return &CashOnDeliveryStrategy{}
}

func (s *CashOnDeliveryStrategy) Method() domain.PaymentMethod {
	return domain.PaymentMethodCashOnDelivery
}

func (s *CashOnDeliveryStrategy) Process(ctx context.Context, amount decimal.Decimal) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if !amount.IsPositive() {
		return Result{Succeeded: false, Reason: "amount must be positive"}, nil
	}
	return Result{
		Succeeded:     true,
		TransactionID: "cod_" + compactID(),
	}, nil
}
