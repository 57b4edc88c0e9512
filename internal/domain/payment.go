package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
	PaymentStatusCancelled  PaymentStatus = "CANCELLED"
)

// ParsePaymentStatus validates a status literal supplied by a caller or a
// provider callback.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusRefunded, PaymentStatusCancelled:
		return PaymentStatus(s), nil
	}
	return "", ErrInvalidPaymentStatus
}

type PaymentMethod string

const (
	PaymentMethodStripe         PaymentMethod = "STRIPE"
	PaymentMethodPayPal         PaymentMethod = "PAYPAL"
	PaymentMethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
)

// Payment records one attempt to pay an order. Its status lifecycle is
// independent of the order's; a failed attempt is kept for audit.
type Payment struct {
	ID             string
	OrderID        string
	Method         PaymentMethod
	Amount         decimal.Decimal
	Status         PaymentStatus
	TransactionID  string
	GatewayPayload string
	CreatedAt      time.Time
}
