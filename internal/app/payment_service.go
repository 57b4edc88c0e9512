package app

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tilvera/storefront/internal/clock"
	"github.com/tilvera/storefront/internal/domain"
	"github.com/tilvera/storefront/internal/payment"
	"go.uber.org/zap"
)

// maxPaymentAmount rejects absurd charge requests before they reach a
// provider.
var maxPaymentAmount = decimal.NewFromInt(1_000_000)

// PaymentRepository is the storage surface for payment processing.
type PaymentRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error)
	CreatePayment(ctx context.Context, p domain.Payment) error
	GetPayment(ctx context.Context, paymentID string) (domain.Payment, error)
	FindPaymentByOrder(ctx context.Context, orderID string) (*domain.Payment, error)
	FindPaymentByTransaction(ctx context.Context, transactionID string) (*domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus) error
}

// PaymentService charges orders through the strategy selected by payment
// method and records the outcome, success or not.
type PaymentService struct {
	repo     PaymentRepository
	registry *payment.Registry
	clock    clock.Clock
	logger   *zap.Logger
}

func NewPaymentService(repo PaymentRepository, registry *payment.Registry, clk clock.Clock, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		repo:     repo,
		registry: registry,
		clock:    clk,
		logger:   logger,
	}
}

type CreatePaymentInput struct {
	OrderID string
	Method  string
	Amount  decimal.Decimal
}

// CreatePayment validates the request against the order, runs the provider
// strategy, and persists a Payment row regardless of the charge outcome: a
// declined charge is committed with status FAILED for audit and the call then
// fails with ErrPaymentFailed.
func (s *PaymentService) CreatePayment(ctx context.Context, in CreatePaymentInput) (domain.Payment, error) {
	method := domain.PaymentMethod(in.Method)
	strategy, ok := s.registry.Lookup(method)
	if !ok {
		return domain.Payment{}, domain.ErrInvalidPaymentMethod
	}
	if in.Amount.GreaterThan(maxPaymentAmount) {
		return domain.Payment{}, domain.ErrUnreasonablePrice
	}

	var result domain.Payment

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, in.OrderID)
		if err != nil {
			return err
		}

		existing, err := s.repo.FindPaymentByOrder(txCtx, in.OrderID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrPaymentAlreadyExists
		}

		if !in.Amount.Equal(order.TotalAmount) {
			return domain.ErrPaymentAmountMismatch
		}

		res, err := strategy.Process(txCtx, in.Amount)
		if err != nil {
			return err
		}

		p := domain.Payment{
			ID:             newID(),
			OrderID:        order.ID,
			Method:         method,
			Amount:         in.Amount,
			TransactionID:  res.TransactionID,
			GatewayPayload: res.GatewayPayload,
			CreatedAt:      s.clock.Now(),
		}
		if res.Succeeded {
			p.Status = domain.PaymentStatusPending
		} else {
			p.Status = domain.PaymentStatusFailed
		}

		if err := s.repo.CreatePayment(txCtx, p); err != nil {
			return err
		}

		// Returning nil here commits the FAILED row too; the error is raised
		// after the attempt is durably recorded.
		result = p
		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}

	if result.Status == domain.PaymentStatusFailed {
		s.logger.Warn("payment declined",
			zap.String("orderId", in.OrderID),
			zap.String("method", in.Method))
		return result, domain.ErrPaymentFailed
	}

	s.logger.Info("payment created",
		zap.String("orderId", in.OrderID),
		zap.String("paymentId", result.ID),
		zap.String("method", in.Method),
		zap.String("transactionId", result.TransactionID))
	return result, nil
}

// GetPaymentByID returns a payment with the gateway payload redacted; the
// provider secret never leaves the store on reads.
func (s *PaymentService) GetPaymentByID(ctx context.Context, paymentID string) (domain.Payment, error) {
	p, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return domain.Payment{}, err
	}
	p.GatewayPayload = ""
	return p, nil
}

// UpdatePaymentStatus is the out-of-band reconciliation path for provider
// callbacks: it resolves the payment by transaction id and overwrites its
// status. Deliberately not gated on order status, since payment confirmation
// is independent of item mutability.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, transactionID, status string) (domain.Payment, error) {
	next, err := domain.ParsePaymentStatus(status)
	if err != nil {
		return domain.Payment{}, err
	}

	p, err := s.repo.FindPaymentByTransaction(ctx, transactionID)
	if err != nil {
		return domain.Payment{}, err
	}
	if p == nil {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}

	if err := s.repo.UpdatePaymentStatus(ctx, p.ID, next); err != nil {
		return domain.Payment{}, err
	}
	p.Status = next
	p.GatewayPayload = ""

	s.logger.Info("payment status updated",
		zap.String("paymentId", p.ID),
		zap.String("transactionId", transactionID),
		zap.String("status", string(next)))
	return *p, nil
}
