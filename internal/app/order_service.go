package app

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tilvera/storefront/internal/clock"
	"github.com/tilvera/storefront/internal/domain"
	"go.uber.org/zap"
)

// OrderRepository is the storage surface for order lifecycle operations.
type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetCustomer(ctx context.Context, customerID string) (domain.Customer, error)
	CreateOrder(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
	ListItemsByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	FindPaymentByOrder(ctx context.Context, orderID string) (*domain.Payment, error)
	ListOrdersByCustomer(ctx context.Context, customerID string, page Page) ([]domain.Order, error)
	ListOrdersByStatus(ctx context.Context, status domain.OrderStatus, page Page) ([]domain.Order, error)
	ListOrders(ctx context.Context, page Page) ([]domain.Order, error)
}

// OrderService creates orders, resolves them with their items and payment,
// and drives status transitions.
type OrderService struct {
	repo   OrderRepository
	items  *OrderItemService
	clock  clock.Clock
	logger *zap.Logger
}

func NewOrderService(repo OrderRepository, items *OrderItemService, clk clock.Clock, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		items:  items,
		clock:  clk,
		logger: logger,
	}
}

type OrderLineInput struct {
	ProductID string
	Quantity  int
}

type CreateOrderInput struct {
	CustomerID string
	Items      []OrderLineInput
}

// CreateOrder builds an order from a cart in one transaction. Every line
// goes through the item manager's shared add path, so stock reservation and
// total accumulation have a single implementation; if any line fails the
// whole order rolls back, releasing every reservation made so far.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if len(in.Items) == 0 {
		return domain.Order{}, domain.ErrOrderItemsEmpty
	}
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return domain.Order{}, domain.ErrInvalidQuantity
		}
	}

	now := s.clock.Now()
	var result domain.Order

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetCustomer(txCtx, in.CustomerID); err != nil {
			return err
		}

		order := domain.Order{
			ID:          newID(),
			OrderNumber: newOrderNumber(now),
			CustomerID:  in.CustomerID,
			Status:      domain.OrderStatusPending,
			TotalAmount: decimal.Zero,
			CreatedAt:   now,
		}
		if err := s.repo.CreateOrder(txCtx, order); err != nil {
			return err
		}

		for _, line := range in.Items {
			item, err := s.items.addToOrder(txCtx, &order, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}

		if !order.TotalAmount.IsPositive() {
			return domain.ErrOrderTotalInvalid
		}

		result = order
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.logger.Info("order created",
		zap.String("orderId", result.ID),
		zap.String("orderNumber", result.OrderNumber),
		zap.String("customerId", result.CustomerID),
		zap.String("total", result.TotalAmount.StringFixed(2)))
	return result, nil
}

// GetOrderByID resolves an order with its items and payment, if any.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID string) (domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	items, err := s.repo.ListItemsByOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	pay, err := s.repo.FindPaymentByOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Payment = pay

	return order, nil
}

// UpdateStatus overwrites the order status. It does not gate on the current
// status; it is what decides whether future item mutations are allowed.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (domain.Order, error) {
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.UpdateOrderStatus(ctx, orderID, next); err != nil {
		return domain.Order{}, err
	}
	order.Status = next

	s.logger.Info("order status updated",
		zap.String("orderId", orderID),
		zap.String("status", string(next)))
	return order, nil
}

// ListByCustomer lists a customer's orders; the customer must exist.
func (s *OrderService) ListByCustomer(ctx context.Context, customerID string, page Page) ([]domain.Order, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListOrdersByCustomer(ctx, customerID, page.normalize())
}

// ListByStatus lists orders in one status, paged.
func (s *OrderService) ListByStatus(ctx context.Context, status string, page Page) ([]domain.Order, error) {
	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	return s.repo.ListOrdersByStatus(ctx, parsed, page.normalize())
}

// ListAll lists orders, paged, newest first.
func (s *OrderService) ListAll(ctx context.Context, page Page) ([]domain.Order, error) {
	return s.repo.ListOrders(ctx, page.normalize())
}
