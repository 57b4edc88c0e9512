package app

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tilvera/storefront/internal/clock"
	"github.com/tilvera/storefront/internal/domain"
	"go.uber.org/zap"
)

// OrderItemRepository is the storage surface the item manager needs. Every
// stock mutation goes through ApplyStockDelta, a single conditional update at
// the store; the read-modify-write pattern is deliberately not part of this
// interface.
type OrderItemRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error)
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ApplyStockDelta(ctx context.Context, productID string, delta int) error
	GetItem(ctx context.Context, itemID string) (domain.OrderItem, error)
	FindItemByOrderAndProduct(ctx context.Context, orderID, productID string) (*domain.OrderItem, error)
	ListItemsByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	ListItemsByProduct(ctx context.Context, productID string) ([]domain.OrderItem, error)
	CreateItem(ctx context.Context, item domain.OrderItem) error
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error
	DeleteItem(ctx context.Context, itemID string) error
	UpdateOrderTotal(ctx context.Context, orderID string, total decimal.Decimal) error
}

// OrderItemService mutates line items on modifiable orders while keeping the
// order total and product stock consistent. Each mutation is one unit of
// work: a failure after the stock delta rolls the reservation back with the
// transaction.
type OrderItemService struct {
	repo   OrderItemRepository
	clock  clock.Clock
	logger *zap.Logger
}

func NewOrderItemService(repo OrderItemRepository, clk clock.Clock, logger *zap.Logger) *OrderItemService {
	return &OrderItemService{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

// AddItem reserves stock for a new line item and grows the order total.
func (s *OrderItemService) AddItem(ctx context.Context, orderID, productID string, quantity int) (domain.OrderItem, error) {
	var result domain.OrderItem

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.Modifiable() {
			return domain.ErrOrderNotModifiable
		}

		item, err := s.addToOrder(txCtx, &order, productID, quantity)
		if err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return domain.OrderItem{}, err
	}

	s.logger.Info("item added",
		zap.String("orderId", orderID),
		zap.String("productId", productID),
		zap.Int("quantity", quantity))
	return result, nil
}

// addToOrder is the single shared add path: order creation drives every
// requested line through here too, inside its own transaction. The caller
// has already locked the order and checked the status gate; order.TotalAmount
// is updated in place so multi-item flows accumulate correctly.
func (s *OrderItemService) addToOrder(txCtx context.Context, order *domain.Order, productID string, quantity int) (domain.OrderItem, error) {
	if quantity <= 0 {
		return domain.OrderItem{}, domain.ErrInvalidQuantity
	}

	product, err := s.repo.GetProduct(txCtx, productID)
	if err != nil {
		return domain.OrderItem{}, err
	}
	if !product.Active {
		return domain.OrderItem{}, domain.ErrProductInactive
	}
	if !product.Price.IsPositive() {
		return domain.OrderItem{}, domain.ErrInvalidPrice
	}

	existing, err := s.repo.FindItemByOrderAndProduct(txCtx, order.ID, productID)
	if err != nil {
		return domain.OrderItem{}, err
	}
	if existing != nil {
		return domain.OrderItem{}, domain.ErrDuplicateLineItem
	}

	if err := s.repo.ApplyStockDelta(txCtx, productID, quantity); err != nil {
		return domain.OrderItem{}, err
	}

	item := domain.OrderItem{
		ID:        newID(),
		OrderID:   order.ID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: product.Price,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateItem(txCtx, item); err != nil {
		return domain.OrderItem{}, err
	}

	order.TotalAmount = order.TotalAmount.Add(item.LineTotal())
	if err := s.repo.UpdateOrderTotal(txCtx, order.ID, order.TotalAmount); err != nil {
		return domain.OrderItem{}, err
	}
	return item, nil
}

// UpdateQuantity applies the signed difference between the new and current
// quantity to the stock ledger in one atomic call: an increase re-checks
// availability, a decrease releases the freed units.
func (s *OrderItemService) UpdateQuantity(ctx context.Context, orderID, itemID string, quantity int) (domain.OrderItem, error) {
	if quantity <= 0 {
		return domain.OrderItem{}, domain.ErrInvalidQuantity
	}

	var result domain.OrderItem

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.Modifiable() {
			return domain.ErrOrderNotModifiable
		}

		item, err := s.repo.GetItem(txCtx, itemID)
		if err != nil {
			return err
		}
		if item.OrderID != order.ID {
			return domain.ErrItemNotFound
		}

		delta := quantity - item.Quantity
		if delta == 0 {
			result = item
			return nil
		}

		if err := s.repo.ApplyStockDelta(txCtx, item.ProductID, delta); err != nil {
			return err
		}
		if err := s.repo.UpdateItemQuantity(txCtx, item.ID, quantity); err != nil {
			return err
		}

		total := order.TotalAmount.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(delta))))
		if err := s.repo.UpdateOrderTotal(txCtx, order.ID, total); err != nil {
			return err
		}

		item.Quantity = quantity
		result = item
		return nil
	})
	if err != nil {
		return domain.OrderItem{}, err
	}

	s.logger.Info("item quantity updated",
		zap.String("orderId", orderID),
		zap.String("itemId", itemID),
		zap.Int("quantity", quantity))
	return result, nil
}

// RemoveItem releases the item's full reservation back to stock and shrinks
// the order total by its line total.
func (s *OrderItemService) RemoveItem(ctx context.Context, orderID, itemID string) error {
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.Modifiable() {
			return domain.ErrOrderNotModifiable
		}

		item, err := s.repo.GetItem(txCtx, itemID)
		if err != nil {
			return err
		}
		if item.OrderID != order.ID {
			return domain.ErrItemNotFound
		}

		total := order.TotalAmount.Sub(item.LineTotal())
		// A negative remainder means the stored total no longer matches the
		// items: a corrupted order, not a normal path.
		if total.IsNegative() {
			return domain.ErrOrderTotalInvalid
		}

		if err := s.repo.ApplyStockDelta(txCtx, item.ProductID, -item.Quantity); err != nil {
			return err
		}
		if err := s.repo.DeleteItem(txCtx, item.ID); err != nil {
			return err
		}
		return s.repo.UpdateOrderTotal(txCtx, order.ID, total)
	})
	if err != nil {
		return err
	}

	s.logger.Info("item removed",
		zap.String("orderId", orderID),
		zap.String("itemId", itemID))
	return nil
}

// GetItem returns one item scoped to its order.
func (s *OrderItemService) GetItem(ctx context.Context, orderID, itemID string) (domain.OrderItem, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return domain.OrderItem{}, err
	}
	if item.OrderID != orderID {
		return domain.OrderItem{}, domain.ErrItemNotFound
	}
	return item, nil
}

// ListItemsForOrder returns the order's items. A persisted order is never
// expected to be empty, so zero rows is a consistency failure rather than a
// normal empty result.
func (s *OrderItemService) ListItemsForOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrOrderItemsEmpty
	}
	return items, nil
}

// ListItemsForOrderAndProduct returns the item for one product on one order,
// as a slice for symmetry with the other projections. At most one element by
// construction.
func (s *OrderItemService) ListItemsForOrderAndProduct(ctx context.Context, orderID, productID string) ([]domain.OrderItem, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	item, err := s.repo.FindItemByOrderAndProduct(ctx, orderID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return []domain.OrderItem{}, nil
	}
	return []domain.OrderItem{*item}, nil
}

// ListItemsForProduct returns every line item referencing a product across
// all orders.
func (s *OrderItemService) ListItemsForProduct(ctx context.Context, productID string) ([]domain.OrderItem, error) {
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ListItemsByProduct(ctx, productID)
}
