package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilvera/storefront/internal/clock"
	"github.com/tilvera/storefront/internal/domain"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newItemFixture(t *testing.T) (*OrderItemService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewOrderItemService(store, clock.NewFixed(testNow), zap.NewNop())

	store.addCustomer(domain.Customer{ID: "cust-1", Name: "Ada", Email: "ada@example.com"})
	store.addProduct(domain.Product{ID: "prod-1", Name: "Keyboard", Price: money("100.00"), StockQuantity: 10, Active: true})
	store.addProduct(domain.Product{ID: "prod-2", Name: "Mouse", Price: money("50.00"), StockQuantity: 5, Active: true})
	store.addProduct(domain.Product{ID: "prod-retired", Name: "Retired", Price: money("10.00"), StockQuantity: 3, Active: false})
	store.addOrder(domain.Order{ID: "order-1", OrderNumber: "ORD-1", CustomerID: "cust-1", Status: domain.OrderStatusPending, TotalAmount: decimal.Zero, CreatedAt: testNow})
	return svc, store
}

func TestOrderItemService_AddItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("reserves stock and grows the total", func(t *testing.T) {
		svc, store := newItemFixture(t)

		item, err := svc.AddItem(ctx, "order-1", "prod-1", 2)
		require.NoError(t, err)

		assert.Equal(t, "order-1", item.OrderID)
		assert.Equal(t, 2, item.Quantity)
		assert.True(t, item.UnitPrice.Equal(money("100.00")))
		assert.Equal(t, 8, store.products["prod-1"].StockQuantity)
		assert.True(t, store.orders["order-1"].TotalAmount.Equal(money("200.00")))
	})

	t.Run("snapshots the unit price at add time", func(t *testing.T) {
		svc, store := newItemFixture(t)

		item, err := svc.AddItem(ctx, "order-1", "prod-1", 1)
		require.NoError(t, err)

		p := store.products["prod-1"]
		p.Price = money("999.99")
		store.products["prod-1"] = p

		got, err := svc.GetItem(ctx, "order-1", item.ID)
		require.NoError(t, err)
		assert.True(t, got.UnitPrice.Equal(money("100.00")))
	})

	t.Run("quantity equal to remaining stock drains it to zero", func(t *testing.T) {
		svc, store := newItemFixture(t)

		_, err := svc.AddItem(ctx, "order-1", "prod-2", 5)
		require.NoError(t, err)
		assert.Equal(t, 0, store.products["prod-2"].StockQuantity)
	})

	t.Run("quantity one above remaining stock fails and leaves stock unchanged", func(t *testing.T) {
		svc, store := newItemFixture(t)

		_, err := svc.AddItem(ctx, "order-1", "prod-2", 6)
		require.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 5, store.products["prod-2"].StockQuantity)
		assert.Empty(t, store.items)
	})

	t.Run("rejects a second line for the same product", func(t *testing.T) {
		svc, _ := newItemFixture(t)

		_, err := svc.AddItem(ctx, "order-1", "prod-1", 1)
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, "order-1", "prod-1", 2)
		require.ErrorIs(t, err, domain.ErrDuplicateLineItem)
	})

	t.Run("rejects inactive products", func(t *testing.T) {
		svc, _ := newItemFixture(t)

		_, err := svc.AddItem(ctx, "order-1", "prod-retired", 1)
		require.ErrorIs(t, err, domain.ErrProductInactive)
	})

	t.Run("rejects unknown products and orders", func(t *testing.T) {
		svc, _ := newItemFixture(t)

		_, err := svc.AddItem(ctx, "order-1", "prod-unknown", 1)
		require.ErrorIs(t, err, domain.ErrProductNotFound)

		_, err = svc.AddItem(ctx, "order-unknown", "prod-1", 1)
		require.ErrorIs(t, err, domain.ErrOrderNotFound)
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		svc, _ := newItemFixture(t)

		_, err := svc.AddItem(ctx, "order-1", "prod-1", 0)
		require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("gates on order status", func(t *testing.T) {
		svc, store := newItemFixture(t)
		store.addOrder(domain.Order{ID: "order-shipped", CustomerID: "cust-1", Status: domain.OrderStatusShipped})

		_, err := svc.AddItem(ctx, "order-shipped", "prod-1", 1)
		require.ErrorIs(t, err, domain.ErrOrderNotModifiable)

		// CONFIRMED is still modifiable.
		store.addOrder(domain.Order{ID: "order-confirmed", CustomerID: "cust-1", Status: domain.OrderStatusConfirmed, TotalAmount: decimal.Zero})
		_, err = svc.AddItem(ctx, "order-confirmed", "prod-1", 1)
		require.NoError(t, err)
	})

	t.Run("rolls back the reservation when persisting the item fails", func(t *testing.T) {
		svc, store := newItemFixture(t)
		store.failCreateItemForProduct = "prod-1"

		_, err := svc.AddItem(ctx, "order-1", "prod-1", 3)
		require.Error(t, err)
		assert.Equal(t, 10, store.products["prod-1"].StockQuantity)
		assert.Empty(t, store.items)
	})
}

func TestOrderItemService_UpdateQuantity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	setup := func(t *testing.T) (*OrderItemService, *fakeStore, domain.OrderItem) {
		svc, store := newItemFixture(t)
		item, err := svc.AddItem(ctx, "order-1", "prod-1", 2)
		require.NoError(t, err)
		return svc, store, item
	}

	t.Run("increase re-checks availability and applies the delta", func(t *testing.T) {
		svc, store, item := setup(t)

		updated, err := svc.UpdateQuantity(ctx, "order-1", item.ID, 6)
		require.NoError(t, err)

		assert.Equal(t, 6, updated.Quantity)
		assert.Equal(t, 4, store.products["prod-1"].StockQuantity)
		assert.True(t, store.orders["order-1"].TotalAmount.Equal(money("600.00")))
	})

	t.Run("decrease releases the freed units", func(t *testing.T) {
		svc, store, item := setup(t)

		_, err := svc.UpdateQuantity(ctx, "order-1", item.ID, 1)
		require.NoError(t, err)

		assert.Equal(t, 9, store.products["prod-1"].StockQuantity)
		assert.True(t, store.orders["order-1"].TotalAmount.Equal(money("100.00")))
	})

	t.Run("increase beyond stock fails without side effects", func(t *testing.T) {
		svc, store, item := setup(t)

		_, err := svc.UpdateQuantity(ctx, "order-1", item.ID, 100)
		require.ErrorIs(t, err, domain.ErrInsufficientStock)

		assert.Equal(t, 8, store.products["prod-1"].StockQuantity)
		assert.True(t, store.orders["order-1"].TotalAmount.Equal(money("200.00")))
		got, err := svc.GetItem(ctx, "order-1", item.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Quantity)
	})

	t.Run("same quantity is a no-op", func(t *testing.T) {
		svc, store, item := setup(t)

		updated, err := svc.UpdateQuantity(ctx, "order-1", item.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Quantity)
		assert.Equal(t, 8, store.products["prod-1"].StockQuantity)
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		svc, _, item := setup(t)

		_, err := svc.UpdateQuantity(ctx, "order-1", item.ID, 0)
		require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("rejects items that belong to another order", func(t *testing.T) {
		svc, store, item := setup(t)
		store.addOrder(domain.Order{ID: "order-2", CustomerID: "cust-1", Status: domain.OrderStatusPending, TotalAmount: decimal.Zero})

		_, err := svc.UpdateQuantity(ctx, "order-2", item.ID, 3)
		require.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("gates on order status", func(t *testing.T) {
		svc, store, item := setup(t)
		o := store.orders["order-1"]
		o.Status = domain.OrderStatusDelivered
		store.orders["order-1"] = o

		_, err := svc.UpdateQuantity(ctx, "order-1", item.ID, 3)
		require.ErrorIs(t, err, domain.ErrOrderNotModifiable)
	})
}

func TestOrderItemService_RemoveItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("add then remove restores stock and total", func(t *testing.T) {
		svc, store := newItemFixture(t)

		item, err := svc.AddItem(ctx, "order-1", "prod-1", 4)
		require.NoError(t, err)
		require.Equal(t, 6, store.products["prod-1"].StockQuantity)

		require.NoError(t, svc.RemoveItem(ctx, "order-1", item.ID))

		assert.Equal(t, 10, store.products["prod-1"].StockQuantity)
		assert.True(t, store.orders["order-1"].TotalAmount.Equal(decimal.Zero))
		assert.Empty(t, store.items)
	})

	t.Run("reports a corrupted total instead of going negative", func(t *testing.T) {
		svc, store := newItemFixture(t)

		item, err := svc.AddItem(ctx, "order-1", "prod-1", 2)
		require.NoError(t, err)

		o := store.orders["order-1"]
		o.TotalAmount = money("50.00")
		store.orders["order-1"] = o

		err = svc.RemoveItem(ctx, "order-1", item.ID)
		require.ErrorIs(t, err, domain.ErrOrderTotalInvalid)
	})

	t.Run("gates on order status", func(t *testing.T) {
		svc, store := newItemFixture(t)
		item, err := svc.AddItem(ctx, "order-1", "prod-1", 1)
		require.NoError(t, err)

		o := store.orders["order-1"]
		o.Status = domain.OrderStatusCancelled
		store.orders["order-1"] = o

		err = svc.RemoveItem(ctx, "order-1", item.ID)
		require.ErrorIs(t, err, domain.ErrOrderNotModifiable)
	})
}

func TestOrderItemService_Reads(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("listing an order with zero items is a consistency error", func(t *testing.T) {
		svc, _ := newItemFixture(t)

		_, err := svc.ListItemsForOrder(ctx, "order-1")
		require.ErrorIs(t, err, domain.ErrOrderItemsEmpty)
	})

	t.Run("lists items for order and product", func(t *testing.T) {
		svc, _ := newItemFixture(t)

		added, err := svc.AddItem(ctx, "order-1", "prod-1", 2)
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, "order-1", "prod-2", 1)
		require.NoError(t, err)

		items, err := svc.ListItemsForOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Len(t, items, 2)

		scoped, err := svc.ListItemsForOrderAndProduct(ctx, "order-1", "prod-1")
		require.NoError(t, err)
		require.Len(t, scoped, 1)
		assert.Equal(t, added.ID, scoped[0].ID)

		none, err := svc.ListItemsForOrderAndProduct(ctx, "order-1", "prod-retired")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("lists items for a product across orders", func(t *testing.T) {
		svc, store := newItemFixture(t)
		store.addOrder(domain.Order{ID: "order-2", CustomerID: "cust-1", Status: domain.OrderStatusPending, TotalAmount: decimal.Zero})

		_, err := svc.AddItem(ctx, "order-1", "prod-1", 1)
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, "order-2", "prod-1", 2)
		require.NoError(t, err)

		items, err := svc.ListItemsForProduct(ctx, "prod-1")
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("get item is scoped to the order", func(t *testing.T) {
		svc, store := newItemFixture(t)
		store.addOrder(domain.Order{ID: "order-2", CustomerID: "cust-1", Status: domain.OrderStatusPending, TotalAmount: decimal.Zero})

		item, err := svc.AddItem(ctx, "order-1", "prod-1", 1)
		require.NoError(t, err)

		_, err = svc.GetItem(ctx, "order-2", item.ID)
		require.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestOrderItemService_ConcurrentAddsDoNotOversell(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, store := newItemFixture(t)
	store.addProduct(domain.Product{ID: "prod-scarce", Name: "Last One", Price: money("25.00"), StockQuantity: 1, Active: true})
	store.addOrder(domain.Order{ID: "order-a", CustomerID: "cust-1", Status: domain.OrderStatusPending, TotalAmount: decimal.Zero})
	store.addOrder(domain.Order{ID: "order-b", CustomerID: "cust-1", Status: domain.OrderStatusPending, TotalAmount: decimal.Zero})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, orderID := range []string{"order-a", "order-b"} {
		wg.Add(1)
		go func(i int, orderID string) {
			defer wg.Done()
			_, errs[i] = svc.AddItem(ctx, orderID, "prod-scarce", 1)
		}(i, orderID)
	}
	wg.Wait()

	var successes, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case err == domain.ErrInsufficientStock:
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 0, store.products["prod-scarce"].StockQuantity)
}
