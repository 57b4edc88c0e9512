package app

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tilvera/storefront/internal/domain"
)

var errFakeStorage = errors.New("storage failure")

// fakeStore is an in-memory stand-in for the postgres store. WithTx snapshots
// the state and restores it when the unit of work fails, mirroring the real
// rollback semantics the services rely on.
type fakeStore struct {
	mu        sync.Mutex
	customers map[string]domain.Customer
	products  map[string]domain.Product
	orders    map[string]domain.Order
	items     []domain.OrderItem
	payments  []domain.Payment

	// failCreateItemForProduct forces CreateItem to fail for one product, to
	// exercise compensation paths.
	failCreateItemForProduct string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: make(map[string]domain.Customer),
		products:  make(map[string]domain.Product),
		orders:    make(map[string]domain.Order),
	}
}

type fakeTxKey struct{}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(fakeTxKey{}) != nil {
		return fn(ctx)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	snap := f.snapshot()
	if err := fn(context.WithValue(ctx, fakeTxKey{}, true)); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

// lock takes the store mutex unless the context already runs inside a
// transaction, which holds it for the whole unit of work.
func (f *fakeStore) lock(ctx context.Context) func() {
	if ctx.Value(fakeTxKey{}) != nil {
		return func() {}
	}
	f.mu.Lock()
	return f.mu.Unlock
}

type fakeSnapshot struct {
	customers map[string]domain.Customer
	products  map[string]domain.Product
	orders    map[string]domain.Order
	items     []domain.OrderItem
	payments  []domain.Payment
}

func (f *fakeStore) snapshot() fakeSnapshot {
	snap := fakeSnapshot{
		customers: make(map[string]domain.Customer, len(f.customers)),
		products:  make(map[string]domain.Product, len(f.products)),
		orders:    make(map[string]domain.Order, len(f.orders)),
		items:     append([]domain.OrderItem{}, f.items...),
		payments:  append([]domain.Payment{}, f.payments...),
	}
	for k, v := range f.customers {
		snap.customers[k] = v
	}
	for k, v := range f.products {
		snap.products[k] = v
	}
	for k, v := range f.orders {
		snap.orders[k] = v
	}
	return snap
}

func (f *fakeStore) restore(snap fakeSnapshot) {
	f.customers = snap.customers
	f.products = snap.products
	f.orders = snap.orders
	f.items = snap.items
	f.payments = snap.payments
}

func (f *fakeStore) addCustomer(c domain.Customer) {
	f.customers[c.ID] = c
}

func (f *fakeStore) addProduct(p domain.Product) {
	f.products[p.ID] = p
}

func (f *fakeStore) addOrder(o domain.Order) {
	f.orders[o.ID] = o
}

func (f *fakeStore) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	defer f.lock(ctx)()
	c, ok := f.customers[customerID]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return c, nil
}

func (f *fakeStore) CreateCustomer(ctx context.Context, customer domain.Customer) error {
	defer f.lock(ctx)()
	for _, c := range f.customers {
		if c.Email == customer.Email {
			return domain.ErrEmailTaken
		}
	}
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeStore) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	defer f.lock(ctx)()
	p, ok := f.products[productID]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeStore) CreateProduct(ctx context.Context, product domain.Product) error {
	defer f.lock(ctx)()
	f.products[product.ID] = product
	return nil
}

func (f *fakeStore) ListProducts(ctx context.Context, page Page) ([]domain.Product, error) {
	defer f.lock(ctx)()
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) ApplyStockDelta(ctx context.Context, productID string, delta int) error {
	defer f.lock(ctx)()
	p, ok := f.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if delta > 0 && !p.Active {
		return domain.ErrProductInactive
	}
	if p.StockQuantity-delta < 0 {
		return domain.ErrInsufficientStock
	}
	p.StockQuantity -= delta
	f.products[productID] = p
	return nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, order domain.Order) error {
	defer f.lock(ctx)()
	order.Items = nil
	order.Payment = nil
	f.orders[order.ID] = order
	return nil
}

func (f *fakeStore) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	defer f.lock(ctx)()
	return f.getOrderLocked(orderID)
}

func (f *fakeStore) GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error) {
	defer f.lock(ctx)()
	return f.getOrderLocked(orderID)
}

func (f *fakeStore) getOrderLocked(orderID string) (domain.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeStore) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	defer f.lock(ctx)()
	o, ok := f.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	f.orders[orderID] = o
	return nil
}

func (f *fakeStore) UpdateOrderTotal(ctx context.Context, orderID string, total decimal.Decimal) error {
	defer f.lock(ctx)()
	o, ok := f.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.TotalAmount = total
	f.orders[orderID] = o
	return nil
}

func (f *fakeStore) ListOrdersByCustomer(ctx context.Context, customerID string, page Page) ([]domain.Order, error) {
	defer f.lock(ctx)()
	var out []domain.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus, page Page) ([]domain.Order, error) {
	defer f.lock(ctx)()
	var out []domain.Order
	for _, o := range f.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStore) ListOrders(ctx context.Context, page Page) ([]domain.Order, error) {
	defer f.lock(ctx)()
	out := make([]domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeStore) CreateItem(ctx context.Context, item domain.OrderItem) error {
	defer f.lock(ctx)()
	if item.ProductID == f.failCreateItemForProduct && f.failCreateItemForProduct != "" {
		return errFakeStorage
	}
	for _, existing := range f.items {
		if existing.OrderID == item.OrderID && existing.ProductID == item.ProductID {
			return domain.ErrDuplicateLineItem
		}
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeStore) GetItem(ctx context.Context, itemID string) (domain.OrderItem, error) {
	defer f.lock(ctx)()
	for _, item := range f.items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return domain.OrderItem{}, domain.ErrItemNotFound
}

func (f *fakeStore) FindItemByOrderAndProduct(ctx context.Context, orderID, productID string) (*domain.OrderItem, error) {
	defer f.lock(ctx)()
	for i := range f.items {
		if f.items[i].OrderID == orderID && f.items[i].ProductID == productID {
			item := f.items[i]
			return &item, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListItemsByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	defer f.lock(ctx)()
	var out []domain.OrderItem
	for _, item := range f.items {
		if item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeStore) ListItemsByProduct(ctx context.Context, productID string) ([]domain.OrderItem, error) {
	defer f.lock(ctx)()
	var out []domain.OrderItem
	for _, item := range f.items {
		if item.ProductID == productID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	defer f.lock(ctx)()
	for i := range f.items {
		if f.items[i].ID == itemID {
			f.items[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (f *fakeStore) DeleteItem(ctx context.Context, itemID string) error {
	defer f.lock(ctx)()
	for i := range f.items {
		if f.items[i].ID == itemID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrItemNotFound
}

func (f *fakeStore) CreatePayment(ctx context.Context, p domain.Payment) error {
	defer f.lock(ctx)()
	for _, existing := range f.payments {
		if existing.OrderID == p.OrderID {
			return domain.ErrPaymentAlreadyExists
		}
	}
	f.payments = append(f.payments, p)
	return nil
}

func (f *fakeStore) GetPayment(ctx context.Context, paymentID string) (domain.Payment, error) {
	defer f.lock(ctx)()
	for _, p := range f.payments {
		if p.ID == paymentID {
			return p, nil
		}
	}
	return domain.Payment{}, domain.ErrPaymentNotFound
}

func (f *fakeStore) FindPaymentByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	defer f.lock(ctx)()
	for i := range f.payments {
		if f.payments[i].OrderID == orderID {
			p := f.payments[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindPaymentByTransaction(ctx context.Context, transactionID string) (*domain.Payment, error) {
	defer f.lock(ctx)()
	for i := range f.payments {
		if f.payments[i].TransactionID == transactionID {
			p := f.payments[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus) error {
	defer f.lock(ctx)()
	for i := range f.payments {
		if f.payments[i].ID == paymentID {
			f.payments[i].Status = status
			return nil
		}
	}
	return domain.ErrPaymentNotFound
}
