package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tilvera/storefront/internal/domain"
)

const itemColumns = `id, order_id, product_id, quantity, unit_price, created_at`

func scanItem(row pgx.Row) (domain.OrderItem, error) {
	var i domain.OrderItem
	err := row.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.Quantity, &i.UnitPrice, &i.CreatedAt)
	if err != nil {
		return domain.OrderItem{}, err
	}
	return i, nil
}

func (s *Store) CreateItem(ctx context.Context, item domain.OrderItem) error {
	const stmt = `
INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.exec(ctx, stmt,
		item.ID,
		item.OrderID,
		item.ProductID,
		item.Quantity,
		item.UnitPrice,
		item.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "order_items_order_id_product_id_key") {
			return domain.ErrDuplicateLineItem
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, itemID string) (domain.OrderItem, error) {
	const query = `SELECT ` + itemColumns + ` FROM order_items WHERE id = $1`

	item, err := scanItem(s.queryRow(ctx, query, itemID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.OrderItem{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.OrderItem{}, domain.ErrItemNotFound
		}
		return domain.OrderItem{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *Store) FindItemByOrderAndProduct(ctx context.Context, orderID, productID string) (*domain.OrderItem, error) {
	const query = `
SELECT ` + itemColumns + `
FROM order_items
WHERE order_id = $1 AND product_id = $2`

	item, err := scanItem(s.queryRow(ctx, query, orderID, productID))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find item by order and product: %w", err)
	}
	return &item, nil
}

func (s *Store) ListItemsByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const query = `
SELECT ` + itemColumns + `
FROM order_items
WHERE order_id = $1
ORDER BY created_at, id`

	return s.listItems(ctx, query, orderID)
}

func (s *Store) ListItemsByProduct(ctx context.Context, productID string) ([]domain.OrderItem, error) {
	const query = `
SELECT ` + itemColumns + `
FROM order_items
WHERE product_id = $1
ORDER BY created_at, id`

	return s.listItems(ctx, query, productID)
}

func (s *Store) listItems(ctx context.Context, query string, args ...any) ([]domain.OrderItem, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var out []domain.OrderItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list items: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error {
	const stmt = `UPDATE order_items SET quantity = $2 WHERE id = $1`

	tag, err := s.exec(ctx, stmt, itemID, quantity)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, itemID string) error {
	const stmt = `DELETE FROM order_items WHERE id = $1`

	tag, err := s.exec(ctx, stmt, itemID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
