package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tilvera/storefront/internal/app"
	"github.com/tilvera/storefront/internal/domain"
)

// ApplyStockDelta moves stock in one conditional update: a positive delta
// reserves units, a negative delta releases them. The availability check and
// the write are a single statement at the store, so two concurrent
// reservations cannot both pass on the same remaining units.
func (s *Store) ApplyStockDelta(ctx context.Context, productID string, delta int) error {
	const stmt = `
UPDATE products
SET stock_quantity = stock_quantity - $2
WHERE id = $1
  AND stock_quantity - $2 >= 0
  AND (active OR $2 <= 0)`

	tag, err := s.exec(ctx, stmt, productID, delta)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("apply stock delta: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows affected: decide which precondition failed.
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if delta > 0 && !product.Active {
		return domain.ErrProductInactive
	}
	return domain.ErrInsufficientStock
}

func (s *Store) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	const query = `
SELECT id, name, price, stock_quantity, active, created_at
FROM products
WHERE id = $1`

	var p domain.Product
	err := s.queryRow(ctx, query, productID).
		Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.Active, &p.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Product{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) error {
	const stmt = `
INSERT INTO products (id, name, price, stock_quantity, active, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.exec(ctx, stmt,
		product.ID,
		product.Name,
		product.Price,
		product.StockQuantity,
		product.Active,
		product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (s *Store) ListProducts(ctx context.Context, page app.Page) ([]domain.Product, error) {
	const query = `
SELECT id, name, price, stock_quantity, active, created_at
FROM products
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`

	rows, err := s.query(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}
