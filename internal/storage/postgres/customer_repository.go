package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tilvera/storefront/internal/domain"
)

func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer) error {
	const stmt = `
INSERT INTO customers (id, name, email, created_at)
VALUES ($1, $2, $3, $4)`

	_, err := s.exec(ctx, stmt, customer.ID, customer.Name, customer.Email, customer.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "customers_email_key") {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (s *Store) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	const query = `SELECT id, name, email, created_at FROM customers WHERE id = $1`

	var c domain.Customer
	err := s.queryRow(ctx, query, customerID).Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Customer{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}
