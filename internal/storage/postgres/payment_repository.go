package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tilvera/storefront/internal/domain"
)

const paymentColumns = `id, order_id, method, amount, status, transaction_id, gateway_payload, created_at`

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	var method, status string
	var transactionID, gatewayPayload sql.NullString
	err := row.Scan(&p.ID, &p.OrderID, &method, &p.Amount, &status, &transactionID, &gatewayPayload, &p.CreatedAt)
	if err != nil {
		return domain.Payment{}, err
	}
	p.Method = domain.PaymentMethod(method)
	p.Status = domain.PaymentStatus(status)
	p.TransactionID = transactionID.String
	p.GatewayPayload = gatewayPayload.String
	return p, nil
}

func (s *Store) CreatePayment(ctx context.Context, p domain.Payment) error {
	const stmt = `
INSERT INTO payments (id, order_id, method, amount, status, transaction_id, gateway_payload, created_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)`

	_, err := s.exec(ctx, stmt,
		p.ID,
		p.OrderID,
		p.Method,
		p.Amount,
		p.Status,
		p.TransactionID,
		p.GatewayPayload,
		p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "payments_order_id_key") {
			return domain.ErrPaymentAlreadyExists
		}
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (s *Store) GetPayment(ctx context.Context, paymentID string) (domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(s.queryRow(ctx, query, paymentID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Payment{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Payment{}, domain.ErrPaymentNotFound
		}
		return domain.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (s *Store) FindPaymentByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`

	p, err := scanPayment(s.queryRow(ctx, query, orderID))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find payment by order: %w", err)
	}
	return &p, nil
}

func (s *Store) FindPaymentByTransaction(ctx context.Context, transactionID string) (*domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1`

	p, err := scanPayment(s.queryRow(ctx, query, transactionID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find payment by transaction: %w", err)
	}
	return &p, nil
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus) error {
	const stmt = `UPDATE payments SET status = $2 WHERE id = $1`

	tag, err := s.exec(ctx, stmt, paymentID, status)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}
