package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopsphere-backend/internal/domains/payment/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const paymentColumns = `id, order_id, customer_id, amount, method, status, transaction_id, upi_id, failure_reason, notes, created_at, updated_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.ID, &p.OrderID, &p.CustomerID, &p.Amount, &p.Method, &p.Status,
		&p.TransactionID, &p.UpiID, &p.FailureReason, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) Create(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	query := fmt.Sprintf(`
		INSERT INTO payments (id, order_id, customer_id, amount, method, status, transaction_id, upi_id, failure_reason, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING %s`, paymentColumns)

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	created, err := scanPayment(r.pool.QueryRow(ctx, query,
		payment.ID, payment.OrderID, payment.CustomerID, payment.Amount,
		payment.Method, payment.Status, payment.TransactionID,
		payment.UpiID, payment.FailureReason, payment.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns)

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return payment, nil
}

func (r *postgresRepository) GetLatestByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM payments
		WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, paymentColumns)

	payment, err := scanPayment(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by order: %w", err)
	}

	return payment, nil
}

func (r *postgresRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*model.Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM payments
		WHERE order_id = $1
		ORDER BY created_at DESC`, paymentColumns)

	return r.queryList(ctx, query, orderID)
}

func (r *postgresRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM payments
		WHERE customer_id = $1
		ORDER BY created_at DESC`, paymentColumns)

	return r.queryList(ctx, query, customerID)
}

func (r *postgresRepository) ListByStatus(ctx context.Context, status model.PaymentStatus) ([]*model.Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM payments
		WHERE status = $1
		ORDER BY created_at DESC`, paymentColumns)

	return r.queryList(ctx, query, status)
}

func (r *postgresRepository) List(ctx context.Context) ([]*model.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments ORDER BY created_at DESC`, paymentColumns)

	return r.queryList(ctx, query)
}

func (r *postgresRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]*model.Payment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func (r *postgresRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.PaymentStatus, transactionID, failureReason *string) (bool, error) {
	query := `
		UPDATE payments
		SET status = $3,
		    transaction_id = COALESCE($4, transaction_id),
		    failure_reason = COALESCE($5, failure_reason),
		    updated_at = NOW()
		WHERE id = $1 AND status = $2`

	tag, err := r.pool.Exec(ctx, query, id, from, to, transactionID, failureReason)
	if err != nil {
		return false, fmt.Errorf("failed to update payment status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) SweepStaleProcessing(ctx context.Context, olderThan time.Duration, reason string) (int, error) {
	query := `
		UPDATE payments
		SET status = $1,
		    failure_reason = $2,
		    updated_at = NOW()
		WHERE status = $3 AND updated_at < NOW() - $4::interval`

	interval := fmt.Sprintf("%d seconds", int(olderThan.Seconds()))
	tag, err := r.pool.Exec(ctx, query, model.StatusFailed, reason, model.StatusProcessing, interval)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale payments: %w", err)
	}

	return int(tag.RowsAffected()), nil
}
