package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shopsphere-backend/internal/domains/order/model"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateWithTx inserts the order with its items and allocations.
	// A duplicate discount code surfaces as ErrDiscountCodeUsed.
	CreateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// GetByIDForUpdateTx locks the order row and loads items and
	// allocations for in-transaction decisions.
	GetByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Order, error)
	ListByStatus(ctx context.Context, status string) ([]*model.Order, error)
	ListRecent(ctx context.Context, since time.Time) ([]*model.Order, error)
	List(ctx context.Context) ([]*model.Order, error)

	UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, trackingNumber *string, deliveredAt *time.Time) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error

	// DiscountCodeUsed reports whether any order carries the code.
	DiscountCodeUsed(ctx context.Context, code string) (bool, error)
}
