package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shopsphere-backend/internal/domains/payment/model"
)

type Repository interface {
	Create(ctx context.Context, payment *model.Payment) (*model.Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	GetLatestByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Payment, error)
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*model.Payment, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Payment, error)
	ListByStatus(ctx context.Context, status model.PaymentStatus) ([]*model.Payment, error)
	List(ctx context.Context) ([]*model.Payment, error)

	// UpdateStatusIf is a compare-and-set on the status column. It
	// reports false when the payment was not in the expected state.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.PaymentStatus, transactionID, failureReason *string) (bool, error)

	// SweepStaleProcessing fails payments stuck in PROCESSING longer
	// than the cutoff and returns how many were swept.
	SweepStaleProcessing(ctx context.Context, olderThan time.Duration, reason string) (int, error)
}
