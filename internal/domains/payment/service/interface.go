package service

import (
	"context"

	"github.com/google/uuid"

	"shopsphere-backend/internal/domains/payment/model"
)

type Service interface {
	InitiatePayment(ctx context.Context, customerID uuid.UUID, req model.InitiatePaymentRequest) (*model.Payment, error)

	// ProcessPayment runs the simulated UPI gateway. A wrong OTP is a
	// normal FAILED outcome, not an error.
	ProcessPayment(ctx context.Context, paymentID uuid.UUID, otp string) (*model.Payment, error)

	// SettleCashOnDelivery succeeds a COD payment once its order has
	// been delivered.
	SettleCashOnDelivery(ctx context.Context, paymentID uuid.UUID) (*model.Payment, error)

	GetPayment(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.Payment, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Payment, error)
	ListByStatus(ctx context.Context, status model.PaymentStatus) ([]*model.Payment, error)
	ListAll(ctx context.Context) ([]*model.Payment, error)

	// SweepStaleProcessing fails payments abandoned mid-gateway.
	SweepStaleProcessing(ctx context.Context) (int, error)
}
