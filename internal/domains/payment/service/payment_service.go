package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	ordermodel "shopsphere-backend/internal/domains/order/model"
	orderservice "shopsphere-backend/internal/domains/order/service"
	"shopsphere-backend/internal/domains/payment/model"
	"shopsphere-backend/internal/domains/payment/repository"
	"shopsphere-backend/pkg/logger"
)

// validOTP is what the sandbox gateway accepts. Real gateways plug in
// behind the same PROCESSING window.
const validOTP = "123456"

type paymentService struct {
	repo           repository.Repository
	orders         orderservice.Service
	gatewayDelay   time.Duration
	processTimeout time.Duration
}

func NewPaymentService(repo repository.Repository, orders orderservice.Service, gatewayDelay, processTimeout time.Duration) Service {
	return &paymentService{
		repo:           repo,
		orders:         orders,
		gatewayDelay:   gatewayDelay,
		processTimeout: processTimeout,
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, customerID uuid.UUID, req model.InitiatePaymentRequest) (*model.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, ordermodel.ErrOrderNotFound
	}

	// 1. The order fixes the amount; the caller never supplies one
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, model.ErrNotOrderOwner
	}
	if order.Status == ordermodel.StatusCancelled {
		return nil, model.ErrInvalidPaymentState
	}

	// 2. One live attempt per order. FAILED attempts do not block a
	// retry; SUCCESS means the order is already paid.
	latest, err := s.repo.GetLatestByOrderID(ctx, orderID)
	if err != nil && !errors.Is(err, model.ErrPaymentNotFound) {
		return nil, err
	}
	if latest != nil && latest.Status != model.StatusFailed {
		return nil, model.ErrPaymentAlreadyExists
	}

	payment := &model.Payment{
		ID:         uuid.New(),
		OrderID:    orderID,
		CustomerID: customerID,
		Amount:     order.TotalAmount,
		Method:     model.PaymentMethod(req.Method),
		Status:     model.StatusInitiated,
	}
	if req.UpiID != "" {
		payment.UpiID = &req.UpiID
	}
	if payment.Method == model.MethodCOD {
		note := "collect on delivery"
		payment.Notes = &note
	}

	return s.repo.Create(ctx, payment)
}

func (s *paymentService) ProcessPayment(ctx context.Context, paymentID uuid.UUID, otp string) (*model.Payment, error) {
	payment, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Method != model.MethodUPI || payment.Status != model.StatusInitiated {
		return nil, model.ErrInvalidPaymentState
	}

	// 1. Claim the attempt. A concurrent process call loses the CAS and
	// gets ErrInvalidPaymentState instead of double-charging.
	claimed, err := s.repo.UpdateStatusIf(ctx, paymentID, model.StatusInitiated, model.StatusProcessing, nil, nil)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, model.ErrInvalidPaymentState
	}

	// 2. Simulated gateway round trip. No locks are held here; the
	// sweeper reclaims attempts abandoned in this window.
	select {
	case <-time.After(s.gatewayDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if otp != validOTP {
		reason := "invalid OTP"
		if _, err := s.repo.UpdateStatusIf(ctx, paymentID, model.StatusProcessing, model.StatusFailed, nil, &reason); err != nil {
			return nil, err
		}
		if err := s.orders.UpdatePaymentStatus(ctx, payment.OrderID, ordermodel.PaymentFailed); err != nil {
			logger.Error("failed to mark order payment failed", err)
		}
		return s.repo.GetByID(ctx, paymentID)
	}

	txnID := model.NewTransactionID(time.Now())
	updated, err := s.repo.UpdateStatusIf(ctx, paymentID, model.StatusProcessing, model.StatusSuccess, &txnID, nil)
	if err != nil {
		return nil, err
	}
	if !updated {
		// The sweeper got here first; report the stored outcome.
		return s.repo.GetByID(ctx, paymentID)
	}

	if err := s.orders.UpdatePaymentStatus(ctx, payment.OrderID, ordermodel.PaymentCompleted); err != nil {
		logger.Error("failed to mark order payment completed", err)
	}

	logger.Info("payment processed", map[string]interface{}{
		"paymentId":     paymentID,
		"orderId":       payment.OrderID,
		"transactionId": txnID,
	})

	return s.repo.GetByID(ctx, paymentID)
}

func (s *paymentService) SettleCashOnDelivery(ctx context.Context, paymentID uuid.UUID) (*model.Payment, error) {
	payment, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Method != model.MethodCOD {
		return nil, model.ErrInvalidPaymentState
	}
	if payment.Status == model.StatusSuccess {
		return payment, nil
	}
	if payment.Status != model.StatusInitiated {
		return nil, model.ErrInvalidPaymentState
	}

	order, err := s.orders.GetOrder(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != ordermodel.StatusDelivered {
		return nil, model.ErrOrderNotDelivered
	}

	txnID := model.NewTransactionID(time.Now())
	updated, err := s.repo.UpdateStatusIf(ctx, paymentID, model.StatusInitiated, model.StatusSuccess, &txnID, nil)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, model.ErrInvalidPaymentState
	}

	if err := s.orders.UpdatePaymentStatus(ctx, payment.OrderID, ordermodel.PaymentCompleted); err != nil {
		logger.Error("failed to mark order payment completed", err)
	}

	return s.repo.GetByID(ctx, paymentID)
}

func (s *paymentService) GetPayment(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *paymentService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.Payment, error) {
	return s.repo.ListByOrderID(ctx, orderID)
}

func (s *paymentService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Payment, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *paymentService) ListByStatus(ctx context.Context, status model.PaymentStatus) ([]*model.Payment, error) {
	return s.repo.ListByStatus(ctx, status)
}

func (s *paymentService) ListAll(ctx context.Context) ([]*model.Payment, error) {
	return s.repo.List(ctx)
}

func (s *paymentService) SweepStaleProcessing(ctx context.Context) (int, error) {
	swept, err := s.repo.SweepStaleProcessing(ctx, s.processTimeout, "abandoned during processing")
	if err != nil {
		return 0, err
	}

	if swept > 0 {
		logger.Warn("swept stale processing payments", map[string]interface{}{
			"count": swept,
		})
	}

	return swept, nil
}
