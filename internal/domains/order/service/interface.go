package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"shopsphere-backend/internal/domains/order/model"
)

type Service interface {
	CreateOrder(ctx context.Context, customerID uuid.UUID, req model.CreateOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Order, error)
	ListByStatus(ctx context.Context, status string) ([]*model.Order, error)
	ListRecent(ctx context.Context, days int) ([]*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)

	// UpdateStatus drives the lifecycle. SHIPPED gains a tracking
	// number, DELIVERED settles a pending COD payment, CANCELLED
	// releases reserved stock.
	UpdateStatus(ctx context.Context, id uuid.UUID, req model.UpdateStatusRequest) (*model.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// UpdatePaymentStatus reflects the payment outcome onto the order.
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error
}

// TaskEnqueuer is the slice of the asynq client this service uses.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
