package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	customermodel "shopsphere-backend/internal/domains/customer/model"
	customerrepo "shopsphere-backend/internal/domains/customer/repository"
	inventorymodel "shopsphere-backend/internal/domains/inventory/model"
	inventoryservice "shopsphere-backend/internal/domains/inventory/service"
	loyaltyservice "shopsphere-backend/internal/domains/loyalty/service"
	"shopsphere-backend/internal/domains/order/model"
	"shopsphere-backend/internal/domains/order/repository"
	paymentmodel "shopsphere-backend/internal/domains/payment/model"
	paymentrepo "shopsphere-backend/internal/domains/payment/repository"
	productmodel "shopsphere-backend/internal/domains/product/model"
	productrepo "shopsphere-backend/internal/domains/product/repository"
	"shopsphere-backend/internal/shared"
	"shopsphere-backend/internal/shared/utils"
	"shopsphere-backend/pkg/logger"
)

type orderService struct {
	repo      repository.Repository
	customers customerrepo.Repository
	products  productrepo.Repository
	inventory inventoryservice.Service
	loyalty   loyaltyservice.Service
	payments  paymentrepo.Repository
	tasks     TaskEnqueuer
}

func NewOrderService(
	repo repository.Repository,
	customers customerrepo.Repository,
	products productrepo.Repository,
	inventory inventoryservice.Service,
	loyalty loyaltyservice.Service,
	payments paymentrepo.Repository,
	tasks TaskEnqueuer,
) Service {
	return &orderService{
		repo:      repo,
		customers: customers,
		products:  products,
		inventory: inventory,
		loyalty:   loyalty,
		payments:  payments,
		tasks:     tasks,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, customerID uuid.UUID, req model.CreateOrderRequest) (*model.Order, error) {
	// 1. Shape checks before any locks are taken
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, model.ErrEmptyOrder
	}

	exists, err := s.customers.ExistsByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, customermodel.ErrCustomerNotFound
	}

	// 2. Catalog lookups; every line must name an active product
	productIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, productmodel.ErrProductNotFound
		}
		productIDs = append(productIDs, id)
	}

	products, err := s.products.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range productIDs {
		p, ok := products[id]
		if !ok {
			return nil, productmodel.ErrProductNotFound
		}
		if !p.IsActive {
			return nil, productmodel.ErrProductInactive
		}
	}

	orderID := uuid.New()
	channel := inventorymodel.SalesChannel(req.Channel)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 3. Reserve stock line by line; a failure here rolls back every
	// reservation made so far
	subtotal := decimal.Zero
	items := make([]*model.OrderItem, 0, len(req.Items))
	for i, line := range req.Items {
		product := products[productIDs[i]]

		allocations, err := s.inventory.AllocateForOrder(ctx, tx, product.ID, channel, line.Quantity, req.StoreLocation, orderID)
		if err != nil {
			return nil, err
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		item := &model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			SKU:         product.SKU,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			LineTotal:   lineTotal,
		}
		for _, alloc := range allocations {
			item.Allocations = append(item.Allocations, &model.OrderItemAllocation{
				StoreLocation: alloc.StoreLocation,
				Quantity:      alloc.Quantity,
			})
		}
		items = append(items, item)
	}

	// 4. Spend the coupon inside the same transaction
	discount := decimal.Zero
	var discountCode *string
	if req.DiscountCode != "" {
		coupon, err := s.loyalty.ConsumeCouponWithTx(ctx, tx, req.DiscountCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = coupon.DiscountAmount
		discountCode = &coupon.Code
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	// 5. Persist the order atomically with its reservations
	order := &model.Order{
		ID:             orderID,
		CustomerID:     customerID,
		Channel:        req.Channel,
		Status:         model.StatusConfirmed,
		PaymentStatus:  model.PaymentPending,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		DiscountCode:   discountCode,
		TotalAmount:    total,
		Items:          items,
	}
	if req.ShippingAddress != "" {
		order.ShippingAddress = &req.ShippingAddress
	}
	if req.StoreLocation != "" {
		order.StoreLocation = &req.StoreLocation
	}

	if err := s.repo.CreateWithTx(ctx, tx, order); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	// 6. Points accrue through the worker so a queue hiccup cannot
	// fail a committed order
	s.enqueueAccrual(customerID, orderID, total)

	return s.repo.GetByID(ctx, orderID)
}

func (s *orderService) enqueueAccrual(customerID, orderID uuid.UUID, amount decimal.Decimal) {
	task, err := utils.MarshalTask(shared.TypeLoyaltyAccrual, shared.LoyaltyAccrualPayload{
		UserID:      customerID,
		OrderID:     orderID,
		OrderAmount: amount,
	})
	if err != nil {
		logger.Error("failed to build loyalty accrual task", err)
		return
	}

	_, err = s.tasks.Enqueue(task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(10),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		// The accrual is idempotent; operators can replay it.
		logger.Error("failed to enqueue loyalty accrual", err)
	}
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *orderService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *orderService) ListByStatus(ctx context.Context, status string) ([]*model.Order, error) {
	return s.repo.ListByStatus(ctx, status)
}

func (s *orderService) ListRecent(ctx context.Context, days int) ([]*model.Order, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)
	return s.repo.ListRecent(ctx, since)
}

func (s *orderService) ListAll(ctx context.Context) ([]*model.Order, error) {
	return s.repo.List(ctx)
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, req model.UpdateStatusRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 1. Lock the order and check the transition table
	order, err := s.repo.GetByIDForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if !model.CanTransition(order.Status, req.Status) {
		return nil, &model.StatusTransitionError{From: order.Status, To: req.Status}
	}

	var trackingNumber *string
	var deliveredAt *time.Time

	switch req.Status {
	case model.StatusShipped:
		// 2a. Tracking number: caller's if given, generated otherwise
		tn := req.TrackingNumber
		if tn == "" {
			tn = model.NewTrackingNumber(order.Channel, order.ID, time.Now())
		}
		trackingNumber = &tn

	case model.StatusDelivered:
		now := time.Now()
		deliveredAt = &now

	case model.StatusCancelled:
		// 2b. Put every reserved unit back where it came from
		for _, item := range order.Items {
			allocations := make([]inventorymodel.StockAllocation, 0, len(item.Allocations))
			for _, alloc := range item.Allocations {
				allocations = append(allocations, inventorymodel.StockAllocation{
					StoreLocation: alloc.StoreLocation,
					Quantity:      alloc.Quantity,
				})
			}
			if err := s.inventory.ReleaseAllocations(ctx, tx, item.ProductID, allocations, order.ID); err != nil {
				return nil, err
			}
		}
	}

	if err := s.repo.UpdateStatusWithTx(ctx, tx, id, req.Status, trackingNumber, deliveredAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	// 3. Delivery settles an outstanding cash-on-delivery payment
	if req.Status == model.StatusDelivered {
		s.settleCashOnDelivery(ctx, order)
	}

	return s.repo.GetByID(ctx, id)
}

// settleCashOnDelivery flips a waiting COD payment to SUCCESS. Failures
// are logged, not returned: the delivery already happened and the
// manual settlement endpoint can catch up.
func (s *orderService) settleCashOnDelivery(ctx context.Context, order *model.Order) {
	payment, err := s.payments.GetLatestByOrderID(ctx, order.ID)
	if err != nil {
		if !errors.Is(err, paymentmodel.ErrPaymentNotFound) {
			logger.Error("failed to look up payment for delivered order", err)
		}
		return
	}

	if payment.Method != paymentmodel.MethodCOD || payment.Status != paymentmodel.StatusInitiated {
		return
	}

	txnID := paymentmodel.NewTransactionID(time.Now())
	updated, err := s.payments.UpdateStatusIf(ctx, payment.ID, paymentmodel.StatusInitiated, paymentmodel.StatusSuccess, &txnID, nil)
	if err != nil {
		logger.Error("failed to settle cash on delivery", err)
		return
	}
	if !updated {
		return
	}

	if err := s.repo.UpdatePaymentStatus(ctx, order.ID, model.PaymentCompleted); err != nil {
		logger.Error("failed to mark order payment completed", err)
	}

	logger.Info("cash on delivery settled", map[string]interface{}{
		"orderId":   order.ID,
		"paymentId": payment.ID,
	})
}

func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.UpdateStatus(ctx, id, model.UpdateStatusRequest{Status: model.StatusCancelled})
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error {
	return s.repo.UpdatePaymentStatus(ctx, id, paymentStatus)
}
