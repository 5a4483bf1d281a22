package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customermodel "shopsphere-backend/internal/domains/customer/model"
	inventorymodel "shopsphere-backend/internal/domains/inventory/model"
	loyaltymodel "shopsphere-backend/internal/domains/loyalty/model"
	"shopsphere-backend/internal/domains/order/model"
	paymentmodel "shopsphere-backend/internal/domains/payment/model"
	productmodel "shopsphere-backend/internal/domains/product/model"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	tx     *fakeTx
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*model.Order), tx: &fakeTx{}}
}

func (f *fakeOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	f.tx = &fakeTx{}
	return f.tx, nil
}

func (f *fakeOrderRepo) CreateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	if order.DiscountCode != nil {
		for _, existing := range f.orders {
			if existing.DiscountCode != nil && *existing.DiscountCode == *order.DiscountCode {
				return model.ErrDiscountCodeUsed
			}
		}
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, model.ErrOrderNotFound
}

func (f *fakeOrderRepo) GetByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeOrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListByStatus(ctx context.Context, status string) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range f.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListRecent(ctx context.Context, since time.Time) ([]*model.Order, error) {
	return f.List(ctx)
}

func (f *fakeOrderRepo) List(ctx context.Context) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, trackingNumber *string, deliveredAt *time.Time) error {
	o, ok := f.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.Status = status
	if trackingNumber != nil {
		o.TrackingNumber = trackingNumber
	}
	if deliveredAt != nil {
		o.DeliveredAt = deliveredAt
	}
	return nil
}

func (f *fakeOrderRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error {
	o, ok := f.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.PaymentStatus = paymentStatus
	return nil
}

func (f *fakeOrderRepo) DiscountCodeUsed(ctx context.Context, code string) (bool, error) {
	for _, o := range f.orders {
		if o.DiscountCode != nil && *o.DiscountCode == code {
			return true, nil
		}
	}
	return false, nil
}

type fakeCustomerRepo struct {
	ids map[uuid.UUID]bool
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*customermodel.Customer, error) {
	if f.ids[id] {
		return &customermodel.Customer{ID: id}, nil
	}
	return nil, customermodel.ErrCustomerNotFound
}

func (f *fakeCustomerRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.ids[id], nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*productmodel.Product
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*productmodel.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, productmodel.ErrProductNotFound
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*productmodel.Product, error) {
	out := make(map[uuid.UUID]*productmodel.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProductRepo) List(ctx context.Context, activeOnly bool) ([]*productmodel.ProductWithStock, error) {
	return nil, nil
}

func (f *fakeProductRepo) GetTotalStock(ctx context.Context, productID uuid.UUID) (int, error) {
	return 0, nil
}

// fakeInventoryService hands out a fixed single-store allocation and
// records releases.
type fakeInventoryService struct {
	store     string
	allocErr  error
	allocated map[uuid.UUID]int
	released  map[uuid.UUID]int
}

func newFakeInventoryService(store string) *fakeInventoryService {
	return &fakeInventoryService{
		store:     store,
		allocated: make(map[uuid.UUID]int),
		released:  make(map[uuid.UUID]int),
	}
}

func (f *fakeInventoryService) AllocateForOrder(ctx context.Context, tx pgx.Tx, productID uuid.UUID, channel inventorymodel.SalesChannel, quantity int, requestedStore string, orderID uuid.UUID) ([]inventorymodel.StockAllocation, error) {
	if f.allocErr != nil {
		return nil, f.allocErr
	}
	f.allocated[productID] += quantity
	return []inventorymodel.StockAllocation{{StoreLocation: f.store, Quantity: quantity}}, nil
}

func (f *fakeInventoryService) ReleaseAllocations(ctx context.Context, tx pgx.Tx, productID uuid.UUID, allocations []inventorymodel.StockAllocation, orderID uuid.UUID) error {
	for _, alloc := range allocations {
		f.released[productID] += alloc.Quantity
	}
	return nil
}

func (f *fakeInventoryService) CheckAvailability(ctx context.Context, productID uuid.UUID, store string, quantity int) (bool, error) {
	return true, nil
}

func (f *fakeInventoryService) UpsertInventory(ctx context.Context, req inventorymodel.UpsertInventoryRequest) (*inventorymodel.StoreInventory, error) {
	return nil, nil
}

func (f *fakeInventoryService) Restock(ctx context.Context, req inventorymodel.RestockRequest) (*inventorymodel.StoreInventory, error) {
	return nil, nil
}

func (f *fakeInventoryService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*inventorymodel.StoreInventory, error) {
	return nil, nil
}

func (f *fakeInventoryService) ListByStore(ctx context.Context, store string) ([]*inventorymodel.StoreInventory, error) {
	return nil, nil
}

func (f *fakeInventoryService) ListLowStock(ctx context.Context, threshold int) ([]*inventorymodel.StoreInventory, error) {
	return nil, nil
}

// fakeLoyaltyService only backs coupon consumption; the rest of the
// interface is unused by the order flow.
type fakeLoyaltyService struct {
	coupons map[string]*loyaltymodel.DiscountCoupon
}

func (f *fakeLoyaltyService) GetOrCreateAccount(ctx context.Context, userID uuid.UUID) (*loyaltymodel.LoyaltyAccount, error) {
	return nil, nil
}

func (f *fakeLoyaltyService) GetAccountDetails(ctx context.Context, userID uuid.UUID) (*loyaltymodel.AccountDetails, error) {
	return nil, nil
}

func (f *fakeLoyaltyService) EarnPointsFromOrder(ctx context.Context, userID, orderID uuid.UUID, amount decimal.Decimal) error {
	return nil
}

func (f *fakeLoyaltyService) RedeemReward(ctx context.Context, userID uuid.UUID, req loyaltymodel.RedeemRequest) (*loyaltymodel.DiscountCoupon, error) {
	return nil, nil
}

func (f *fakeLoyaltyService) GetActiveCoupon(ctx context.Context, userID uuid.UUID) (*loyaltymodel.DiscountCoupon, error) {
	return nil, nil
}

func (f *fakeLoyaltyService) ValidateCoupon(ctx context.Context, code string, orderTotal decimal.Decimal) (*loyaltymodel.CouponValidation, error) {
	return nil, nil
}

func (f *fakeLoyaltyService) ConsumeCouponWithTx(ctx context.Context, tx pgx.Tx, code string, orderTotal decimal.Decimal) (*loyaltymodel.DiscountCoupon, error) {
	if !loyaltymodel.ValidCouponCode(code) {
		return nil, loyaltymodel.ErrInvalidCouponFormat
	}
	coupon, ok := f.coupons[code]
	if !ok {
		return nil, loyaltymodel.ErrCouponNotFound
	}
	if coupon.Consumed {
		return nil, loyaltymodel.ErrCouponAlreadyUsed
	}
	if orderTotal.LessThan(coupon.MinimumOrderAmount) {
		return nil, loyaltymodel.ErrCouponBelowMinimum
	}
	coupon.Consumed = true
	return coupon, nil
}

func (f *fakeLoyaltyService) ListAccounts(ctx context.Context) ([]*loyaltymodel.LoyaltyAccount, error) {
	return nil, nil
}

func (f *fakeLoyaltyService) GetProgramStats(ctx context.Context) (*loyaltymodel.ProgramStats, error) {
	return nil, nil
}

type fakePaymentRepo struct {
	payments map[uuid.UUID]*paymentmodel.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*paymentmodel.Payment)}
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *paymentmodel.Payment) (*paymentmodel.Payment, error) {
	f.payments[p.ID] = p
	return p, nil
}

func (f *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*paymentmodel.Payment, error) {
	if p, ok := f.payments[id]; ok {
		return p, nil
	}
	return nil, paymentmodel.ErrPaymentNotFound
}

func (f *fakePaymentRepo) GetLatestByOrderID(ctx context.Context, orderID uuid.UUID) (*paymentmodel.Payment, error) {
	var latest *paymentmodel.Payment
	for _, p := range f.payments {
		if p.OrderID != orderID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, paymentmodel.ErrPaymentNotFound
	}
	return latest, nil
}

func (f *fakePaymentRepo) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*paymentmodel.Payment, error) {
	return nil, nil
}

func (f *fakePaymentRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*paymentmodel.Payment, error) {
	return nil, nil
}

func (f *fakePaymentRepo) ListByStatus(ctx context.Context, status paymentmodel.PaymentStatus) ([]*paymentmodel.Payment, error) {
	return nil, nil
}

func (f *fakePaymentRepo) List(ctx context.Context) ([]*paymentmodel.Payment, error) {
	return nil, nil
}

func (f *fakePaymentRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to paymentmodel.PaymentStatus, transactionID, failureReason *string) (bool, error) {
	p, ok := f.payments[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	if transactionID != nil {
		p.TransactionID = transactionID
	}
	if failureReason != nil {
		p.FailureReason = failureReason
	}
	return true, nil
}

func (f *fakePaymentRepo) SweepStaleProcessing(ctx context.Context, olderThan time.Duration, reason string) (int, error) {
	return 0, nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type orderFixture struct {
	svc       Service
	repo      *fakeOrderRepo
	inventory *fakeInventoryService
	loyalty   *fakeLoyaltyService
	payments  *fakePaymentRepo
	enqueuer  *fakeEnqueuer

	customerID uuid.UUID
	productID  uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		repo:       newFakeOrderRepo(),
		inventory:  newFakeInventoryService("downtown"),
		loyalty:    &fakeLoyaltyService{coupons: make(map[string]*loyaltymodel.DiscountCoupon)},
		payments:   newFakePaymentRepo(),
		enqueuer:   &fakeEnqueuer{},
		customerID: uuid.New(),
		productID:  uuid.New(),
	}

	customers := &fakeCustomerRepo{ids: map[uuid.UUID]bool{f.customerID: true}}
	products := &fakeProductRepo{products: map[uuid.UUID]*productmodel.Product{
		f.productID: {
			ID:       f.productID,
			Name:     "Wireless Mouse",
			SKU:      "WM-001",
			Price:    decimal.NewFromInt(300),
			IsActive: true,
		},
	}}

	f.svc = NewOrderService(f.repo, customers, products, f.inventory, f.loyalty, f.payments, f.enqueuer)
	return f
}

func (f *orderFixture) createRequest(quantity int) model.CreateOrderRequest {
	return model.CreateOrderRequest{
		Items:           []model.OrderItemRequest{{ProductID: f.productID.String(), Quantity: quantity}},
		Channel:         string(inventorymodel.ChannelOnline),
		ShippingAddress: "12 MG Road, Bengaluru",
	}
}

func TestCreateOrder(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.CreateOrder(context.Background(), f.customerID, f.createRequest(2))
	require.NoError(t, err)

	assert.Equal(t, model.StatusConfirmed, order.Status)
	assert.Equal(t, model.PaymentPending, order.PaymentStatus)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(600)))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(600)))
	assert.True(t, order.DiscountAmount.IsZero())

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Wireless Mouse", order.Items[0].ProductName)
	assert.True(t, order.Items[0].LineTotal.Equal(decimal.NewFromInt(600)))
	require.Len(t, order.Items[0].Allocations, 1)
	assert.Equal(t, "downtown", order.Items[0].Allocations[0].StoreLocation)

	assert.True(t, f.repo.tx.committed)
	assert.Equal(t, 2, f.inventory.allocated[f.productID])

	// Accrual goes through the queue, not inline.
	require.Len(t, f.enqueuer.tasks, 1)
	assert.Equal(t, "loyalty:accrue_points", f.enqueuer.tasks[0].Type())
}

func TestCreateOrderWithCoupon(t *testing.T) {
	f := newOrderFixture(t)

	code := "REWARD-150OFF-1700000000000"
	f.loyalty.coupons[code] = &loyaltymodel.DiscountCoupon{
		Code:               code,
		UserID:             f.customerID,
		DiscountAmount:     decimal.NewFromInt(150),
		MinimumOrderAmount: decimal.NewFromInt(500),
	}

	req := f.createRequest(2)
	req.DiscountCode = code

	order, err := f.svc.CreateOrder(context.Background(), f.customerID, req)
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(600)))
	assert.True(t, order.DiscountAmount.Equal(decimal.NewFromInt(150)))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(450)))
	require.NotNil(t, order.DiscountCode)
	assert.Equal(t, code, *order.DiscountCode)
	assert.True(t, f.loyalty.coupons[code].Consumed)
}

func TestCreateOrderCouponBelowMinimumRollsBack(t *testing.T) {
	f := newOrderFixture(t)

	code := "REWARD-500OFF-1700000000000"
	f.loyalty.coupons[code] = &loyaltymodel.DiscountCoupon{
		Code:               code,
		UserID:             f.customerID,
		DiscountAmount:     decimal.NewFromInt(500),
		MinimumOrderAmount: decimal.NewFromInt(750),
	}

	req := f.createRequest(2) // subtotal 600 < 750 minimum
	req.DiscountCode = code

	_, err := f.svc.CreateOrder(context.Background(), f.customerID, req)
	assert.ErrorIs(t, err, loyaltymodel.ErrCouponBelowMinimum)
	assert.True(t, f.repo.tx.rolledBack)
	assert.Empty(t, f.repo.orders)
	assert.Empty(t, f.enqueuer.tasks)
}

func TestCreateOrderDiscountNeverGoesNegative(t *testing.T) {
	f := newOrderFixture(t)

	code := "REWARD-500OFF-1700000000001"
	f.loyalty.coupons[code] = &loyaltymodel.DiscountCoupon{
		Code:               code,
		UserID:             f.customerID,
		DiscountAmount:     decimal.NewFromInt(900),
		MinimumOrderAmount: decimal.NewFromInt(500),
	}

	req := f.createRequest(2) // subtotal 600, discount 900
	req.DiscountCode = code

	order, err := f.svc.CreateOrder(context.Background(), f.customerID, req)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.IsZero())
}

func TestCreateOrderAllocationFailureRollsBack(t *testing.T) {
	f := newOrderFixture(t)
	f.inventory.allocErr = inventorymodel.ErrInsufficientStockAcrossStores

	_, err := f.svc.CreateOrder(context.Background(), f.customerID, f.createRequest(2))
	assert.ErrorIs(t, err, inventorymodel.ErrInsufficientStockAcrossStores)
	assert.True(t, f.repo.tx.rolledBack)
	assert.Empty(t, f.repo.orders)
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), f.createRequest(1))
	assert.ErrorIs(t, err, customermodel.ErrCustomerNotFound)
}

func TestCreateOrderInactiveProduct(t *testing.T) {
	f := newOrderFixture(t)
	inactive := uuid.New()

	products := &fakeProductRepo{products: map[uuid.UUID]*productmodel.Product{
		inactive: {ID: inactive, Name: "Old Keyboard", SKU: "OK-001", Price: decimal.NewFromInt(100), IsActive: false},
	}}
	customers := &fakeCustomerRepo{ids: map[uuid.UUID]bool{f.customerID: true}}
	svc := NewOrderService(f.repo, customers, products, f.inventory, f.loyalty, f.payments, f.enqueuer)

	req := model.CreateOrderRequest{
		Items:           []model.OrderItemRequest{{ProductID: inactive.String(), Quantity: 1}},
		Channel:         string(inventorymodel.ChannelOnline),
		ShippingAddress: "12 MG Road, Bengaluru",
	}

	_, err := svc.CreateOrder(context.Background(), f.customerID, req)
	assert.ErrorIs(t, err, productmodel.ErrProductInactive)
}

func createConfirmedOrder(t *testing.T, f *orderFixture) *model.Order {
	t.Helper()
	order, err := f.svc.CreateOrder(context.Background(), f.customerID, f.createRequest(2))
	require.NoError(t, err)
	return order
}

func TestUpdateStatusShippedGeneratesTracking(t *testing.T) {
	f := newOrderFixture(t)
	order := createConfirmedOrder(t, f)

	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, model.UpdateStatusRequest{Status: model.StatusShipped})
	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, updated.Status)
	require.NotNil(t, updated.TrackingNumber)
	assert.Contains(t, *updated.TrackingNumber, "ONL-")
}

func TestUpdateStatusShippedKeepsCallerTracking(t *testing.T) {
	f := newOrderFixture(t)
	order := createConfirmedOrder(t, f)

	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, model.UpdateStatusRequest{
		Status:         model.StatusShipped,
		TrackingNumber: "CARRIER-XYZ-1",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, "CARRIER-XYZ-1", *updated.TrackingNumber)
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	f := newOrderFixture(t)
	order := createConfirmedOrder(t, f)

	// CONFIRMED cannot jump straight to DELIVERED.
	_, err := f.svc.UpdateStatus(context.Background(), order.ID, model.UpdateStatusRequest{Status: model.StatusDelivered})

	var transitionErr *model.StatusTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, model.StatusConfirmed, transitionErr.From)
	assert.Equal(t, model.StatusDelivered, transitionErr.To)
}

func TestUpdateStatusTerminalStatesAreFinal(t *testing.T) {
	f := newOrderFixture(t)
	order := createConfirmedOrder(t, f)

	_, err := f.svc.CancelOrder(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, model.UpdateStatusRequest{Status: model.StatusShipped})
	var transitionErr *model.StatusTransitionError
	assert.ErrorAs(t, err, &transitionErr)
}

func TestCancelReleasesAllocations(t *testing.T) {
	f := newOrderFixture(t)
	order := createConfirmedOrder(t, f)

	cancelled, err := f.svc.CancelOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, 2, f.inventory.released[f.productID])
}

func TestDeliveredSettlesCashOnDelivery(t *testing.T) {
	f := newOrderFixture(t)
	order := createConfirmedOrder(t, f)

	payment := &paymentmodel.Payment{
		ID:         uuid.New(),
		OrderID:    order.ID,
		CustomerID: f.customerID,
		Amount:     order.TotalAmount,
		Method:     paymentmodel.MethodCOD,
		Status:     paymentmodel.StatusInitiated,
	}
	f.payments.payments[payment.ID] = payment

	_, err := f.svc.UpdateStatus(context.Background(), order.ID, model.UpdateStatusRequest{Status: model.StatusShipped})
	require.NoError(t, err)

	delivered, err := f.svc.UpdateStatus(context.Background(), order.ID, model.UpdateStatusRequest{Status: model.StatusDelivered})
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)

	assert.Equal(t, paymentmodel.StatusSuccess, payment.Status)
	require.NotNil(t, payment.TransactionID)
	assert.Equal(t, model.PaymentCompleted, delivered.PaymentStatus)
}

func TestDeliveredLeavesUpiPaymentAlone(t *testing.T) {
	f := newOrderFixture(t)
	order := createConfirmedOrder(t, f)

	upi := "buyer@upi"
	payment := &paymentmodel.Payment{
		ID:         uuid.New(),
		OrderID:    order.ID,
		CustomerID: f.customerID,
		Amount:     order.TotalAmount,
		Method:     paymentmodel.MethodUPI,
		Status:     paymentmodel.StatusInitiated,
		UpiID:      &upi,
	}
	f.payments.payments[payment.ID] = payment

	_, err := f.svc.UpdateStatus(context.Background(), order.ID, model.UpdateStatusRequest{Status: model.StatusShipped})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(context.Background(), order.ID, model.UpdateStatusRequest{Status: model.StatusDelivered})
	require.NoError(t, err)

	assert.Equal(t, paymentmodel.StatusInitiated, payment.Status)
}

func TestDuplicateDiscountCodeRejected(t *testing.T) {
	f := newOrderFixture(t)

	code := "REWARD-150OFF-1700000000000"
	used := code
	f.repo.orders[uuid.New()] = &model.Order{ID: uuid.New(), DiscountCode: &used}

	f.loyalty.coupons[code] = &loyaltymodel.DiscountCoupon{
		Code:               code,
		UserID:             f.customerID,
		DiscountAmount:     decimal.NewFromInt(150),
		MinimumOrderAmount: decimal.NewFromInt(500),
	}

	req := f.createRequest(2)
	req.DiscountCode = code

	_, err := f.svc.CreateOrder(context.Background(), f.customerID, req)
	assert.ErrorIs(t, err, model.ErrDiscountCodeUsed)
	assert.True(t, f.repo.tx.rolledBack)
}
