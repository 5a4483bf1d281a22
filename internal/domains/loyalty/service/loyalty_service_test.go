package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customermodel "shopsphere-backend/internal/domains/customer/model"
	"shopsphere-backend/internal/domains/loyalty/model"
)

type fakeTx struct {
	pgx.Tx
	committed bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error { return nil }

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

type fakeOrderLookup struct {
	usedCodes map[string]bool
}

func (f *fakeOrderLookup) DiscountCodeUsed(ctx context.Context, code string) (bool, error) {
	return f.usedCodes[code], nil
}

type fakeLoyaltyRepo struct {
	accounts map[uuid.UUID]*model.LoyaltyAccount
	txns     []*model.LoyaltyTransaction
	coupons  map[string]*model.DiscountCoupon
	tx       *fakeTx
}

func newFakeLoyaltyRepo() *fakeLoyaltyRepo {
	return &fakeLoyaltyRepo{
		accounts: make(map[uuid.UUID]*model.LoyaltyAccount),
		coupons:  make(map[string]*model.DiscountCoupon),
		tx:       &fakeTx{},
	}
}

func (f *fakeLoyaltyRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return f.tx, nil
}

func (f *fakeLoyaltyRepo) GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*model.LoyaltyAccount, error) {
	if a, ok := f.accounts[userID]; ok {
		return a, nil
	}
	return nil, model.ErrAccountNotFound
}

func (f *fakeLoyaltyRepo) GetAccountByUserIDForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.LoyaltyAccount, error) {
	return f.GetAccountByUserID(ctx, userID)
}

func (f *fakeLoyaltyRepo) CreateAccountIfAbsent(ctx context.Context, userID uuid.UUID) error {
	if _, ok := f.accounts[userID]; !ok {
		f.accounts[userID] = &model.LoyaltyAccount{ID: uuid.New(), UserID: userID}
	}
	return nil
}

func (f *fakeLoyaltyRepo) UpdateAccountBalanceWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, pointsDelta, earnedDelta int) error {
	account, ok := f.accounts[userID]
	if !ok {
		return model.ErrAccountNotFound
	}
	if account.PointsBalance+pointsDelta < 0 {
		return model.ErrInsufficientPoints
	}
	account.PointsBalance += pointsDelta
	account.TotalEarned += earnedDelta
	return nil
}

func (f *fakeLoyaltyRepo) ListAccounts(ctx context.Context) ([]*model.LoyaltyAccount, error) {
	var out []*model.LoyaltyAccount
	for _, a := range f.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeLoyaltyRepo) GetProgramStats(ctx context.Context) (*model.ProgramStats, error) {
	return &model.ProgramStats{MemberCount: len(f.accounts)}, nil
}

func (f *fakeLoyaltyRepo) InsertTransactionWithTx(ctx context.Context, tx pgx.Tx, txn *model.LoyaltyTransaction) error {
	if txn.OrderID != nil {
		for _, existing := range f.txns {
			if existing.OrderID != nil && *existing.OrderID == *txn.OrderID {
				return model.ErrDuplicateAccrual
			}
		}
	}
	f.txns = append(f.txns, txn)
	return nil
}

func (f *fakeLoyaltyRepo) HasTransactionForOrderWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error) {
	for _, txn := range f.txns {
		if txn.OrderID != nil && *txn.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLoyaltyRepo) ListTransactionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.LoyaltyTransaction, error) {
	var out []*model.LoyaltyTransaction
	for _, txn := range f.txns {
		if txn.UserID == userID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeLoyaltyRepo) GetUnconsumedCouponByUser(ctx context.Context, userID uuid.UUID) (*model.DiscountCoupon, error) {
	for _, c := range f.coupons {
		if c.UserID == userID && !c.Consumed {
			return c, nil
		}
	}
	return nil, model.ErrCouponNotFound
}

func (f *fakeLoyaltyRepo) GetUnconsumedCouponByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.DiscountCoupon, error) {
	return f.GetUnconsumedCouponByUser(ctx, userID)
}

func (f *fakeLoyaltyRepo) GetCouponByCode(ctx context.Context, code string) (*model.DiscountCoupon, error) {
	if c, ok := f.coupons[code]; ok {
		return c, nil
	}
	return nil, model.ErrCouponNotFound
}

func (f *fakeLoyaltyRepo) InsertCouponWithTx(ctx context.Context, tx pgx.Tx, coupon *model.DiscountCoupon) error {
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	f.coupons[coupon.Code] = coupon
	return nil
}

func (f *fakeLoyaltyRepo) ConsumeCouponWithTx(ctx context.Context, tx pgx.Tx, code string) (*model.DiscountCoupon, error) {
	c, ok := f.coupons[code]
	if !ok {
		return nil, model.ErrCouponNotFound
	}
	if c.Consumed {
		return nil, model.ErrCouponAlreadyUsed
	}
	c.Consumed = true
	return c, nil
}

func newTestLoyaltyService(userID uuid.UUID) (Service, *fakeLoyaltyRepo, *fakeOrderLookup) {
	repo := newFakeLoyaltyRepo()
	customers := &fakeCustomerRepo{ids: map[uuid.UUID]bool{userID: true}}
	orders := &fakeOrderLookup{usedCodes: make(map[string]bool)}
	return NewLoyaltyService(repo, customers, orders), repo, orders
}

func TestEarnPointsFromOrder(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()
	svc, repo, _ := newTestLoyaltyService(userID)

	err := svc.EarnPointsFromOrder(context.Background(), userID, orderID, decimal.NewFromInt(1250))
	require.NoError(t, err)

	account := repo.accounts[userID]
	require.NotNil(t, account)
	assert.Equal(t, 12, account.PointsBalance)
	assert.Equal(t, 12, account.TotalEarned)

	require.Len(t, repo.txns, 1)
	assert.Equal(t, model.TransactionEarned, repo.txns[0].Type)
	assert.Equal(t, 12, repo.txns[0].Points)
}

func TestEarnPointsFloorsFractionalHundreds(t *testing.T) {
	userID := uuid.New()
	svc, repo, _ := newTestLoyaltyService(userID)

	err := svc.EarnPointsFromOrder(context.Background(), userID, uuid.New(), decimal.RequireFromString("199.99"))
	require.NoError(t, err)

	assert.Equal(t, 1, repo.accounts[userID].PointsBalance)
}

func TestEarnPointsSmallOrderIsNoop(t *testing.T) {
	userID := uuid.New()
	svc, repo, _ := newTestLoyaltyService(userID)

	err := svc.EarnPointsFromOrder(context.Background(), userID, uuid.New(), decimal.NewFromInt(99))
	require.NoError(t, err)

	assert.Empty(t, repo.accounts)
	assert.Empty(t, repo.txns)
}

func TestEarnPointsIsIdempotentPerOrder(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()
	svc, repo, _ := newTestLoyaltyService(userID)

	require.NoError(t, svc.EarnPointsFromOrder(context.Background(), userID, orderID, decimal.NewFromInt(500)))
	require.NoError(t, svc.EarnPointsFromOrder(context.Background(), userID, orderID, decimal.NewFromInt(500)))

	assert.Equal(t, 5, repo.accounts[userID].PointsBalance)
	assert.Len(t, repo.txns, 1)
}

func TestEarnPointsUnknownCustomer(t *testing.T) {
	svc, _, _ := newTestLoyaltyService(uuid.New())

	err := svc.EarnPointsFromOrder(context.Background(), uuid.New(), uuid.New(), decimal.NewFromInt(500))
	assert.ErrorIs(t, err, customermodel.ErrCustomerNotFound)
}

func TestRedeemReward(t *testing.T) {
	userID := uuid.New()
	svc, repo, _ := newTestLoyaltyService(userID)

	require.NoError(t, svc.EarnPointsFromOrder(context.Background(), userID, uuid.New(), decimal.NewFromInt(20000)))

	coupon, err := svc.RedeemReward(context.Background(), userID, model.RedeemRequest{Points: 150, RewardName: "₹150 Off Coupon"})
	require.NoError(t, err)

	assert.True(t, model.ValidCouponCode(coupon.Code))
	assert.True(t, coupon.DiscountAmount.Equal(decimal.NewFromInt(150)))
	assert.True(t, coupon.MinimumOrderAmount.Equal(decimal.NewFromInt(500)))
	assert.False(t, coupon.Consumed)

	assert.Equal(t, 50, repo.accounts[userID].PointsBalance)
	// Earned total is untouched by redemption.
	assert.Equal(t, 200, repo.accounts[userID].TotalEarned)
}

func TestRedeemRewardInvalidTier(t *testing.T) {
	userID := uuid.New()
	svc, _, _ := newTestLoyaltyService(userID)

	_, err := svc.RedeemReward(context.Background(), userID, model.RedeemRequest{Points: 75, RewardName: "bogus"})
	assert.Error(t, err)
}

func TestRedeemRewardInsufficientPoints(t *testing.T) {
	userID := uuid.New()
	svc, _, _ := newTestLoyaltyService(userID)

	require.NoError(t, svc.EarnPointsFromOrder(context.Background(), userID, uuid.New(), decimal.NewFromInt(4900)))

	_, err := svc.RedeemReward(context.Background(), userID, model.RedeemRequest{Points: 50, RewardName: "₹50 Off Coupon"})
	assert.ErrorIs(t, err, model.ErrInsufficientPoints)
}

func TestRedeemRewardOneActiveCoupon(t *testing.T) {
	userID := uuid.New()
	svc, _, _ := newTestLoyaltyService(userID)

	require.NoError(t, svc.EarnPointsFromOrder(context.Background(), userID, uuid.New(), decimal.NewFromInt(50000)))

	_, err := svc.RedeemReward(context.Background(), userID, model.RedeemRequest{Points: 50, RewardName: "₹50 Off Coupon"})
	require.NoError(t, err)

	_, err = svc.RedeemReward(context.Background(), userID, model.RedeemRequest{Points: 50, RewardName: "₹50 Off Coupon"})
	assert.ErrorIs(t, err, model.ErrActiveCouponExists)
}

func TestValidateCoupon(t *testing.T) {
	userID := uuid.New()
	svc, repo, orders := newTestLoyaltyService(userID)

	coupon := &model.DiscountCoupon{
		Code:               "REWARD-50OFF-1700000000000",
		UserID:             userID,
		DiscountAmount:     decimal.NewFromInt(50),
		MinimumOrderAmount: decimal.NewFromInt(500),
	}
	repo.coupons[coupon.Code] = coupon

	result, err := svc.ValidateCoupon(context.Background(), coupon.Code, decimal.NewFromInt(600))
	require.NoError(t, err)
	assert.Equal(t, coupon.Code, result.Code)
	assert.True(t, result.DiscountAmount.Equal(decimal.NewFromInt(50)))

	_, err = svc.ValidateCoupon(context.Background(), coupon.Code, decimal.NewFromInt(400))
	assert.ErrorIs(t, err, model.ErrCouponBelowMinimum)

	_, err = svc.ValidateCoupon(context.Background(), "not-a-coupon", decimal.NewFromInt(600))
	assert.ErrorIs(t, err, model.ErrInvalidCouponFormat)

	_, err = svc.ValidateCoupon(context.Background(), "REWARD-99OFF-1", decimal.NewFromInt(600))
	assert.ErrorIs(t, err, model.ErrCouponNotFound)

	// An order already carrying the code spends it even before the
	// consumed flag is set.
	orders.usedCodes[coupon.Code] = true
	_, err = svc.ValidateCoupon(context.Background(), coupon.Code, decimal.NewFromInt(600))
	assert.ErrorIs(t, err, model.ErrCouponAlreadyUsed)

	coupon.Consumed = true
	orders.usedCodes[coupon.Code] = false
	_, err = svc.ValidateCoupon(context.Background(), coupon.Code, decimal.NewFromInt(600))
	assert.ErrorIs(t, err, model.ErrCouponAlreadyUsed)
}

func TestConsumeCouponWithTx(t *testing.T) {
	userID := uuid.New()
	svc, repo, _ := newTestLoyaltyService(userID)

	code := "REWARD-150OFF-1700000000000"
	repo.coupons[code] = &model.DiscountCoupon{
		Code:               code,
		UserID:             userID,
		DiscountAmount:     decimal.NewFromInt(150),
		MinimumOrderAmount: decimal.NewFromInt(500),
	}

	coupon, err := svc.ConsumeCouponWithTx(context.Background(), repo.tx, code, decimal.NewFromInt(800))
	require.NoError(t, err)
	assert.True(t, coupon.Consumed)

	_, err = svc.ConsumeCouponWithTx(context.Background(), repo.tx, code, decimal.NewFromInt(800))
	assert.ErrorIs(t, err, model.ErrCouponAlreadyUsed)
}

func TestConsumeCouponBelowMinimum(t *testing.T) {
	userID := uuid.New()
	svc, repo, _ := newTestLoyaltyService(userID)

	code := "REWARD-500OFF-1700000000000"
	repo.coupons[code] = &model.DiscountCoupon{
		Code:               code,
		UserID:             userID,
		DiscountAmount:     decimal.NewFromInt(500),
		MinimumOrderAmount: decimal.NewFromInt(750),
	}

	_, err := svc.ConsumeCouponWithTx(context.Background(), repo.tx, code, decimal.NewFromInt(700))
	assert.ErrorIs(t, err, model.ErrCouponBelowMinimum)
}

func TestGetActiveCouponNoneIsNotAnError(t *testing.T) {
	userID := uuid.New()
	svc, _, _ := newTestLoyaltyService(userID)

	coupon, err := svc.GetActiveCoupon(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, coupon)
}
