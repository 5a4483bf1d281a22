package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	customermodel "shopsphere-backend/internal/domains/customer/model"
	customerrepo "shopsphere-backend/internal/domains/customer/repository"
	"shopsphere-backend/internal/domains/loyalty/model"
	"shopsphere-backend/internal/domains/loyalty/repository"
	"shopsphere-backend/pkg/logger"
)

const recentTransactionLimit = 20

type loyaltyService struct {
	repo      repository.Repository
	customers customerrepo.Repository
	orders    OrderLookup
}

func NewLoyaltyService(repo repository.Repository, customers customerrepo.Repository, orders OrderLookup) Service {
	return &loyaltyService{repo: repo, customers: customers, orders: orders}
}

// GetOrCreateAccount lazily opens the account on first touch. The
// customer must exist; points never attach to unknown users.
func (s *loyaltyService) GetOrCreateAccount(ctx context.Context, userID uuid.UUID) (*model.LoyaltyAccount, error) {
	exists, err := s.customers.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, customermodel.ErrCustomerNotFound
	}

	if err := s.repo.CreateAccountIfAbsent(ctx, userID); err != nil {
		return nil, err
	}

	return s.repo.GetAccountByUserID(ctx, userID)
}

func (s *loyaltyService) GetAccountDetails(ctx context.Context, userID uuid.UUID) (*model.AccountDetails, error) {
	account, err := s.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	txns, err := s.repo.ListTransactionsByUser(ctx, userID, recentTransactionLimit)
	if err != nil {
		return nil, err
	}

	return &model.AccountDetails{Account: account, RecentTransactions: txns}, nil
}

func (s *loyaltyService) EarnPointsFromOrder(ctx context.Context, userID, orderID uuid.UUID, amount decimal.Decimal) error {
	// 1. floor(amount / 100), nothing to do for small orders
	points := int(amount.IntPart() / model.PointsPerHundred)
	if points <= 0 {
		return nil
	}

	if _, err := s.GetOrCreateAccount(ctx, userID); err != nil {
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// 2. Idempotency: one EARNED row per order
	accrued, err := s.repo.HasTransactionForOrderWithTx(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if accrued {
		return nil
	}

	// 3. Lock the account row, then move balance and ledger together
	if _, err := s.repo.GetAccountByUserIDForUpdateTx(ctx, tx, userID); err != nil {
		return err
	}

	if err := s.repo.UpdateAccountBalanceWithTx(ctx, tx, userID, points, points); err != nil {
		return err
	}

	err = s.repo.InsertTransactionWithTx(ctx, tx, &model.LoyaltyTransaction{
		UserID:      userID,
		OrderID:     &orderID,
		Points:      points,
		Type:        model.TransactionEarned,
		Description: fmt.Sprintf("Earned from order %s", orderID),
	})
	if err != nil {
		// The unique index caught a concurrent accrual of the same
		// order. Already done, not a failure.
		if errors.Is(err, model.ErrDuplicateAccrual) {
			return nil
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	logger.Info("loyalty points accrued", map[string]interface{}{
		"userId":  userID,
		"orderId": orderID,
		"points":  points,
	})

	return nil
}

func (s *loyaltyService) RedeemReward(ctx context.Context, userID uuid.UUID, req model.RedeemRequest) (*model.DiscountCoupon, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tier, ok := model.RewardTiers[req.Points]
	if !ok {
		return nil, model.ErrInvalidRewardTier
	}

	if _, err := s.GetOrCreateAccount(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 1. One unconsumed coupon per user at a time
	_, err = s.repo.GetUnconsumedCouponByUserWithTx(ctx, tx, userID)
	if err == nil {
		return nil, model.ErrActiveCouponExists
	}
	if !errors.Is(err, model.ErrCouponNotFound) {
		return nil, err
	}

	// 2. Lock the balance row and deduct; the balance guard in the
	// update surfaces ErrInsufficientPoints
	account, err := s.repo.GetAccountByUserIDForUpdateTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if account.PointsBalance < req.Points {
		return nil, model.ErrInsufficientPoints
	}

	if err := s.repo.UpdateAccountBalanceWithTx(ctx, tx, userID, -req.Points, 0); err != nil {
		return nil, err
	}

	// 3. Mint the coupon and record the redemption
	coupon := &model.DiscountCoupon{
		Code:               model.NewCouponCode(tier.DiscountAmount, time.Now()),
		UserID:             userID,
		DiscountAmount:     tier.DiscountAmount,
		MinimumOrderAmount: tier.MinimumOrderAmount,
	}
	if err := s.repo.InsertCouponWithTx(ctx, tx, coupon); err != nil {
		return nil, err
	}

	err = s.repo.InsertTransactionWithTx(ctx, tx, &model.LoyaltyTransaction{
		UserID:      userID,
		Points:      -req.Points,
		Type:        model.TransactionRedeemed,
		Description: fmt.Sprintf("Redeemed: %s (Code: %s)", req.RewardName, coupon.Code),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.repo.GetCouponByCode(ctx, coupon.Code)
}

func (s *loyaltyService) GetActiveCoupon(ctx context.Context, userID uuid.UUID) (*model.DiscountCoupon, error) {
	coupon, err := s.repo.GetUnconsumedCouponByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrCouponNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return coupon, nil
}

func (s *loyaltyService) ValidateCoupon(ctx context.Context, code string, orderTotal decimal.Decimal) (*model.CouponValidation, error) {
	if !model.ValidCouponCode(code) {
		return nil, model.ErrInvalidCouponFormat
	}

	coupon, err := s.repo.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if coupon.Consumed {
		return nil, model.ErrCouponAlreadyUsed
	}

	// Belt and braces: an order carrying the code means it is spent
	// even if the consumed flag lags.
	used, err := s.orders.DiscountCodeUsed(ctx, code)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, model.ErrCouponAlreadyUsed
	}

	if orderTotal.LessThan(coupon.MinimumOrderAmount) {
		return nil, model.ErrCouponBelowMinimum
	}

	return &model.CouponValidation{
		Code:               coupon.Code,
		DiscountAmount:     coupon.DiscountAmount,
		MinimumOrderAmount: coupon.MinimumOrderAmount,
	}, nil
}

func (s *loyaltyService) ConsumeCouponWithTx(ctx context.Context, tx pgx.Tx, code string, orderTotal decimal.Decimal) (*model.DiscountCoupon, error) {
	if !model.ValidCouponCode(code) {
		return nil, model.ErrInvalidCouponFormat
	}

	coupon, err := s.repo.ConsumeCouponWithTx(ctx, tx, code)
	if err != nil {
		return nil, err
	}

	// A rollback by the caller leaves the coupon unconsumed.
	if orderTotal.LessThan(coupon.MinimumOrderAmount) {
		return nil, model.ErrCouponBelowMinimum
	}

	return coupon, nil
}

func (s *loyaltyService) ListAccounts(ctx context.Context) ([]*model.LoyaltyAccount, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *loyaltyService) GetProgramStats(ctx context.Context) (*model.ProgramStats, error) {
	return s.repo.GetProgramStats(ctx)
}
