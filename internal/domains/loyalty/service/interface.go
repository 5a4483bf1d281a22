package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"shopsphere-backend/internal/domains/loyalty/model"
)

type Service interface {
	GetOrCreateAccount(ctx context.Context, userID uuid.UUID) (*model.LoyaltyAccount, error)
	GetAccountDetails(ctx context.Context, userID uuid.UUID) (*model.AccountDetails, error)

	// EarnPointsFromOrder awards floor(amount/100) points. Idempotent
	// per order; a second delivery of the same order is a no-op.
	EarnPointsFromOrder(ctx context.Context, userID, orderID uuid.UUID, amount decimal.Decimal) error

	RedeemReward(ctx context.Context, userID uuid.UUID, req model.RedeemRequest) (*model.DiscountCoupon, error)

	// GetActiveCoupon returns the first unconsumed coupon, or nil when
	// the user has none.
	GetActiveCoupon(ctx context.Context, userID uuid.UUID) (*model.DiscountCoupon, error)

	ValidateCoupon(ctx context.Context, code string, orderTotal decimal.Decimal) (*model.CouponValidation, error)

	// ConsumeCouponWithTx marks the coupon spent inside the caller's
	// transaction so a failed order leaves it unconsumed.
	ConsumeCouponWithTx(ctx context.Context, tx pgx.Tx, code string, orderTotal decimal.Decimal) (*model.DiscountCoupon, error)

	ListAccounts(ctx context.Context) ([]*model.LoyaltyAccount, error)
	GetProgramStats(ctx context.Context) (*model.ProgramStats, error)
}

// OrderLookup is the slice of the order domain this service needs.
// Declared here so the dependency points one way only.
type OrderLookup interface {
	DiscountCodeUsed(ctx context.Context, code string) (bool, error)
}
