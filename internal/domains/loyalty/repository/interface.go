package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shopsphere-backend/internal/domains/loyalty/model"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*model.LoyaltyAccount, error)
	GetAccountByUserIDForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.LoyaltyAccount, error)
	CreateAccountIfAbsent(ctx context.Context, userID uuid.UUID) error
	UpdateAccountBalanceWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, pointsDelta, earnedDelta int) error
	ListAccounts(ctx context.Context) ([]*model.LoyaltyAccount, error)
	GetProgramStats(ctx context.Context) (*model.ProgramStats, error)

	InsertTransactionWithTx(ctx context.Context, tx pgx.Tx, txn *model.LoyaltyTransaction) error
	HasTransactionForOrderWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error)
	ListTransactionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.LoyaltyTransaction, error)

	GetUnconsumedCouponByUser(ctx context.Context, userID uuid.UUID) (*model.DiscountCoupon, error)
	GetUnconsumedCouponByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.DiscountCoupon, error)
	GetCouponByCode(ctx context.Context, code string) (*model.DiscountCoupon, error)
	InsertCouponWithTx(ctx context.Context, tx pgx.Tx, coupon *model.DiscountCoupon) error
	// ConsumeCouponWithTx flips consumed=false to true atomically; the
	// guard in the WHERE clause closes the double-spend race.
	ConsumeCouponWithTx(ctx context.Context, tx pgx.Tx, code string) (*model.DiscountCoupon, error)
}
