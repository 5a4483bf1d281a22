package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// One point per 100 rupees of order value, floored.
const PointsPerHundred = 100

type LoyaltyAccount struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	PointsBalance int       `json:"pointsBalance"`
	TotalEarned   int       `json:"totalEarned"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Transaction types.
const (
	TransactionEarned   = "EARNED"
	TransactionRedeemed = "REDEEMED"
)

// LoyaltyTransaction is the append-only points ledger. OrderID is set
// on EARNED rows and carries a unique index, which makes accrual
// idempotent per order.
type LoyaltyTransaction struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	OrderID     *uuid.UUID `json:"orderId,omitempty"`
	Points      int        `json:"points"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// DiscountCoupon is the structured reward record. The order pipeline
// reads discount_amount and minimum_order_amount from here, never from
// display text.
type DiscountCoupon struct {
	ID                 uuid.UUID       `json:"id"`
	Code               string          `json:"code"`
	UserID             uuid.UUID       `json:"userId"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	MinimumOrderAmount decimal.Decimal `json:"minimumOrderAmount"`
	Consumed           bool            `json:"consumed"`
	CreatedAt          time.Time       `json:"createdAt"`
	ConsumedAt         *time.Time      `json:"consumedAt,omitempty"`
}

// RewardTier defines what a redemption of N points buys.
type RewardTier struct {
	DiscountAmount     decimal.Decimal
	MinimumOrderAmount decimal.Decimal
}

// RewardTiers maps redeemable point amounts to their coupon terms.
var RewardTiers = map[int]RewardTier{
	50:  {DiscountAmount: decimal.NewFromInt(50), MinimumOrderAmount: decimal.NewFromInt(500)},
	150: {DiscountAmount: decimal.NewFromInt(150), MinimumOrderAmount: decimal.NewFromInt(500)},
	500: {DiscountAmount: decimal.NewFromInt(500), MinimumOrderAmount: decimal.NewFromInt(750)},
}

// NewCouponCode builds the REWARD-{amount}OFF-{timestamp} code.
func NewCouponCode(discountAmount decimal.Decimal, now time.Time) string {
	return fmt.Sprintf("REWARD-%sOFF-%d", discountAmount.StringFixed(0), now.UnixMilli())
}

var couponAmountPart = regexp.MustCompile(`^[0-9]+OFF$`)

// ValidCouponCode checks the three-part REWARD-{amount}OFF-{timestamp}
// shape without hitting the database.
func ValidCouponCode(code string) bool {
	parts := strings.Split(code, "-")
	return len(parts) == 3 && parts[0] == "REWARD" && couponAmountPart.MatchString(parts[1]) && parts[2] != ""
}

type ProgramStats struct {
	MemberCount         int   `json:"memberCount"`
	PointsInCirculation int64 `json:"pointsInCirculation"`
	TotalPointsEarned   int64 `json:"totalPointsEarned"`
	ActiveCoupons       int   `json:"activeCoupons"`
}

// CouponValidation is what the checkout flow needs to apply a coupon.
type CouponValidation struct {
	Code               string          `json:"code"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	MinimumOrderAmount decimal.Decimal `json:"minimumOrderAmount"`
}

// AccountDetails is the account read model with recent ledger rows.
type AccountDetails struct {
	Account            *LoyaltyAccount       `json:"account"`
	RecentTransactions []*LoyaltyTransaction `json:"recentTransactions"`
}
