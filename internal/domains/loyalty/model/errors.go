package model

import "errors"

var (
	ErrAccountNotFound     = errors.New("loyalty account not found")
	ErrInsufficientPoints  = errors.New("insufficient points balance")
	ErrActiveCouponExists  = errors.New("an unconsumed coupon already exists")
	ErrInvalidRewardTier   = errors.New("points do not match a reward tier")
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponAlreadyUsed   = errors.New("coupon already used")
	ErrCouponBelowMinimum  = errors.New("order total below coupon minimum")
	ErrInvalidCouponFormat = errors.New("invalid coupon code format")
	// ErrDuplicateAccrual surfaces the unique index on EARNED rows'
	// order_id. Callers treat it as "already done".
	ErrDuplicateAccrual = errors.New("points already accrued for order")
)
