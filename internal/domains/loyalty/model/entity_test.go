package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewCouponCode(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	code := NewCouponCode(decimal.NewFromInt(150), now)
	assert.Equal(t, "REWARD-150OFF-1700000000000", code)
	assert.True(t, ValidCouponCode(code))
}

func TestValidCouponCode(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{"well formed", "REWARD-50OFF-1700000000000", true},
		{"large amount", "REWARD-500OFF-1", true},
		{"wrong prefix", "COUPON-50OFF-1700000000000", false},
		{"missing amount", "REWARD-OFF-1700000000000", false},
		{"missing timestamp", "REWARD-50OFF-", false},
		{"too few parts", "REWARD-50OFF", false},
		{"too many parts", "REWARD-50OFF-123-456", false},
		{"empty", "", false},
		{"amount not numeric", "REWARD-fiftyOFF-123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidCouponCode(tt.code))
		})
	}
}

func TestRewardTiers(t *testing.T) {
	// 50 and 150 point tiers share the 500 minimum; the 500 point tier
	// requires 750.
	assert.True(t, RewardTiers[50].MinimumOrderAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, RewardTiers[150].MinimumOrderAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, RewardTiers[500].MinimumOrderAmount.Equal(decimal.NewFromInt(750)))

	for points, tier := range RewardTiers {
		assert.True(t, tier.DiscountAmount.Equal(decimal.NewFromInt(int64(points))))
	}
}
