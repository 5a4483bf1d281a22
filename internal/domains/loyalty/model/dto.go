package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

type RedeemRequest struct {
	Points     int    `json:"points"`
	RewardName string `json:"rewardName"`
}

func (r RedeemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Points, validation.Required, validation.In(50, 150, 500)),
		validation.Field(&r.RewardName, validation.Required, validation.Length(1, 100)),
	)
}

type ValidateCouponRequest struct {
	Code       string          `json:"code"`
	OrderTotal decimal.Decimal `json:"orderTotal"`
}

func (r ValidateCouponRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required),
		validation.Field(&r.OrderTotal, validation.By(func(interface{}) error {
			if r.OrderTotal.IsNegative() {
				return validation.NewError("validation_order_total", "must be non-negative")
			}
			return nil
		})),
	)
}
