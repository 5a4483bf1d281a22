package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type InitiatePaymentRequest struct {
	OrderID string `json:"orderId"`
	Method  string `json:"method"`
	UpiID   string `json:"upiId"`
}

func (r InitiatePaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderID, validation.Required, is.UUID),
		validation.Field(&r.Method, validation.Required, validation.In(string(MethodUPI), string(MethodCOD))),
		validation.Field(&r.UpiID, validation.When(r.Method == string(MethodUPI), validation.Required)),
	)
}

type ProcessPaymentRequest struct {
	OTP string `json:"otp"`
}

func (r ProcessPaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OTP, validation.Required, validation.Length(6, 6), is.Digit),
	)
}
