package model

import "errors"

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvalidPaymentState  = errors.New("payment is not in a state that allows this operation")
	ErrPaymentAlreadyExists = errors.New("an active payment already exists for this order")
	ErrOrderNotDelivered    = errors.New("cash on delivery settles only after delivery")
	ErrNotOrderOwner        = errors.New("payment does not belong to this customer's order")
)
