package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodUPI PaymentMethod = "UPI"
	MethodCOD PaymentMethod = "COD"
)

func (m PaymentMethod) Valid() bool {
	return m == MethodUPI || m == MethodCOD
}

type PaymentStatus string

const (
	StatusInitiated  PaymentStatus = "INITIATED"
	StatusProcessing PaymentStatus = "PROCESSING"
	StatusSuccess    PaymentStatus = "SUCCESS"
	StatusFailed     PaymentStatus = "FAILED"
)

// Payment is one attempt to pay for an order. SUCCESS and FAILED are
// terminal; a failed attempt is replaced by a new row, never reopened.
type Payment struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"orderId"`
	CustomerID    uuid.UUID       `json:"customerId"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	Status        PaymentStatus   `json:"status"`
	TransactionID *string         `json:"transactionId,omitempty"`
	UpiID         *string         `json:"upiId,omitempty"`
	FailureReason *string         `json:"failureReason,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NewTransactionID mimics the gateway reference format.
func NewTransactionID(now time.Time) string {
	return fmt.Sprintf("TXN-%d-%s", now.UnixMilli(), uuid.New().String()[:8])
}
