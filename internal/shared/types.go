package shared

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Asynq task types. Namespaced by domain.
const (
	TypeLoyaltyAccrual    = "loyalty:accrue_points"
	TypeSweepStalePayment = "payment:sweep_stale_processing"
)

// Asynq queue names.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// LoyaltyAccrualPayload carries the data the worker needs to award
// points for a committed order. The order id doubles as the
// idempotency key.
type LoyaltyAccrualPayload struct {
	UserID      uuid.UUID       `json:"userId"`
	OrderID     uuid.UUID       `json:"orderId"`
	OrderAmount decimal.Decimal `json:"orderAmount"`
}
