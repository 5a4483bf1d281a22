package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inventorymodel "shopsphere-backend/internal/domains/inventory/model"
)

// Order statuses. Orders are born CONFIRMED; there is no draft state.
const (
	StatusConfirmed = "CONFIRMED"
	StatusShipped   = "SHIPPED"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

// statusTransitions is the single source of truth for the lifecycle.
var statusTransitions = map[string][]string{
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

func ValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

func CanTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Payment status as reflected on the order.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
)

type Order struct {
	ID              uuid.UUID       `json:"id"`
	CustomerID      uuid.UUID       `json:"customerId"`
	Channel         string          `json:"channel"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"paymentStatus"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	DiscountCode    *string         `json:"discountCode,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress *string         `json:"shippingAddress,omitempty"`
	StoreLocation   *string         `json:"storeLocation,omitempty"`
	TrackingNumber  *string         `json:"trackingNumber,omitempty"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	Items []*OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots the product at purchase time so later catalog
// edits cannot rewrite history.
type OrderItem struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"orderId"`
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"lineTotal"`

	Allocations []*OrderItemAllocation `json:"allocations,omitempty"`
}

// OrderItemAllocation records which store fulfilled how much of an
// item, so cancellation can release exactly what was reserved.
type OrderItemAllocation struct {
	ID            uuid.UUID `json:"id"`
	OrderItemID   uuid.UUID `json:"orderItemId"`
	StoreLocation string    `json:"storeLocation"`
	Quantity      int       `json:"quantity"`
}

var trackingPrefixes = map[string]string{
	string(inventorymodel.ChannelOnline):  "ONL",
	string(inventorymodel.ChannelInStore): "STR",
}

// NewTrackingNumber builds {channel-prefix}-{order fragment}-{timestamp}.
func NewTrackingNumber(channel string, orderID uuid.UUID, now time.Time) string {
	prefix, ok := trackingPrefixes[channel]
	if !ok {
		prefix = "ORD"
	}
	return fmt.Sprintf("%s-%s-%d", prefix, orderID.String()[:8], now.UnixMilli())
}
