package model

import (
	"time"

	"github.com/google/uuid"
)

// SalesChannel decides how stock is picked for an order.
type SalesChannel string

const (
	ChannelOnline  SalesChannel = "ONLINE"
	ChannelInStore SalesChannel = "IN_STORE"
)

func (c SalesChannel) Valid() bool {
	return c == ChannelOnline || c == ChannelInStore
}

// StoreInventory is one product's stock at one store.
// UNIQUE(product_id, store_location); stock_quantity >= 0 is enforced
// by a CHECK constraint as a second line of defense.
type StoreInventory struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"productId"`
	StoreLocation string    `json:"storeLocation"`
	StockQuantity int       `json:"stockQuantity"`
	IsAvailable   bool      `json:"isAvailable"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Movement reasons.
const (
	MovementReserved   = "RESERVED"
	MovementReleased   = "RELEASED"
	MovementRestock    = "RESTOCK"
	MovementAdjustment = "ADJUSTMENT"
)

// StockMovement is the append-only audit trail of stock changes.
// Quantity is signed: negative for reservations, positive for
// releases and restocks.
type StockMovement struct {
	ID            uuid.UUID  `json:"id"`
	ProductID     uuid.UUID  `json:"productId"`
	StoreLocation string     `json:"storeLocation"`
	Quantity      int        `json:"quantity"`
	Reason        string     `json:"reason"`
	OrderID       *uuid.UUID `json:"orderId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// StockAllocation says how much of an order line a store fulfills.
type StockAllocation struct {
	StoreLocation string `json:"storeLocation"`
	Quantity      int    `json:"quantity"`
}
