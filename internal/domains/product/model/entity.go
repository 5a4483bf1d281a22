package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ProductWithStock is the catalog read model. TotalStock is derived
// from the per-store inventory rows, never stored on the product.
type ProductWithStock struct {
	Product
	TotalStock int `json:"totalStock"`
}
