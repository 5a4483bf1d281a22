package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type UpsertInventoryRequest struct {
	ProductID     string `json:"productId"`
	StoreLocation string `json:"storeLocation"`
	StockQuantity int    `json:"stockQuantity"`
	IsAvailable   *bool  `json:"isAvailable"`
}

func (r UpsertInventoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, is.UUID),
		validation.Field(&r.StoreLocation, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.StockQuantity, validation.Min(0)),
	)
}

type RestockRequest struct {
	ProductID     string `json:"productId"`
	StoreLocation string `json:"storeLocation"`
	Quantity      int    `json:"quantity"`
}

func (r RestockRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, is.UUID),
		validation.Field(&r.StoreLocation, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}
