package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	inventorymodel "shopsphere-backend/internal/domains/inventory/model"
)

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (r OrderItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, is.UUID),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	Channel         string             `json:"channel"`
	ShippingAddress string             `json:"shippingAddress"`
	StoreLocation   string             `json:"storeLocation"`
	DiscountCode    string             `json:"discountCode"`
}

func (r CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Items, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Channel, validation.Required, validation.In(
			string(inventorymodel.ChannelOnline),
			string(inventorymodel.ChannelInStore),
		)),
		validation.Field(&r.ShippingAddress,
			validation.When(r.Channel == string(inventorymodel.ChannelOnline), validation.Required),
		),
		validation.Field(&r.StoreLocation,
			validation.When(r.Channel == string(inventorymodel.ChannelInStore), validation.Required),
		),
	)
}

type UpdateStatusRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			StatusShipped, StatusDelivered, StatusCancelled,
		)),
	)
}
