package model

import "errors"

var (
	ErrInventoryNotFound = errors.New("inventory record not found")
	ErrInsufficientStock = errors.New("insufficient stock at store")
	// ErrInsufficientStockAcrossStores means even a split across every
	// store could not cover the requested quantity.
	ErrInsufficientStockAcrossStores = errors.New("insufficient stock across all stores")
	ErrInvalidChannel                = errors.New("invalid sales channel")
	ErrStoreRequired                 = errors.New("store location required for in-store orders")
)
