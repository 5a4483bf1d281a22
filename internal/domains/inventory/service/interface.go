package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shopsphere-backend/internal/domains/inventory/model"
)

type Service interface {
	// AllocateForOrder reserves stock for one order line inside the
	// caller's transaction and returns which stores fulfill it.
	AllocateForOrder(ctx context.Context, tx pgx.Tx, productID uuid.UUID, channel model.SalesChannel, quantity int, requestedStore string, orderID uuid.UUID) ([]model.StockAllocation, error)

	// ReleaseAllocations puts reserved stock back, store by store.
	ReleaseAllocations(ctx context.Context, tx pgx.Tx, productID uuid.UUID, allocations []model.StockAllocation, orderID uuid.UUID) error

	CheckAvailability(ctx context.Context, productID uuid.UUID, store string, quantity int) (bool, error)

	UpsertInventory(ctx context.Context, req model.UpsertInventoryRequest) (*model.StoreInventory, error)
	Restock(ctx context.Context, req model.RestockRequest) (*model.StoreInventory, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*model.StoreInventory, error)
	ListByStore(ctx context.Context, store string) ([]*model.StoreInventory, error)
	ListLowStock(ctx context.Context, threshold int) ([]*model.StoreInventory, error)
}
