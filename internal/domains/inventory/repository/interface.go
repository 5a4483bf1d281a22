package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shopsphere-backend/internal/domains/inventory/model"
)

type Repository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)

	GetByProductAndStore(ctx context.Context, productID uuid.UUID, store string) (*model.StoreInventory, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*model.StoreInventory, error)
	ListByStore(ctx context.Context, store string) ([]*model.StoreInventory, error)
	ListLowStock(ctx context.Context, threshold int) ([]*model.StoreInventory, error)

	// ListByProductForUpdateTx locks the product's rows for the length
	// of the transaction, in store_location order.
	ListByProductForUpdateTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID) ([]*model.StoreInventory, error)
	ExistsByProductWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (bool, error)

	ReserveStockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, store string, quantity int) error
	ReleaseStockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, store string, quantity int) error
	InsertMovementWithTx(ctx context.Context, tx pgx.Tx, movement *model.StockMovement) error

	Upsert(ctx context.Context, productID uuid.UUID, store string, quantity int, available bool) (*model.StoreInventory, error)
}
