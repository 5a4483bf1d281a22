package repository

import (
	"context"

	"github.com/google/uuid"

	"shopsphere-backend/internal/domains/product/model"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error)
	List(ctx context.Context, activeOnly bool) ([]*model.ProductWithStock, error)
	GetTotalStock(ctx context.Context, productID uuid.UUID) (int, error)
}
