package service

import (
	"context"

	"github.com/google/uuid"

	"shopsphere-backend/internal/domains/product/model"
)

type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductWithStock, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]*model.ProductWithStock, error)
}
