package service

import (
	"context"

	"github.com/google/uuid"

	"shopsphere-backend/internal/domains/product/model"
	"shopsphere-backend/internal/domains/product/repository"
)

type productService struct {
	repo repository.Repository
}

func NewProductService(repo repository.Repository) Service {
	return &productService{repo: repo}
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductWithStock, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	totalStock, err := s.repo.GetTotalStock(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.ProductWithStock{Product: *product, TotalStock: totalStock}, nil
}

func (s *productService) ListProducts(ctx context.Context, activeOnly bool) ([]*model.ProductWithStock, error) {
	return s.repo.List(ctx, activeOnly)
}
