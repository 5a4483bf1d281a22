package repository

import (
	"context"

	"github.com/google/uuid"

	"shopsphere-backend/internal/domains/customer/model"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}
