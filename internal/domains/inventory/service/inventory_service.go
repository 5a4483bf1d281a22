package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shopsphere-backend/internal/domains/inventory/model"
	"shopsphere-backend/internal/domains/inventory/repository"
	"shopsphere-backend/pkg/logger"
)

type inventoryService struct {
	repo repository.Repository
}

func NewInventoryService(repo repository.Repository) Service {
	return &inventoryService{repo: repo}
}

// AllocateForOrder reserves stock for one order line.
//
// IN_STORE orders draw from the requested store only. ONLINE orders
// prefer a single store that can cover the whole quantity, and fall
// back to a greedy split across stores. All candidate rows are locked
// up front; if the line cannot be covered the caller's transaction
// rollback undoes any partial reservation.
func (s *inventoryService) AllocateForOrder(ctx context.Context, tx pgx.Tx, productID uuid.UUID, channel model.SalesChannel, quantity int, requestedStore string, orderID uuid.UUID) ([]model.StockAllocation, error) {
	if !channel.Valid() {
		return nil, model.ErrInvalidChannel
	}

	if channel == model.ChannelInStore {
		if requestedStore == "" {
			return nil, model.ErrStoreRequired
		}
		return s.allocateAtStore(ctx, tx, productID, requestedStore, quantity, orderID)
	}

	return s.allocateOnline(ctx, tx, productID, quantity, orderID)
}

func (s *inventoryService) allocateAtStore(ctx context.Context, tx pgx.Tx, productID uuid.UUID, store string, quantity int, orderID uuid.UUID) ([]model.StockAllocation, error) {
	if err := s.reserve(ctx, tx, productID, store, quantity, orderID); err != nil {
		return nil, err
	}

	return []model.StockAllocation{{StoreLocation: store, Quantity: quantity}}, nil
}

func (s *inventoryService) allocateOnline(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int, orderID uuid.UUID) ([]model.StockAllocation, error) {
	// 1. Lock every row of the product for the rest of the transaction
	records, err := s.repo.ListByProductForUpdateTx(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, model.ErrInventoryNotFound
	}

	usable := records[:0]
	for _, rec := range records {
		if rec.IsAvailable && rec.StockQuantity > 0 {
			usable = append(usable, rec)
		}
	}

	// 2. Prefer a single store that covers the whole line
	for _, rec := range usable {
		if rec.StockQuantity >= quantity {
			return s.allocateAtStore(ctx, tx, productID, rec.StoreLocation, quantity, orderID)
		}
	}

	// 3. Greedy split in store_location order
	var allocations []model.StockAllocation
	remaining := quantity
	for _, rec := range usable {
		if remaining == 0 {
			break
		}

		take := rec.StockQuantity
		if take > remaining {
			take = remaining
		}

		if err := s.reserve(ctx, tx, productID, rec.StoreLocation, take, orderID); err != nil {
			return nil, err
		}

		allocations = append(allocations, model.StockAllocation{
			StoreLocation: rec.StoreLocation,
			Quantity:      take,
		})
		remaining -= take
	}

	if remaining > 0 {
		// The caller's rollback undoes the partial reservations above.
		return nil, model.ErrInsufficientStockAcrossStores
	}

	logger.Info("order line split across stores", map[string]interface{}{
		"orderId":   orderID,
		"productId": productID,
		"stores":    len(allocations),
	})

	return allocations, nil
}

func (s *inventoryService) reserve(ctx context.Context, tx pgx.Tx, productID uuid.UUID, store string, quantity int, orderID uuid.UUID) error {
	if err := s.repo.ReserveStockWithTx(ctx, tx, productID, store, quantity); err != nil {
		return err
	}

	return s.repo.InsertMovementWithTx(ctx, tx, &model.StockMovement{
		ProductID:     productID,
		StoreLocation: store,
		Quantity:      -quantity,
		Reason:        model.MovementReserved,
		OrderID:       &orderID,
	})
}

func (s *inventoryService) ReleaseAllocations(ctx context.Context, tx pgx.Tx, productID uuid.UUID, allocations []model.StockAllocation, orderID uuid.UUID) error {
	for _, alloc := range allocations {
		if err := s.repo.ReleaseStockWithTx(ctx, tx, productID, alloc.StoreLocation, alloc.Quantity); err != nil {
			return err
		}

		err := s.repo.InsertMovementWithTx(ctx, tx, &model.StockMovement{
			ProductID:     productID,
			StoreLocation: alloc.StoreLocation,
			Quantity:      alloc.Quantity,
			Reason:        model.MovementReleased,
			OrderID:       &orderID,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *inventoryService) CheckAvailability(ctx context.Context, productID uuid.UUID, store string, quantity int) (bool, error) {
	inv, err := s.repo.GetByProductAndStore(ctx, productID, store)
	if err != nil {
		if errors.Is(err, model.ErrInventoryNotFound) {
			return false, nil
		}
		return false, err
	}

	return inv.IsAvailable && inv.StockQuantity >= quantity, nil
}

func (s *inventoryService) UpsertInventory(ctx context.Context, req model.UpsertInventoryRequest) (*model.StoreInventory, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	return s.repo.Upsert(ctx, productID, req.StoreLocation, req.StockQuantity, available)
}

// Restock adds stock and writes the audit movement in one transaction.
func (s *inventoryService) Restock(ctx context.Context, req model.RestockRequest) (*model.StoreInventory, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.repo.ReleaseStockWithTx(ctx, tx, productID, req.StoreLocation, req.Quantity); err != nil {
		return nil, err
	}

	err = s.repo.InsertMovementWithTx(ctx, tx, &model.StockMovement{
		ProductID:     productID,
		StoreLocation: req.StoreLocation,
		Quantity:      req.Quantity,
		Reason:        model.MovementRestock,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.repo.GetByProductAndStore(ctx, productID, req.StoreLocation)
}

func (s *inventoryService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*model.StoreInventory, error) {
	return s.repo.ListByProduct(ctx, productID)
}

func (s *inventoryService) ListByStore(ctx context.Context, store string) ([]*model.StoreInventory, error) {
	return s.repo.ListByStore(ctx, store)
}

func (s *inventoryService) ListLowStock(ctx context.Context, threshold int) ([]*model.StoreInventory, error) {
	return s.repo.ListLowStock(ctx, threshold)
}
