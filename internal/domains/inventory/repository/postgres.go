package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopsphere-backend/internal/domains/inventory/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

const inventoryColumns = `id, product_id, store_location, stock_quantity, is_available, created_at, updated_at`

func scanInventory(row pgx.Row) (*model.StoreInventory, error) {
	var inv model.StoreInventory
	err := row.Scan(
		&inv.ID, &inv.ProductID, &inv.StoreLocation, &inv.StockQuantity,
		&inv.IsAvailable, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *postgresRepository) GetByProductAndStore(ctx context.Context, productID uuid.UUID, store string) (*model.StoreInventory, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM store_inventory
		WHERE product_id = $1 AND store_location = $2`, inventoryColumns)

	inv, err := scanInventory(r.pool.QueryRow(ctx, query, productID, store))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrInventoryNotFound
		}
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}

	return inv, nil
}

func (r *postgresRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*model.StoreInventory, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM store_inventory
		WHERE product_id = $1
		ORDER BY store_location ASC`, inventoryColumns)

	return r.queryList(ctx, query, productID)
}

func (r *postgresRepository) ListByStore(ctx context.Context, store string) ([]*model.StoreInventory, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM store_inventory
		WHERE store_location = $1
		ORDER BY product_id ASC`, inventoryColumns)

	return r.queryList(ctx, query, store)
}

func (r *postgresRepository) ListLowStock(ctx context.Context, threshold int) ([]*model.StoreInventory, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM store_inventory
		WHERE stock_quantity <= $1 AND is_available
		ORDER BY stock_quantity ASC, store_location ASC`, inventoryColumns)

	return r.queryList(ctx, query, threshold)
}

func (r *postgresRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]*model.StoreInventory, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var records []*model.StoreInventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory: %w", err)
		}
		records = append(records, inv)
	}

	return records, rows.Err()
}

// ListByProductForUpdateTx locks every row of the product so the
// allocation decision cannot race a concurrent order. The fixed
// store_location order keeps lock acquisition deadlock-free.
func (r *postgresRepository) ListByProductForUpdateTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID) ([]*model.StoreInventory, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM store_inventory
		WHERE product_id = $1
		ORDER BY store_location ASC
		FOR UPDATE`, inventoryColumns)

	rows, err := tx.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory rows: %w", err)
	}
	defer rows.Close()

	var records []*model.StoreInventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory: %w", err)
		}
		records = append(records, inv)
	}

	return records, rows.Err()
}

func (r *postgresRepository) ExistsByProductWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM store_inventory WHERE product_id = $1)`,
		productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check inventory existence: %w", err)
	}
	return exists, nil
}

// ReserveStockWithTx decrements atomically. The WHERE clause carries
// the stock guard so a concurrent reservation can never drive the
// quantity negative.
func (r *postgresRepository) ReserveStockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, store string, quantity int) error {
	query := `
		UPDATE store_inventory
		SET stock_quantity = stock_quantity - $3,
		    updated_at = NOW()
		WHERE product_id = $1
		  AND store_location = $2
		  AND is_available
		  AND stock_quantity >= $3`

	tag, err := tx.Exec(ctx, query, productID, store, quantity)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish a missing record from a short one.
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM store_inventory WHERE product_id = $1 AND store_location = $2)`,
			productID, store,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check inventory existence: %w", err)
		}
		if !exists {
			return model.ErrInventoryNotFound
		}
		return model.ErrInsufficientStock
	}

	return nil
}

func (r *postgresRepository) ReleaseStockWithTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, store string, quantity int) error {
	query := `
		UPDATE store_inventory
		SET stock_quantity = stock_quantity + $3,
		    updated_at = NOW()
		WHERE product_id = $1 AND store_location = $2`

	tag, err := tx.Exec(ctx, query, productID, store, quantity)
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrInventoryNotFound
	}

	return nil
}

func (r *postgresRepository) InsertMovementWithTx(ctx context.Context, tx pgx.Tx, movement *model.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, store_location, quantity, reason, order_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}

	_, err := tx.Exec(ctx, query,
		movement.ID, movement.ProductID, movement.StoreLocation,
		movement.Quantity, movement.Reason, movement.OrderID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert stock movement: %w", err)
	}

	return nil
}

func (r *postgresRepository) Upsert(ctx context.Context, productID uuid.UUID, store string, quantity int, available bool) (*model.StoreInventory, error) {
	query := fmt.Sprintf(`
		INSERT INTO store_inventory (id, product_id, store_location, stock_quantity, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (product_id, store_location)
		DO UPDATE SET stock_quantity = EXCLUDED.stock_quantity,
		              is_available = EXCLUDED.is_available,
		              updated_at = NOW()
		RETURNING %s`, inventoryColumns)

	inv, err := scanInventory(r.pool.QueryRow(ctx, query, uuid.New(), productID, store, quantity, available))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert inventory: %w", err)
	}

	return inv, nil
}

