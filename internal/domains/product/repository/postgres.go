package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopsphere-backend/internal/domains/product/model"
	"shopsphere-backend/pkg/cache"
	"shopsphere-backend/pkg/logger"
)

const productCacheTTL = 10 * time.Minute

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) Repository {
	return &postgresRepository{pool: pool, cache: cache}
}

func productCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id)
}

// GetByID reads through the cache. Cache failures degrade to the
// database, never to an error.
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if r.cache != nil {
		var cached model.Product
		found, err := r.cache.Get(ctx, productCacheKey(id), &cached)
		if err != nil {
			logger.Warn("product cache read failed", map[string]interface{}{
				"productId": id, "error": err.Error(),
			})
		} else if found {
			return &cached, nil
		}
	}

	query := `
		SELECT id, name, sku, price, category, is_active, created_at, updated_at
		FROM products
		WHERE id = $1`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.SKU, &p.Price, &p.Category,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, productCacheKey(id), &p, productCacheTTL); err != nil {
			logger.Warn("product cache write failed", map[string]interface{}{
				"productId": id, "error": err.Error(),
			})
		}
	}

	return &p, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*model.Product{}, nil
	}

	query := `
		SELECT id, name, sku, price, category, is_active, created_at, updated_at
		FROM products
		WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by ids: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID]*model.Product, len(ids))
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.SKU, &p.Price, &p.Category,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result[p.ID] = &p
	}

	return result, rows.Err()
}

func (r *postgresRepository) List(ctx context.Context, activeOnly bool) ([]*model.ProductWithStock, error) {
	query := `
		SELECT p.id, p.name, p.sku, p.price, p.category, p.is_active,
		       p.created_at, p.updated_at,
		       COALESCE(SUM(si.stock_quantity), 0) AS total_stock
		FROM products p
		LEFT JOIN store_inventory si ON si.product_id = p.id AND si.is_available
		WHERE ($1 = false OR p.is_active)
		GROUP BY p.id
		ORDER BY p.name ASC`

	rows, err := r.pool.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*model.ProductWithStock
	for rows.Next() {
		var p model.ProductWithStock
		if err := rows.Scan(
			&p.ID, &p.Name, &p.SKU, &p.Price, &p.Category,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt, &p.TotalStock,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}

	return products, rows.Err()
}

// GetTotalStock sums the per-store rows. There is no denormalized
// counter to drift from it.
func (r *postgresRepository) GetTotalStock(ctx context.Context, productID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(SUM(stock_quantity), 0)
		FROM store_inventory
		WHERE product_id = $1 AND is_available`

	var total int
	if err := r.pool.QueryRow(ctx, query, productID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum product stock: %w", err)
	}

	return total, nil
}
