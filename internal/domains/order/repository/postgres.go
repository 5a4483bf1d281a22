package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopsphere-backend/internal/domains/order/model"
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

const orderColumns = `id, customer_id, channel, status, payment_status, subtotal, discount_amount, discount_code, total_amount, shipping_address, store_location, tracking_number, delivered_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.Channel, &o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.DiscountAmount, &o.DiscountCode, &o.TotalAmount,
		&o.ShippingAddress, &o.StoreLocation, &o.TrackingNumber,
		&o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	// 1. Order header. The UNIQUE index on discount_code closes the
	// window between coupon check and insert.
	orderQuery := `
		INSERT INTO orders (id, customer_id, channel, status, payment_status, subtotal, discount_amount, discount_code, total_amount, shipping_address, store_location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())`

	_, err := tx.Exec(ctx, orderQuery,
		order.ID, order.CustomerID, order.Channel, order.Status, order.PaymentStatus,
		order.Subtotal, order.DiscountAmount, order.DiscountCode, order.TotalAmount,
		order.ShippingAddress, order.StoreLocation,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDiscountCodeUsed
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	// 2. Items and their per-store allocations
	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, product_name, sku, unit_price, quantity, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	allocQuery := `
		INSERT INTO order_item_allocations (id, order_item_id, store_location, quantity)
		VALUES ($1, $2, $3, $4)`

	for _, item := range order.Items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID

		_, err := tx.Exec(ctx, itemQuery,
			item.ID, item.OrderID, item.ProductID, item.ProductName,
			item.SKU, item.UnitPrice, item.Quantity, item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}

		for _, alloc := range item.Allocations {
			if alloc.ID == uuid.Nil {
				alloc.ID = uuid.New()
			}
			alloc.OrderItemID = item.ID

			_, err := tx.Exec(ctx, allocQuery,
				alloc.ID, alloc.OrderItemID, alloc.StoreLocation, alloc.Quantity,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item allocation: %w", err)
			}
		}
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := r.loadItems(ctx, r.pool, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *postgresRepository) GetByIDForUpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 FOR UPDATE`, orderColumns)

	order, err := scanOrder(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	if err := r.loadItems(ctx, tx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// querier lets loadItems run on the pool or inside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *postgresRepository) loadItems(ctx context.Context, q querier, order *model.Order) error {
	itemQuery := `
		SELECT id, order_id, product_id, product_name, sku, unit_price, quantity, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_name ASC`

	rows, err := q.Query(ctx, itemQuery, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID]*model.OrderItem)
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.SKU, &item.UnitPrice, &item.Quantity, &item.LineTotal,
		); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		items[item.ID] = &item
		order.Items = append(order.Items, &item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if len(order.Items) == 0 {
		return nil
	}

	allocQuery := `
		SELECT a.id, a.order_item_id, a.store_location, a.quantity
		FROM order_item_allocations a
		JOIN order_items i ON i.id = a.order_item_id
		WHERE i.order_id = $1
		ORDER BY a.store_location ASC`

	allocRows, err := q.Query(ctx, allocQuery, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load item allocations: %w", err)
	}
	defer allocRows.Close()

	for allocRows.Next() {
		var alloc model.OrderItemAllocation
		if err := allocRows.Scan(&alloc.ID, &alloc.OrderItemID, &alloc.StoreLocation, &alloc.Quantity); err != nil {
			return fmt.Errorf("failed to scan item allocation: %w", err)
		}
		if item, ok := items[alloc.OrderItemID]; ok {
			item.Allocations = append(item.Allocations, &alloc)
		}
	}

	return allocRows.Err()
}

func (r *postgresRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC`, orderColumns)

	return r.queryList(ctx, query, customerID)
}

func (r *postgresRepository) ListByStatus(ctx context.Context, status string) ([]*model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE status = $1
		ORDER BY created_at DESC`, orderColumns)

	return r.queryList(ctx, query, status)
}

func (r *postgresRepository) ListRecent(ctx context.Context, since time.Time) ([]*model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE created_at >= $1
		ORDER BY created_at DESC`, orderColumns)

	return r.queryList(ctx, query, since)
}

func (r *postgresRepository) List(ctx context.Context) ([]*model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY created_at DESC`, orderColumns)

	return r.queryList(ctx, query)
}

func (r *postgresRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]*model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func (r *postgresRepository) UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, trackingNumber *string, deliveredAt *time.Time) error {
	query := `
		UPDATE orders
		SET status = $2,
		    tracking_number = COALESCE($3, tracking_number),
		    delivered_at = COALESCE($4, delivered_at),
		    updated_at = NOW()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, status, trackingNumber, deliveredAt)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

func (r *postgresRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error {
	query := `
		UPDATE orders
		SET payment_status = $2,
		    updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, paymentStatus)
	if err != nil {
		return fmt.Errorf("failed to update order payment status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	return nil
}

func (r *postgresRepository) DiscountCodeUsed(ctx context.Context, code string) (bool, error) {
	var used bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE discount_code = $1)`,
		code,
	).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("failed to check discount code: %w", err)
	}
	return used, nil
}
