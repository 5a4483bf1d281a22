package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopsphere-backend/internal/domains/loyalty/model"
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

const accountColumns = `id, user_id, points_balance, total_earned, created_at, updated_at`

func scanAccount(row pgx.Row) (*model.LoyaltyAccount, error) {
	var a model.LoyaltyAccount
	err := row.Scan(&a.ID, &a.UserID, &a.PointsBalance, &a.TotalEarned, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepository) GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*model.LoyaltyAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM loyalty_accounts WHERE user_id = $1`, accountColumns)

	account, err := scanAccount(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get loyalty account: %w", err)
	}

	return account, nil
}

func (r *postgresRepository) GetAccountByUserIDForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.LoyaltyAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM loyalty_accounts WHERE user_id = $1 FOR UPDATE`, accountColumns)

	account, err := scanAccount(tx.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock loyalty account: %w", err)
	}

	return account, nil
}

func (r *postgresRepository) CreateAccountIfAbsent(ctx context.Context, userID uuid.UUID) error {
	query := `
		INSERT INTO loyalty_accounts (id, user_id, points_balance, total_earned, created_at, updated_at)
		VALUES ($1, $2, 0, 0, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, uuid.New(), userID); err != nil {
		return fmt.Errorf("failed to create loyalty account: %w", err)
	}

	return nil
}

func (r *postgresRepository) UpdateAccountBalanceWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, pointsDelta, earnedDelta int) error {
	query := `
		UPDATE loyalty_accounts
		SET points_balance = points_balance + $2,
		    total_earned = total_earned + $3,
		    updated_at = NOW()
		WHERE user_id = $1 AND points_balance + $2 >= 0`

	tag, err := tx.Exec(ctx, query, userID, pointsDelta, earnedDelta)
	if err != nil {
		return fmt.Errorf("failed to update loyalty balance: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrInsufficientPoints
	}

	return nil
}

func (r *postgresRepository) ListAccounts(ctx context.Context) ([]*model.LoyaltyAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM loyalty_accounts ORDER BY created_at DESC`, accountColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list loyalty accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*model.LoyaltyAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loyalty account: %w", err)
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func (r *postgresRepository) GetProgramStats(ctx context.Context) (*model.ProgramStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM loyalty_accounts),
			(SELECT COALESCE(SUM(points_balance), 0) FROM loyalty_accounts),
			(SELECT COALESCE(SUM(total_earned), 0) FROM loyalty_accounts),
			(SELECT COUNT(*) FROM discount_coupons WHERE NOT consumed)`

	var stats model.ProgramStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.MemberCount, &stats.PointsInCirculation,
		&stats.TotalPointsEarned, &stats.ActiveCoupons,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get program stats: %w", err)
	}

	return &stats, nil
}

func (r *postgresRepository) InsertTransactionWithTx(ctx context.Context, tx pgx.Tx, txn *model.LoyaltyTransaction) error {
	query := `
		INSERT INTO loyalty_transactions (id, user_id, order_id, points, type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}

	_, err := tx.Exec(ctx, query,
		txn.ID, txn.UserID, txn.OrderID, txn.Points, txn.Type, txn.Description,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateAccrual
		}
		return fmt.Errorf("failed to insert loyalty transaction: %w", err)
	}

	return nil
}

func (r *postgresRepository) HasTransactionForOrderWithTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM loyalty_transactions WHERE order_id = $1)`,
		orderID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check accrual: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ListTransactionsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.LoyaltyTransaction, error) {
	query := `
		SELECT id, user_id, order_id, points, type, description, created_at
		FROM loyalty_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list loyalty transactions: %w", err)
	}
	defer rows.Close()

	var txns []*model.LoyaltyTransaction
	for rows.Next() {
		var t model.LoyaltyTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.OrderID, &t.Points, &t.Type, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan loyalty transaction: %w", err)
		}
		txns = append(txns, &t)
	}

	return txns, rows.Err()
}

const couponColumns = `id, code, user_id, discount_amount, minimum_order_amount, consumed, created_at, consumed_at`

func scanCoupon(row pgx.Row) (*model.DiscountCoupon, error) {
	var c model.DiscountCoupon
	err := row.Scan(
		&c.ID, &c.Code, &c.UserID, &c.DiscountAmount, &c.MinimumOrderAmount,
		&c.Consumed, &c.CreatedAt, &c.ConsumedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) GetUnconsumedCouponByUser(ctx context.Context, userID uuid.UUID) (*model.DiscountCoupon, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM discount_coupons
		WHERE user_id = $1 AND NOT consumed
		ORDER BY created_at ASC
		LIMIT 1`, couponColumns)

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get active coupon: %w", err)
	}

	return coupon, nil
}

func (r *postgresRepository) GetUnconsumedCouponByUserWithTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*model.DiscountCoupon, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM discount_coupons
		WHERE user_id = $1 AND NOT consumed
		ORDER BY created_at ASC
		LIMIT 1`, couponColumns)

	coupon, err := scanCoupon(tx.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get active coupon: %w", err)
	}

	return coupon, nil
}

func (r *postgresRepository) GetCouponByCode(ctx context.Context, code string) (*model.DiscountCoupon, error) {
	query := fmt.Sprintf(`SELECT %s FROM discount_coupons WHERE code = $1`, couponColumns)

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return coupon, nil
}

func (r *postgresRepository) InsertCouponWithTx(ctx context.Context, tx pgx.Tx, coupon *model.DiscountCoupon) error {
	query := `
		INSERT INTO discount_coupons (id, code, user_id, discount_amount, minimum_order_amount, consumed, created_at)
		VALUES ($1, $2, $3, $4, $5, false, NOW())`

	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}

	_, err := tx.Exec(ctx, query,
		coupon.ID, coupon.Code, coupon.UserID,
		coupon.DiscountAmount, coupon.MinimumOrderAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert coupon: %w", err)
	}

	return nil
}

func (r *postgresRepository) ConsumeCouponWithTx(ctx context.Context, tx pgx.Tx, code string) (*model.DiscountCoupon, error) {
	query := fmt.Sprintf(`
		UPDATE discount_coupons
		SET consumed = true, consumed_at = NOW()
		WHERE code = $1 AND NOT consumed
		RETURNING %s`, couponColumns)

	coupon, err := scanCoupon(tx.QueryRow(ctx, query, code))
	if err == nil {
		return coupon, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to consume coupon: %w", err)
	}

	// No row flipped: tell a missing coupon apart from a spent one.
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM discount_coupons WHERE code = $1)`, code).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check coupon: %w", err)
	}
	if !exists {
		return nil, model.ErrCouponNotFound
	}
	return nil, model.ErrCouponAlreadyUsed
}
