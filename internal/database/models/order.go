package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/linkdao/reputation/internal/database/types"
	"github.com/linkdao/reputation/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ErrOrderNotFound indicates the order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// OrderModel handles database operations for marketplace orders.
type OrderModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewOrder creates a new order model.
func NewOrder(db *bun.DB, logger *zap.Logger) *OrderModel {
	return &OrderModel{
		db:     db,
		logger: logger.Named("db_order"),
	}
}

// Insert stores a new order.
func (r *OrderModel) Insert(ctx context.Context, order *types.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(order).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

// Get retrieves an order by ID.
func (r *OrderModel) Get(ctx context.Context, id string) (*types.Order, error) {
	order := new(types.Order)

	err := r.db.NewSelect().
		Model(order).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

// UpdateStatus transitions an order to a new status and returns the updated
// row. The db argument accepts a transaction so the transition commits
// together with any event it produces.
func (r *OrderModel) UpdateStatus(
	ctx context.Context, db bun.IDB, id string, status enum.OrderStatus,
) (*types.Order, error) {
	now := time.Now()

	query := db.NewUpdate().
		Model((*types.Order)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", now).
		Where("id = ?", id)

	if status == enum.OrderStatusCompleted {
		query = query.Set("completed_at = ?", now)
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrOrderNotFound
	}

	order := new(types.Order)

	err = db.NewSelect().
		Model(order).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	return order, nil
}

// GetCounts aggregates order totals for an actor as buyer or seller.
func (r *OrderModel) GetCounts(ctx context.Context, actorKey string) (types.OrderCounts, error) {
	var counts types.OrderCounts

	err := r.db.NewSelect().
		Model((*types.Order)(nil)).
		ColumnExpr("COUNT(*) AS total").
		ColumnExpr("COUNT(*) FILTER (WHERE status = ?) AS completed", enum.OrderStatusCompleted).
		Where("buyer_key = ? OR seller_key = ?", actorKey, actorKey).
		Scan(ctx, &counts)
	if err != nil {
		return types.OrderCounts{}, fmt.Errorf("failed to get order counts: %w", err)
	}

	return counts, nil
}
