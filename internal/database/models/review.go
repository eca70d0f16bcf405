package models

import (
	"context"
	"fmt"
	"time"

	"github.com/linkdao/reputation/internal/database/types"
	"github.com/linkdao/reputation/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ReviewModel handles database operations for reviews.
type ReviewModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewReview creates a new review model.
func NewReview(db *bun.DB, logger *zap.Logger) *ReviewModel {
	return &ReviewModel{
		db:     db,
		logger: logger.Named("db_review"),
	}
}

// Insert stores a new review. Foreign key violations (unknown reviewee or
// order) propagate as hard failures and roll back the enclosing transaction.
func (r *ReviewModel) Insert(ctx context.Context, db bun.IDB, review *types.Review) error {
	review.CreatedAt = time.Now()

	_, err := db.NewInsert().
		Model(review).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

// GetOrderReviews retrieves the reviews left on an order.
func (r *ReviewModel) GetOrderReviews(ctx context.Context, orderID string) ([]*types.Review, error) {
	var reviews []*types.Review

	err := r.db.NewSelect().
		Model(&reviews).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get order reviews: %w", err)
	}

	return reviews, nil
}

// GetSentimentCounts aggregates review sentiment for an actor as reviewee.
func (r *ReviewModel) GetSentimentCounts(ctx context.Context, revieweeKey string) (types.ReviewCounts, error) {
	var counts types.ReviewCounts

	err := r.db.NewSelect().
		Model((*types.Review)(nil)).
		ColumnExpr("COUNT(*) FILTER (WHERE sentiment = ?) AS positive", enum.ReviewSentimentPositive).
		ColumnExpr("COUNT(*) FILTER (WHERE sentiment = ?) AS negative", enum.ReviewSentimentNegative).
		ColumnExpr("COUNT(*) FILTER (WHERE sentiment = ?) AS neutral", enum.ReviewSentimentNeutral).
		Where("reviewee_key = ?", revieweeKey).
		Scan(ctx, &counts)
	if err != nil {
		return types.ReviewCounts{}, fmt.Errorf("failed to get sentiment counts: %w", err)
	}

	return counts, nil
}
