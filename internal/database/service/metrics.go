package service

import (
	"context"
	"fmt"

	"github.com/linkdao/reputation/internal/database/models"
	"github.com/linkdao/reputation/internal/database/types"
	"go.uber.org/zap"
)

// MetricsService recomputes the denormalized counters on reputation records
// from the authoritative transactional tables. The recompute is full, not
// incremental, so it is idempotent and safe to re-run at any time.
type MetricsService struct {
	reputation *models.ReputationModel
	orders     *models.OrderModel
	reviews    *models.ReviewModel
	disputes   *models.DisputeModel
	baseline   float64
	logger     *zap.Logger
}

// NewMetrics creates a new metrics service.
func NewMetrics(
	reputation *models.ReputationModel,
	orders *models.OrderModel,
	reviews *models.ReviewModel,
	disputes *models.DisputeModel,
	baseline float64,
	logger *zap.Logger,
) *MetricsService {
	return &MetricsService{
		reputation: reputation,
		orders:     orders,
		reviews:    reviews,
		disputes:   disputes,
		baseline:   baseline,
		logger:     logger.Named("metrics_service"),
	}
}

// RefreshMetrics overwrites an actor's denormalized counters from aggregate
// queries over orders, reviews, and disputes. An actor with no activity
// simply gets zeroed counters.
func (s *MetricsService) RefreshMetrics(ctx context.Context, actorKey string) (types.ReputationMetrics, error) {
	orderCounts, err := s.orders.GetCounts(ctx, actorKey)
	if err != nil {
		return types.ReputationMetrics{}, fmt.Errorf("failed to aggregate orders: %w", err)
	}

	reviewCounts, err := s.reviews.GetSentimentCounts(ctx, actorKey)
	if err != nil {
		return types.ReputationMetrics{}, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	disputeCounts, err := s.disputes.GetCounts(ctx, actorKey)
	if err != nil {
		return types.ReputationMetrics{}, fmt.Errorf("failed to aggregate disputes: %w", err)
	}

	metrics := types.BuildMetrics(orderCounts, reviewCounts, disputeCounts)

	if err := s.reputation.UpsertMetrics(ctx, actorKey, metrics, s.baseline); err != nil {
		return types.ReputationMetrics{}, err
	}

	s.logger.Debug("Refreshed actor metrics",
		zap.String("actorKey", actorKey),
		zap.Int64("totalTransactions", metrics.TotalTransactions))

	return metrics, nil
}

// RefreshStale refreshes metrics for actors whose records were last
// recalculated before the cutoff, returning how many were processed.
func (s *MetricsService) RefreshStale(ctx context.Context, staleKeys []string) (int, error) {
	refreshed := 0

	for _, actorKey := range staleKeys {
		if _, err := s.RefreshMetrics(ctx, actorKey); err != nil {
			s.logger.Error("Failed to refresh actor metrics",
				zap.String("actorKey", actorKey),
				zap.Error(err))

			continue
		}

		refreshed++
	}

	return refreshed, nil
}
