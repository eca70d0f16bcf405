package migrations

import (
	"context"
	"fmt"

	"github.com/linkdao/reputation/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		rules := []types.ReputationRule{
			{EventType: types.EventTypePositiveReview, ScoreImpact: 2.5, WeightFactor: 1.0, IsActive: true},
			{EventType: types.EventTypeNeutralReview, ScoreImpact: 0.5, WeightFactor: 1.0, IsActive: true},
			{EventType: types.EventTypeNegativeReview, ScoreImpact: -3.0, WeightFactor: 1.0, IsActive: true},
			{EventType: types.EventTypeOrderCompleted, ScoreImpact: 1.0, WeightFactor: 1.0, IsActive: true},
			{EventType: types.EventTypeDisputeOpened, ScoreImpact: -1.5, WeightFactor: 1.0, IsActive: true},
			{EventType: types.EventTypeDisputeResolvedFor, ScoreImpact: 2.0, WeightFactor: 1.0, MaxImpact: 5.0, IsActive: true},
			{EventType: types.EventTypeDisputeResolvedAgainst, ScoreImpact: -5.0, WeightFactor: 1.0, MaxImpact: 10.0, IsActive: true},
		}

		_, err := db.NewInsert().
			Model(&rules).
			On("CONFLICT DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed reputation rules: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDelete().
			Model((*types.ReputationRule)(nil)).
			Where("event_type IN (?, ?, ?, ?, ?, ?, ?)",
				types.EventTypePositiveReview,
				types.EventTypeNeutralReview,
				types.EventTypeNegativeReview,
				types.EventTypeOrderCompleted,
				types.EventTypeDisputeOpened,
				types.EventTypeDisputeResolvedFor,
				types.EventTypeDisputeResolvedAgainst).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to remove seeded reputation rules: %w", err)
		}

		return nil
	})
}
