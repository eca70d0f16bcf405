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

// JuryModel handles database operations for the jury scoring context.
type JuryModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewJury creates a new jury model.
func NewJury(db *bun.DB, logger *zap.Logger) *JuryModel {
	return &JuryModel{
		db:     db,
		logger: logger.Named("db_jury"),
	}
}

// GetTier retrieves one tier score for an actor. Returns nil without error
// when the actor has no score for the tier yet.
func (r *JuryModel) GetTier(
	ctx context.Context, actorKey string, tier enum.ScoreTier,
) (*types.JuryScore, error) {
	score := new(types.JuryScore)

	err := r.db.NewSelect().
		Model(score).
		Where("actor_key = ?", actorKey).
		Where("tier = ?", tier).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get jury tier: %w", err)
	}

	return score, nil
}

// GetActorTiers retrieves all tier scores for an actor.
func (r *JuryModel) GetActorTiers(ctx context.Context, actorKey string) ([]*types.JuryScore, error) {
	var scores []*types.JuryScore

	err := r.db.NewSelect().
		Model(&scores).
		Where("actor_key = ?", actorKey).
		Order("tier ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get actor tiers: %w", err)
	}

	return scores, nil
}

// Upsert stores a tier score.
func (r *JuryModel) Upsert(ctx context.Context, score *types.JuryScore) error {
	score.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().
		Model(score).
		On("CONFLICT (actor_key, tier) DO UPDATE").
		Set("score = EXCLUDED.score").
		Set("case_count = EXCLUDED.case_count").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert jury score: %w", err)
	}

	return nil
}
