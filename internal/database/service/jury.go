package service

import (
	"context"
	"fmt"

	"github.com/linkdao/reputation/internal/database/models"
	"github.com/linkdao/reputation/internal/database/types"
	"github.com/linkdao/reputation/internal/database/types/enum"
	"go.uber.org/zap"
)

// JuryService maintains the jury scoring context. Tier scores are unbounded
// running averages and share nothing with the clamped marketplace score.
type JuryService struct {
	model  *models.JuryModel
	logger *zap.Logger
}

// NewJury creates a new jury service.
func NewJury(model *models.JuryModel, logger *zap.Logger) *JuryService {
	return &JuryService{
		model:  model,
		logger: logger.Named("jury_service"),
	}
}

// RecordCaseOutcome folds one case outcome into an actor's tier score,
// creating the tier lazily.
func (s *JuryService) RecordCaseOutcome(
	ctx context.Context, actorKey string, tier enum.ScoreTier, outcome float64,
) (*types.JuryScore, error) {
	score, err := s.model.GetTier(ctx, actorKey, tier)
	if err != nil {
		return nil, err
	}

	if score == nil {
		score = &types.JuryScore{
			ActorKey: actorKey,
			Tier:     tier,
		}
	}

	score.RecordCase(outcome)

	if err := s.model.Upsert(ctx, score); err != nil {
		return nil, fmt.Errorf("failed to record case outcome: %w", err)
	}

	s.logger.Debug("Recorded case outcome",
		zap.String("actorKey", actorKey),
		zap.String("tier", tier.String()),
		zap.Float64("score", score.Score))

	return score, nil
}

// GetActorTiers retrieves all tier scores for an actor.
func (s *JuryService) GetActorTiers(ctx context.Context, actorKey string) ([]*types.JuryScore, error) {
	return s.model.GetActorTiers(ctx, actorKey)
}
