package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/linkdao/reputation/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ReputationModel handles database operations for reputation records.
type ReputationModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewReputation creates a new reputation model.
func NewReputation(db *bun.DB, logger *zap.Logger) *ReputationModel {
	return &ReputationModel{
		db:     db,
		logger: logger.Named("db_reputation"),
	}
}

// GetRecord retrieves an actor's current reputation record.
// Returns nil without error when the actor has no record yet.
func (r *ReputationModel) GetRecord(ctx context.Context, actorKey string) (*types.ReputationRecord, error) {
	record := new(types.ReputationRecord)

	err := r.db.NewSelect().
		Model(record).
		Where("actor_key = ?", actorKey).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get reputation record: %w", err)
	}

	return record, nil
}

// GetRecordForUpdate loads an actor's record inside a transaction with a row
// lock, so concurrent events for the same actor serialize on the row.
// Returns nil without error when no record exists.
func (r *ReputationModel) GetRecordForUpdate(
	ctx context.Context, tx bun.Tx, actorKey string,
) (*types.ReputationRecord, error) {
	record := new(types.ReputationRecord)

	err := tx.NewSelect().
		Model(record).
		Where("actor_key = ?", actorKey).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to lock reputation record: %w", err)
	}

	return record, nil
}

// CreateRecord inserts a fresh record at the given baseline score. A
// concurrent creation for the same actor is a no-op; callers re-lock the row
// afterwards.
func (r *ReputationModel) CreateRecord(
	ctx context.Context, db bun.IDB, actorKey string, baseline float64,
) error {
	now := time.Now()
	record := &types.ReputationRecord{
		ActorKey:         actorKey,
		Score:            baseline,
		LastRecalculated: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := db.NewInsert().
		Model(record).
		On("CONFLICT (actor_key) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create reputation record: %w", err)
	}

	return nil
}

// UpdateScore persists a new score and bumps the recalculation timestamp.
func (r *ReputationModel) UpdateScore(
	ctx context.Context, db bun.IDB, actorKey string, score float64,
) error {
	now := time.Now()

	_, err := db.NewUpdate().
		Model((*types.ReputationRecord)(nil)).
		Set("score = ?", score).
		Set("last_recalculated = ?", now).
		Set("updated_at = ?", now).
		Where("actor_key = ?", actorKey).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}

	return nil
}

// UpsertMetrics overwrites the denormalized counters for an actor, creating
// the record at the baseline score when it does not exist yet. The score
// itself is left untouched for existing records.
func (r *ReputationModel) UpsertMetrics(
	ctx context.Context, actorKey string, metrics types.ReputationMetrics, baseline float64,
) error {
	now := time.Now()
	record := &types.ReputationRecord{
		ActorKey:          actorKey,
		Score:             baseline,
		TotalTransactions: metrics.TotalTransactions,
		PositiveReviews:   metrics.PositiveReviews,
		NegativeReviews:   metrics.NegativeReviews,
		NeutralReviews:    metrics.NeutralReviews,
		DisputedCount:     metrics.DisputedCount,
		ResolvedCount:     metrics.ResolvedCount,
		CompletionRate:    metrics.CompletionRate,
		LastRecalculated:  now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err := r.db.NewInsert().
		Model(record).
		On("CONFLICT (actor_key) DO UPDATE").
		Set("total_transactions = EXCLUDED.total_transactions").
		Set("positive_reviews = EXCLUDED.positive_reviews").
		Set("negative_reviews = EXCLUDED.negative_reviews").
		Set("neutral_reviews = EXCLUDED.neutral_reviews").
		Set("disputed_count = EXCLUDED.disputed_count").
		Set("resolved_count = EXCLUDED.resolved_count").
		Set("completion_rate = EXCLUDED.completion_rate").
		Set("last_recalculated = EXCLUDED.last_recalculated").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert metrics: %w", err)
	}

	return nil
}

// GetStaleActorKeys returns actor keys whose metrics were last recalculated
// before the cutoff, oldest first.
func (r *ReputationModel) GetStaleActorKeys(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	var keys []string

	err := r.db.NewSelect().
		Model((*types.ReputationRecord)(nil)).
		Column("actor_key").
		Where("last_recalculated < ?", cutoff).
		Order("last_recalculated ASC").
		Limit(limit).
		Scan(ctx, &keys)
	if err != nil {
		return nil, fmt.Errorf("failed to get stale actor keys: %w", err)
	}

	return keys, nil
}
