package models

import (
	"context"
	"fmt"
	"time"

	"github.com/linkdao/reputation/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// HistoryModel handles database operations for reputation history entries.
// Entries are insert-only.
type HistoryModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewHistory creates a new history model.
func NewHistory(db *bun.DB, logger *zap.Logger) *HistoryModel {
	return &HistoryModel{
		db:     db,
		logger: logger.Named("db_history"),
	}
}

// Insert appends a history entry. The db argument accepts a transaction so
// the entry commits together with the score update it audits.
func (r *HistoryModel) Insert(ctx context.Context, db bun.IDB, entry *types.ReputationHistoryEntry) error {
	entry.CreatedAt = time.Now()

	_, err := db.NewInsert().
		Model(entry).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	return nil
}

// GetActorHistory retrieves the most recent entries for an actor.
func (r *HistoryModel) GetActorHistory(
	ctx context.Context, actorKey string, limit int,
) ([]*types.ReputationHistoryEntry, error) {
	var entries []*types.ReputationHistoryEntry

	err := r.db.NewSelect().
		Model(&entries).
		Where("actor_key = ?", actorKey).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get actor history: %w", err)
	}

	return entries, nil
}

// CountForActor returns the number of history entries for an actor.
func (r *HistoryModel) CountForActor(ctx context.Context, actorKey string) (int, error) {
	count, err := r.db.NewSelect().
		Model((*types.ReputationHistoryEntry)(nil)).
		Where("actor_key = ?", actorKey).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count history entries: %w", err)
	}

	return count, nil
}
