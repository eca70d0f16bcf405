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

// EventModel handles database operations for the reputation event outbox.
type EventModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewEvent creates a new event model.
func NewEvent(db *bun.DB, logger *zap.Logger) *EventModel {
	return &EventModel{
		db:     db,
		logger: logger.Named("db_event"),
	}
}

// Insert persists a pending outbox event. The db argument accepts a
// transaction so the event commits together with the write that produced it.
func (r *EventModel) Insert(ctx context.Context, db bun.IDB, event *types.OutboxEvent) error {
	event.Status = enum.EventStatusPending
	event.CreatedAt = time.Now()

	_, err := db.NewInsert().
		Model(event).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}

	return nil
}

// GetPending retrieves pending events, oldest first.
func (r *EventModel) GetPending(ctx context.Context, limit int) ([]*types.OutboxEvent, error) {
	var events []*types.OutboxEvent

	err := r.db.NewSelect().
		Model(&events).
		Where("status = ?", enum.EventStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}

	return events, nil
}

// MarkApplied records a successful delivery.
func (r *EventModel) MarkApplied(ctx context.Context, id string) error {
	_, err := r.db.NewUpdate().
		Model((*types.OutboxEvent)(nil)).
		Set("status = ?", enum.EventStatusApplied).
		Set("attempts = attempts + 1").
		Set("applied_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark event applied: %w", err)
	}

	return nil
}

// MarkFailed records a failed delivery attempt. Events past maxAttempts stay
// failed; earlier failures return to pending for the next poll.
func (r *EventModel) MarkFailed(ctx context.Context, id, deliveryErr string, maxAttempts int32) error {
	_, err := r.db.NewUpdate().
		Model((*types.OutboxEvent)(nil)).
		Set("attempts = attempts + 1").
		Set("last_error = ?", deliveryErr).
		Set("status = CASE WHEN attempts + 1 >= ? THEN ? ELSE ? END",
			maxAttempts, enum.EventStatusFailed, enum.EventStatusPending).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}

	return nil
}

// PurgeApplied deletes applied events older than the cutoff.
func (r *EventModel) PurgeApplied(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*types.OutboxEvent)(nil)).
		Where("status = ?", enum.EventStatusApplied).
		Where("applied_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge applied events: %w", err)
	}

	purged, _ := res.RowsAffected()

	return purged, nil
}
