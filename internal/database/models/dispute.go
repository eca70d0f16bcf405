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

// ErrDisputeNotFound indicates the dispute does not exist or is not open.
var ErrDisputeNotFound = errors.New("dispute not found")

// DisputeModel handles database operations for disputes.
type DisputeModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewDispute creates a new dispute model.
func NewDispute(db *bun.DB, logger *zap.Logger) *DisputeModel {
	return &DisputeModel{
		db:     db,
		logger: logger.Named("db_dispute"),
	}
}

// Insert stores a new dispute.
func (r *DisputeModel) Insert(ctx context.Context, db bun.IDB, dispute *types.Dispute) error {
	dispute.CreatedAt = time.Now()
	dispute.Status = enum.DisputeStatusOpen

	_, err := db.NewInsert().
		Model(dispute).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert dispute: %w", err)
	}

	return nil
}

// Resolve marks an open dispute as resolved against the given party and
// returns the updated row.
func (r *DisputeModel) Resolve(
	ctx context.Context, db bun.IDB, id, againstKey string,
) (*types.Dispute, error) {
	now := time.Now()

	res, err := db.NewUpdate().
		Model((*types.Dispute)(nil)).
		Set("status = ?", enum.DisputeStatusResolved).
		Set("against_key = ?", againstKey).
		Set("resolved_at = ?", now).
		Where("id = ?", id).
		Where("status = ?", enum.DisputeStatusOpen).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dispute: %w", err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrDisputeNotFound
	}

	dispute := new(types.Dispute)

	err = db.NewSelect().
		Model(dispute).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDisputeNotFound
		}

		return nil, fmt.Errorf("failed to reload dispute: %w", err)
	}

	return dispute, nil
}

// GetCounts aggregates dispute totals for an actor as either party.
func (r *DisputeModel) GetCounts(ctx context.Context, actorKey string) (types.DisputeCounts, error) {
	var counts types.DisputeCounts

	err := r.db.NewSelect().
		Model((*types.Dispute)(nil)).
		ColumnExpr("COUNT(*) AS total").
		ColumnExpr("COUNT(*) FILTER (WHERE status = ?) AS resolved", enum.DisputeStatusResolved).
		Where("claimant_key = ? OR respondent_key = ?", actorKey, actorKey).
		Scan(ctx, &counts)
	if err != nil {
		return types.DisputeCounts{}, fmt.Errorf("failed to get dispute counts: %w", err)
	}

	return counts, nil
}
