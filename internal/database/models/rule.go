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

// RuleModel handles database operations for reputation rules.
type RuleModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewRule creates a new rule model.
func NewRule(db *bun.DB, logger *zap.Logger) *RuleModel {
	return &RuleModel{
		db:     db,
		logger: logger.Named("db_rule"),
	}
}

// GetActiveRule returns the active rule for an event type, or nil when none
// is active. Highest priority wins, then the most recently created rule.
func (r *RuleModel) GetActiveRule(ctx context.Context, eventType string) (*types.ReputationRule, error) {
	rule := new(types.ReputationRule)

	err := r.db.NewSelect().
		Model(rule).
		Where("event_type = ?", eventType).
		Where("is_active = TRUE").
		Order("priority DESC", "created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get active rule: %w", err)
	}

	return rule, nil
}

// ListActive returns all active rules.
func (r *RuleModel) ListActive(ctx context.Context) ([]*types.ReputationRule, error) {
	var rules []*types.ReputationRule

	err := r.db.NewSelect().
		Model(&rules).
		Where("is_active = TRUE").
		Order("event_type ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active rules: %w", err)
	}

	return rules, nil
}

// UpsertRule inserts or updates a rule by event type.
func (r *RuleModel) UpsertRule(ctx context.Context, rule *types.ReputationRule) error {
	now := time.Now()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}

	rule.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(rule).
		On("CONFLICT (event_type) WHERE is_active DO UPDATE").
		Set("score_impact = EXCLUDED.score_impact").
		Set("weight_factor = EXCLUDED.weight_factor").
		Set("max_impact = EXCLUDED.max_impact").
		Set("priority = EXCLUDED.priority").
		Set("description = EXCLUDED.description").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert rule: %w", err)
	}

	return nil
}

// DeactivateRule marks a rule inactive. Events for its type become a silent
// no-op until another rule takes over.
func (r *RuleModel) DeactivateRule(ctx context.Context, eventType string) error {
	_, err := r.db.NewUpdate().
		Model((*types.ReputationRule)(nil)).
		Set("is_active = FALSE").
		Set("updated_at = ?", time.Now()).
		Where("event_type = ?", eventType).
		Where("is_active = TRUE").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to deactivate rule: %w", err)
	}

	return nil
}
