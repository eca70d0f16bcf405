package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/linkdao/reputation/internal/database/dbretry"
	"github.com/linkdao/reputation/internal/database/models"
	"github.com/linkdao/reputation/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ErrRecordMissing indicates the reputation record vanished between creation
// and locking, which should not happen.
var ErrRecordMissing = errors.New("reputation record missing after creation")

// ApplyOptions carries optional traceability fields for a scoring event.
type ApplyOptions struct {
	// ReferenceID links the history entry to the triggering entity, such as
	// an order or review ID.
	ReferenceID string
	// Description is a free-text annotation for the history entry.
	Description string
}

// ruleSource resolves the active rule for an event type.
type ruleSource interface {
	ActiveRule(ctx context.Context, eventType string) (*types.ReputationRule, error)
}

// recordStore is the slice of the reputation model ApplyEvent depends on.
type recordStore interface {
	GetRecord(ctx context.Context, actorKey string) (*types.ReputationRecord, error)
	GetRecordForUpdate(ctx context.Context, tx bun.Tx, actorKey string) (*types.ReputationRecord, error)
	CreateRecord(ctx context.Context, db bun.IDB, actorKey string, baseline float64) error
	UpdateScore(ctx context.Context, db bun.IDB, actorKey string, score float64) error
}

// historyStore persists and reads the append-only audit trail.
type historyStore interface {
	Insert(ctx context.Context, db bun.IDB, entry *types.ReputationHistoryEntry) error
	GetActorHistory(ctx context.Context, actorKey string, limit int) ([]*types.ReputationHistoryEntry, error)
}

// actorStore registers actors on first sight.
type actorStore interface {
	Ensure(ctx context.Context, db bun.IDB, key string) error
}

// ReputationService applies scoring events to actors, atomically, with a
// bounded, auditable result.
type ReputationService struct {
	db         *bun.DB
	reputation recordStore
	history    historyStore
	actors     actorStore
	rules      ruleSource
	bounds     types.ScoreBounds
	logger     *zap.Logger
}

// NewReputation creates a new reputation service.
func NewReputation(
	db *bun.DB,
	reputation *models.ReputationModel,
	history *models.HistoryModel,
	actors *models.ActorModel,
	rules *RuleService,
	bounds types.ScoreBounds,
	logger *zap.Logger,
) *ReputationService {
	return &ReputationService{
		db:         db,
		reputation: reputation,
		history:    history,
		actors:     actors,
		rules:      rules,
		bounds:     bounds,
		logger:     logger.Named("reputation_service"),
	}
}

// ApplyEvent applies one scoring event to one actor. When no rule is active
// for the event type the call is a silent no-op and returns nil without
// error; otherwise the score update and its history entry commit in a single
// transaction with the actor's record row locked for the duration.
func (s *ReputationService) ApplyEvent(
	ctx context.Context, actorKey, eventType string, opts *ApplyOptions,
) (*types.ReputationHistoryEntry, error) {
	rule, err := s.rules.ActiveRule(ctx, eventType)
	if err != nil {
		return nil, err
	}

	if rule == nil {
		s.logger.Debug("No active rule for event, skipping",
			zap.String("actorKey", actorKey),
			zap.String("eventType", eventType))

		return nil, nil
	}

	var entry *types.ReputationHistoryEntry

	err = dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		applied, err := s.applyEventInTx(ctx, tx, actorKey, rule, opts)
		if err != nil {
			return err
		}

		entry = applied

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply event %s to %s: %w", eventType, actorKey, err)
	}

	s.logger.Info("Applied scoring event",
		zap.String("actorKey", actorKey),
		zap.String("eventType", eventType),
		zap.Float64("delta", entry.Delta),
		zap.Float64("newScore", entry.NewScore))

	return entry, nil
}

// applyEventInTx performs the locked score update for a resolved rule. The
// record is created lazily at the baseline for first-time actors, with the
// actor row ensured first so the record's foreign key holds.
func (s *ReputationService) applyEventInTx(
	ctx context.Context, tx bun.Tx, actorKey string, rule *types.ReputationRule, opts *ApplyOptions,
) (*types.ReputationHistoryEntry, error) {
	record, err := s.reputation.GetRecordForUpdate(ctx, tx, actorKey)
	if err != nil {
		return nil, err
	}

	// Re-lock what won the insert race.
	if record == nil {
		if err := s.actors.Ensure(ctx, tx, actorKey); err != nil {
			return nil, err
		}

		if err := s.reputation.CreateRecord(ctx, tx, actorKey, s.bounds.Baseline); err != nil {
			return nil, err
		}

		record, err = s.reputation.GetRecordForUpdate(ctx, tx, actorKey)
		if err != nil {
			return nil, err
		}

		if record == nil {
			return nil, ErrRecordMissing
		}
	}

	outcome := types.ComputeOutcome(record.Score, rule, s.bounds)

	if err := s.reputation.UpdateScore(ctx, tx, actorKey, outcome.NewScore); err != nil {
		return nil, err
	}

	entry := &types.ReputationHistoryEntry{
		ActorKey:      actorKey,
		EventType:     rule.EventType,
		Delta:         outcome.Delta,
		PreviousScore: outcome.PreviousScore,
		NewScore:      outcome.NewScore,
	}

	if opts != nil {
		entry.ReferenceID = opts.ReferenceID
		entry.Description = opts.Description
	}

	if err := s.history.Insert(ctx, tx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// GetRecord returns an actor's current reputation record, or nil when the
// actor has never received a qualifying event.
func (s *ReputationService) GetRecord(ctx context.Context, actorKey string) (*types.ReputationRecord, error) {
	return s.reputation.GetRecord(ctx, actorKey)
}

// GetHistory returns an actor's most recent history entries.
func (s *ReputationService) GetHistory(
	ctx context.Context, actorKey string, limit int,
) ([]*types.ReputationHistoryEntry, error) {
	return s.history.GetActorHistory(ctx, actorKey, limit)
}
