package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/linkdao/reputation/internal/database/dbretry"
	"github.com/linkdao/reputation/internal/database/models"
	"github.com/linkdao/reputation/internal/database/types"
	"github.com/linkdao/reputation/internal/events"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// DisputeService handles dispute lifecycle operations and the dispute
// scoring events they produce.
type DisputeService struct {
	db         *bun.DB
	disputes   *models.DisputeModel
	dispatcher *events.Dispatcher
	logger     *zap.Logger
}

// NewDispute creates a new dispute service.
func NewDispute(
	db *bun.DB,
	disputes *models.DisputeModel,
	dispatcher *events.Dispatcher,
	logger *zap.Logger,
) *DisputeService {
	return &DisputeService{
		db:         db,
		disputes:   disputes,
		dispatcher: dispatcher,
		logger:     logger.Named("dispute_service"),
	}
}

// OpenDispute raises a dispute against an order and dispatches the
// dispute-opened event.
func (s *DisputeService) OpenDispute(ctx context.Context, dispute *types.Dispute) error {
	if dispute.ID == "" {
		dispute.ID = uuid.New().String()
	}

	opened := events.DisputeOpened{
		DisputeID:     dispute.ID,
		OrderID:       dispute.OrderID,
		ClaimantKey:   dispute.ClaimantKey,
		RespondentKey: dispute.RespondentKey,
	}

	err := dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		if err := s.disputes.Insert(ctx, tx, dispute); err != nil {
			return err
		}

		return s.dispatcher.Dispatch(ctx, tx, events.NameDisputeOpened, opened)
	})
	if err != nil {
		return fmt.Errorf("failed to open dispute: %w", err)
	}

	if err := s.dispatcher.Publish(ctx, events.NameDisputeOpened, opened); err != nil {
		return fmt.Errorf("failed to deliver dispute opened event: %w", err)
	}

	s.logger.Info("Opened dispute",
		zap.String("disputeID", dispute.ID),
		zap.String("orderID", dispute.OrderID))

	return nil
}

// ResolveDispute closes an open dispute against the given party and
// dispatches the dispute-resolved event.
func (s *DisputeService) ResolveDispute(ctx context.Context, id, againstKey string) (*types.Dispute, error) {
	var (
		resolved      *types.Dispute
		resolvedEvent events.DisputeResolved
	)

	err := dbretry.Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		dispute, err := s.disputes.Resolve(ctx, tx, id, againstKey)
		if err != nil {
			return err
		}

		resolved = dispute
		resolvedEvent = events.DisputeResolved{
			DisputeID:  dispute.ID,
			OrderID:    dispute.OrderID,
			AgainstKey: dispute.AgainstKey,
			WinnerKey:  dispute.WinnerKey(),
		}

		return s.dispatcher.Dispatch(ctx, tx, events.NameDisputeResolved, resolvedEvent)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dispute %s: %w", id, err)
	}

	if err := s.dispatcher.Publish(ctx, events.NameDisputeResolved, resolvedEvent); err != nil {
		return nil, fmt.Errorf("failed to deliver dispute resolved event for %s: %w", id, err)
	}

	s.logger.Info("Resolved dispute",
		zap.String("disputeID", id),
		zap.String("againstKey", againstKey))

	return resolved, nil
}
