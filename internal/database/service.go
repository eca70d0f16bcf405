package database

import (
	"github.com/linkdao/reputation/internal/database/service"
	"github.com/linkdao/reputation/internal/database/types"
	"github.com/linkdao/reputation/internal/events"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	rule       *service.RuleService
	reputation *service.ReputationService
	metrics    *service.MetricsService
	order      *service.OrderService
	review     *service.ReviewService
	dispute    *service.DisputeService
	jury       *service.JuryService
}

// NewService creates a new service instance with all services.
func NewService(
	db *bun.DB,
	repo *Repository,
	dispatcher *events.Dispatcher,
	ruleCache *service.RuleCache,
	bounds types.ScoreBounds,
	logger *zap.Logger,
) *Service {
	rule := service.NewRule(repo.Rule(), ruleCache, logger)

	return &Service{
		rule:       rule,
		reputation: service.NewReputation(db, repo.Reputation(), repo.History(), repo.Actor(), rule, bounds, logger),
		metrics:    service.NewMetrics(repo.Reputation(), repo.Order(), repo.Review(), repo.Dispute(), bounds.Baseline, logger),
		order:      service.NewOrder(db, repo.Order(), repo.Actor(), dispatcher, logger),
		review:     service.NewReview(db, repo.Review(), repo.Actor(), dispatcher, logger),
		dispute:    service.NewDispute(db, repo.Dispute(), dispatcher, logger),
		jury:       service.NewJury(repo.Jury(), logger),
	}
}

// Rule returns the scoring rule service.
func (s *Service) Rule() *service.RuleService {
	return s.rule
}

// Reputation returns the reputation scoring service.
func (s *Service) Reputation() *service.ReputationService {
	return s.reputation
}

// Metrics returns the denormalized metrics service.
func (s *Service) Metrics() *service.MetricsService {
	return s.metrics
}

// Order returns the order service.
func (s *Service) Order() *service.OrderService {
	return s.order
}

// Review returns the review service.
func (s *Service) Review() *service.ReviewService {
	return s.review
}

// Dispute returns the dispute service.
func (s *Service) Dispute() *service.DisputeService {
	return s.dispute
}

// Jury returns the jury score service.
func (s *Service) Jury() *service.JuryService {
	return s.jury
}
