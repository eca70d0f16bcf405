package database

import (
	"github.com/linkdao/reputation/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	actor      *models.ActorModel
	reputation *models.ReputationModel
	rule       *models.RuleModel
	history    *models.HistoryModel
	order      *models.OrderModel
	review     *models.ReviewModel
	dispute    *models.DisputeModel
	event      *models.EventModel
	jury       *models.JuryModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		actor:      models.NewActor(db, logger),
		reputation: models.NewReputation(db, logger),
		rule:       models.NewRule(db, logger),
		history:    models.NewHistory(db, logger),
		order:      models.NewOrder(db, logger),
		review:     models.NewReview(db, logger),
		dispute:    models.NewDispute(db, logger),
		event:      models.NewEvent(db, logger),
		jury:       models.NewJury(db, logger),
	}
}

// Actor returns the actor model repository.
func (r *Repository) Actor() *models.ActorModel {
	return r.actor
}

// Reputation returns the reputation record model repository.
func (r *Repository) Reputation() *models.ReputationModel {
	return r.reputation
}

// Rule returns the scoring rule model repository.
func (r *Repository) Rule() *models.RuleModel {
	return r.rule
}

// History returns the reputation history model repository.
func (r *Repository) History() *models.HistoryModel {
	return r.history
}

// Order returns the order model repository.
func (r *Repository) Order() *models.OrderModel {
	return r.order
}

// Review returns the review model repository.
func (r *Repository) Review() *models.ReviewModel {
	return r.review
}

// Dispute returns the dispute model repository.
func (r *Repository) Dispute() *models.DisputeModel {
	return r.dispute
}

// Event returns the outbox event model repository.
func (r *Repository) Event() *models.EventModel {
	return r.event
}

// Jury returns the jury score model repository.
func (r *Repository) Jury() *models.JuryModel {
	return r.jury
}
