package types

import (
	"time"

	"github.com/uptrace/bun"
)

// Labels for the scoring events the recalculator understands. Rules are
// matched against these at lookup time; unknown labels are a silent no-op.
const (
	EventTypePositiveReview         = "positive_review"
	EventTypeNeutralReview          = "neutral_review"
	EventTypeNegativeReview         = "negative_review"
	EventTypeOrderCompleted         = "order_completed"
	EventTypeDisputeOpened          = "dispute_opened"
	EventTypeDisputeResolvedFor     = "dispute_resolved_for"
	EventTypeDisputeResolvedAgainst = "dispute_resolved_against"
)

// ReputationRecord is an actor's current reputation state. One row per actor,
// created lazily on the first qualifying event and never hard-deleted.
// The score is always clamped to the configured bounds after every update.
type ReputationRecord struct {
	bun.BaseModel `bun:"table:reputation_records"`

	ActorKey          string    `bun:",pk"      json:"actorKey"`
	Score             float64   `bun:",notnull" json:"score"`
	TotalTransactions int64     `bun:",notnull" json:"totalTransactions"`
	PositiveReviews   int64     `bun:",notnull" json:"positiveReviews"`
	NegativeReviews   int64     `bun:",notnull" json:"negativeReviews"`
	NeutralReviews    int64     `bun:",notnull" json:"neutralReviews"`
	DisputedCount     int64     `bun:",notnull" json:"disputedCount"`
	ResolvedCount     int64     `bun:",notnull" json:"resolvedCount"`
	CompletionRate    float64   `bun:",notnull" json:"completionRate"`
	LastRecalculated  time.Time `bun:",notnull" json:"lastRecalculated"`
	CreatedAt         time.Time `bun:",notnull" json:"createdAt"`
	UpdatedAt         time.Time `bun:",notnull" json:"updatedAt"`
}

// ReputationRule maps an event-type label to its score impact. Rules are
// admin-managed and read-only from the recalculator's perspective. A partial
// unique index keeps at most one active rule per event type; the lookup still
// orders by priority then recency so a transiently duplicated set degrades
// deterministically.
type ReputationRule struct {
	bun.BaseModel `bun:"table:reputation_rules"`

	ID           uint64    `bun:",pk,autoincrement" json:"id"`
	EventType    string    `bun:",notnull"          json:"eventType"`
	ScoreImpact  float64   `bun:",notnull"          json:"scoreImpact"`
	WeightFactor float64   `bun:",notnull"          json:"weightFactor"`
	MaxImpact    float64   `bun:",notnull"          json:"maxImpact"` // 0 = uncapped
	Priority     int32     `bun:",notnull"          json:"priority"`
	IsActive     bool      `bun:",notnull"          json:"isActive"`
	Description  string    `bun:""                  json:"description"`
	CreatedAt    time.Time `bun:",notnull"          json:"createdAt"`
	UpdatedAt    time.Time `bun:",notnull"          json:"updatedAt"`
}

// Weight returns the rule's weighting factor, defaulting to 1 when unset.
func (r *ReputationRule) Weight() float64 {
	if r.WeightFactor == 0 {
		return 1
	}

	return r.WeightFactor
}

// ReputationHistoryEntry is an append-only audit record of one scoring
// event's effect on an actor. Delta is the capped but unclamped change;
// NewScore is the clamped value actually stored on the record. Entries are
// never updated or deleted.
type ReputationHistoryEntry struct {
	bun.BaseModel `bun:"table:reputation_history"`

	ID            uint64    `bun:",pk,autoincrement" json:"id"`
	ActorKey      string    `bun:",notnull"          json:"actorKey"`
	EventType     string    `bun:",notnull"          json:"eventType"`
	Delta         float64   `bun:",notnull"          json:"delta"`
	PreviousScore float64   `bun:",notnull"          json:"previousScore"`
	NewScore      float64   `bun:",notnull"          json:"newScore"`
	ReferenceID   string    `bun:""                  json:"referenceId"`
	Description   string    `bun:""                  json:"description"`
	CreatedAt     time.Time `bun:",notnull"          json:"createdAt"`
}

// ClampedDelta returns the score change that was actually applied after
// bounds clamping.
func (e *ReputationHistoryEntry) ClampedDelta() float64 {
	return e.NewScore - e.PreviousScore
}
