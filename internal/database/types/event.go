package types

import (
	"time"

	"github.com/linkdao/reputation/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// OutboxEvent is a domain event persisted in the same transaction as the
// write that produced it. The outbox worker delivers pending events to their
// handlers and records the result, giving deployments an async retry path
// instead of synchronous in-transaction dispatch.
type OutboxEvent struct {
	bun.BaseModel `bun:"table:reputation_events"`

	ID        string           `bun:",pk"      json:"id"`
	Name      string           `bun:",notnull" json:"name"`
	Payload   []byte           `bun:",notnull" json:"payload"`
	Status    enum.EventStatus `bun:",notnull" json:"status"`
	Attempts  int32            `bun:",notnull" json:"attempts"`
	LastError string           `bun:""         json:"lastError"`
	CreatedAt time.Time        `bun:",notnull" json:"createdAt"`
	AppliedAt *time.Time       `bun:""         json:"appliedAt,omitempty"`
}
