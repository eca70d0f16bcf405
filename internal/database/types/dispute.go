package types

import (
	"time"

	"github.com/linkdao/reputation/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// Dispute is a claim raised against an order. On resolution one party is
// recorded as the losing side for scoring purposes.
type Dispute struct {
	bun.BaseModel `bun:"table:disputes"`

	ID            string             `bun:",pk"      json:"id"`
	OrderID       string             `bun:",notnull" json:"orderId"`
	ClaimantKey   string             `bun:",notnull" json:"claimantKey"`
	RespondentKey string             `bun:",notnull" json:"respondentKey"`
	Status        enum.DisputeStatus `bun:",notnull" json:"status"`
	AgainstKey    string             `bun:""         json:"againstKey"` // losing party, set on resolution
	Reason        string             `bun:""         json:"reason"`
	CreatedAt     time.Time          `bun:",notnull" json:"createdAt"`
	ResolvedAt    *time.Time         `bun:""         json:"resolvedAt,omitempty"`
}

// WinnerKey returns the prevailing party once the dispute is resolved.
func (d *Dispute) WinnerKey() string {
	if d.AgainstKey == d.ClaimantKey {
		return d.RespondentKey
	}

	return d.ClaimantKey
}
