package types

import (
	"time"

	"github.com/linkdao/reputation/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// Order is a marketplace transaction between a buyer and a seller. The
// reputation pipeline only cares about status transitions into a completed
// state; all other fields exist for metrics aggregation.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID          string           `bun:",pk"      json:"id"`
	BuyerKey    string           `bun:",notnull" json:"buyerKey"`
	SellerKey   string           `bun:",notnull" json:"sellerKey"`
	Status      enum.OrderStatus `bun:",notnull" json:"status"`
	Amount      float64          `bun:",notnull" json:"amount"`
	CreatedAt   time.Time        `bun:",notnull" json:"createdAt"`
	UpdatedAt   time.Time        `bun:",notnull" json:"updatedAt"`
	CompletedAt *time.Time       `bun:""         json:"completedAt,omitempty"`
}
