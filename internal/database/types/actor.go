package types

import (
	"time"

	"github.com/uptrace/bun"
)

// Actor is a wallet or user identity that can accumulate reputation.
// The key is externally assigned and stable for the identity's lifetime.
type Actor struct {
	bun.BaseModel `bun:"table:actors"`

	Key       string    `bun:",pk"      json:"key"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}
