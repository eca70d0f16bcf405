package types

import (
	"time"

	"github.com/linkdao/reputation/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// JuryScore is one tier of the jury/moderation scoring context. Tiers are
// unbounded running averages kept fully separate from the clamped
// marketplace score; the two contexts share an actor key and nothing else.
type JuryScore struct {
	bun.BaseModel `bun:"table:jury_scores"`

	ActorKey  string         `bun:",pk"      json:"actorKey"`
	Tier      enum.ScoreTier `bun:",pk"      json:"tier"`
	Score     float64        `bun:",notnull" json:"score"`
	CaseCount int64          `bun:",notnull" json:"caseCount"`
	UpdatedAt time.Time      `bun:",notnull" json:"updatedAt"`
}

// RecordCase folds one case outcome into the tier's running average.
func (j *JuryScore) RecordCase(outcome float64) {
	total := j.Score*float64(j.CaseCount) + outcome
	j.CaseCount++
	j.Score = total / float64(j.CaseCount)
}
