package migrations

import (
	"context"
	"fmt"

	"github.com/linkdao/reputation/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		tables := []struct {
			model any
			name  string
		}{
			{(*types.Actor)(nil), "actors"},
			{(*types.ReputationRecord)(nil), "reputation_records"},
			{(*types.ReputationRule)(nil), "reputation_rules"},
			{(*types.ReputationHistoryEntry)(nil), "reputation_history"},
			{(*types.Order)(nil), "orders"},
			{(*types.Review)(nil), "reviews"},
			{(*types.Dispute)(nil), "disputes"},
			{(*types.OutboxEvent)(nil), "reputation_events"},
			{(*types.JuryScore)(nil), "jury_scores"},
		}

		for _, table := range tables {
			_, err := db.NewCreateTable().
				Model(table.model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %s: %w", table.name, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		tables := []string{
			"jury_scores",
			"reputation_events",
			"disputes",
			"reviews",
			"orders",
			"reputation_history",
			"reputation_rules",
			"reputation_records",
			"actors",
		}

		for _, table := range tables {
			_, err := db.NewDropTable().
				TableExpr(table).
				IfExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}

		return nil
	})
}
