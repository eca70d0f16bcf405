package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- One active rule per event type
			CREATE UNIQUE INDEX IF NOT EXISTS idx_reputation_rules_active_event
			ON reputation_rules (event_type)
			WHERE is_active;

			CREATE INDEX IF NOT EXISTS idx_reputation_rules_lookup
			ON reputation_rules (event_type, priority DESC, created_at DESC)
			WHERE is_active;

			-- History lookups are always per actor, newest first
			CREATE INDEX IF NOT EXISTS idx_reputation_history_actor_time
			ON reputation_history (actor_key, created_at DESC);

			-- Stale record scans for the metrics refresher
			CREATE INDEX IF NOT EXISTS idx_reputation_records_recalculated
			ON reputation_records (last_recalculated ASC);

			-- Order aggregates per participant
			CREATE INDEX IF NOT EXISTS idx_orders_buyer
			ON orders (buyer_key);

			CREATE INDEX IF NOT EXISTS idx_orders_seller
			ON orders (seller_key);

			CREATE INDEX IF NOT EXISTS idx_reviews_reviewee
			ON reviews (reviewee_key);

			CREATE INDEX IF NOT EXISTS idx_reviews_order
			ON reviews (order_id);

			CREATE INDEX IF NOT EXISTS idx_disputes_against
			ON disputes (against_key)
			WHERE against_key <> '';

			CREATE INDEX IF NOT EXISTS idx_disputes_order
			ON disputes (order_id);

			-- Outbox polling scans pending events oldest first
			CREATE INDEX IF NOT EXISTS idx_reputation_events_pending
			ON reputation_events (created_at ASC)
			WHERE status = 0;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		_, err = db.NewRaw(`
			ALTER TABLE reputation_records
			ADD CONSTRAINT fk_reputation_records_actor
			FOREIGN KEY (actor_key) REFERENCES actors (key)
			ON DELETE CASCADE;

			ALTER TABLE reputation_history
			ADD CONSTRAINT fk_reputation_history_actor
			FOREIGN KEY (actor_key) REFERENCES actors (key)
			ON DELETE CASCADE;

			ALTER TABLE reviews
			ADD CONSTRAINT fk_reviews_order
			FOREIGN KEY (order_id) REFERENCES orders (id)
			ON DELETE CASCADE;

			ALTER TABLE disputes
			ADD CONSTRAINT fk_disputes_order
			FOREIGN KEY (order_id) REFERENCES orders (id)
			ON DELETE CASCADE;

			ALTER TABLE jury_scores
			ADD CONSTRAINT fk_jury_scores_actor
			FOREIGN KEY (actor_key) REFERENCES actors (key)
			ON DELETE CASCADE;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to add foreign keys: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			ALTER TABLE jury_scores DROP CONSTRAINT IF EXISTS fk_jury_scores_actor;
			ALTER TABLE disputes DROP CONSTRAINT IF EXISTS fk_disputes_order;
			ALTER TABLE reviews DROP CONSTRAINT IF EXISTS fk_reviews_order;
			ALTER TABLE reputation_history DROP CONSTRAINT IF EXISTS fk_reputation_history_actor;
			ALTER TABLE reputation_records DROP CONSTRAINT IF EXISTS fk_reputation_records_actor;

			DROP INDEX IF EXISTS idx_reputation_events_pending;
			DROP INDEX IF EXISTS idx_disputes_order;
			DROP INDEX IF EXISTS idx_disputes_against;
			DROP INDEX IF EXISTS idx_reviews_order;
			DROP INDEX IF EXISTS idx_reviews_reviewee;
			DROP INDEX IF EXISTS idx_orders_seller;
			DROP INDEX IF EXISTS idx_orders_buyer;
			DROP INDEX IF EXISTS idx_reputation_records_recalculated;
			DROP INDEX IF EXISTS idx_reputation_history_actor_time;
			DROP INDEX IF EXISTS idx_reputation_rules_lookup;
			DROP INDEX IF EXISTS idx_reputation_rules_active_event;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
