package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		// Roles are cluster-wide, so creation has to tolerate reruns.
		_, err := db.NewRaw(`
			DO $$
			BEGIN
				IF NOT EXISTS (SELECT FROM pg_roles WHERE rolname = 'reputation_readonly') THEN
					CREATE ROLE reputation_readonly NOLOGIN;
				END IF;

				IF NOT EXISTS (SELECT FROM pg_roles WHERE rolname = 'reputation_app') THEN
					CREATE ROLE reputation_app NOLOGIN;
				END IF;

				IF NOT EXISTS (SELECT FROM pg_roles WHERE rolname = 'reputation_admin') THEN
					CREATE ROLE reputation_admin NOLOGIN;
				END IF;

				IF NOT EXISTS (SELECT FROM pg_roles WHERE rolname = 'reputation_analytics') THEN
					CREATE ROLE reputation_analytics NOLOGIN;
				END IF;
			END
			$$;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create roles: %w", err)
		}

		_, err = db.NewRaw(`
			GRANT SELECT ON ALL TABLES IN SCHEMA public TO reputation_readonly;

			GRANT SELECT, INSERT, UPDATE, DELETE ON
				actors, reputation_records, reputation_history,
				orders, reviews, disputes, reputation_events, jury_scores
			TO reputation_app;

			GRANT SELECT ON reputation_rules TO reputation_app;

			GRANT ALL ON ALL TABLES IN SCHEMA public TO reputation_admin;
			GRANT ALL ON ALL SEQUENCES IN SCHEMA public TO reputation_admin;

			GRANT SELECT ON
				reputation_records, reputation_rules, orders, reviews, disputes, jury_scores
			TO reputation_analytics;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to grant privileges: %w", err)
		}

		// History rows are visible to the owning actor and to admins only.
		_, err = db.NewRaw(`
			ALTER TABLE reputation_history ENABLE ROW LEVEL SECURITY;

			DROP POLICY IF EXISTS reputation_history_actor_read ON reputation_history;
			CREATE POLICY reputation_history_actor_read ON reputation_history
			FOR SELECT
			USING (
				actor_key = current_setting('app.actor_key', true)
				OR pg_has_role(current_user, 'reputation_admin', 'member')
			);

			DROP POLICY IF EXISTS reputation_history_app_write ON reputation_history;
			CREATE POLICY reputation_history_app_write ON reputation_history
			FOR INSERT
			WITH CHECK (
				pg_has_role(current_user, 'reputation_app', 'member')
				OR pg_has_role(current_user, 'reputation_admin', 'member')
			);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to configure row level security: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP POLICY IF EXISTS reputation_history_app_write ON reputation_history;
			DROP POLICY IF EXISTS reputation_history_actor_read ON reputation_history;
			ALTER TABLE reputation_history DISABLE ROW LEVEL SECURITY;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to disable row level security: %w", err)
		}

		return nil
	})
}
