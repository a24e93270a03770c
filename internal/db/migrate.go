package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is re-run on each
// open, so statements must be idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS routing_log (
		id          TEXT PRIMARY KEY,
		strategy    TEXT NOT NULL CHECK(strategy IN ('generative','retrieval')),
		topic       TEXT NOT NULL,
		outcome     TEXT NOT NULL
		            CHECK(outcome IN ('answered','rejected','invalid','failed')),
		query_chars INTEGER NOT NULL DEFAULT 0,
		latency_ms  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_routing_log_created ON routing_log(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_routing_log_topic ON routing_log(strategy, topic, outcome)`,

	// Model that produced a generative answer
	`ALTER TABLE routing_log ADD COLUMN model TEXT NOT NULL DEFAULT ''`,
}
