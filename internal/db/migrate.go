package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the whole
// list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS children (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT NOT NULL,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_children_user ON children(user_id)`,

	`CREATE TABLE IF NOT EXISTS topics (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT NOT NULL,
		name       TEXT NOT NULL,
		subject    TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_topics_user ON topics(user_id)`,

	`CREATE TABLE IF NOT EXISTS time_blocks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		child_id    INTEGER NOT NULL REFERENCES children(id) ON DELETE CASCADE,
		day_of_week INTEGER NOT NULL CHECK(day_of_week BETWEEN 1 AND 7),
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		label       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK(start_time < end_time)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_time_blocks_child_day ON time_blocks(child_id, day_of_week)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id                    INTEGER PRIMARY KEY AUTOINCREMENT,
		child_id              INTEGER NOT NULL REFERENCES children(id) ON DELETE CASCADE,
		topic_id              INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
		estimated_minutes     INTEGER NOT NULL CHECK(estimated_minutes > 0),
		status                TEXT NOT NULL DEFAULT 'backlog'
		                      CHECK(status IN ('backlog','planned','scheduled','done')),
		commitment_type       TEXT NOT NULL DEFAULT 'flexible'
		                      CHECK(commitment_type IN ('fixed','preferred','flexible')),
		scheduled_day_of_week INTEGER CHECK(scheduled_day_of_week BETWEEN 1 AND 7),
		scheduled_start_time  TEXT,
		scheduled_end_time    TEXT,
		scheduled_date        TEXT,
		completed_at          TEXT,
		evidence_note         TEXT NOT NULL DEFAULT '',
		evidence_url          TEXT NOT NULL DEFAULT '',
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL,
		deleted_at            TEXT
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_child_topic_live
		ON sessions(child_id, topic_id) WHERE deleted_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_child_day ON sessions(child_id, scheduled_day_of_week)`,

	`CREATE TABLE IF NOT EXISTS catch_up_sessions (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		child_id            INTEGER NOT NULL REFERENCES children(id) ON DELETE CASCADE,
		original_session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		original_date       TEXT NOT NULL,
		reason              TEXT NOT NULL DEFAULT '',
		priority            INTEGER NOT NULL DEFAULT 3 CHECK(priority BETWEEN 1 AND 5),
		resolved_at         TEXT,
		placed_day_of_week  INTEGER CHECK(placed_day_of_week BETWEEN 1 AND 7),
		placed_start_time   TEXT,
		placed_end_time     TEXT,
		placed_date         TEXT,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_catch_up_pending_occurrence
		ON catch_up_sessions(original_session_id, original_date) WHERE resolved_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_catch_up_child ON catch_up_sessions(child_id)`,

	`CREATE TABLE IF NOT EXISTS session_events (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL,
		child_id    INTEGER NOT NULL REFERENCES children(id) ON DELETE CASCADE,
		session_id  INTEGER NOT NULL,
		catch_up_id INTEGER,
		payload     TEXT NOT NULL DEFAULT '{}',
		occurred_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_session_events_child ON session_events(child_id, occurred_at)`,
}
