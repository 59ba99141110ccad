package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedChildAndTopic(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO children (id, user_id, name, created_at, updated_at)
		VALUES (1, 'default', 'Ada', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO topics (id, user_id, name, created_at)
		VALUES (1, 'default', 'Fractions', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"children", "topics", "time_blocks", "sessions", "catch_up_sessions", "session_events"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_children_user",
		"idx_topics_user",
		"idx_time_blocks_child_day",
		"idx_sessions_child_topic_live",
		"idx_sessions_child_day",
		"idx_catch_up_pending_occurrence",
		"idx_catch_up_child",
		"idx_session_events_child",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_TimeBlockDayCheck(t *testing.T) {
	db := openTestDB(t)
	seedChildAndTopic(t, db)

	_, err := db.Exec(`INSERT INTO time_blocks (child_id, day_of_week, start_time, end_time, created_at, updated_at)
		VALUES (1, 8, '09:00:00', '10:00:00', 'x', 'x')`)
	assert.Error(t, err, "day 8 should be rejected")

	_, err = db.Exec(`INSERT INTO time_blocks (child_id, day_of_week, start_time, end_time, created_at, updated_at)
		VALUES (1, 1, '10:00:00', '09:00:00', 'x', 'x')`)
	assert.Error(t, err, "inverted range should be rejected")

	_, err = db.Exec(`INSERT INTO time_blocks (child_id, day_of_week, start_time, end_time, created_at, updated_at)
		VALUES (1, 1, '09:00:00', '10:00:00', 'x', 'x')`)
	assert.NoError(t, err)
}

func TestMigrate_SessionUniqueLiveTopic(t *testing.T) {
	db := openTestDB(t)
	seedChildAndTopic(t, db)

	insert := `INSERT INTO sessions (child_id, topic_id, estimated_minutes, created_at, updated_at, deleted_at)
		VALUES (1, 1, 30, 'x', 'x', ?)`

	_, err := db.Exec(insert, nil)
	require.NoError(t, err)
	_, err = db.Exec(insert, nil)
	assert.Error(t, err, "second live session for the same topic violates the partial index")

	_, err = db.Exec(`UPDATE sessions SET deleted_at = '2025-01-02T00:00:00Z'`)
	require.NoError(t, err)
	_, err = db.Exec(insert, nil)
	assert.NoError(t, err, "soft-deleted rows do not block a new session")
}

func TestMigrate_SessionStatusCheck(t *testing.T) {
	db := openTestDB(t)
	seedChildAndTopic(t, db)

	_, err := db.Exec(`INSERT INTO sessions (child_id, topic_id, estimated_minutes, status, created_at, updated_at)
		VALUES (1, 1, 30, 'skipped', 'x', 'x')`)
	assert.Error(t, err)
}

func TestMigrate_OnePendingCatchUpPerOccurrence(t *testing.T) {
	db := openTestDB(t)
	seedChildAndTopic(t, db)
	_, err := db.Exec(`INSERT INTO sessions (id, child_id, topic_id, estimated_minutes, created_at, updated_at)
		VALUES (1, 1, 1, 30, 'x', 'x')`)
	require.NoError(t, err)

	insert := `INSERT INTO catch_up_sessions (child_id, original_session_id, original_date, created_at, updated_at, resolved_at)
		VALUES (1, 1, '2025-06-16', 'x', 'x', ?)`
	_, err = db.Exec(insert, nil)
	require.NoError(t, err)
	_, err = db.Exec(insert, nil)
	assert.Error(t, err)

	_, err = db.Exec(insert, "2025-06-16T12:00:00Z")
	assert.NoError(t, err, "resolved rows are outside the pending index")

	var priority int
	require.NoError(t, db.QueryRow(`SELECT priority FROM catch_up_sessions LIMIT 1`).Scan(&priority))
	assert.Equal(t, 3, priority)
}
