package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "concurrent_test.db"))
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_EventsDuringReads appends audit events while other
// goroutines read the child's calendar.
func TestConcurrentAccess_EventsDuringReads(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	children := NewSQLiteChildRepo(database)
	topics := NewSQLiteTopicRepo(database)
	sessions := NewSQLiteSessionRepo(database)
	events := NewSQLiteEventRepo(database)

	child := testutil.NewTestChild("Ada")
	require.NoError(t, children.Create(ctx, child))
	topic := testutil.NewTestTopic("Fractions", "Math")
	require.NoError(t, topics.Create(ctx, topic))
	sess := testutil.NewTestSession(child.ID, topic.ID, testutil.WithPlacement(domain.Monday, "09:00", "10:00"))
	require.NoError(t, sessions.Create(ctx, sess))

	var wg sync.WaitGroup
	errs := make(chan error, 64)

	wg.Add(1)
	go func() {
		defer wg.Done()
		status := domain.SessionScheduled
		current := *sess
		for i := 0; i < 20; i++ {
			if status == domain.SessionScheduled {
				status = domain.SessionDone
			} else {
				status = domain.SessionScheduled
			}
			next, evs, err := current.WithStatus(status, time.Now().UTC())
			if err != nil {
				errs <- err
				return
			}
			if err := events.Append(ctx, evs...); err != nil {
				errs <- err
				return
			}
			current = next
		}
	}()

	for r := 0; r < 3; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				if _, err := sessions.ListPlacedByChild(ctx, child.ID); err != nil {
					errs <- err
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent access error: %v", err)
	}

	list, err := events.ListByChild(ctx, child.ID, 0)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}
