package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	t        *testing.T
	ctx      context.Context
	database *sql.DB
	repos    repository.Set
	uow      db.UnitOfWork
	child    *domain.Child
	topics   int
}

// setupEnv opens an in-memory database with one child owned by the default user.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	e := &testEnv{
		t:        t,
		ctx:      context.Background(),
		database: database,
		repos:    repository.NewSQLiteSet(database),
		uow:      testutil.NewTestUoW(database),
	}
	e.child = e.addChild("Ada")
	return e
}

func (e *testEnv) addChild(name string) *domain.Child {
	e.t.Helper()
	c := testutil.NewTestChild(name)
	require.NoError(e.t, e.repos.Children.Create(e.ctx, c))
	return c
}

func (e *testEnv) addTopic(name string) *domain.Topic {
	e.t.Helper()
	e.topics++
	tp := testutil.NewTestTopic(name, "Math")
	require.NoError(e.t, e.repos.Topics.Create(e.ctx, tp))
	return tp
}

func (e *testEnv) addBlock(childID int64, day domain.Weekday, start, end string) *domain.TimeBlock {
	e.t.Helper()
	b := testutil.NewTestTimeBlock(childID, day, start, end)
	require.NoError(e.t, e.repos.Blocks.Create(e.ctx, b))
	return b
}

// addSession stores a session for childID on a fresh topic.
func (e *testEnv) addSession(childID int64, opts ...testutil.SessionOption) *domain.Session {
	e.t.Helper()
	tp := e.addTopic(fmt.Sprintf("Topic %d", e.topics+1))
	s := testutil.NewTestSession(childID, tp.ID, opts...)
	require.NoError(e.t, e.repos.Sessions.Create(e.ctx, s))
	return s
}

func (e *testEnv) events(childID int64) []domain.Event {
	e.t.Helper()
	evs, err := e.repos.Events.ListByChild(e.ctx, childID, 0)
	require.NoError(e.t, err)
	return evs
}

func (e *testEnv) sessions() SessionService {
	return NewSessionService(e.repos, e.uow, domain.DefaultUserID)
}

func (e *testEnv) blocks() TimeBlockService {
	return NewTimeBlockService(e.repos, e.uow, domain.DefaultUserID)
}

func (e *testEnv) scheduling(opts ...SchedulingOption) SchedulingService {
	return NewSchedulingService(e.repos, e.uow, domain.DefaultUserID, opts...)
}

func ptr[T any](v T) *T { return &v }
