package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	r.events = append(r.events, event)
}

func TestLogUseCaseObserver_WritesUseCaseRecords(t *testing.T) {
	e := setupEnv(t)
	var buf bytes.Buffer
	svc := NewTimeBlockService(e.repos, e.uow, domain.DefaultUserID, NewLogUseCaseObserver(&buf))

	_, err := svc.Create(e.ctx, e.child.ID, blockInput(domain.Monday, "09:00", "10:00"))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "use_case=create-time-block")
	assert.Contains(t, out, "success=true")
	assert.Contains(t, out, "component=service")

	buf.Reset()
	_, err = svc.Create(e.ctx, e.child.ID, blockInput(domain.Monday, "09:30", "10:30"))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "success=false")
}

func TestObserve_ReportsNamedError(t *testing.T) {
	e := setupEnv(t)
	rec := &recordingObserver{}
	svc := NewTimeBlockService(e.repos, e.uow, domain.DefaultUserID, rec)

	_, err := svc.Create(e.ctx, 999, blockInput(domain.Monday, "09:00", "10:00"))
	require.Error(t, err)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "create-time-block", rec.events[0].Name)
	assert.False(t, rec.events[0].Success)
	assert.True(t, errors.Is(rec.events[0].Err, domain.ErrNotFound))
	assert.Equal(t, int64(999), rec.events[0].Fields["child_id"])
}

func TestNewLogUseCaseObserver_NilWriterIsNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
	assert.IsType(t, NoopUseCaseObserver{}, NewSlogUseCaseObserver(nil))
}

func TestUseCaseObserver_CoversMutations(t *testing.T) {
	e := setupEnv(t)
	rec := &recordingObserver{}
	e.addBlock(e.child.ID, domain.Monday, "09:00", "11:00")
	sess := e.addSession(e.child.ID, testutil.WithPlacement(domain.Monday, "09:00", "10:00"))

	scheduling := NewSchedulingService(e.repos, e.uow, domain.DefaultUserID, WithSchedulingObserver(rec))
	c, err := scheduling.SkipSessionDay(e.ctx, skipReq(e.child.ID, sess.ID, testutil.Monday))
	require.NoError(t, err)
	_, err = scheduling.UpdateCatchUpPriority(e.ctx, e.child.ID, c.ID, 5)
	require.NoError(t, err)

	sessions := NewSessionService(e.repos, e.uow, domain.DefaultUserID, rec)
	_, err = sessions.UpdateStatus(e.ctx, e.child.ID, sess.ID, domain.SessionScheduled)
	require.NoError(t, err)
	_, err = sessions.Unschedule(e.ctx, e.child.ID, sess.ID)
	require.NoError(t, err)
	require.NoError(t, sessions.Delete(e.ctx, e.child.ID, sess.ID))

	blocks := NewTimeBlockService(e.repos, e.uow, domain.DefaultUserID, rec)
	list, err := blocks.List(e.ctx, e.child.ID)
	require.NoError(t, err)
	require.NoError(t, blocks.Delete(e.ctx, e.child.ID, list[0].ID))

	var names []string
	for _, ev := range rec.events {
		assert.True(t, ev.Success, ev.Name)
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{
		"skip-session-day", "update-catch-up-priority",
		"update-session-status", "unschedule-session", "delete-session",
		"delete-time-block",
	}, names)
}
