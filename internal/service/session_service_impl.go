package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type sessionService struct {
	repos    repository.Set
	uow      db.UnitOfWork
	userID   string
	observer UseCaseObserver
}

func NewSessionService(repos repository.Set, uow db.UnitOfWork, userID string, observers ...UseCaseObserver) SessionService {
	return &sessionService{repos: repos, uow: uow, userID: userID, observer: useCaseObserverOrNoop(observers)}
}

func (s *sessionService) Create(ctx context.Context, childID, topicID int64, estimatedMinutes int, commitment domain.CommitmentType) (created *domain.Session, err error) {
	defer observe(ctx, s.observer, "create-session", time.Now(), map[string]any{
		"child_id": childID, "topic_id": topicID, "minutes": estimatedMinutes,
	}, &err)

	sess, err := domain.NewSession(childID, topicID, estimatedMinutes, commitment, nowUTC())
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteSet(tx)
		if _, err := loadChild(ctx, r, s.userID, childID); err != nil {
			return err
		}
		topic, err := r.Topics.GetByID(ctx, topicID)
		if err != nil {
			return notFound(err, "topic", topicID)
		}
		if topic.UserID != s.userID {
			return &domain.OwnershipError{Entity: "topic", ID: topicID}
		}
		existing, err := r.Sessions.FindLiveByTopic(ctx, childID, topicID)
		switch {
		case err == nil:
			return &domain.DuplicateTopicError{ChildID: childID, TopicID: topicID, ExistingID: existing.ID}
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		return r.Sessions.Create(ctx, &sess)
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *sessionService) Get(ctx context.Context, childID, sessionID int64) (*domain.Session, error) {
	if _, err := loadChild(ctx, s.repos, s.userID, childID); err != nil {
		return nil, err
	}
	return loadSession(ctx, s.repos, childID, sessionID)
}

func (s *sessionService) List(ctx context.Context, childID int64) ([]domain.Session, error) {
	if _, err := loadChild(ctx, s.repos, s.userID, childID); err != nil {
		return nil, err
	}
	return s.repos.Sessions.ListByChild(ctx, childID)
}

func (s *sessionService) Schedule(ctx context.Context, childID, sessionID int64, cmd domain.ScheduleCommand) (out *domain.Session, err error) {
	defer observe(ctx, s.observer, "schedule-session", time.Now(), map[string]any{
		"child_id": childID, "session_id": sessionID, "day": cmd.Day.String(),
		"start": cmd.Start.String(), "end": cmd.End.String(),
	}, &err)

	err = s.transition(ctx, childID, sessionID, func(ctx context.Context, r repository.Set, sess *domain.Session, now time.Time) (domain.Session, []domain.Event, error) {
		next, events, err := sess.Schedule(cmd, now)
		if err != nil {
			return next, nil, err
		}
		if err := checkSessionOverlap(ctx, r, next, now); err != nil {
			return next, nil, err
		}
		return next, events, nil
	}, &out)
	return out, err
}

func (s *sessionService) Unschedule(ctx context.Context, childID, sessionID int64) (out *domain.Session, err error) {
	defer observe(ctx, s.observer, "unschedule-session", time.Now(), map[string]any{
		"child_id": childID, "session_id": sessionID,
	}, &err)

	err = s.transition(ctx, childID, sessionID, func(_ context.Context, _ repository.Set, sess *domain.Session, now time.Time) (domain.Session, []domain.Event, error) {
		return sess.Unschedule(now)
	}, &out)
	return out, err
}

func (s *sessionService) UpdateStatus(ctx context.Context, childID, sessionID int64, status domain.SessionStatus) (out *domain.Session, err error) {
	defer observe(ctx, s.observer, "update-session-status", time.Now(), map[string]any{
		"child_id": childID, "session_id": sessionID, "status": string(status),
	}, &err)

	err = s.transition(ctx, childID, sessionID, func(_ context.Context, _ repository.Set, sess *domain.Session, now time.Time) (domain.Session, []domain.Event, error) {
		return sess.WithStatus(status, now)
	}, &out)
	return out, err
}

func (s *sessionService) Complete(ctx context.Context, childID, sessionID int64, note, url string) (out *domain.Session, err error) {
	defer observe(ctx, s.observer, "complete-session", time.Now(), map[string]any{
		"child_id": childID, "session_id": sessionID,
	}, &err)

	err = s.transition(ctx, childID, sessionID, func(_ context.Context, _ repository.Set, sess *domain.Session, now time.Time) (domain.Session, []domain.Event, error) {
		next, events, err := sess.WithStatus(domain.SessionDone, now)
		if err != nil {
			return next, nil, err
		}
		if note != "" || url != "" {
			next = next.RecordEvidence(note, url, now)
		}
		return next, events, nil
	}, &out)
	return out, err
}

func (s *sessionService) Delete(ctx context.Context, childID, sessionID int64) (err error) {
	defer observe(ctx, s.observer, "delete-session", time.Now(), map[string]any{
		"child_id": childID, "session_id": sessionID,
	}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteSet(tx)
		if _, err := loadChild(ctx, r, s.userID, childID); err != nil {
			return err
		}
		if _, err := loadSession(ctx, r, childID, sessionID); err != nil {
			return err
		}
		return r.Sessions.SoftDelete(ctx, sessionID, nowUTC())
	})
}

type sessionTransition func(ctx context.Context, r repository.Set, sess *domain.Session, now time.Time) (domain.Session, []domain.Event, error)

// transition loads the session under the child, applies fn and persists the
// new value together with its events in one transaction.
func (s *sessionService) transition(ctx context.Context, childID, sessionID int64, fn sessionTransition, out **domain.Session) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteSet(tx)
		if _, err := loadChild(ctx, r, s.userID, childID); err != nil {
			return err
		}
		sess, err := loadSession(ctx, r, childID, sessionID)
		if err != nil {
			return err
		}
		next, events, err := fn(ctx, r, sess, nowUTC())
		if err != nil {
			return err
		}
		if len(events) > 0 || !next.UpdatedAt.Equal(sess.UpdatedAt) {
			if err := r.Sessions.Update(ctx, &next); err != nil {
				return fmt.Errorf("updating session: %w", err)
			}
		}
		if err := r.Events.Append(ctx, events...); err != nil {
			return fmt.Errorf("appending events: %w", err)
		}
		*out = &next
		return nil
	})
}

// checkSessionOverlap rejects a placement that collides with another
// occupying session or with a catch-up already placed on the same date.
func checkSessionOverlap(ctx context.Context, r repository.Set, next domain.Session, now time.Time) error {
	p := next.Placement
	today := domain.CalendarDate(now)
	from, to := today, farFuture
	if p.Date != nil {
		from, to = *p.Date, p.Date.AddDate(0, 0, 1)
	}

	sessions, err := r.Sessions.ListPlacedByChild(ctx, next.ChildID)
	if err != nil {
		return fmt.Errorf("loading placed sessions: %w", err)
	}
	others := sessions[:0]
	for _, other := range sessions {
		if other.ID != next.ID {
			others = append(others, other)
		}
	}
	resolved, err := r.CatchUps.ListResolvedBetween(ctx, next.ChildID, from, to)
	if err != nil {
		return fmt.Errorf("loading placed catch-ups: %w", err)
	}

	bookings := scheduler.SessionBookings(others)
	bookings = append(bookings, scheduler.CatchUpBookings(resolved)...)
	hit, ok := scheduler.FindConflict(bookings, p.Day, p.Date, p.Interval(), today)
	if !ok {
		return nil
	}
	return &domain.OverlapError{
		Day:        p.Day,
		Requested:  p.Interval(),
		Existing:   hit.Interval,
		Kind:       hit.Kind,
		ExistingID: hit.ID,
	}
}
