package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

// farFuture bounds open-ended date range queries.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// wallClockUTC keeps t's wall-clock reading and pins it to UTC, matching
// how calendar dates are stored.
func wallClockUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// notFound maps the repository sentinel onto the typed domain error.
func notFound(err error, entity string, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return err
}

// loadChild resolves a child and checks it belongs to userID.
func loadChild(ctx context.Context, r repository.Set, userID string, childID int64) (*domain.Child, error) {
	c, err := r.Children.GetByID(ctx, childID)
	if err != nil {
		return nil, notFound(err, "child", childID)
	}
	if c.UserID != userID {
		return nil, &domain.OwnershipError{Entity: "child", ID: childID}
	}
	return c, nil
}

func loadSession(ctx context.Context, r repository.Set, childID, sessionID int64) (*domain.Session, error) {
	s, err := r.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, notFound(err, "session", sessionID)
	}
	if s.ChildID != childID {
		return nil, &domain.OwnershipError{Entity: "session", ID: sessionID, ChildID: childID}
	}
	return s, nil
}

func loadBlock(ctx context.Context, r repository.Set, childID, blockID int64) (*domain.TimeBlock, error) {
	b, err := r.Blocks.GetByID(ctx, blockID)
	if err != nil {
		return nil, notFound(err, "time block", blockID)
	}
	if b.ChildID != childID {
		return nil, &domain.OwnershipError{Entity: "time block", ID: blockID, ChildID: childID}
	}
	return b, nil
}

func loadCatchUp(ctx context.Context, r repository.Set, childID, catchUpID int64) (*domain.CatchUpSession, error) {
	c, err := r.CatchUps.GetByID(ctx, catchUpID)
	if err != nil {
		return nil, notFound(err, "catch-up session", catchUpID)
	}
	if c.ChildID != childID {
		return nil, &domain.OwnershipError{Entity: "catch-up session", ID: catchUpID, ChildID: childID}
	}
	return c, nil
}

// calendar is everything the planning algorithms read for one child.
type calendar struct {
	Blocks   []domain.TimeBlock
	Sessions []domain.Session
	Bookings []scheduler.Booking
	Pending  []*domain.CatchUpSession
}

// loadCalendar reads blocks, occupying sessions, catch-ups resolved into
// [from, to) and the pending queue. Rows are read fresh on every call.
func loadCalendar(ctx context.Context, r repository.Set, childID int64, from, to time.Time) (*calendar, error) {
	blocks, err := r.Blocks.ListByChild(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("loading time blocks: %w", err)
	}
	sessions, err := r.Sessions.ListByChild(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	resolved, err := r.CatchUps.ListResolvedBetween(ctx, childID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading placed catch-ups: %w", err)
	}
	pending, err := r.CatchUps.ListPending(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("loading pending catch-ups: %w", err)
	}
	bookings := scheduler.SessionBookings(sessions)
	bookings = append(bookings, scheduler.CatchUpBookings(resolved)...)
	return &calendar{Blocks: blocks, Sessions: sessions, Bookings: bookings, Pending: pending}, nil
}

// weekOf resolves the Monday of the requested week as a stored date.
func weekOf(weekOf *time.Time, now time.Time) time.Time {
	if weekOf != nil {
		return domain.WeekStart(domain.CalendarDate(*weekOf))
	}
	return domain.WeekStart(domain.CalendarDate(now))
}
