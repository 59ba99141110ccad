package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

const DefaultRedistributeMax = 5

type schedulingService struct {
	repos           repository.Set
	uow             db.UnitOfWork
	userID          string
	observer        UseCaseObserver
	suggestionLimit int
	redistributeMax int
	strategy        func(includeNextWeek bool) scheduler.RedistributionStrategy
}

type SchedulingOption func(*schedulingService)

// WithSuggestionLimit caps reschedule suggestions when the request leaves it unset.
func WithSuggestionLimit(n int) SchedulingOption {
	return func(s *schedulingService) {
		if n > 0 {
			s.suggestionLimit = n
		}
	}
}

// WithRedistributeMax sets how many catch-ups one redistribution pass takes
// when the request leaves it unset.
func WithRedistributeMax(n int) SchedulingOption {
	return func(s *schedulingService) {
		if n > 0 {
			s.redistributeMax = n
		}
	}
}

// WithStrategy swaps the redistribution strategy.
func WithStrategy(strategy scheduler.RedistributionStrategy) SchedulingOption {
	return func(s *schedulingService) {
		if strategy != nil {
			s.strategy = func(bool) scheduler.RedistributionStrategy { return strategy }
		}
	}
}

func WithSchedulingObserver(obs UseCaseObserver) SchedulingOption {
	return func(s *schedulingService) {
		if obs != nil {
			s.observer = obs
		}
	}
}

func NewSchedulingService(repos repository.Set, uow db.UnitOfWork, userID string, opts ...SchedulingOption) SchedulingService {
	s := &schedulingService{
		repos:           repos,
		uow:             uow,
		userID:          userID,
		observer:        NoopUseCaseObserver{},
		suggestionLimit: scheduler.DefaultSuggestionLimit,
		redistributeMax: DefaultRedistributeMax,
		strategy: func(includeNextWeek bool) scheduler.RedistributionStrategy {
			return scheduler.GreedyStrategy{IncludeNextWeek: includeNextWeek}
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *schedulingService) SkipSessionDay(ctx context.Context, req app.SkipRequest) (out *domain.CatchUpSession, err error) {
	defer observe(ctx, s.observer, "skip-session-day", time.Now(), map[string]any{
		"child_id": req.ChildID, "session_id": req.SessionID, "date": req.Date.Format(domain.DateLayout),
	}, &err)

	now := app.ResolveNow(req.Now)
	date := domain.CalendarDate(req.Date)
	reason := strings.TrimSpace(req.Reason)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteSet(tx)
		if _, err := loadChild(ctx, r, s.userID, req.ChildID); err != nil {
			return err
		}
		sess, err := loadSession(ctx, r, req.ChildID, req.SessionID)
		if err != nil {
			return err
		}
		if sess.Status != domain.SessionScheduled || sess.Placement == nil {
			return &domain.ValidationError{Field: "status", Message: fmt.Sprintf("session %d is %s, only scheduled sessions can be skipped", sess.ID, sess.Status)}
		}
		if !sess.Placement.AppliesTo(date) {
			return &domain.ValidationError{Field: "date", Message: fmt.Sprintf("session %d is not planned on %s", sess.ID, date.Format(domain.DateLayout))}
		}

		existing, err := r.CatchUps.FindPendingOccurrence(ctx, sess.ID, date)
		switch {
		case err == nil:
			out = existing
			return nil
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		c := domain.NewCatchUp(*sess, date, reason, now)
		if err := r.CatchUps.Create(ctx, &c); err != nil {
			return fmt.Errorf("creating catch-up: %w", err)
		}
		if err := r.Events.Append(ctx, sess.SkippedEvent(c.ID, date, reason, now)); err != nil {
			return fmt.Errorf("appending events: %w", err)
		}
		out = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *schedulingService) GenerateRescheduleSuggestions(ctx context.Context, req app.RescheduleRequest) (out *app.RescheduleResult, err error) {
	defer observe(ctx, s.observer, "reschedule-suggestions", time.Now(), map[string]any{
		"child_id": req.ChildID, "session_id": req.SessionID,
	}, &err)

	if _, err := loadChild(ctx, s.repos, s.userID, req.ChildID); err != nil {
		return nil, err
	}
	sess, err := loadSession(ctx, s.repos, req.ChildID, req.SessionID)
	if err != nil {
		return nil, err
	}

	original := domain.CalendarDate(req.OriginalDate)
	week := domain.WeekStart(original)
	cal, err := loadCalendar(ctx, s.repos, req.ChildID, week, week.AddDate(0, 0, 14))
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.suggestionLimit
	}
	// Fixed and preferred sessions rank by the weekday they are placed on,
	// whatever date the caller searches from.
	var home domain.Weekday
	if sess.Placement != nil {
		home = sess.Placement.Day
	}
	grid := scheduler.NewWeekGrid(cal.Blocks, cal.Bookings)
	slots := scheduler.FindSlots(grid, scheduler.SlotQuery{
		Minutes:         sess.EstimatedMinutes,
		Commitment:      sess.Commitment,
		Home:            home,
		OriginalDate:    original,
		IncludeNextWeek: req.IncludeNextWeek,
		Limit:           limit,
	})

	out = &app.RescheduleResult{Session: sess, Slots: slots}
	if len(slots) == 0 {
		out.Warnings = append(out.Warnings, noSlotWarning(sess, req.IncludeNextWeek))
	}
	return out, nil
}

func noSlotWarning(sess *domain.Session, includeNextWeek bool) string {
	span := "the rest of this week"
	if includeNextWeek {
		span = "this week or next"
	}
	msg := fmt.Sprintf("no free %d-minute window for session %d in %s", sess.EstimatedMinutes, sess.ID, span)
	if sess.Commitment == domain.CommitmentFixed {
		msg += " on its fixed day"
	}
	return msg
}

func (s *schedulingService) RedistributeCatchUpSessions(ctx context.Context, req app.RedistributeRequest) (out *app.RedistributeResult, err error) {
	maxSessions := req.MaxSessions
	if maxSessions <= 0 {
		maxSessions = s.redistributeMax
	}
	defer observe(ctx, s.observer, "redistribute-catch-ups", time.Now(), map[string]any{
		"child_id": req.ChildID, "max_sessions": maxSessions,
	}, &err)

	now := app.ResolveNow(req.Now)
	from := wallClockUTC(now)
	if req.From != nil && domain.CalendarDate(*req.From).After(from) {
		from = domain.CalendarDate(*req.From)
	}
	week := domain.WeekStart(domain.CalendarDate(from))
	out = &app.RedistributeResult{}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteSet(tx)
		if _, err := loadChild(ctx, r, s.userID, req.ChildID); err != nil {
			return err
		}
		// Catch-ups for future occurrences may land past next week, so every
		// placed catch-up from this week on is loaded.
		cal, err := loadCalendar(ctx, r, req.ChildID, week, farFuture)
		if err != nil {
			return err
		}

		originals := make(map[int64]domain.Session, len(cal.Sessions))
		for _, sess := range cal.Sessions {
			originals[sess.ID] = sess
		}
		var items []scheduler.CatchUpItem
		for _, c := range cal.Pending {
			if len(items) == maxSessions {
				break
			}
			sess, ok := originals[c.OriginalSessionID]
			if !ok {
				out.Warnings = append(out.Warnings, fmt.Sprintf("catch-up %d: original session %d no longer exists", c.ID, c.OriginalSessionID))
				continue
			}
			items = append(items, scheduler.CatchUpItem{CatchUp: c, Minutes: sess.EstimatedMinutes, Commitment: sess.Commitment})
		}

		grid := scheduler.NewWeekGrid(cal.Blocks, cal.Bookings)
		assignments := s.strategy(req.IncludeNextWeek).Place(grid, items, from)
		placed := make(map[int64]bool, len(assignments))
		for _, a := range assignments {
			placed[a.CatchUp.ID] = true
		}
		for _, item := range items {
			if !placed[item.CatchUp.ID] && item.Commitment == domain.CommitmentFixed {
				out.Warnings = append(out.Warnings, fmt.Sprintf("catch-up %d: no free %d-minute window on its fixed day (%s)",
					item.CatchUp.ID, item.Minutes, domain.WeekdayOf(item.CatchUp.OriginalDate)))
			}
		}

		var events []domain.Event
		for _, a := range assignments {
			events = append(events, a.CatchUp.Resolve(a.Slot.Placement(), now))
			if err := r.CatchUps.Update(ctx, a.CatchUp); err != nil {
				return fmt.Errorf("resolving catch-up %d: %w", a.CatchUp.ID, err)
			}
			out.Redistributed = append(out.Redistributed, a.CatchUp)
		}
		if err := r.Events.Append(ctx, events...); err != nil {
			return fmt.Errorf("appending events: %w", err)
		}
		out.StillPending, err = r.CatchUps.CountPending(ctx, req.ChildID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out.StillPending > 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%d catch-up session(s) still pending: not enough free capacity", out.StillPending))
	}
	return out, nil
}

func (s *schedulingService) GetCapacityAnalysis(ctx context.Context, req app.CapacityRequest) (out *app.AnalysisReport, err error) {
	defer observe(ctx, s.observer, "capacity-analysis", time.Now(), map[string]any{
		"child_id": req.ChildID,
	}, &err)

	week := weekOf(req.WeekOf, app.ResolveNow(req.Now))
	wc, cal, err := weeklyCapacity(ctx, s.repos, s.userID, req.ChildID, week)
	if err != nil {
		return nil, err
	}
	capacity := scheduler.WeekCapacity{WeekStart: wc.WeekStart, Days: wc.Days}
	grid := scheduler.NewWeekGrid(cal.Blocks, cal.Bookings)

	out = &app.AnalysisReport{
		Capacity: wc,
		Flagged:  scheduler.FlaggedDays(capacity),
		Moves:    scheduler.SuggestMoves(capacity, grid, cal.Bookings),
	}
	if len(out.Flagged) > 0 && len(out.Moves) == 0 {
		out.Warnings = append(out.Warnings, "no flexible session can move to a green day this week")
	}
	if len(cal.Blocks) == 0 {
		out.Warnings = append(out.Warnings, "no time blocks defined")
	}
	return out, nil
}

func (s *schedulingService) PendingCatchUps(ctx context.Context, childID int64) ([]*domain.CatchUpSession, error) {
	if _, err := loadChild(ctx, s.repos, s.userID, childID); err != nil {
		return nil, err
	}
	return s.repos.CatchUps.ListPending(ctx, childID)
}

func (s *schedulingService) UpdateCatchUpPriority(ctx context.Context, childID, catchUpID int64, priority int) (out *domain.CatchUpSession, err error) {
	defer observe(ctx, s.observer, "update-catch-up-priority", time.Now(), map[string]any{
		"child_id": childID, "catch_up_id": catchUpID, "priority": priority,
	}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteSet(tx)
		if _, err := loadChild(ctx, r, s.userID, childID); err != nil {
			return err
		}
		c, err := loadCatchUp(ctx, r, childID, catchUpID)
		if err != nil {
			return err
		}
		if !c.Pending() {
			return &domain.ValidationError{Field: "catch_up", Message: fmt.Sprintf("catch-up %d is already resolved", c.ID)}
		}
		if err := c.UpdatePriority(priority, nowUTC()); err != nil {
			return err
		}
		if err := r.CatchUps.Update(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *schedulingService) DiscardCatchUp(ctx context.Context, childID, catchUpID int64) (err error) {
	defer observe(ctx, s.observer, "discard-catch-up", time.Now(), map[string]any{
		"child_id": childID, "catch_up_id": catchUpID,
	}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteSet(tx)
		if _, err := loadChild(ctx, r, s.userID, childID); err != nil {
			return err
		}
		c, err := loadCatchUp(ctx, r, childID, catchUpID)
		if err != nil {
			return err
		}
		if err := r.Events.Append(ctx, c.DiscardedEvent(nowUTC())); err != nil {
			return fmt.Errorf("appending events: %w", err)
		}
		return r.CatchUps.Delete(ctx, c.ID)
	})
}
