package domain

import (
	"fmt"
	"strings"
	"time"
)

// Placement is where a session (or a redistributed catch-up) sits on the
// weekly calendar. Date pins it to one concrete day; nil means it recurs
// every week on Day.
type Placement struct {
	Day   Weekday
	Start Clock
	End   Clock
	Date  *time.Time
}

func (p Placement) Interval() Interval { return Interval{Start: p.Start, End: p.End} }

// AppliesTo reports whether the placement occupies the given calendar date.
func (p Placement) AppliesTo(date time.Time) bool {
	if p.Date != nil {
		return DateOf(*p.Date).Equal(DateOf(date))
	}
	return p.Day == WeekdayOf(date)
}

// InWeek reports whether the placement is active in the week starting at weekStart.
func (p Placement) InWeek(weekStart time.Time) bool {
	if p.Date == nil {
		return true
	}
	d := DateOf(*p.Date)
	return !d.Before(weekStart) && d.Before(weekStart.AddDate(0, 0, 7))
}

// ScheduleCommand asks for a session to be placed on the calendar.
type ScheduleCommand struct {
	Day   Weekday
	Start Clock
	End   Clock
	Date  *time.Time
}

func (c ScheduleCommand) Validate() error {
	if !c.Day.Valid() {
		return &ValidationError{Field: "day", Message: "day must be between 1 (Monday) and 7 (Sunday)"}
	}
	if _, err := NewInterval(c.Start, c.End); err != nil {
		return err
	}
	if c.Date != nil && WeekdayOf(*c.Date) != c.Day {
		return &ValidationError{
			Field:   "date",
			Message: fmt.Sprintf("%s is a %s, not a %s", c.Date.Format(DateLayout), WeekdayOf(*c.Date), c.Day),
		}
	}
	return nil
}

func (c ScheduleCommand) Interval() Interval { return Interval{Start: c.Start, End: c.End} }

// Session is one (child, topic) unit of study work. Values are treated as
// immutable: transitions return a new Session and the events they produced.
type Session struct {
	ID               int64
	ChildID          int64
	TopicID          int64
	EstimatedMinutes int
	Status           SessionStatus
	Commitment       CommitmentType
	Placement        *Placement
	CompletedAt      *time.Time
	EvidenceNote     string
	EvidenceURL      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// NewSession builds a backlog session after validating its inputs.
func NewSession(childID, topicID int64, estimatedMinutes int, commitment CommitmentType, now time.Time) (Session, error) {
	if estimatedMinutes <= 0 {
		return Session{}, &ValidationError{Field: "estimated_minutes", Message: "must be positive"}
	}
	if commitment == "" {
		commitment = CommitmentFlexible
	}
	if !ValidCommitmentTypes[commitment] {
		return Session{}, &ValidationError{Field: "commitment", Message: fmt.Sprintf("unknown commitment type %q", commitment)}
	}
	return Session{
		ChildID:          childID,
		TopicID:          topicID,
		EstimatedMinutes: estimatedMinutes,
		Status:           SessionBacklog,
		Commitment:       commitment,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (s Session) Slot() (Weekday, Interval, bool) {
	if s.Placement == nil {
		return 0, Interval{}, false
	}
	return s.Placement.Day, s.Placement.Interval(), true
}

// OverlapsWith compares against a time block or another session.
func (s Session) OverlapsWith(other Slotted) bool { return SlotsOverlap(s, other) }

// IsPlaced reports whether the session has calendar fields set.
func (s Session) IsPlaced() bool { return s.Placement != nil }

// Occupies reports whether the session holds its calendar slot: placed, live,
// and either scheduled or already done.
func (s Session) Occupies() bool {
	return s.DeletedAt == nil && s.Placement != nil &&
		(s.Status == SessionScheduled || s.Status == SessionDone)
}

// OccupiedUntil is the exclusive end of a weekly placement. A recurring
// session that is done stops holding its slot after the week it was
// completed in; nil means it keeps recurring.
func (s Session) OccupiedUntil() *time.Time {
	if s.Status != SessionDone || s.CompletedAt == nil || s.Placement == nil || s.Placement.Date != nil {
		return nil
	}
	until := WeekStart(CalendarDate(*s.CompletedAt)).AddDate(0, 0, 7)
	return &until
}

// WithStatus is the unconditional status update. Only the four lifecycle
// states are accepted; moving to done stamps CompletedAt and moving away from
// done clears it.
func (s Session) WithStatus(status SessionStatus, now time.Time) (Session, []Event, error) {
	if !ValidSessionStatuses[status] {
		return s, nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	if status == s.Status {
		return s, nil, nil
	}
	next := s.clone()
	prev := s.Status
	next.Status = status
	next.UpdatedAt = now
	if status == SessionDone {
		t := now
		next.CompletedAt = &t
	} else {
		next.CompletedAt = nil
	}
	ev := newEvent(EventSessionStatusChanged, s.ChildID, s.ID, now, map[string]string{
		"from": string(prev),
		"to":   string(status),
	})
	return next, []Event{ev}, nil
}

// Schedule applies the command: placement is set and the session becomes
// scheduled. Collision checks against other sessions are the caller's job
// because they need the child's other rows.
func (s Session) Schedule(cmd ScheduleCommand, now time.Time) (Session, []Event, error) {
	if err := cmd.Validate(); err != nil {
		return s, nil, err
	}
	if s.Status == SessionDone {
		return s, nil, &ValidationError{Field: "status", Message: "cannot schedule a completed session"}
	}
	next := s.clone()
	p := Placement{Day: cmd.Day, Start: cmd.Start, End: cmd.End}
	if cmd.Date != nil {
		d := DateOf(*cmd.Date)
		p.Date = &d
	}
	next.Placement = &p
	next.Status = SessionScheduled
	next.UpdatedAt = now

	payload := map[string]string{
		"day":   cmd.Day.String(),
		"start": cmd.Start.String(),
		"end":   cmd.End.String(),
	}
	if p.Date != nil {
		payload["date"] = p.Date.Format(DateLayout)
	}
	return next, []Event{newEvent(EventSessionScheduled, s.ChildID, s.ID, now, payload)}, nil
}

// Unschedule clears placement and returns the session to planned.
func (s Session) Unschedule(now time.Time) (Session, []Event, error) {
	if s.Placement == nil && s.Status != SessionScheduled {
		return s, nil, nil
	}
	if s.Status == SessionDone {
		return s, nil, &ValidationError{Field: "status", Message: "cannot unschedule a completed session"}
	}
	next := s.clone()
	payload := map[string]string{}
	if s.Placement != nil {
		payload["day"] = s.Placement.Day.String()
		payload["start"] = s.Placement.Start.String()
		payload["end"] = s.Placement.End.String()
	}
	next.Placement = nil
	next.Status = SessionPlanned
	next.UpdatedAt = now
	return next, []Event{newEvent(EventSessionUnscheduled, s.ChildID, s.ID, now, payload)}, nil
}

// RecordEvidence attaches completion evidence.
func (s Session) RecordEvidence(note, url string, now time.Time) Session {
	next := s.clone()
	next.EvidenceNote = strings.TrimSpace(note)
	next.EvidenceURL = strings.TrimSpace(url)
	next.UpdatedAt = now
	return next
}

// SkippedEvent records that one occurrence was missed.
func (s Session) SkippedEvent(catchUpID int64, date time.Time, reason string, now time.Time) Event {
	ev := newEvent(EventSessionSkipped, s.ChildID, s.ID, now, map[string]string{
		"date":   date.Format(DateLayout),
		"reason": reason,
	})
	ev.CatchUpID = &catchUpID
	return ev
}

func (s Session) clone() Session {
	next := s
	if s.Placement != nil {
		p := *s.Placement
		if p.Date != nil {
			d := *p.Date
			p.Date = &d
		}
		next.Placement = &p
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		next.CompletedAt = &t
	}
	return next
}
