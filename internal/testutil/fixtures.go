package testutil

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Monday is the reference week used across tests: Monday 2025-06-16.
var Monday = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

// Day returns the date offset days after Monday.
func Day(offset int) time.Time { return Monday.AddDate(0, 0, offset) }

// At returns Monday at the given wall-clock time, offset by days.
func At(offset, hour, minute int) time.Time {
	return Day(offset).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func NewTestChild(name string) *domain.Child {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Child{
		UserID:    domain.DefaultUserID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestTopic(name, subject string) *domain.Topic {
	return &domain.Topic{
		UserID:    domain.DefaultUserID,
		Name:      name,
		Subject:   subject,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// TimeBlock options
type BlockOption func(*domain.TimeBlock)

func WithLabel(label string) BlockOption {
	return func(b *domain.TimeBlock) {
		b.Label = label
	}
}

// NewTestTimeBlock builds a block from "HH:MM" bounds.
func NewTestTimeBlock(childID int64, day domain.Weekday, start, end string, opts ...BlockOption) *domain.TimeBlock {
	now := time.Now().UTC().Truncate(time.Second)
	b := &domain.TimeBlock{
		ChildID:   childID,
		Day:       day,
		Start:     Clock(start),
		End:       Clock(end),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Session options
type SessionOption func(*domain.Session)

func WithMinutes(m int) SessionOption {
	return func(s *domain.Session) {
		s.EstimatedMinutes = m
	}
}

func WithCommitment(c domain.CommitmentType) SessionOption {
	return func(s *domain.Session) {
		s.Commitment = c
	}
}

func WithStatus(st domain.SessionStatus) SessionOption {
	return func(s *domain.Session) {
		s.Status = st
	}
}

// WithPlacement places the session weekly on day; it also marks it scheduled.
func WithPlacement(day domain.Weekday, start, end string) SessionOption {
	return func(s *domain.Session) {
		s.Placement = &domain.Placement{Day: day, Start: Clock(start), End: Clock(end)}
		s.Status = domain.SessionScheduled
	}
}

// WithPlacementOn pins the placement to a single date.
func WithPlacementOn(date time.Time, start, end string) SessionOption {
	return func(s *domain.Session) {
		d := domain.DateOf(date)
		s.Placement = &domain.Placement{
			Day:   domain.WeekdayOf(d),
			Start: Clock(start),
			End:   Clock(end),
			Date:  &d,
		}
		s.Status = domain.SessionScheduled
	}
}

func NewTestSession(childID, topicID int64, opts ...SessionOption) *domain.Session {
	now := time.Now().UTC().Truncate(time.Second)
	s := &domain.Session{
		ChildID:          childID,
		TopicID:          topicID,
		EstimatedMinutes: 60,
		Status:           domain.SessionBacklog,
		Commitment:       domain.CommitmentFlexible,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clock parses "HH:MM" and panics on bad input.
func Clock(s string) domain.Clock {
	c, err := domain.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}
