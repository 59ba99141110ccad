package app

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// TimeBlockInput carries the editable fields of a time block.
type TimeBlockInput struct {
	Day   domain.Weekday
	Start domain.Clock
	End   domain.Clock
	Label string
}

type CapacityRequest struct {
	Now     *time.Time
	ChildID int64
	// WeekOf selects the week containing this date; defaults to Now.
	WeekOf *time.Time
}

type SkipRequest struct {
	Now       *time.Time
	ChildID   int64
	SessionID int64
	Date      time.Time
	Reason    string
}

type RescheduleRequest struct {
	Now             *time.Time
	ChildID         int64
	SessionID       int64
	OriginalDate    time.Time
	IncludeNextWeek bool
	Limit           int
}

type RedistributeRequest struct {
	Now         *time.Time
	ChildID     int64
	MaxSessions int
	// From is the first date searched; defaults to Now.
	From            *time.Time
	IncludeNextWeek bool
}

// ResolveNow returns *now or the current UTC time.
func ResolveNow(now *time.Time) time.Time {
	if now != nil {
		return *now
	}
	return time.Now().UTC()
}
