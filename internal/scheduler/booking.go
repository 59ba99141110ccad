package scheduler

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Booking is one occupied slot on a child's calendar: a placed session or a
// redistributed catch-up.
type Booking struct {
	Kind       domain.OverlapKind
	ID         int64
	SessionID  int64
	Day        domain.Weekday
	Date       *time.Time // nil recurs every week
	Interval   domain.Interval
	Minutes    int
	Commitment domain.CommitmentType
	Status     domain.SessionStatus

	// Until is the exclusive end of a recurring booking; nil runs forever.
	Until       *time.Time
	CompletedAt *time.Time
}

func (b Booking) placement() domain.Placement {
	return domain.Placement{Day: b.Day, Start: b.Interval.Start, End: b.Interval.End, Date: b.Date}
}

// AppliesTo reports whether the booking occupies the given calendar date.
func (b Booking) AppliesTo(date time.Time) bool {
	return b.placement().AppliesTo(date) && b.activeOn(date)
}

// InWeek reports whether the booking is active in the week starting at weekStart.
func (b Booking) InWeek(weekStart time.Time) bool {
	return b.placement().InWeek(weekStart) && b.activeOn(weekStart)
}

func (b Booking) activeOn(date time.Time) bool {
	return b.Until == nil || domain.DateOf(date).Before(*b.Until)
}

// CompletedIn reports whether the booking was marked done inside the week.
func (b Booking) CompletedIn(weekStart time.Time) bool {
	if b.Status != domain.SessionDone {
		return false
	}
	if b.CompletedAt == nil {
		return true
	}
	return domain.WeekStart(domain.CalendarDate(*b.CompletedAt)).Equal(weekStart)
}

// SessionBookings keeps the sessions that hold their slot.
func SessionBookings(sessions []domain.Session) []Booking {
	var out []Booking
	for _, s := range sessions {
		if !s.Occupies() {
			continue
		}
		out = append(out, Booking{
			Kind:        domain.OverlapSession,
			ID:          s.ID,
			SessionID:   s.ID,
			Day:         s.Placement.Day,
			Date:        s.Placement.Date,
			Interval:    s.Placement.Interval(),
			Minutes:     s.EstimatedMinutes,
			Commitment:  s.Commitment,
			Status:      s.Status,
			Until:       s.OccupiedUntil(),
			CompletedAt: s.CompletedAt,
		})
	}
	return out
}

// CatchUpBookings keeps the resolved catch-ups that were given a slot.
func CatchUpBookings(items []*domain.CatchUpSession) []Booking {
	var out []Booking
	for _, c := range items {
		if c.Pending() || c.Placement == nil {
			continue
		}
		out = append(out, catchUpBooking(c))
	}
	return out
}

func catchUpBooking(c *domain.CatchUpSession) Booking {
	return Booking{
		Kind:       domain.OverlapCatchUp,
		ID:         c.ID,
		SessionID:  c.OriginalSessionID,
		Day:        c.Placement.Day,
		Date:       c.Placement.Date,
		Interval:   c.Placement.Interval(),
		Minutes:    c.Placement.Interval().Minutes(),
		Commitment: domain.CommitmentFlexible,
		Status:     domain.SessionScheduled,
	}
}

// FindConflict returns a booking that collides with iv. A dated request only
// meets bookings on that date; a weekly request meets every booking on its
// weekday that is still active on or after from.
func FindConflict(bookings []Booking, day domain.Weekday, date *time.Time, iv domain.Interval, from time.Time) (Booking, bool) {
	set := domain.NewIntervalSet()
	byInterval := make(map[domain.Interval]Booking)
	for _, b := range bookings {
		if date != nil {
			if !b.AppliesTo(*date) {
				continue
			}
		} else if b.Day != day || (b.Date != nil && b.Date.Before(domain.DateOf(from))) || !b.activeOn(from) {
			continue
		}
		set.Add(b.Interval)
		if _, seen := byInterval[b.Interval]; !seen {
			byInterval[b.Interval] = b
		}
	}
	hit, ok := set.Conflict(iv)
	if !ok {
		return Booking{}, false
	}
	return byInterval[hit], true
}
