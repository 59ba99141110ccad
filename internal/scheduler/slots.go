package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// DefaultSuggestionLimit caps reschedule suggestions when the caller passes 0.
const DefaultSuggestionLimit = 5

// Slot is a concrete free window on a calendar date.
type Slot struct {
	Date     time.Time
	Day      domain.Weekday
	Interval domain.Interval
	BlockID  int64
}

// Placement pins the slot to its date.
func (s Slot) Placement() domain.Placement {
	d := s.Date
	return domain.Placement{Day: s.Day, Start: s.Interval.Start, End: s.Interval.End, Date: &d}
}

// WeekGrid answers "what is free on this date" for one child. It is built
// from fresh rows on every call and updated in place as placements are made.
type WeekGrid struct {
	blocks   map[domain.Weekday][]domain.TimeBlock
	bookings []Booking
}

func NewWeekGrid(blocks []domain.TimeBlock, bookings []Booking) *WeekGrid {
	g := &WeekGrid{blocks: make(map[domain.Weekday][]domain.TimeBlock)}
	for _, b := range blocks {
		g.blocks[b.Day] = append(g.blocks[b.Day], b)
	}
	for d := range g.blocks {
		day := g.blocks[d]
		sort.Slice(day, func(i, j int) bool { return day[i].Start < day[j].Start })
	}
	g.bookings = append(g.bookings, bookings...)
	return g
}

// Book records a new occupant so later searches see it.
func (g *WeekGrid) Book(b Booking) {
	g.bookings = append(g.bookings, b)
}

// Occupied collects every booked interval on date.
func (g *WeekGrid) Occupied(date time.Time) *domain.IntervalSet {
	set := domain.NewIntervalSet()
	for _, b := range g.bookings {
		if b.AppliesTo(date) {
			set.Add(b.Interval)
		}
	}
	return set
}

// Available sums block minutes on the date's weekday.
func (g *WeekGrid) Available(date time.Time) int {
	total := 0
	for _, b := range g.blocks[domain.WeekdayOf(date)] {
		total += b.DurationMinutes()
	}
	return total
}

// Remaining is the date's capacity left after everything booked on it.
func (g *WeekGrid) Remaining(date time.Time) int {
	used := 0
	for _, b := range g.bookings {
		if b.AppliesTo(date) {
			used += b.Minutes
		}
	}
	return max(0, g.Available(date)-used)
}

// FreeWindows returns the earliest minutes-long window of every free gap
// inside the date's blocks, in start order. Nothing is returned when the
// date's remaining capacity cannot cover minutes.
func (g *WeekGrid) FreeWindows(date time.Time, minutes int) []Slot {
	return g.freeWindowsFrom(date, minutes, 0)
}

// freeWindowsFrom is FreeWindows with every window starting at or after earliest.
func (g *WeekGrid) freeWindowsFrom(date time.Time, minutes int, earliest domain.Clock) []Slot {
	if minutes <= 0 || g.Remaining(date) < minutes {
		return nil
	}
	date = domain.DateOf(date)
	day := domain.WeekdayOf(date)
	occupied := g.Occupied(date)

	var out []Slot
	for _, block := range g.blocks[day] {
		for _, gap := range occupied.Gaps(block.Interval(), minutes) {
			start := max(gap.Start, earliest)
			if int(gap.End-start) < minutes {
				continue
			}
			out = append(out, Slot{
				Date:     date,
				Day:      day,
				Interval: domain.Interval{Start: start, End: start.Add(minutes)},
				BlockID:  block.ID,
			})
		}
	}
	return out
}

// FirstFit returns the earliest window on date, if any.
func (g *WeekGrid) FirstFit(date time.Time, minutes int) (Slot, bool) {
	windows := g.FreeWindows(date, minutes)
	if len(windows) == 0 {
		return Slot{}, false
	}
	return windows[0], true
}

type SlotQuery struct {
	Minutes    int
	Commitment domain.CommitmentType
	// Home is the weekday fixed and preferred sessions belong to. Zero
	// falls back to the weekday of OriginalDate.
	Home            domain.Weekday
	OriginalDate    time.Time
	IncludeNextWeek bool
	// NotBefore drops windows that start before this instant.
	NotBefore time.Time
	Limit     int
}

// SearchDates lists the dates from the original date to the end of its week,
// plus the following week when asked.
func SearchDates(original time.Time, includeNextWeek bool) []time.Time {
	original = domain.DateOf(original)
	end := domain.WeekStart(original).AddDate(0, 0, 7)
	if includeNextWeek {
		end = end.AddDate(0, 0, 7)
	}
	var dates []time.Time
	for d := original; d.Before(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// FindSlots ranks free windows for a session by commitment type. Fixed
// sessions only see their own weekday; preferred sessions see it first;
// flexible sessions see every day. Within a rank the soonest slot wins.
func FindSlots(g *WeekGrid, q SlotQuery) []Slot {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	home := q.Home
	if !home.Valid() {
		home = domain.WeekdayOf(q.OriginalDate)
	}

	var same, other []Slot
	for _, date := range SearchDates(q.OriginalDate, q.IncludeNextWeek) {
		earliest, ok := cutoff(date, q.NotBefore)
		if !ok {
			continue
		}
		for _, slot := range g.freeWindowsFrom(date, q.Minutes, earliest) {
			if slot.Day == home {
				same = append(same, slot)
			} else {
				other = append(other, slot)
			}
		}
	}

	var ranked []Slot
	switch q.Commitment {
	case domain.CommitmentFixed:
		ranked = same
	case domain.CommitmentPreferred:
		ranked = append(same, other...)
	default:
		ranked = mergeByTime(same, other)
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// cutoff is the first usable clock on date given notBefore. Dates wholly
// before notBefore are unusable.
func cutoff(date, notBefore time.Time) (domain.Clock, bool) {
	if notBefore.IsZero() {
		return 0, true
	}
	day := domain.DateOf(date)
	nb := domain.CalendarDate(notBefore)
	switch {
	case day.Before(nb):
		return 0, false
	case day.After(nb):
		return 0, true
	}
	c := domain.Clock(notBefore.Hour()*60 + notBefore.Minute())
	if notBefore.Second() > 0 || notBefore.Nanosecond() > 0 {
		c++
	}
	return c, true
}

func mergeByTime(a, b []Slot) []Slot {
	out := make([]Slot, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Interval.Start < out[j].Interval.Start
	})
	return out
}
