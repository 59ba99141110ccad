package domain

import (
	"fmt"
	"sort"
)

// Interval is a half-open time-of-day range [Start, End).
type Interval struct {
	Start Clock
	End   Clock
}

// NewInterval validates that start precedes end and both are in range.
func NewInterval(start, end Clock) (Interval, error) {
	if start < 0 || end > MinutesPerDay {
		return Interval{}, &ValidationError{Field: "time", Message: "time out of range"}
	}
	if start >= end {
		return Interval{}, &ValidationError{
			Field:   "end",
			Message: fmt.Sprintf("end %s must be after start %s", end, start),
		}
	}
	return Interval{Start: start, End: end}, nil
}

// Minutes is the length of the interval.
func (iv Interval) Minutes() int { return int(iv.End - iv.Start) }

// Overlaps reports whether two half-open intervals intersect. Touching
// intervals ([9:00,10:00) and [10:00,11:00)) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Contains reports whether other lies entirely within iv.
func (iv Interval) Contains(other Interval) bool {
	return iv.Start <= other.Start && other.End <= iv.End
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s-%s", iv.Start, iv.End)
}

// IntervalSet is the one place overlap math lives. Members are kept sorted by
// start; duplicates and overlapping members are allowed so callers can load
// existing rows as they are and ask for conflicts.
type IntervalSet struct {
	items []Interval
}

// NewIntervalSet builds a set from the given intervals.
func NewIntervalSet(ivs ...Interval) *IntervalSet {
	s := &IntervalSet{}
	for _, iv := range ivs {
		s.Add(iv)
	}
	return s
}

// Add inserts iv keeping start order.
func (s *IntervalSet) Add(iv Interval) {
	i := sort.Search(len(s.items), func(i int) bool {
		if s.items[i].Start != iv.Start {
			return s.items[i].Start > iv.Start
		}
		return s.items[i].End > iv.End
	})
	s.items = append(s.items, Interval{})
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = iv
}

// Len returns the number of members.
func (s *IntervalSet) Len() int { return len(s.items) }

// Items returns a copy of the members in start order.
func (s *IntervalSet) Items() []Interval {
	out := make([]Interval, len(s.items))
	copy(out, s.items)
	return out
}

// Conflict returns the first member overlapping iv.
func (s *IntervalSet) Conflict(iv Interval) (Interval, bool) {
	for _, m := range s.items {
		if m.Start >= iv.End {
			break
		}
		if m.Overlaps(iv) {
			return m, true
		}
	}
	return Interval{}, false
}

// TotalMinutes sums member lengths without merging; overlapping members are
// counted twice, which matches how committed minutes are summed per row.
func (s *IntervalSet) TotalMinutes() int {
	total := 0
	for _, m := range s.items {
		total += m.Minutes()
	}
	return total
}

// Gaps returns the free sub-intervals of window not covered by any member,
// keeping only gaps of at least minMinutes.
func (s *IntervalSet) Gaps(window Interval, minMinutes int) []Interval {
	var gaps []Interval
	cursor := window.Start
	for _, m := range s.items {
		if m.End <= cursor {
			continue
		}
		if m.Start >= window.End {
			break
		}
		if m.Start > cursor {
			if gap := (Interval{Start: cursor, End: m.Start}); gap.Minutes() >= minMinutes {
				gaps = append(gaps, gap)
			}
		}
		if m.End > cursor {
			cursor = m.End
		}
		if cursor >= window.End {
			return gaps
		}
	}
	if cursor < window.End {
		if gap := (Interval{Start: cursor, End: window.End}); gap.Minutes() >= minMinutes {
			gaps = append(gaps, gap)
		}
	}
	return gaps
}
