package domain

import "time"

// Slotted is anything that occupies a weekday interval: time blocks and
// placed sessions. ok is false when the value has no placement.
type Slotted interface {
	Slot() (day Weekday, iv Interval, ok bool)
}

// SlotsOverlap compares two slotted values on the same day using the shared
// half-open rule. It is symmetric by construction.
func SlotsOverlap(a, b Slotted) bool {
	dayA, ivA, okA := a.Slot()
	dayB, ivB, okB := b.Slot()
	if !okA || !okB || dayA != dayB {
		return false
	}
	_, hit := NewIntervalSet(ivA).Conflict(ivB)
	return hit
}

// TimeBlock is a recurring weekly window in which a child is available.
type TimeBlock struct {
	ID        int64
	ChildID   int64
	Day       Weekday
	Start     Clock
	End       Clock
	Label     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *TimeBlock) Validate() error {
	if !b.Day.Valid() {
		return &ValidationError{Field: "day", Message: "day must be between 1 (Monday) and 7 (Sunday)"}
	}
	_, err := NewInterval(b.Start, b.End)
	return err
}

func (b TimeBlock) Interval() Interval { return Interval{Start: b.Start, End: b.End} }

func (b TimeBlock) Slot() (Weekday, Interval, bool) { return b.Day, b.Interval(), true }

// DurationMinutes is the block's capacity contribution.
func (b TimeBlock) DurationMinutes() int { return b.Interval().Minutes() }

// OverlapsWith reports whether two blocks collide on the same day.
func (b TimeBlock) OverlapsWith(other Slotted) bool { return SlotsOverlap(b, other) }

// FindBlockConflict returns the first block in existing that collides with
// candidate, ignoring candidate's own row when editing.
func FindBlockConflict(candidate TimeBlock, existing []TimeBlock) (*TimeBlock, bool) {
	set := NewIntervalSet()
	byInterval := make(map[Interval]TimeBlock)
	for _, b := range existing {
		if b.Day != candidate.Day || (candidate.ID != 0 && b.ID == candidate.ID) {
			continue
		}
		set.Add(b.Interval())
		byInterval[b.Interval()] = b
	}
	hit, ok := set.Conflict(candidate.Interval())
	if !ok {
		return nil, false
	}
	b := byInterval[hit]
	return &b, true
}
