package domain

import (
	"fmt"
	"sort"
	"time"
)

const (
	MinCatchUpPriority     = 1
	MaxCatchUpPriority     = 5
	DefaultCatchUpPriority = 3
)

// CatchUpSession records one missed occurrence of a scheduled session.
type CatchUpSession struct {
	ID                int64
	ChildID           int64
	OriginalSessionID int64
	OriginalDate      time.Time
	Reason            string
	Priority          int
	ResolvedAt        *time.Time
	Placement         *Placement
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewCatchUp builds the pending record for a skipped occurrence.
func NewCatchUp(s Session, date time.Time, reason string, now time.Time) CatchUpSession {
	return CatchUpSession{
		ChildID:           s.ChildID,
		OriginalSessionID: s.ID,
		OriginalDate:      DateOf(date),
		Reason:            reason,
		Priority:          DefaultCatchUpPriority,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (c *CatchUpSession) Pending() bool { return c.ResolvedAt == nil }

// UpdatePriority accepts 1 (lowest) through 5 (highest).
func (c *CatchUpSession) UpdatePriority(p int, now time.Time) error {
	if p < MinCatchUpPriority || p > MaxCatchUpPriority {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("priority %d out of range 1-5", p)}
	}
	c.Priority = p
	c.UpdatedAt = now
	return nil
}

// Resolve records where the make-up occurrence was placed.
func (c *CatchUpSession) Resolve(p Placement, now time.Time) Event {
	c.Placement = &p
	c.ResolvedAt = &now
	c.UpdatedAt = now
	payload := map[string]string{
		"day":   p.Day.String(),
		"start": p.Start.String(),
		"end":   p.End.String(),
	}
	if p.Date != nil {
		payload["date"] = p.Date.Format(DateLayout)
	}
	ev := newEvent(EventCatchUpRedistributed, c.ChildID, c.OriginalSessionID, now, payload)
	id := c.ID
	ev.CatchUpID = &id
	return ev
}

// DiscardedEvent records a parent dropping the catch-up.
func (c *CatchUpSession) DiscardedEvent(now time.Time) Event {
	ev := newEvent(EventCatchUpDiscarded, c.ChildID, c.OriginalSessionID, now, map[string]string{
		"date": c.OriginalDate.Format(DateLayout),
	})
	id := c.ID
	ev.CatchUpID = &id
	return ev
}

// OccupiesDate reports whether a resolved catch-up holds a slot on date.
func (c *CatchUpSession) OccupiesDate(date time.Time) bool {
	return c.ResolvedAt != nil && c.Placement != nil && c.Placement.AppliesTo(date)
}

// SortPending orders the queue by priority descending, then oldest
// original date, then id. The id tie-break keeps the order total.
func SortPending(items []*CatchUpSession) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.OriginalDate.Equal(b.OriginalDate) {
			return a.OriginalDate.Before(b.OriginalDate)
		}
		return a.ID < b.ID
	})
}
