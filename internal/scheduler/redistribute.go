package scheduler

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// CatchUpItem is one queued catch-up with the length and commitment of the
// session it makes up.
type CatchUpItem struct {
	CatchUp    *domain.CatchUpSession
	Minutes    int
	Commitment domain.CommitmentType
}

type Assignment struct {
	CatchUp *domain.CatchUpSession
	Slot    Slot
}

// RedistributionStrategy decides where queued catch-ups go. Items arrive in
// queue order; anything left out of the result stays pending. Nothing is
// placed before from, nor before the occurrence a catch-up replaces.
type RedistributionStrategy interface {
	Place(grid *WeekGrid, items []CatchUpItem, from time.Time) []Assignment
}

// GreedyStrategy walks the queue in priority order and gives each item the
// best-ranked slot FindSlots offers for its commitment: fixed items stay on
// their weekday, preferred items try it first. It is first-fit, not globally
// optimal: a long low-priority item may be left pending where a different
// packing would have fit it.
type GreedyStrategy struct {
	IncludeNextWeek bool
}

func (s GreedyStrategy) Place(grid *WeekGrid, items []CatchUpItem, from time.Time) []Assignment {
	var out []Assignment
	for _, item := range items {
		start := from
		if original := domain.DateOf(item.CatchUp.OriginalDate); original.After(start) {
			start = original
		}
		slots := FindSlots(grid, SlotQuery{
			Minutes:         item.Minutes,
			Commitment:      item.Commitment,
			Home:            domain.WeekdayOf(item.CatchUp.OriginalDate),
			OriginalDate:    start,
			IncludeNextWeek: s.IncludeNextWeek,
			NotBefore:       from,
			Limit:           1,
		})
		if len(slots) == 0 {
			continue
		}
		slot := slots[0]
		grid.Book(Booking{
			Kind:       domain.OverlapCatchUp,
			ID:         item.CatchUp.ID,
			SessionID:  item.CatchUp.OriginalSessionID,
			Day:        slot.Day,
			Date:       &slot.Date,
			Interval:   slot.Interval,
			Minutes:    item.Minutes,
			Commitment: item.Commitment,
			Status:     domain.SessionScheduled,
		})
		out = append(out, Assignment{CatchUp: item.CatchUp, Slot: slot})
	}
	return out
}
