package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Move proposes relocating one flexible session off a strained day.
type Move struct {
	SessionID int64
	From      domain.Weekday
	FromSlot  domain.Interval
	To        Slot
	Minutes   int
}

// FlaggedDays returns the red and yellow days, most strained first.
func FlaggedDays(capacity WeekCapacity) []DayCapacity {
	var out []DayCapacity
	for _, d := range capacity.Days {
		if d.Status != domain.CapacityGreen {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UtilizationPercent > out[j].UtilizationPercent
	})
	return out
}

// SuggestMoves proposes moving flexible sessions from red/yellow days to
// green days of the same week whose remaining minutes cover them. A source
// day stops shedding sessions once it would read green. The grid is updated
// as moves are proposed so two moves never claim the same window.
func SuggestMoves(capacity WeekCapacity, grid *WeekGrid, bookings []Booking) []Move {
	week := capacity.WeekStart
	scheduled := make(map[domain.Weekday]int)
	for _, d := range capacity.Days {
		scheduled[d.Day] = d.ScheduledMinutes
	}

	var moves []Move
	for _, day := range FlaggedDays(capacity) {
		candidates := movableOn(bookings, day.Day, week)
		for _, b := range candidates {
			if ClassifyUtilization(UtilizationPercent(scheduled[day.Day], day.AvailableMinutes)) == domain.CapacityGreen {
				break
			}
			slot, ok := greenSlot(capacity, grid, b.Minutes)
			if !ok {
				continue
			}
			grid.Book(Booking{
				Kind:       domain.OverlapSession,
				ID:         b.ID,
				SessionID:  b.SessionID,
				Day:        slot.Day,
				Date:       &slot.Date,
				Interval:   slot.Interval,
				Minutes:    b.Minutes,
				Commitment: b.Commitment,
				Status:     b.Status,
			})
			scheduled[day.Day] -= b.Minutes
			moves = append(moves, Move{
				SessionID: b.SessionID,
				From:      b.Day,
				FromSlot:  b.Interval,
				To:        slot,
				Minutes:   b.Minutes,
			})
		}
	}
	return moves
}

// movableOn lists flexible, not yet completed sessions on day, longest first.
func movableOn(bookings []Booking, day domain.Weekday, week time.Time) []Booking {
	var out []Booking
	for _, b := range bookings {
		if b.Kind != domain.OverlapSession || b.Day != day || !b.InWeek(week) ||
			b.Commitment != domain.CommitmentFlexible || b.Status == domain.SessionDone {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func greenSlot(capacity WeekCapacity, grid *WeekGrid, minutes int) (Slot, bool) {
	for i, d := range capacity.Days {
		if d.Status != domain.CapacityGreen || d.AvailableMinutes == 0 {
			continue
		}
		date := capacity.WeekStart.AddDate(0, 0, i)
		if slot, ok := grid.FirstFit(date, minutes); ok {
			return slot, true
		}
	}
	return Slot{}, false
}
