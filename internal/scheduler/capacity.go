package scheduler

import (
	"math"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

const (
	RedThresholdPct    = 90
	YellowThresholdPct = 75
)

type DayCapacity struct {
	Day                domain.Weekday
	AvailableMinutes   int
	ScheduledMinutes   int
	RemainingMinutes   int
	UtilizationPercent int
	Status             domain.CapacityStatus
}

// Overbooked reports scheduled minutes beyond what the day's blocks allow.
func (d DayCapacity) Overbooked() bool { return d.ScheduledMinutes > d.AvailableMinutes }

type WeekCapacity struct {
	WeekStart time.Time
	Days      []DayCapacity // Monday first
}

// Day returns the snapshot for d.
func (w WeekCapacity) Day(d domain.Weekday) DayCapacity {
	return w.Days[int(d)-1]
}

func (w WeekCapacity) TotalAvailable() int {
	total := 0
	for _, d := range w.Days {
		total += d.AvailableMinutes
	}
	return total
}

func (w WeekCapacity) TotalScheduled() int {
	total := 0
	for _, d := range w.Days {
		total += d.ScheduledMinutes
	}
	return total
}

func (w WeekCapacity) TotalRemaining() int {
	total := 0
	for _, d := range w.Days {
		total += d.RemainingMinutes
	}
	return total
}

// UtilizationPercent rounds scheduled/available to a whole percent; no
// availability reads as zero.
func UtilizationPercent(scheduled, available int) int {
	if available <= 0 {
		return 0
	}
	return int(math.Round(float64(scheduled) / float64(available) * 100))
}

// ClassifyUtilization maps a utilization percentage onto the traffic light.
func ClassifyUtilization(pct int) domain.CapacityStatus {
	switch {
	case pct >= RedThresholdPct:
		return domain.CapacityRed
	case pct >= YellowThresholdPct:
		return domain.CapacityYellow
	default:
		return domain.CapacityGreen
	}
}

// ComputeWeeklyCapacity recomputes the per-day snapshot for the week starting
// at weekStart. Bookings pinned to a date outside the week are ignored.
func ComputeWeeklyCapacity(blocks []domain.TimeBlock, bookings []Booking, weekStart time.Time) WeekCapacity {
	weekStart = domain.WeekStart(weekStart)
	available := make(map[domain.Weekday]int)
	for _, b := range blocks {
		available[b.Day] += b.DurationMinutes()
	}
	scheduled := make(map[domain.Weekday]int)
	for _, b := range bookings {
		if b.InWeek(weekStart) {
			scheduled[b.Day] += b.Minutes
		}
	}

	out := WeekCapacity{WeekStart: weekStart, Days: make([]DayCapacity, 0, 7)}
	for _, d := range domain.AllWeekdays {
		pct := UtilizationPercent(scheduled[d], available[d])
		out.Days = append(out.Days, DayCapacity{
			Day:                d,
			AvailableMinutes:   available[d],
			ScheduledMinutes:   scheduled[d],
			RemainingMinutes:   max(0, available[d]-scheduled[d]),
			UtilizationPercent: pct,
			Status:             ClassifyUtilization(pct),
		})
	}
	return out
}

// DetermineCapacityStatus is the weekly health classifier. Rules are
// evaluated in order; the first match wins.
func DetermineCapacityStatus(catchUpCount int, completionRate float64) domain.PlanHealth {
	switch {
	case catchUpCount > 5:
		return domain.HealthOverloaded
	case catchUpCount > 2:
		return domain.HealthBehind
	case completionRate >= 0.8:
		return domain.HealthOnTrack
	case completionRate >= 0.6:
		return domain.HealthModerate
	default:
		return domain.HealthNeedsAttention
	}
}

type WeekSummary struct {
	TotalAvailable     int
	TotalScheduled     int
	TotalRemaining     int
	UtilizationPercent int
	CompletedMinutes   int
	CompletedSessions  int
	ScheduledSessions  int
	SkippedSessions    int
	CatchUpCount       int
	CompletionRate     float64
	Health             domain.PlanHealth
}

// SummarizeWeek combines the capacity snapshot with session progress. Only
// session bookings count as sessions; a session with a pending catch-up for
// a date in the week is skipped and never completed.
func SummarizeWeek(capacity WeekCapacity, bookings []Booking, pending []*domain.CatchUpSession) WeekSummary {
	weekEnd := capacity.WeekStart.AddDate(0, 0, 7)
	skipped := make(map[int64]bool)
	for _, c := range pending {
		if !c.OriginalDate.Before(capacity.WeekStart) && c.OriginalDate.Before(weekEnd) {
			skipped[c.OriginalSessionID] = true
		}
	}

	s := WeekSummary{
		TotalAvailable: capacity.TotalAvailable(),
		TotalScheduled: capacity.TotalScheduled(),
		TotalRemaining: capacity.TotalRemaining(),
		CatchUpCount:   len(pending),
	}
	s.UtilizationPercent = UtilizationPercent(s.TotalScheduled, s.TotalAvailable)

	for _, b := range bookings {
		if b.Kind != domain.OverlapSession || !b.InWeek(capacity.WeekStart) {
			continue
		}
		s.ScheduledSessions++
		if skipped[b.SessionID] {
			s.SkippedSessions++
			continue
		}
		if b.CompletedIn(capacity.WeekStart) {
			s.CompletedSessions++
			s.CompletedMinutes += b.Minutes
		}
	}
	if s.ScheduledSessions > 0 {
		s.CompletionRate = float64(s.CompletedSessions) / float64(s.ScheduledSessions)
	}
	s.Health = DetermineCapacityStatus(s.CatchUpCount, s.CompletionRate)
	return s
}
