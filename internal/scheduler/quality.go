package scheduler

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/cadence/internal/domain"
)

const (
	CodeDayShare       = "DAY_SHARE"
	CodeNoBuffer       = "NO_BUFFER"
	CodeOverCapacity   = "OVER_CAPACITY"
	CodeFixedStack     = "FIXED_STACK"
	CodeLongSession    = "LONG_SESSION"
	CodeCatchUpBacklog = "CATCH_UP_BACKLOG"
	CodeNoAvailability = "NO_AVAILABILITY"
)

// QualityConfig holds the policy thresholds.
type QualityConfig struct {
	DayShareMaxPct     int
	MaxBackToBackFixed int
	MaxFocusMinutes    int
}

func DefaultQualityConfig() QualityConfig {
	return QualityConfig{DayShareMaxPct: 40, MaxBackToBackFixed: 2, MaxFocusMinutes: 90}
}

// Recommendation is advisory. Day is zero for week-level findings.
type Recommendation struct {
	Severity domain.Severity
	Code     string
	Day      domain.Weekday
	Message  string
}

type QualityInput struct {
	Capacity        WeekCapacity
	Bookings        []Booking
	PendingCatchUps int
}

type QualityResult struct {
	Score           int
	Recommendations []Recommendation
}

var severityPenalty = map[domain.Severity]int{
	domain.SeverityCritical: 25,
	domain.SeverityWarning:  10,
	domain.SeverityInfo:     2,
}

// EvaluateQuality runs every heuristic over the week and scores the result.
func EvaluateQuality(in QualityInput, cfg QualityConfig) QualityResult {
	var recs []Recommendation
	add := func(sev domain.Severity, code string, day domain.Weekday, format string, args ...any) {
		recs = append(recs, Recommendation{Severity: sev, Code: code, Day: day, Message: fmt.Sprintf(format, args...)})
	}

	if in.Capacity.TotalAvailable() == 0 {
		add(domain.SeverityInfo, CodeNoAvailability, 0, "no time blocks set up yet; add availability before scheduling")
	}

	total := in.Capacity.TotalScheduled()
	activeDays := 0
	for _, d := range in.Capacity.Days {
		if d.ScheduledMinutes > 0 {
			activeDays++
		}
	}

	for _, d := range in.Capacity.Days {
		switch {
		case d.Overbooked():
			add(domain.SeverityCritical, CodeOverCapacity, d.Day,
				"%s has %d min scheduled but only %d min available", d.Day, d.ScheduledMinutes, d.AvailableMinutes)
		case d.AvailableMinutes > 0 && d.RemainingMinutes == 0:
			add(domain.SeverityWarning, CodeNoBuffer, d.Day,
				"%s is fully booked with no buffer for overruns", d.Day)
		}
		if activeDays >= 2 && total > 0 {
			share := UtilizationPercent(d.ScheduledMinutes, total)
			if share > cfg.DayShareMaxPct {
				add(domain.SeverityWarning, CodeDayShare, d.Day,
					"%s carries %d%% of the week's scheduled minutes", d.Day, share)
			}
		}
	}

	for day, run := range fixedRuns(in.Bookings, in.Capacity) {
		if run > cfg.MaxBackToBackFixed {
			add(domain.SeverityWarning, CodeFixedStack, day,
				"%s stacks %d fixed sessions back-to-back", day, run)
		}
	}

	for _, b := range in.Bookings {
		if b.Kind != domain.OverlapSession || !b.InWeek(in.Capacity.WeekStart) {
			continue
		}
		if b.Minutes > cfg.MaxFocusMinutes {
			add(domain.SeverityWarning, CodeLongSession, b.Day,
				"session %d runs %d min; consider splitting it (max %d)", b.SessionID, b.Minutes, cfg.MaxFocusMinutes)
		}
	}

	switch {
	case in.PendingCatchUps > 5:
		add(domain.SeverityCritical, CodeCatchUpBacklog, 0, "%d catch-up sessions are waiting", in.PendingCatchUps)
	case in.PendingCatchUps > 2:
		add(domain.SeverityWarning, CodeCatchUpBacklog, 0, "%d catch-up sessions are waiting", in.PendingCatchUps)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Code < b.Code
	})

	score := 100
	for _, r := range recs {
		score -= severityPenalty[r.Severity]
	}
	return QualityResult{Score: max(0, score), Recommendations: recs}
}

// fixedRuns finds, per day, the longest chain of fixed sessions where each
// one starts exactly when the previous ends.
func fixedRuns(bookings []Booking, capacity WeekCapacity) map[domain.Weekday]int {
	byDay := make(map[domain.Weekday][]domain.Interval)
	for _, b := range bookings {
		if b.Kind == domain.OverlapSession && b.Commitment == domain.CommitmentFixed && b.InWeek(capacity.WeekStart) {
			byDay[b.Day] = append(byDay[b.Day], b.Interval)
		}
	}
	out := make(map[domain.Weekday]int)
	for day, ivs := range byDay {
		items := domain.NewIntervalSet(ivs...).Items()
		longest, run := 1, 1
		for i := 1; i < len(items); i++ {
			if items[i].Start == items[i-1].End {
				run++
			} else {
				run = 1
			}
			longest = max(longest, run)
		}
		out[day] = longest
	}
	return out
}
