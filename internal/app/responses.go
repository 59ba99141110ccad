package app

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type WeeklyCapacity struct {
	ChildID   int64
	WeekStart time.Time
	Days      []scheduler.DayCapacity
	Summary   scheduler.WeekSummary
}

type RescheduleResult struct {
	Session  *domain.Session
	Slots    []scheduler.Slot
	Warnings []string
}

type RedistributeResult struct {
	Redistributed []*domain.CatchUpSession
	StillPending  int
	Warnings      []string
}

type AnalysisReport struct {
	Capacity *WeeklyCapacity
	Flagged  []scheduler.DayCapacity
	Moves    []scheduler.Move
	Warnings []string
}

type QualityReport struct {
	ChildID         int64
	WeekStart       time.Time
	Score           int
	Recommendations []scheduler.Recommendation
}

// HasCritical reports whether any recommendation is critical.
func (r *QualityReport) HasCritical() bool {
	for _, rec := range r.Recommendations {
		if rec.Severity == domain.SeverityCritical {
			return true
		}
	}
	return false
}
