package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type capacityService struct {
	repos    repository.Set
	userID   string
	observer UseCaseObserver
}

func NewCapacityService(repos repository.Set, userID string, observers ...UseCaseObserver) CapacityService {
	return &capacityService{repos: repos, userID: userID, observer: useCaseObserverOrNoop(observers)}
}

func (s *capacityService) GetWeeklyCapacity(ctx context.Context, req app.CapacityRequest) (out *app.WeeklyCapacity, err error) {
	defer observe(ctx, s.observer, "weekly-capacity", time.Now(), map[string]any{
		"child_id": req.ChildID,
	}, &err)

	week := weekOf(req.WeekOf, app.ResolveNow(req.Now))
	out, _, err = weeklyCapacity(ctx, s.repos, s.userID, req.ChildID, week)
	return out, err
}

// weeklyCapacity recomputes the snapshot for one week from current rows and
// hands back the calendar it was built from.
func weeklyCapacity(ctx context.Context, r repository.Set, userID string, childID int64, week time.Time) (*app.WeeklyCapacity, *calendar, error) {
	if _, err := loadChild(ctx, r, userID, childID); err != nil {
		return nil, nil, err
	}
	cal, err := loadCalendar(ctx, r, childID, week, week.AddDate(0, 0, 7))
	if err != nil {
		return nil, nil, err
	}
	capacity := scheduler.ComputeWeeklyCapacity(cal.Blocks, cal.Bookings, week)
	return &app.WeeklyCapacity{
		ChildID:   childID,
		WeekStart: capacity.WeekStart,
		Days:      capacity.Days,
		Summary:   scheduler.SummarizeWeek(capacity, cal.Bookings, cal.Pending),
	}, cal, nil
}

type qualityService struct {
	repos    repository.Set
	userID   string
	config   scheduler.QualityConfig
	observer UseCaseObserver
}

func NewQualityService(repos repository.Set, userID string, cfg scheduler.QualityConfig, observers ...UseCaseObserver) QualityService {
	def := scheduler.DefaultQualityConfig()
	if cfg.DayShareMaxPct <= 0 {
		cfg.DayShareMaxPct = def.DayShareMaxPct
	}
	if cfg.MaxBackToBackFixed <= 0 {
		cfg.MaxBackToBackFixed = def.MaxBackToBackFixed
	}
	if cfg.MaxFocusMinutes <= 0 {
		cfg.MaxFocusMinutes = def.MaxFocusMinutes
	}
	return &qualityService{repos: repos, userID: userID, config: cfg, observer: useCaseObserverOrNoop(observers)}
}

func (s *qualityService) GetQualityAnalysis(ctx context.Context, req app.CapacityRequest) (out *app.QualityReport, err error) {
	defer observe(ctx, s.observer, "quality-analysis", time.Now(), map[string]any{
		"child_id": req.ChildID,
	}, &err)

	week := weekOf(req.WeekOf, app.ResolveNow(req.Now))
	wc, cal, err := weeklyCapacity(ctx, s.repos, s.userID, req.ChildID, week)
	if err != nil {
		return nil, err
	}
	result := scheduler.EvaluateQuality(scheduler.QualityInput{
		Capacity:        scheduler.WeekCapacity{WeekStart: wc.WeekStart, Days: wc.Days},
		Bookings:        cal.Bookings,
		PendingCatchUps: len(cal.Pending),
	}, s.config)
	return &app.QualityReport{
		ChildID:         req.ChildID,
		WeekStart:       wc.WeekStart,
		Score:           result.Score,
		Recommendations: result.Recommendations,
	}, nil
}
