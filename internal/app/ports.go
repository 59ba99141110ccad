package app

import (
	"context"

	"github.com/alexanderramin/cadence/internal/domain"
)

type CapacityUseCase interface {
	GetWeeklyCapacity(ctx context.Context, req CapacityRequest) (*WeeklyCapacity, error)
}

type SchedulingUseCase interface {
	SkipSessionDay(ctx context.Context, req SkipRequest) (*domain.CatchUpSession, error)
	GenerateRescheduleSuggestions(ctx context.Context, req RescheduleRequest) (*RescheduleResult, error)
	RedistributeCatchUpSessions(ctx context.Context, req RedistributeRequest) (*RedistributeResult, error)
	GetCapacityAnalysis(ctx context.Context, req CapacityRequest) (*AnalysisReport, error)
}

type QualityUseCase interface {
	GetQualityAnalysis(ctx context.Context, req CapacityRequest) (*QualityReport, error)
}
