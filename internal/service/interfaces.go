package service

import (
	"context"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

type ChildService interface {
	Create(ctx context.Context, name string) (*domain.Child, error)
	Get(ctx context.Context, id int64) (*domain.Child, error)
	List(ctx context.Context) ([]*domain.Child, error)
}

type TopicService interface {
	Create(ctx context.Context, name, subject string) (*domain.Topic, error)
	List(ctx context.Context) ([]*domain.Topic, error)
}

type TimeBlockService interface {
	Create(ctx context.Context, childID int64, in app.TimeBlockInput) (*domain.TimeBlock, error)
	Update(ctx context.Context, childID, blockID int64, in app.TimeBlockInput) (*domain.TimeBlock, error)
	Delete(ctx context.Context, childID, blockID int64) error
	List(ctx context.Context, childID int64) ([]domain.TimeBlock, error)
}

type SessionService interface {
	Create(ctx context.Context, childID, topicID int64, estimatedMinutes int, commitment domain.CommitmentType) (*domain.Session, error)
	Get(ctx context.Context, childID, sessionID int64) (*domain.Session, error)
	List(ctx context.Context, childID int64) ([]domain.Session, error)
	Schedule(ctx context.Context, childID, sessionID int64, cmd domain.ScheduleCommand) (*domain.Session, error)
	Unschedule(ctx context.Context, childID, sessionID int64) (*domain.Session, error)
	UpdateStatus(ctx context.Context, childID, sessionID int64, status domain.SessionStatus) (*domain.Session, error)
	Complete(ctx context.Context, childID, sessionID int64, note, url string) (*domain.Session, error)
	Delete(ctx context.Context, childID, sessionID int64) error
}

type SchedulingService interface {
	app.SchedulingUseCase
	PendingCatchUps(ctx context.Context, childID int64) ([]*domain.CatchUpSession, error)
	UpdateCatchUpPriority(ctx context.Context, childID, catchUpID int64, priority int) (*domain.CatchUpSession, error)
	DiscardCatchUp(ctx context.Context, childID, catchUpID int64) error
}

type CapacityService interface {
	app.CapacityUseCase
}

type QualityService interface {
	app.QualityUseCase
}

type EventService interface {
	List(ctx context.Context, childID int64, limit int) ([]domain.Event, error)
}
