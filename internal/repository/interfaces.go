package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// ErrNotFound is wrapped by every repository lookup that matches no row.
var ErrNotFound = errors.New("not found")

type ChildRepo interface {
	Create(ctx context.Context, c *domain.Child) error
	GetByID(ctx context.Context, id int64) (*domain.Child, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Child, error)
	Delete(ctx context.Context, id int64) error
}

type TopicRepo interface {
	Create(ctx context.Context, t *domain.Topic) error
	GetByID(ctx context.Context, id int64) (*domain.Topic, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Topic, error)
}

type TimeBlockRepo interface {
	Create(ctx context.Context, b *domain.TimeBlock) error
	GetByID(ctx context.Context, id int64) (*domain.TimeBlock, error)
	ListByChild(ctx context.Context, childID int64) ([]domain.TimeBlock, error)
	ListByChildDay(ctx context.Context, childID int64, day domain.Weekday) ([]domain.TimeBlock, error)
	Update(ctx context.Context, b *domain.TimeBlock) error
	Delete(ctx context.Context, id int64) error
}

type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	// FindLiveByTopic returns the non-deleted session for (child, topic), or ErrNotFound.
	FindLiveByTopic(ctx context.Context, childID, topicID int64) (*domain.Session, error)
	ListByChild(ctx context.Context, childID int64) ([]domain.Session, error)
	// ListPlacedByChild returns live sessions with calendar fields set.
	ListPlacedByChild(ctx context.Context, childID int64) ([]domain.Session, error)
	Update(ctx context.Context, s *domain.Session) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
}

type CatchUpRepo interface {
	Create(ctx context.Context, c *domain.CatchUpSession) error
	GetByID(ctx context.Context, id int64) (*domain.CatchUpSession, error)
	FindPendingOccurrence(ctx context.Context, sessionID int64, date time.Time) (*domain.CatchUpSession, error)
	// ListPending returns unresolved rows ordered priority DESC, original_date ASC, id ASC.
	ListPending(ctx context.Context, childID int64) ([]*domain.CatchUpSession, error)
	// ListResolvedBetween returns rows resolved into a placement dated in [from, to).
	ListResolvedBetween(ctx context.Context, childID int64, from, to time.Time) ([]*domain.CatchUpSession, error)
	CountPending(ctx context.Context, childID int64) (int, error)
	Update(ctx context.Context, c *domain.CatchUpSession) error
	Delete(ctx context.Context, id int64) error
}

type EventRepo interface {
	Append(ctx context.Context, events ...domain.Event) error
	ListByChild(ctx context.Context, childID int64, limit int) ([]domain.Event, error)
}
