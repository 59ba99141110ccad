package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

type childService struct {
	repos  repository.Set
	userID string
}

func NewChildService(repos repository.Set, userID string) ChildService {
	return &childService{repos: repos, userID: userID}
}

func (s *childService) Create(ctx context.Context, name string) (*domain.Child, error) {
	now := nowUTC()
	c := &domain.Child{UserID: s.userID, Name: strings.TrimSpace(name), CreatedAt: now, UpdatedAt: now}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Children.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *childService) Get(ctx context.Context, id int64) (*domain.Child, error) {
	return loadChild(ctx, s.repos, s.userID, id)
}

func (s *childService) List(ctx context.Context) ([]*domain.Child, error) {
	return s.repos.Children.ListByUser(ctx, s.userID)
}

type topicService struct {
	repos  repository.Set
	userID string
}

func NewTopicService(repos repository.Set, userID string) TopicService {
	return &topicService{repos: repos, userID: userID}
}

func (s *topicService) Create(ctx context.Context, name, subject string) (*domain.Topic, error) {
	t := &domain.Topic{
		UserID:    s.userID,
		Name:      strings.TrimSpace(name),
		Subject:   strings.TrimSpace(subject),
		CreatedAt: nowUTC(),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.repos.Topics.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating topic: %w", err)
	}
	return t, nil
}

func (s *topicService) List(ctx context.Context) ([]*domain.Topic, error) {
	return s.repos.Topics.ListByUser(ctx, s.userID)
}

type eventService struct {
	repos  repository.Set
	userID string
}

func NewEventService(repos repository.Set, userID string) EventService {
	return &eventService{repos: repos, userID: userID}
}

func (s *eventService) List(ctx context.Context, childID int64, limit int) ([]domain.Event, error) {
	if _, err := loadChild(ctx, s.repos, s.userID, childID); err != nil {
		return nil, err
	}
	return s.repos.Events.ListByChild(ctx, childID, limit)
}
