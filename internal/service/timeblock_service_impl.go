package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

type timeBlockService struct {
	repos    repository.Set
	uow      db.UnitOfWork
	userID   string
	observer UseCaseObserver
}

func NewTimeBlockService(repos repository.Set, uow db.UnitOfWork, userID string, observers ...UseCaseObserver) TimeBlockService {
	return &timeBlockService{repos: repos, uow: uow, userID: userID, observer: useCaseObserverOrNoop(observers)}
}

func (s *timeBlockService) Create(ctx context.Context, childID int64, in app.TimeBlockInput) (block *domain.TimeBlock, err error) {
	defer observe(ctx, s.observer, "create-time-block", time.Now(), map[string]any{
		"child_id": childID, "day": in.Day.String(), "start": in.Start.String(), "end": in.End.String(),
	}, &err)

	now := nowUTC()
	b := &domain.TimeBlock{
		ChildID:   childID,
		Day:       in.Day,
		Start:     in.Start,
		End:       in.End,
		Label:     strings.TrimSpace(in.Label),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteSet(tx)
		if _, err := loadChild(ctx, r, s.userID, childID); err != nil {
			return err
		}
		if err := checkBlockOverlap(ctx, r, b); err != nil {
			return err
		}
		return r.Blocks.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *timeBlockService) Update(ctx context.Context, childID, blockID int64, in app.TimeBlockInput) (block *domain.TimeBlock, err error) {
	defer observe(ctx, s.observer, "update-time-block", time.Now(), map[string]any{
		"child_id": childID, "block_id": blockID,
	}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteSet(tx)
		if _, err := loadChild(ctx, r, s.userID, childID); err != nil {
			return err
		}
		b, err := loadBlock(ctx, r, childID, blockID)
		if err != nil {
			return err
		}
		b.Day, b.Start, b.End = in.Day, in.Start, in.End
		b.Label = strings.TrimSpace(in.Label)
		b.UpdatedAt = nowUTC()
		if err := b.Validate(); err != nil {
			return err
		}
		if err := checkBlockOverlap(ctx, r, b); err != nil {
			return err
		}
		if err := r.Blocks.Update(ctx, b); err != nil {
			return err
		}
		block = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

func (s *timeBlockService) Delete(ctx context.Context, childID, blockID int64) (err error) {
	defer observe(ctx, s.observer, "delete-time-block", time.Now(), map[string]any{
		"child_id": childID, "block_id": blockID,
	}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := repository.NewSQLiteSet(tx)
		if _, err := loadChild(ctx, r, s.userID, childID); err != nil {
			return err
		}
		if _, err := loadBlock(ctx, r, childID, blockID); err != nil {
			return err
		}
		return r.Blocks.Delete(ctx, blockID)
	})
}

func (s *timeBlockService) List(ctx context.Context, childID int64) ([]domain.TimeBlock, error) {
	if _, err := loadChild(ctx, s.repos, s.userID, childID); err != nil {
		return nil, err
	}
	return s.repos.Blocks.ListByChild(ctx, childID)
}

// checkBlockOverlap rejects b when it collides with another block of the
// same child and day; b's own row is ignored on edit.
func checkBlockOverlap(ctx context.Context, r repository.Set, b *domain.TimeBlock) error {
	existing, err := r.Blocks.ListByChildDay(ctx, b.ChildID, b.Day)
	if err != nil {
		return err
	}
	if hit, ok := domain.FindBlockConflict(*b, existing); ok {
		return &domain.OverlapError{
			Day:        b.Day,
			Requested:  b.Interval(),
			Existing:   hit.Interval(),
			Kind:       domain.OverlapTimeBlock,
			ExistingID: hit.ID,
		}
	}
	return nil
}
