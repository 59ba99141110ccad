package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// SQLiteTimeBlockRepo implements TimeBlockRepo.
type SQLiteTimeBlockRepo struct {
	db db.DBTX
}

func NewSQLiteTimeBlockRepo(db db.DBTX) *SQLiteTimeBlockRepo {
	return &SQLiteTimeBlockRepo{db: db}
}

const timeBlockColumns = `id, child_id, day_of_week, start_time, end_time, label, created_at, updated_at`

func (r *SQLiteTimeBlockRepo) Create(ctx context.Context, b *domain.TimeBlock) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO time_blocks (child_id, day_of_week, start_time, end_time, label, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ChildID, int(b.Day), b.Start.StorageString(), b.End.StorageString(), b.Label,
		formatTimestamp(b.CreatedAt), formatTimestamp(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting time block: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading time block id: %w", err)
	}
	return nil
}

func (r *SQLiteTimeBlockRepo) GetByID(ctx context.Context, id int64) (*domain.TimeBlock, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+timeBlockColumns+` FROM time_blocks WHERE id = ?`, id)
	b, err := scanTimeBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("time block %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *SQLiteTimeBlockRepo) ListByChild(ctx context.Context, childID int64) ([]domain.TimeBlock, error) {
	return r.list(ctx,
		`SELECT `+timeBlockColumns+` FROM time_blocks WHERE child_id = ?
		 ORDER BY day_of_week, start_time, id`, childID)
}

func (r *SQLiteTimeBlockRepo) ListByChildDay(ctx context.Context, childID int64, day domain.Weekday) ([]domain.TimeBlock, error) {
	return r.list(ctx,
		`SELECT `+timeBlockColumns+` FROM time_blocks WHERE child_id = ? AND day_of_week = ?
		 ORDER BY start_time, id`, childID, int(day))
}

func (r *SQLiteTimeBlockRepo) Update(ctx context.Context, b *domain.TimeBlock) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE time_blocks SET day_of_week = ?, start_time = ?, end_time = ?, label = ?, updated_at = ?
		 WHERE id = ?`,
		int(b.Day), b.Start.StorageString(), b.End.StorageString(), b.Label,
		formatTimestamp(b.UpdatedAt), b.ID)
	if err != nil {
		return fmt.Errorf("updating time block: %w", err)
	}
	return requireAffected(res, "time block", b.ID)
}

func (r *SQLiteTimeBlockRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_blocks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting time block: %w", err)
	}
	return requireAffected(res, "time block", id)
}

func (r *SQLiteTimeBlockRepo) list(ctx context.Context, query string, args ...any) ([]domain.TimeBlock, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing time blocks: %w", err)
	}
	defer rows.Close()

	var out []domain.TimeBlock
	for rows.Next() {
		b, err := scanTimeBlock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time blocks: %w", err)
	}
	return out, nil
}

func scanTimeBlock(row rowScanner) (domain.TimeBlock, error) {
	var b domain.TimeBlock
	var day int
	var start, end, createdAt, updatedAt string
	if err := row.Scan(&b.ID, &b.ChildID, &day, &start, &end, &b.Label, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, err
		}
		return b, fmt.Errorf("scanning time block: %w", err)
	}
	b.Day = domain.Weekday(day)

	var err error
	if b.Start, err = parseClockColumn(start, "start_time"); err != nil {
		return b, err
	}
	if b.End, err = parseClockColumn(end, "end_time"); err != nil {
		return b, err
	}
	if b.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return b, err
	}
	if b.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return b, err
	}
	return b, nil
}

func requireAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return nil
}
