package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// SQLiteCatchUpRepo implements CatchUpRepo.
type SQLiteCatchUpRepo struct {
	db db.DBTX
}

func NewSQLiteCatchUpRepo(db db.DBTX) *SQLiteCatchUpRepo {
	return &SQLiteCatchUpRepo{db: db}
}

const catchUpColumns = `id, child_id, original_session_id, original_date, reason, priority, resolved_at,
	placed_day_of_week, placed_start_time, placed_end_time, placed_date, created_at, updated_at`

func (r *SQLiteCatchUpRepo) Create(ctx context.Context, c *domain.CatchUpSession) error {
	args := []any{
		c.ChildID, c.OriginalSessionID, c.OriginalDate.Format(domain.DateLayout), c.Reason, c.Priority,
		nullableTimeToString(c.ResolvedAt, time.RFC3339),
	}
	args = append(args, placementArgs(c.Placement)...)
	args = append(args, formatTimestamp(c.CreatedAt), formatTimestamp(c.UpdatedAt))
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO catch_up_sessions (child_id, original_session_id, original_date, reason, priority, resolved_at,
			placed_day_of_week, placed_start_time, placed_end_time, placed_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return fmt.Errorf("inserting catch-up session: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading catch-up id: %w", err)
	}
	return nil
}

func (r *SQLiteCatchUpRepo) GetByID(ctx context.Context, id int64) (*domain.CatchUpSession, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+catchUpColumns+` FROM catch_up_sessions WHERE id = ?`, id)
	c, err := scanCatchUp(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("catch-up session %d: %w", id, ErrNotFound)
	}
	return c, err
}

func (r *SQLiteCatchUpRepo) FindPendingOccurrence(ctx context.Context, sessionID int64, date time.Time) (*domain.CatchUpSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+catchUpColumns+` FROM catch_up_sessions
		 WHERE original_session_id = ? AND original_date = ? AND resolved_at IS NULL`,
		sessionID, date.Format(domain.DateLayout))
	c, err := scanCatchUp(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pending catch-up for session %d: %w", sessionID, ErrNotFound)
	}
	return c, err
}

func (r *SQLiteCatchUpRepo) ListPending(ctx context.Context, childID int64) ([]*domain.CatchUpSession, error) {
	return r.list(ctx,
		`SELECT `+catchUpColumns+` FROM catch_up_sessions
		 WHERE child_id = ? AND resolved_at IS NULL
		 ORDER BY priority DESC, original_date ASC, id ASC`, childID)
}

func (r *SQLiteCatchUpRepo) ListResolvedBetween(ctx context.Context, childID int64, from, to time.Time) ([]*domain.CatchUpSession, error) {
	return r.list(ctx,
		`SELECT `+catchUpColumns+` FROM catch_up_sessions
		 WHERE child_id = ? AND resolved_at IS NOT NULL
		   AND placed_date >= ? AND placed_date < ?
		 ORDER BY placed_date, placed_start_time, id`,
		childID, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
}

func (r *SQLiteCatchUpRepo) CountPending(ctx context.Context, childID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM catch_up_sessions WHERE child_id = ? AND resolved_at IS NULL`, childID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting catch-up sessions: %w", err)
	}
	return n, nil
}

func (r *SQLiteCatchUpRepo) Update(ctx context.Context, c *domain.CatchUpSession) error {
	args := []any{c.Reason, c.Priority, nullableTimeToString(c.ResolvedAt, time.RFC3339)}
	args = append(args, placementArgs(c.Placement)...)
	args = append(args, formatTimestamp(c.UpdatedAt), c.ID)
	res, err := r.db.ExecContext(ctx,
		`UPDATE catch_up_sessions SET reason = ?, priority = ?, resolved_at = ?,
			placed_day_of_week = ?, placed_start_time = ?, placed_end_time = ?, placed_date = ?, updated_at = ?
		 WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating catch-up session: %w", err)
	}
	return requireAffected(res, "catch-up session", c.ID)
}

func (r *SQLiteCatchUpRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM catch_up_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting catch-up session: %w", err)
	}
	return requireAffected(res, "catch-up session", id)
}

func (r *SQLiteCatchUpRepo) list(ctx context.Context, query string, args ...any) ([]*domain.CatchUpSession, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing catch-up sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.CatchUpSession
	for rows.Next() {
		c, err := scanCatchUp(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catch-up sessions: %w", err)
	}
	return out, nil
}

func scanCatchUp(row rowScanner) (*domain.CatchUpSession, error) {
	var c domain.CatchUpSession
	var originalDate, createdAt, updatedAt string
	var resolvedAt sql.NullString
	var pc placementColumns

	dest := []any{&c.ID, &c.ChildID, &c.OriginalSessionID, &originalDate, &c.Reason, &c.Priority, &resolvedAt}
	dest = append(dest, pc.dest()...)
	dest = append(dest, &createdAt, &updatedAt)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning catch-up session: %w", err)
	}

	var err error
	if c.OriginalDate, err = time.Parse(domain.DateLayout, originalDate); err != nil {
		return nil, fmt.Errorf("parsing original_date: %w", err)
	}
	c.ResolvedAt = parseNullableTime(resolvedAt, time.RFC3339)
	if c.Placement, err = pc.toPlacement(); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &c, nil
}
