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

// SQLiteSessionRepo implements SessionRepo.
type SQLiteSessionRepo struct {
	db db.DBTX
}

func NewSQLiteSessionRepo(db db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

const sessionColumns = `id, child_id, topic_id, estimated_minutes, status, commitment_type,
	scheduled_day_of_week, scheduled_start_time, scheduled_end_time, scheduled_date,
	completed_at, evidence_note, evidence_url, created_at, updated_at, deleted_at`

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	args := []any{s.ChildID, s.TopicID, s.EstimatedMinutes, string(s.Status), string(s.Commitment)}
	args = append(args, placementArgs(s.Placement)...)
	args = append(args,
		nullableTimeToString(s.CompletedAt, time.RFC3339),
		s.EvidenceNote, s.EvidenceURL,
		formatTimestamp(s.CreatedAt), formatTimestamp(s.UpdatedAt),
	)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (child_id, topic_id, estimated_minutes, status, commitment_type,
			scheduled_day_of_week, scheduled_start_time, scheduled_end_time, scheduled_date,
			completed_at, evidence_note, evidence_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading session id: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ? AND deleted_at IS NULL`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteSessionRepo) FindLiveByTopic(ctx context.Context, childID, topicID int64) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE child_id = ? AND topic_id = ? AND deleted_at IS NULL`, childID, topicID)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session for topic %d: %w", topicID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteSessionRepo) ListByChild(ctx context.Context, childID int64) ([]domain.Session, error) {
	return r.list(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE child_id = ? AND deleted_at IS NULL
		 ORDER BY id`, childID)
}

func (r *SQLiteSessionRepo) ListPlacedByChild(ctx context.Context, childID int64) ([]domain.Session, error) {
	return r.list(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE child_id = ? AND deleted_at IS NULL AND scheduled_day_of_week IS NOT NULL
		 ORDER BY scheduled_day_of_week, scheduled_start_time, id`, childID)
}

func (r *SQLiteSessionRepo) Update(ctx context.Context, s *domain.Session) error {
	args := []any{s.EstimatedMinutes, string(s.Status), string(s.Commitment)}
	args = append(args, placementArgs(s.Placement)...)
	args = append(args,
		nullableTimeToString(s.CompletedAt, time.RFC3339),
		s.EvidenceNote, s.EvidenceURL,
		formatTimestamp(s.UpdatedAt), s.ID,
	)
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET estimated_minutes = ?, status = ?, commitment_type = ?,
			scheduled_day_of_week = ?, scheduled_start_time = ?, scheduled_end_time = ?, scheduled_date = ?,
			completed_at = ?, evidence_note = ?, evidence_url = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL`, args...)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	return requireAffected(res, "session", s.ID)
}

// SoftDelete stamps deleted_at; the row stays for catch-up history.
func (r *SQLiteSessionRepo) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		formatTimestamp(at), formatTimestamp(at), id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return requireAffected(res, "session", id)
}

func (r *SQLiteSessionRepo) list(ctx context.Context, query string, args ...any) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return out, nil
}

func scanSession(row rowScanner) (domain.Session, error) {
	var s domain.Session
	var status, commitment, createdAt, updatedAt string
	var completedAt, deletedAt sql.NullString
	var pc placementColumns

	dest := []any{&s.ID, &s.ChildID, &s.TopicID, &s.EstimatedMinutes, &status, &commitment}
	dest = append(dest, pc.dest()...)
	dest = append(dest, &completedAt, &s.EvidenceNote, &s.EvidenceURL, &createdAt, &updatedAt, &deletedAt)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("scanning session: %w", err)
	}

	s.Status = domain.SessionStatus(status)
	s.Commitment = domain.CommitmentType(commitment)
	s.CompletedAt = parseNullableTime(completedAt, time.RFC3339)
	s.DeletedAt = parseNullableTime(deletedAt, time.RFC3339)

	var err error
	if s.Placement, err = pc.toPlacement(); err != nil {
		return s, err
	}
	if s.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return s, err
	}
	if s.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return s, err
	}
	return s, nil
}
