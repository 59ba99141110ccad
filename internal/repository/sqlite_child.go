package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// SQLiteChildRepo implements ChildRepo.
type SQLiteChildRepo struct {
	db db.DBTX
}

func NewSQLiteChildRepo(db db.DBTX) *SQLiteChildRepo {
	return &SQLiteChildRepo{db: db}
}

func (r *SQLiteChildRepo) Create(ctx context.Context, c *domain.Child) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO children (user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		c.UserID, c.Name, formatTimestamp(c.CreatedAt), formatTimestamp(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting child: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading child id: %w", err)
	}
	return nil
}

func (r *SQLiteChildRepo) GetByID(ctx context.Context, id int64) (*domain.Child, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at FROM children WHERE id = ?`, id)
	c, err := scanChild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("child %d: %w", id, ErrNotFound)
	}
	return c, err
}

func (r *SQLiteChildRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Child, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at FROM children WHERE user_id = ? ORDER BY name, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing children: %w", err)
	}
	defer rows.Close()

	var out []*domain.Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating children: %w", err)
	}
	return out, nil
}

func (r *SQLiteChildRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM children WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting child: %w", err)
	}
	return nil
}

func scanChild(row rowScanner) (*domain.Child, error) {
	var c domain.Child
	var createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning child: %w", err)
	}
	var err error
	if c.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &c, nil
}

// SQLiteTopicRepo implements TopicRepo.
type SQLiteTopicRepo struct {
	db db.DBTX
}

func NewSQLiteTopicRepo(db db.DBTX) *SQLiteTopicRepo {
	return &SQLiteTopicRepo{db: db}
}

func (r *SQLiteTopicRepo) Create(ctx context.Context, t *domain.Topic) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO topics (user_id, name, subject, created_at) VALUES (?, ?, ?, ?)`,
		t.UserID, t.Name, t.Subject, formatTimestamp(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting topic: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading topic id: %w", err)
	}
	return nil
}

func (r *SQLiteTopicRepo) GetByID(ctx context.Context, id int64) (*domain.Topic, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, subject, created_at FROM topics WHERE id = ?`, id)
	t, err := scanTopic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("topic %d: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTopicRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Topic, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, subject, created_at FROM topics WHERE user_id = ? ORDER BY subject, name, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	defer rows.Close()

	var out []*domain.Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating topics: %w", err)
	}
	return out, nil
}

func scanTopic(row rowScanner) (*domain.Topic, error) {
	var t domain.Topic
	var createdAt string
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Subject, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning topic: %w", err)
	}
	var err error
	if t.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &t, nil
}
