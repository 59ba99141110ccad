package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// eventTimeLayout is fixed-width so occurred_at sorts lexically.
const eventTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteEventRepo implements EventRepo. Payloads are stored as a JSON object.
type SQLiteEventRepo struct {
	db db.DBTX
}

func NewSQLiteEventRepo(db db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: db}
}

func (r *SQLiteEventRepo) Append(ctx context.Context, events ...domain.Event) error {
	for _, ev := range events {
		payload := ev.Payload
		if payload == nil {
			payload = map[string]string{}
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding event payload: %w", err)
		}
		var catchUpID any
		if ev.CatchUpID != nil {
			catchUpID = *ev.CatchUpID
		}
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO session_events (id, kind, child_id, session_id, catch_up_id, payload, occurred_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ev.ID, string(ev.Kind), ev.ChildID, ev.SessionID, catchUpID, string(raw),
			ev.OccurredAt.UTC().Format(eventTimeLayout))
		if err != nil {
			return fmt.Errorf("inserting event %s: %w", ev.Kind, err)
		}
	}
	return nil
}

// ListByChild returns the newest events first. limit <= 0 means no limit.
func (r *SQLiteEventRepo) ListByChild(ctx context.Context, childID int64, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, child_id, session_id, catch_up_id, payload, occurred_at
		 FROM session_events WHERE child_id = ?
		 ORDER BY occurred_at DESC, rowid DESC LIMIT ?`, childID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var ev domain.Event
		var kind, payload, occurredAt string
		var catchUpID sql.NullInt64
		if err := rows.Scan(&ev.ID, &kind, &ev.ChildID, &ev.SessionID, &catchUpID, &payload, &occurredAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		ev.Kind = domain.EventKind(kind)
		if catchUpID.Valid {
			id := catchUpID.Int64
			ev.CatchUpID = &id
		}
		if err := json.Unmarshal([]byte(payload), &ev.Payload); err != nil {
			return nil, fmt.Errorf("decoding event payload: %w", err)
		}
		if ev.OccurredAt, err = time.Parse(eventTimeLayout, occurredAt); err != nil {
			return nil, fmt.Errorf("parsing occurred_at: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return out, nil
}
