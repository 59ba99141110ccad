package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(s, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// placementColumns holds the nullable calendar columns shared by sessions
// and resolved catch-ups.
type placementColumns struct {
	Day   sql.NullInt64
	Start sql.NullString
	End   sql.NullString
	Date  sql.NullString
}

func (p *placementColumns) dest() []any {
	return []any{&p.Day, &p.Start, &p.End, &p.Date}
}

// toPlacement rebuilds the domain value; a row without a day is unplaced.
func (p placementColumns) toPlacement() (*domain.Placement, error) {
	if !p.Day.Valid {
		return nil, nil
	}
	start, err := domain.ParseClock(p.Start.String)
	if err != nil {
		return nil, fmt.Errorf("parsing placement start: %w", err)
	}
	end, err := domain.ParseClock(p.End.String)
	if err != nil {
		return nil, fmt.Errorf("parsing placement end: %w", err)
	}
	return &domain.Placement{
		Day:   domain.Weekday(p.Day.Int64),
		Start: start,
		End:   end,
		Date:  parseNullableTime(p.Date, domain.DateLayout),
	}, nil
}

// placementArgs flattens a placement into the four column values.
func placementArgs(p *domain.Placement) []any {
	if p == nil {
		return []any{nil, nil, nil, nil}
	}
	return []any{
		int(p.Day),
		p.Start.StorageString(),
		p.End.StorageString(),
		nullableTimeToString(p.Date, domain.DateLayout),
	}
}

func parseClockColumn(s, column string) (domain.Clock, error) {
	c, err := domain.ParseClock(s)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", column, err)
	}
	return c, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
