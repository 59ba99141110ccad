package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventSessionScheduled     EventKind = "session_scheduled"
	EventSessionUnscheduled   EventKind = "session_unscheduled"
	EventSessionStatusChanged EventKind = "session_status_changed"
	EventSessionSkipped       EventKind = "session_skipped"
	EventCatchUpRedistributed EventKind = "catch_up_redistributed"
	EventCatchUpDiscarded     EventKind = "catch_up_discarded"
)

// Event is an append-only record of something that happened to a session or
// catch-up. Payload holds kind-specific details as flat strings.
type Event struct {
	ID         string
	Kind       EventKind
	ChildID    int64
	SessionID  int64
	CatchUpID  *int64
	Payload    map[string]string
	OccurredAt time.Time
}

func newEvent(kind EventKind, childID, sessionID int64, at time.Time, payload map[string]string) Event {
	return Event{
		ID:         uuid.New().String(),
		Kind:       kind,
		ChildID:    childID,
		SessionID:  sessionID,
		Payload:    payload,
		OccurredAt: at,
	}
}
