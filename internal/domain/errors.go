package domain

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching; each typed error below reports Is on its
// sentinel so callers can branch without type assertions.
var (
	ErrValidation     = errors.New("validation failed")
	ErrOverlap        = errors.New("time range overlaps an existing entry")
	ErrOwnership      = errors.New("entity does not belong to child")
	ErrNotFound       = errors.New("not found")
	ErrDuplicateTopic = errors.New("topic already has a session for this child")
)

// ValidationError reports malformed input: bad day, time, range, status, or
// priority.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// OverlapKind names what the requested range collided with.
type OverlapKind string

const (
	OverlapTimeBlock OverlapKind = "time_block"
	OverlapSession   OverlapKind = "session"
	OverlapCatchUp   OverlapKind = "catch_up"
)

// OverlapError reports a collision on the same child and day.
type OverlapError struct {
	Day        Weekday
	Requested  Interval
	Existing   Interval
	Kind       OverlapKind
	ExistingID int64
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s %s overlaps %s %d (%s)",
		e.Day, e.Requested, e.Kind, e.ExistingID, e.Existing)
}

func (e *OverlapError) Is(target error) bool { return target == ErrOverlap }

// OwnershipError reports an entity referenced under the wrong child or user.
type OwnershipError struct {
	Entity  string
	ID      int64
	ChildID int64
}

func (e *OwnershipError) Error() string {
	if e.ChildID == 0 {
		return fmt.Sprintf("%s %d does not belong to this user", e.Entity, e.ID)
	}
	return fmt.Sprintf("%s %d does not belong to child %d", e.Entity, e.ID, e.ChildID)
}

func (e *OwnershipError) Is(target error) bool { return target == ErrOwnership }

// NotFoundError reports a missing child, topic, block, session, or catch-up.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateTopicError reports a second live session for the same (child, topic).
type DuplicateTopicError struct {
	ChildID    int64
	TopicID    int64
	ExistingID int64
}

func (e *DuplicateTopicError) Error() string {
	return fmt.Sprintf("child %d already has session %d for topic %d", e.ChildID, e.ExistingID, e.TopicID)
}

func (e *DuplicateTopicError) Is(target error) bool { return target == ErrDuplicateTopic }
