package domain

import "fmt"

type SessionStatus string

const (
	SessionBacklog   SessionStatus = "backlog"
	SessionPlanned   SessionStatus = "planned"
	SessionScheduled SessionStatus = "scheduled"
	SessionDone      SessionStatus = "done"
)

// ValidSessionStatuses is the canonical set of accepted session statuses.
var ValidSessionStatuses = map[SessionStatus]bool{
	SessionBacklog: true, SessionPlanned: true, SessionScheduled: true, SessionDone: true,
}

// ParseSessionStatus rejects anything outside the four lifecycle states.
func ParseSessionStatus(s string) (SessionStatus, error) {
	st := SessionStatus(s)
	if !ValidSessionStatuses[st] {
		return "", &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", s)}
	}
	return st, nil
}

// CommitmentType controls how freely the engine may move a session.
type CommitmentType string

const (
	CommitmentFixed     CommitmentType = "fixed"
	CommitmentPreferred CommitmentType = "preferred"
	CommitmentFlexible  CommitmentType = "flexible"
)

var ValidCommitmentTypes = map[CommitmentType]bool{
	CommitmentFixed: true, CommitmentPreferred: true, CommitmentFlexible: true,
}

func ParseCommitmentType(s string) (CommitmentType, error) {
	ct := CommitmentType(s)
	if !ValidCommitmentTypes[ct] {
		return "", &ValidationError{Field: "commitment", Message: fmt.Sprintf("unknown commitment type %q", s)}
	}
	return ct, nil
}

// CapacityStatus is the per-day traffic light.
type CapacityStatus string

const (
	CapacityGreen  CapacityStatus = "green"
	CapacityYellow CapacityStatus = "yellow"
	CapacityRed    CapacityStatus = "red"
)

// PlanHealth is the weekly classifier layered over utilization.
type PlanHealth string

const (
	HealthOverloaded     PlanHealth = "Overloaded"
	HealthBehind         PlanHealth = "Behind"
	HealthOnTrack        PlanHealth = "On Track"
	HealthModerate       PlanHealth = "Moderate"
	HealthNeedsAttention PlanHealth = "Needs Attention"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Rank orders severities for sorting; higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}
