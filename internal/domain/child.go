package domain

import (
	"strings"
	"time"
)

// DefaultUserID owns everything when no parent account is configured.
const DefaultUserID = "default"

type Child struct {
	ID        int64
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Child) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "child name is required"}
	}
	return nil
}

// Topic is something a child studies; topics belong to the parent and are
// shared across that parent's children.
type Topic struct {
	ID        int64
	UserID    string
	Name      string
	Subject   string
	CreatedAt time.Time
}

func (t *Topic) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return &ValidationError{Field: "name", Message: "topic name is required"}
	}
	return nil
}
