package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a record.
type Status string

const (
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusArchived Status = "archived"
)

// ParseStatus converts user input to a Status. Empty input is active.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusActive:
		return StatusActive, nil
	case StatusPaused:
		return StatusPaused, nil
	case StatusArchived:
		return StatusArchived, nil
	}
	return "", fmt.Errorf("status %q: %w", s, ErrInvalidRecord)
}

// Record is one row of the demo dataset shown in the table.
type Record struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Owner     string    `json:"owner" yaml:"owner"`
	Status    Status    `json:"status" yaml:"status"`
	Priority  int       `json:"priority" yaml:"priority"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Validate checks the fields every stored record must have.
func (r Record) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("missing id: %w", ErrInvalidRecord)
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("record %s: missing name: %w", r.ID, ErrInvalidRecord)
	case r.Priority < 0:
		return fmt.Errorf("record %s: negative priority: %w", r.ID, ErrInvalidRecord)
	}
	if _, err := ParseStatus(string(r.Status)); err != nil {
		return fmt.Errorf("record %s: %w", r.ID, err)
	}
	return nil
}

// Archived reports whether the record has been archived.
func (r Record) Archived() bool {
	return r.Status == StatusArchived
}

// TagList returns the tags as a comma-separated string.
func (r Record) TagList() string {
	return strings.Join(r.Tags, ", ")
}

// SortField names a record field the service can order by.
type SortField string

const (
	SortByName      SortField = "name"
	SortByOwner     SortField = "owner"
	SortByStatus    SortField = "status"
	SortByPriority  SortField = "priority"
	SortByCreatedAt SortField = "created_at"
)

// SortFields lists the sortable fields in display order.
func SortFields() []SortField {
	return []SortField{SortByName, SortByOwner, SortByStatus, SortByPriority, SortByCreatedAt}
}
