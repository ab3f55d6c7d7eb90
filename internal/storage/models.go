package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Todo status values. The UI moves a todo forward (new -> in_progress ->
// completed); the store accepts any of the three values.
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is one of the three recognized status values.
func ValidStatus(s string) bool {
	return s == StatusNew || s == StatusInProgress || s == StatusCompleted
}

// Record is a single notification or todo. TodoText is non-nil exactly when
// IsTodo is true; Status is nil for plain notifications.
type Record struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	IsTodo       bool      `json:"is_todo"`
	TodoText     *string   `json:"todo_text"`
	Notification *string   `json:"notification"`
	Status       *string   `json:"status"`
	DueDate      *string   `json:"due_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListFilter narrows and pages a record listing. Limit and Offset use -1
// for "not given"; an offset given without a limit yields a 10-record window.
type ListFilter struct {
	Source string // exact match when non-empty
	IsTodo *bool
	Limit  int
	Offset int
}

// RecordUpdate carries the updatable subset of a record. Nil fields are
// left unchanged.
type RecordUpdate struct {
	Status  *string
	DueDate *string
}

// IsEmpty reports whether the update would change nothing.
func (u RecordUpdate) IsEmpty() bool {
	return u.Status == nil && u.DueDate == nil
}

// Stats holds the aggregate counts over all records.
type Stats struct {
	Total         int            `json:"total"`
	Todos         int            `json:"todos"`
	Notifications int            `json:"notifications"`
	BySource      map[string]int `json:"bySource"`
}
