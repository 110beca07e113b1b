package task

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Common errors.
var (
	// ErrNotFound indicates the requested task does not exist in the store.
	ErrNotFound = errors.New("task not found")

	// ErrStoreClosed indicates the underlying store has been closed.
	ErrStoreClosed = errors.New("store closed")
)

// Status represents the current state of a task.
type Status string

const (
	// StatusPending indicates the task has not been started.
	StatusPending Status = "Pending"

	// StatusInProgress indicates the task is being worked on.
	StatusInProgress Status = "InProgress"

	// StatusCompleted indicates the task is done.
	StatusCompleted Status = "Completed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// ParseStatus matches a string against the known statuses,
// case-insensitively. The second return value reports whether the
// input named a known status.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, true
	case "inprogress":
		return StatusInProgress, true
	case "completed":
		return StatusCompleted, true
	default:
		return "", false
	}
}

// Task is the managed entity: a unit of work with a title, an optional
// description and due date, and a status.
type Task struct {
	// ID is the unique identifier, assigned at creation and immutable.
	ID string

	// Title is required and never blank.
	Title string

	// Description is optional free text.
	Description string

	// DueDate is optional. When set it was strictly in the future
	// (date granularity) at the moment it was set.
	DueDate *time.Time

	// Status is one of the three known statuses.
	Status Status

	// CreatedAt is when the task was created.
	CreatedAt time.Time

	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time
}

// Clone creates a deep copy of the task.
func (t *Task) Clone() *Task {
	clone := &Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.DueDate != nil {
		due := *t.DueDate
		clone.DueDate = &due
	}
	return clone
}

// Store is the persistence contract the lifecycle engine depends on.
// Implementations must treat each task as a value associated with its
// ID: stored tasks never alias caller memory, and returned tasks are
// safe for the caller to mutate. Individual calls are serialized by the
// implementation; nothing beyond single-call consistency is guaranteed.
type Store interface {
	// Insert adds a new task keyed by its ID.
	Insert(ctx context.Context, t *Task) error

	// List returns all stored tasks in no particular order.
	List(ctx context.Context) ([]*Task, error)

	// Get retrieves a task by ID.
	// Returns ErrNotFound if no task with that ID exists.
	Get(ctx context.Context, id string) (*Task, error)

	// Update replaces the stored fields for the task's ID.
	// Returns ErrNotFound if no task with that ID exists.
	Update(ctx context.Context, t *Task) error

	// Delete removes the task with the given ID.
	// Returns ErrNotFound if no task with that ID exists.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the store.
	Close() error
}
