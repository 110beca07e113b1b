package task

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/josecampelo/gerenciador-tarefas-api/internal/errors"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/logging"
)

// CreateInput carries the fields for creating a task.
type CreateInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	// Status defaults to StatusPending when empty.
	Status Status
}

// UpdateInput carries a partial update. A nil field means "not
// supplied, leave unchanged"; a non-nil field always overwrites, so a
// supplied empty title is an attempt to set it empty and is rejected by
// validation rather than ignored.
type UpdateInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *Status
}

// Filter selects tasks for listing. Both criteria are optional and
// conjunctive when present.
type Filter struct {
	// Status is matched case-insensitively against the known status
	// names. A value that names no known status is silently ignored.
	Status string

	// DueDate matches tasks due on the same calendar day. Tasks
	// without a due date never match.
	DueDate *time.Time
}

// Index is the optional full-text index the service keeps in sync.
type Index interface {
	// Index adds or replaces the task in the index.
	Index(t *Task) error

	// Remove deletes the task from the index.
	Remove(id string) error

	// Search returns IDs of matching tasks, best match first.
	Search(query string, limit int) ([]string, error)
}

// Service is the task lifecycle engine: it validates input, applies
// the business rules and converts between the external representation
// and the stored one. Persistence goes through the injected Store.
//
// Found/not-found is reported through the boolean return, never through
// an error: an absent ID is a normal outcome, not a failure.
type Service struct {
	store Store
	index Index
	log   *logging.Logger
	now   func() time.Time
	newID func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock sets a custom time source. Used by tests to pin "today"
// for due-date validation.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator sets a custom ID generator function.
func WithIDGenerator(gen func() string) ServiceOption {
	return func(s *Service) {
		s.newID = gen
	}
}

// WithIndex attaches a full-text index kept in sync with writes.
func WithIndex(idx Index) ServiceOption {
	return func(s *Service) {
		s.index = idx
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates a lifecycle engine backed by the given store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store: store,
		log:   logging.New().WithComponent("task"),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the input, assigns a new ID and persists the task.
// Validation order: blank title first, then a non-future due date.
// The store is never called when validation fails.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.InvalidInput("title is required", apperrors.WithField("title"))
	}
	if in.DueDate != nil {
		if err := s.validateDueDate(*in.DueDate); err != nil {
			return nil, err
		}
	}

	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, apperrors.Newf(apperrors.ErrCodeInvalidInput, "unknown status %q", in.Status)
	}

	now := s.now()
	t := &Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.DueDate != nil {
		due := *in.DueDate
		t.DueDate = &due
	}

	if err := s.store.Insert(ctx, t); err != nil {
		return nil, apperrors.Internal("failed to persist task", apperrors.WithCause(err))
	}

	s.indexTask(t)
	s.log.Info("task created", map[string]interface{}{"id": t.ID, "status": t.Status})
	return t.Clone(), nil
}

// List reads all tasks from the store and applies the filter.
// Order follows whatever the store returns.
func (s *Service) List(ctx context.Context, f Filter) ([]*Task, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list tasks", apperrors.WithCause(err))
	}

	statusFilter, filterByStatus := ParseStatus(f.Status)
	if f.Status == "" {
		filterByStatus = false
	}

	result := make([]*Task, 0, len(all))
	for _, t := range all {
		if filterByStatus && t.Status != statusFilter {
			continue
		}
		if f.DueDate != nil {
			if t.DueDate == nil || !sameDay(*t.DueDate, *f.DueDate) {
				continue
			}
		}
		result = append(result, t.Clone())
	}
	return result, nil
}

// Get retrieves a task by ID. The boolean reports whether it exists.
func (s *Service) Get(ctx context.Context, id string) (*Task, bool, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.Internal("failed to load task", apperrors.WithCause(err))
	}
	return t.Clone(), true, nil
}

// Update applies a partial update to an existing task. Only supplied
// fields change; a supplied due date is re-validated against today.
// Returns (nil, false, nil) when the ID does not exist; the store's
// update is never called in that case.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Task, bool, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.Internal("failed to load task", apperrors.WithCause(err))
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, false, apperrors.InvalidInput("title is required", apperrors.WithField("title"))
		}
		existing.Title = *in.Title
	}
	if in.Description != nil {
		existing.Description = *in.Description
	}
	if in.DueDate != nil {
		if err := s.validateDueDate(*in.DueDate); err != nil {
			return nil, false, err
		}
		due := *in.DueDate
		existing.DueDate = &due
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, false, apperrors.Newf(apperrors.ErrCodeInvalidInput, "unknown status %q", *in.Status)
		}
		existing.Status = *in.Status
	}

	existing.UpdatedAt = s.now()

	if err := s.store.Update(ctx, existing); err != nil {
		if stderrors.Is(err, ErrNotFound) {
			// Deleted between read and write; treat as absent.
			return nil, false, nil
		}
		return nil, false, apperrors.Internal("failed to persist task", apperrors.WithCause(err))
	}

	s.indexTask(existing)
	s.log.Info("task updated", map[string]interface{}{"id": existing.ID, "status": existing.Status})
	return existing.Clone(), true, nil
}

// Delete removes a task by ID and returns its prior field values.
// Returns (nil, false, nil) when the ID does not exist; the store's
// delete is never called in that case.
func (s *Service) Delete(ctx context.Context, id string) (*Task, bool, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.Internal("failed to load task", apperrors.WithCause(err))
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.Internal("failed to delete task", apperrors.WithCause(err))
	}

	if s.index != nil {
		if err := s.index.Remove(id); err != nil {
			s.log.Warn("failed to remove task from index", map[string]interface{}{"id": id, "error": err.Error()})
		}
	}
	s.log.Info("task deleted", map[string]interface{}{"id": id})
	return existing.Clone(), true, nil
}

// Search resolves a full-text query against the attached index and
// loads the matching tasks. IDs deleted since indexing are skipped.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*Task, error) {
	if s.index == nil {
		return nil, apperrors.Unavailable("search is not enabled")
	}

	ids, err := s.index.Search(query, limit)
	if err != nil {
		return nil, apperrors.Internal("search failed", apperrors.WithCause(err))
	}

	result := make([]*Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.store.Get(ctx, id)
		if err != nil {
			if stderrors.Is(err, ErrNotFound) {
				continue
			}
			return nil, apperrors.Internal("failed to load task", apperrors.WithCause(err))
		}
		result = append(result, t.Clone())
	}
	return result, nil
}

// validateDueDate enforces the future-date rule at date granularity:
// a due date on today's date or earlier is rejected.
func (s *Service) validateDueDate(due time.Time) error {
	if !dateOnly(due).After(dateOnly(s.now())) {
		return apperrors.InvalidInput("due date must be in the future", apperrors.WithField("dueDate"))
	}
	return nil
}

// indexTask updates the search index, if any. Index failures never
// fail the write; they are logged and the index catches up on the
// next write to the same task.
func (s *Service) indexTask(t *Task) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(t); err != nil {
		s.log.Warn("failed to index task", map[string]interface{}{"id": t.ID, "error": err.Error()})
	}
}

// dateOnly truncates a time to midnight of its calendar day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameDay reports whether two times fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
