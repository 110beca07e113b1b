// Package reminder runs a scheduled sweep over tasks and flags the
// ones that are due or overdue. It is a pure observer: it reads through
// the lifecycle engine and mutates nothing.
package reminder

import (
	"context"
	"fmt"
	"time"

	rcron "github.com/robfig/cron/v3"

	"github.com/josecampelo/gerenciador-tarefas-api/internal/logging"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/task"
)

// Lister is the slice of the lifecycle engine the sweep needs.
type Lister interface {
	List(ctx context.Context, f task.Filter) ([]*task.Task, error)
}

// Service sweeps tasks on a cron schedule and logs a warning for every
// non-completed task whose due date is today or already past.
type Service struct {
	lister   Lister
	log      *logging.Logger
	schedule string
	now      func() time.Time
	cron     *rcron.Cron
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets a custom time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates a reminder service with the given cron schedule
// (standard five-field format).
func NewService(lister Lister, schedule string, opts ...Option) *Service {
	s := &Service{
		lister:   lister,
		log:      logging.New().WithComponent("reminder"),
		schedule: schedule,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the sweep with the cron runner and starts it.
func (s *Service) Start(ctx context.Context) error {
	s.cron = rcron.New()

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.log.Error("sweep failed", map[string]interface{}{"error": err.Error()})
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.log.Info("reminder sweep scheduled", map[string]interface{}{"schedule": s.schedule})
	return nil
}

// Stop halts the cron runner and waits for a running sweep to finish.
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep lists all tasks and logs a warning for each one that is due.
// Returns the number of due tasks.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	all, err := s.lister.List(ctx, task.Filter{})
	if err != nil {
		return 0, err
	}

	due := 0
	for _, t := range all {
		if !s.isDue(t) {
			continue
		}
		due++
		s.log.Warn("task due", map[string]interface{}{
			"id":    t.ID,
			"title": t.Title,
			"due":   t.DueDate.Format("2006-01-02"),
		})
	}

	s.log.Debug("sweep complete", map[string]interface{}{"tasks": len(all), "due": due})
	return due, nil
}

// isDue reports whether the task needs a reminder: not completed, has a
// due date, and that date is today or already past (date granularity).
func (s *Service) isDue(t *task.Task) bool {
	if t.Status == task.StatusCompleted || t.DueDate == nil {
		return false
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueDay := time.Date(t.DueDate.Year(), t.DueDate.Month(), t.DueDate.Day(), 0, 0, 0, 0, t.DueDate.Location())
	return !dueDay.After(today)
}
