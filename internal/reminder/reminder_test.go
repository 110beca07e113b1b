package reminder

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/josecampelo/gerenciador-tarefas-api/internal/logging"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/task"
)

type staticLister struct {
	tasks []*task.Task
	err   error
}

func (l *staticLister) List(ctx context.Context, f task.Filter) ([]*task.Task, error) {
	return l.tasks, l.err
}

var now = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func newSweeper(t *testing.T, lister Lister, buf *bytes.Buffer) *Service {
	t.Helper()
	log := logging.New().WithComponent("reminder")
	log.SetOutput(buf)
	log.SetLevel(logging.LevelWarn)
	return NewService(lister, "0 8 * * *",
		WithClock(func() time.Time { return now }),
		WithLogger(log),
	)
}

func TestSweepFlagsDueTasks(t *testing.T) {
	lister := &staticLister{tasks: []*task.Task{
		{ID: "overdue", Title: "overdue task", Status: task.StatusPending, DueDate: datePtr(now.AddDate(0, 0, -2))},
		{ID: "due-today", Title: "due today", Status: task.StatusInProgress, DueDate: datePtr(now.Add(5 * time.Hour))},
		{ID: "future", Title: "due next week", Status: task.StatusPending, DueDate: datePtr(now.AddDate(0, 0, 7))},
		{ID: "done", Title: "completed late", Status: task.StatusCompleted, DueDate: datePtr(now.AddDate(0, 0, -1))},
		{ID: "undated", Title: "no due date", Status: task.StatusPending},
	}}

	var buf bytes.Buffer
	svc := newSweeper(t, lister, &buf)

	due, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if due != 2 {
		t.Errorf("Sweep flagged %d tasks, want 2", due)
	}

	output := buf.String()
	if !strings.Contains(output, "id=overdue") {
		t.Error("overdue task should be flagged")
	}
	if !strings.Contains(output, "id=due-today") {
		t.Error("task due today should be flagged")
	}
	if strings.Contains(output, "id=future") {
		t.Error("future task should not be flagged")
	}
	if strings.Contains(output, "id=done") {
		t.Error("completed task should not be flagged")
	}
	if strings.Contains(output, "id=undated") {
		t.Error("task without due date should not be flagged")
	}
}

func TestSweepListFailure(t *testing.T) {
	lister := &staticLister{err: errors.New("store down")}

	var buf bytes.Buffer
	svc := newSweeper(t, lister, &buf)

	if _, err := svc.Sweep(context.Background()); err == nil {
		t.Error("Sweep should surface list failure")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	svc := NewService(&staticLister{}, "not a schedule")
	if err := svc.Start(context.Background()); err == nil {
		svc.Stop()
		t.Error("Start should reject an invalid cron expression")
	}
}

func TestStartAndStop(t *testing.T) {
	svc := NewService(&staticLister{}, "0 8 * * *")
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	svc.Stop()
}
