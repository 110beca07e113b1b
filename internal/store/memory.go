package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/josecampelo/gerenciador-tarefas-api/internal/task"
)

// Memory is an in-memory Store implementation: a map keyed by task ID
// behind a RWMutex. Suitable for tests and single-process deployments.
type Memory struct {
	mu     sync.RWMutex
	tasks  map[string]*task.Task
	closed bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tasks: make(map[string]*task.Task),
	}
}

// Insert adds a new task keyed by its ID.
func (m *Memory) Insert(ctx context.Context, t *task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return task.ErrStoreClosed
	}
	if _, exists := m.tasks[t.ID]; exists {
		return fmt.Errorf("task %s already exists", t.ID)
	}

	m.tasks[t.ID] = t.Clone()
	return nil
}

// List returns all stored tasks in map iteration order.
func (m *Memory) List(ctx context.Context) ([]*task.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, task.ErrStoreClosed
	}

	result := make([]*task.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		result = append(result, t.Clone())
	}
	return result, nil
}

// Get retrieves a task by ID.
func (m *Memory) Get(ctx context.Context, id string) (*task.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, task.ErrStoreClosed
	}

	t, ok := m.tasks[id]
	if !ok {
		return nil, task.ErrNotFound
	}
	return t.Clone(), nil
}

// Update replaces the stored fields for the task's ID.
func (m *Memory) Update(ctx context.Context, t *task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return task.ErrStoreClosed
	}
	if _, ok := m.tasks[t.ID]; !ok {
		return task.ErrNotFound
	}

	m.tasks[t.ID] = t.Clone()
	return nil
}

// Delete removes the task with the given ID.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return task.ErrStoreClosed
	}
	if _, ok := m.tasks[id]; !ok {
		return task.ErrNotFound
	}

	delete(m.tasks, id)
	return nil
}

// Close marks the store closed. Subsequent calls fail with
// task.ErrStoreClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.tasks = nil
	return nil
}
