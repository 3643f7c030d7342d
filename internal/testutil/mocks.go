// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"sync"
	"time"

	"tasktrack/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockTaskRepository is a test double for domain.TaskRepository. It keeps
// insertion order so enumeration is deterministic, and can be primed with
// errors to exercise failure paths.
type MockTaskRepository struct {
	Tasks     map[string]*domain.Task
	Order     []string
	SaveErr   error
	GetErr    error
	DeleteErr error
}

// NewMockTaskRepository creates a MockTaskRepository with initialized maps.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{Tasks: make(map[string]*domain.Task)}
}

// Save inserts or replaces a task.
func (m *MockTaskRepository) Save(task *domain.Task) (*domain.Task, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}
	if _, ok := m.Tasks[task.ID()]; !ok {
		m.Order = append(m.Order, task.ID())
	}
	m.Tasks[task.ID()] = task
	return task, nil
}

// Get retrieves a task by ID, nil if absent.
func (m *MockTaskRepository) Get(id string) (*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Tasks[id], nil
}

// List returns all tasks in insertion order.
func (m *MockTaskRepository) List() ([]*domain.Task, error) {
	out := make([]*domain.Task, 0, len(m.Order))
	for _, id := range m.Order {
		if t, ok := m.Tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// Delete removes a task by ID.
func (m *MockTaskRepository) Delete(id string) (bool, error) {
	if m.DeleteErr != nil {
		return false, m.DeleteErr
	}
	if _, ok := m.Tasks[id]; !ok {
		return false, nil
	}
	delete(m.Tasks, id)
	for i, oid := range m.Order {
		if oid == id {
			m.Order = append(m.Order[:i], m.Order[i+1:]...)
			break
		}
	}
	return true, nil
}

// FindByCriteria returns matching tasks in insertion order.
func (m *MockTaskRepository) FindByCriteria(criteria domain.Criteria) ([]*domain.Task, error) {
	all, err := m.List()
	if err != nil {
		return nil, err
	}
	var out []*domain.Task
	for _, t := range all {
		if t.MatchesCriteria(criteria) {
			out = append(out, t)
		}
	}
	return out, nil
}

// RecordingNotifier is a test double for domain.Notifier that records every
// notification it receives.
type RecordingNotifier struct {
	mu     sync.Mutex
	Events []RecordedEvent
}

// RecordedEvent is one captured notification.
type RecordedEvent struct {
	Event   string
	Message string
	Data    map[string]any
}

// Notify records the notification.
func (r *RecordingNotifier) Notify(event, message string, data map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, RecordedEvent{Event: event, Message: message, Data: data})
}

// Count returns the number of recorded notifications.
func (r *RecordingNotifier) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Events)
}

// AllowAllPermissions is a PermissionChecker that grants everything.
type AllowAllPermissions struct{}

// Allow always returns true.
func (AllowAllPermissions) Allow(string, string) bool { return true }
