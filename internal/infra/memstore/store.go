// Package memstore provides an in-memory implementation of
// domain.TaskRepository. Tasks are held in a map for O(1) lookup plus an
// insertion-order slice so that List and FindByCriteria enumerate in a
// stable order for a fixed store.
package memstore

import (
	"sync"

	"tasktrack/internal/domain"
)

// Ensure Store implements domain.TaskRepository.
var _ domain.TaskRepository = (*Store)(nil)

// Store is a concurrency-safe in-memory task repository. A store-wide
// RWMutex serializes mutations; reads never observe a partially written task.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
	order []string // insertion order for stable enumeration
}

// New creates an empty store.
func New() *Store {
	return &Store{tasks: make(map[string]*domain.Task)}
}

// Save inserts or replaces a task by ID and returns the stored value.
func (s *Store) Save(task *domain.Task) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[task.ID()]; !exists {
		s.order = append(s.order, task.ID())
	}
	s.tasks[task.ID()] = task
	return task, nil
}

// Get retrieves a task by ID. Returns nil if not found.
func (s *Store) Get(id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks[id], nil
}

// List returns all tasks in insertion order.
func (s *Store) List() ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out, nil
}

// Delete removes a task by ID. Returns false if the task was absent.
// Never cascades: subtasks and other tasks' dependency lists are untouched.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[id]; !exists {
		return false, nil
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// FindByCriteria returns tasks matching the criteria, in insertion order.
func (s *Store) FindByCriteria(criteria domain.Criteria) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Task
	for _, id := range s.order {
		if t := s.tasks[id]; t.MatchesCriteria(criteria) {
			out = append(out, t)
		}
	}
	return out, nil
}
