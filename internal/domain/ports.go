// Package domain contains core business entities and interfaces.
package domain

import "time"

// TaskRepository is the single point of truth for task identity. All
// operations are safe for concurrent use; Save and Delete are serialized so
// that reads never observe a partially written task.
//
// Tasks returned by Get and List are snapshots for reading. Mutations must go
// through an entity operation followed by Save, never through direct field
// access bypassing the repository.
type TaskRepository interface {
	// Save inserts or replaces a task by ID and returns the stored value.
	Save(task *Task) (*Task, error)

	// Get retrieves a task by ID. Returns nil if not found.
	Get(id string) (*Task, error)

	// List retrieves all tasks. The order is stable for a fixed store.
	List() ([]*Task, error)

	// Delete removes a task by ID. Returns false if the task was absent.
	// Deleting a task never cascades: subtasks and other tasks' dependency
	// lists are left untouched, so dangling references simply stop resolving.
	Delete(id string) (bool, error)

	// FindByCriteria returns all tasks matching the criteria, in the same
	// stable order as List.
	FindByCriteria(criteria Criteria) ([]*Task, error)
}

// TaskResolver resolves task IDs to tasks. It is the read-only subset of
// TaskRepository needed by dependency checks.
type TaskResolver interface {
	Get(id string) (*Task, error)
}

// Notifier receives change notifications. Delivery failures must never roll
// back the mutation that triggered the notification.
type Notifier interface {
	Notify(event, message string, data map[string]any)
}

// PermissionChecker answers whether a user holds a named permission.
// The entity and command layers have no permission concept; only the
// service layer consults this.
type PermissionChecker interface {
	Allow(userID, permission string) bool
}

// StoreInitializer initializes a task store backend.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
