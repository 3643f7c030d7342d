// Package factory provides task construction policies. Factories only
// choose defaults; the resulting task always satisfies the entity's own
// construction invariants.
package factory

import (
	"fmt"
	"sort"
	"time"

	"tasktrack/internal/domain"
)

// Factory constructs a well-formed task from construction parameters.
type Factory interface {
	Create(p domain.TaskParams) (*domain.Task, error)
}

// Simple passes the parameters through unchanged.
type Simple struct{}

// Create builds a task with the entity's defaults.
func (Simple) Create(p domain.TaskParams) (*domain.Task, error) {
	return domain.NewTask(p)
}

// Urgent builds high-priority tasks: the title gets an [URGENT] prefix, the
// priority is forced to high, a missing due date defaults to 24 hours out,
// and the task is tagged "urgent".
type Urgent struct {
	Clock domain.Clock
}

// Create builds an urgent task.
func (f Urgent) Create(p domain.TaskParams) (*domain.Task, error) {
	clock := f.Clock
	if clock == nil {
		clock = domain.RealClock{}
	}
	p.Title = "[URGENT] " + p.Title
	p.Priority = domain.PriorityHigh
	if p.DueDate == nil {
		due := clock.Now().Add(24 * time.Hour)
		p.DueDate = &due
	}
	task, err := domain.NewTask(p)
	if err != nil {
		return nil, err
	}
	task.Metadata().AddTag("urgent")
	return task, nil
}

// Project builds tasks bound to a fixed project, with an optional default
// assignee applied when the caller supplies none.
type Project struct {
	ProjectID       string
	DefaultAssignee string
}

// Create builds a project task.
func (f Project) Create(p domain.TaskParams) (*domain.Task, error) {
	p.ProjectID = f.ProjectID
	if p.AssigneeID == "" {
		p.AssigneeID = f.DefaultAssignee
	}
	return domain.NewTask(p)
}

// Registry maps factory names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with the simple and urgent factories
// registered.
func DefaultRegistry(clock domain.Clock) *Registry {
	r := NewRegistry()
	r.Register("simple", Simple{})
	r.Register("urgent", Urgent{Clock: clock})
	return r
}

// Register adds or replaces a named factory.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Create builds a task with the named factory.
func (r *Registry) Create(name string, p domain.TaskParams) (*domain.Task, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFactory, name)
	}
	return f.Create(p)
}

// Names returns the registered factory names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
