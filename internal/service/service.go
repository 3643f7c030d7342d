// Package service implements the orchestration layer over the task
// repository: permission checks, factory-based creation, audited updates,
// notifications, and search through the query processor. The entity and
// command layers below it have no permission or notification policy of
// their own beyond the entity's change events.
package service

import (
	"fmt"
	"log/slog"
	"slices"

	"tasktrack/internal/domain"
	"tasktrack/internal/factory"
	"tasktrack/internal/query"
)

// Deps are the collaborators of a TaskService.
type Deps struct {
	Tasks     domain.TaskRepository
	Factories *factory.Registry
	Notifier  domain.Notifier
	Perms     domain.PermissionChecker
	Clock     domain.Clock
	Logger    *slog.Logger
}

// TaskService handles business logic for tasks.
type TaskService struct {
	tasks     domain.TaskRepository
	factories *factory.Registry
	queries   *query.Processor
	notifier  domain.Notifier
	perms     domain.PermissionChecker
	clock     domain.Clock
	logger    *slog.Logger
}

// New creates a TaskService. Nil Factories defaults to the standard
// registry; a nil Clock uses the system clock.
func New(d Deps) *TaskService {
	if d.Clock == nil {
		d.Clock = domain.RealClock{}
	}
	if d.Factories == nil {
		d.Factories = factory.DefaultRegistry(d.Clock)
	}
	return &TaskService{
		tasks:     d.Tasks,
		factories: d.Factories,
		queries:   query.NewProcessor(),
		notifier:  d.Notifier,
		perms:     d.Perms,
		clock:     d.Clock,
		logger:    d.Logger,
	}
}

func (s *TaskService) require(userID, permission string) error {
	if s.perms != nil && !s.perms.Allow(userID, permission) {
		return fmt.Errorf("%w: user %s lacks %s", domain.ErrPermissionDenied, userID, permission)
	}
	return nil
}

func (s *TaskService) isAdmin(userID string) bool {
	return s.perms == nil || s.perms.Allow(userID, "admin")
}

func (s *TaskService) notify(event, message string, data map[string]any) {
	if s.notifier != nil {
		s.notifier.Notify(event, message, data)
	}
}

// CreateTask builds a task with the named factory (empty name means
// "simple"), audits the creation and saves it.
func (s *TaskService) CreateTask(userID, factoryName string, p domain.TaskParams) (*domain.Task, error) {
	if err := s.require(userID, "create_task"); err != nil {
		return nil, err
	}
	if factoryName == "" {
		factoryName = "simple"
	}
	task, err := s.factories.Create(factoryName, p)
	if err != nil {
		return nil, err
	}
	task.Audit("created", userID, nil)

	saved, err := s.tasks.Save(task)
	if err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	s.notify("task_created", fmt.Sprintf("New task created: %s", saved.Title()),
		map[string]any{"task_id": saved.ID(), "creator_id": userID})
	if s.logger != nil {
		s.logger.Info("task created", "task_id", saved.ID(), "title", saved.Title())
	}
	return saved, nil
}

// GetTask fetches a task by ID. Non-admin users can only fetch tasks
// assigned to them.
func (s *TaskService) GetTask(userID, taskID string) (*domain.Task, error) {
	if err := s.require(userID, "view_task"); err != nil {
		return nil, err
	}
	task, err := s.tasks.Get(taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}
	if !s.isAdmin(userID) && task.AssigneeID() != userID {
		return nil, fmt.Errorf("%w: cannot view task assigned to another user", domain.ErrPermissionDenied)
	}
	return task, nil
}

// UpdateTask applies a field-keyed map of changes, audits them and re-saves.
// Non-admin users can only update their own tasks.
func (s *TaskService) UpdateTask(userID, taskID string, changes map[string]any) (*domain.Task, error) {
	if err := s.require(userID, "update_task"); err != nil {
		return nil, err
	}
	task, err := s.tasks.Get(taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}
	if !s.isAdmin(userID) && task.AssigneeID() != userID {
		return nil, fmt.Errorf("%w: can only update own tasks", domain.ErrPermissionDenied)
	}

	if err := task.ApplyChanges(changes); err != nil {
		return nil, err
	}
	task.Audit("updated", userID, map[string]any{"changes": changes})

	saved, err := s.tasks.Save(task)
	if err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	s.notify("task_updated", fmt.Sprintf("Task updated: %s", saved.Title()),
		map[string]any{"task_id": saved.ID(), "updater_id": userID})
	return saved, nil
}

// DeleteTask removes a task. Deletion is blocked while any subtask is
// incomplete; it never cascades to subtasks or dependent tasks.
func (s *TaskService) DeleteTask(userID, taskID string) (bool, error) {
	if err := s.require(userID, "delete_task"); err != nil {
		return false, err
	}
	task, err := s.tasks.Get(taskID)
	if err != nil {
		return false, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return false, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}
	for _, st := range task.Subtasks() {
		if st.Status() != domain.StatusCompleted {
			return false, fmt.Errorf("%w: cannot delete task with incomplete subtasks", domain.ErrValidation)
		}
	}

	ok, err := s.tasks.Delete(taskID)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	if ok {
		s.notify("task_deleted", fmt.Sprintf("Task deleted: %s", task.Title()),
			map[string]any{"task_id": taskID, "deleter_id": userID})
	}
	return ok, nil
}

// AssignTask reassigns a task and audits the change.
func (s *TaskService) AssignTask(userID, taskID, assigneeID string) (*domain.Task, error) {
	task, err := s.tasks.Get(taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}

	old := task.AssigneeID()
	task.SetAssignee(assigneeID)
	task.Audit("assigned", userID, map[string]any{
		"old_assignee": old,
		"new_assignee": assigneeID,
	})

	saved, err := s.tasks.Save(task)
	if err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	s.notify("task_assigned", fmt.Sprintf("Task assigned: %s", saved.Title()),
		map[string]any{"task_id": saved.ID(), "assignee_id": assigneeID, "assigner_id": userID})
	return saved, nil
}

// SearchTasks finds tasks by criteria, narrows them with the named filters
// in order, and sorts them by the named strategy (priority, due_date or
// status). Non-admin users only see tasks assigned to them.
func (s *TaskService) SearchTasks(userID string, criteria domain.Criteria, sortBy string, filters []string) ([]*domain.Task, error) {
	tasks, err := s.tasks.FindByCriteria(criteria)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	s.queries.ClearFilters()
	if !s.isAdmin(userID) {
		s.queries.AddFilter(query.AssignedTo(userID))
	}
	for _, name := range filters {
		switch name {
		case "overdue":
			s.queries.AddFilter(query.Overdue())
		}
	}

	switch sortBy {
	case "due_date":
		s.queries.SetSort(query.ByDueDate())
	case "status":
		s.queries.SetSort(query.ByStatus())
	default:
		s.queries.SetSort(query.ByPriority())
	}

	return s.queries.Process(tasks), nil
}

// Dashboard aggregates a user's tasks for presentation.
type Dashboard struct {
	TotalTasks      int
	PendingTasks    int
	InProgressTasks int
	CompletedTasks  int
	OverdueTasks    int
	Recent          []*domain.Task // most recently updated, newest first, max 5
}

// UserDashboard summarizes the tasks assigned to a user.
func (s *TaskService) UserDashboard(userID string) (*Dashboard, error) {
	tasks, err := s.tasks.FindByCriteria(domain.Criteria{"assignee_id": userID})
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	d := &Dashboard{TotalTasks: len(tasks)}
	for _, t := range tasks {
		switch t.Status() {
		case domain.StatusPending:
			d.PendingTasks++
		case domain.StatusInProgress:
			d.InProgressTasks++
		case domain.StatusCompleted:
			d.CompletedTasks++
		}
		if t.IsOverdue() {
			d.OverdueTasks++
		}
	}

	recent := slices.Clone(tasks)
	slices.SortStableFunc(recent, func(a, b *domain.Task) int {
		return b.UpdatedAt().Compare(a.UpdatedAt())
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	d.Recent = recent
	return d, nil
}

// ProjectSummary aggregates the tasks of one project.
type ProjectSummary struct {
	ProjectID            string
	TotalTasks           int
	CompletedTasks       int
	OverdueTasks         int
	CompletionPercentage float64
	ByStatus             map[domain.Status]int
	ByPriority           map[domain.Priority]int
}

// SummarizeProject summarizes the tasks belonging to a project.
func (s *TaskService) SummarizeProject(userID, projectID string) (*ProjectSummary, error) {
	if err := s.require(userID, "view_project"); err != nil {
		return nil, err
	}
	all, err := s.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	summary := &ProjectSummary{
		ProjectID:  projectID,
		ByStatus:   make(map[domain.Status]int),
		ByPriority: make(map[domain.Priority]int),
	}
	for _, t := range all {
		if t.ProjectID() != projectID {
			continue
		}
		summary.TotalTasks++
		summary.ByStatus[t.Status()]++
		summary.ByPriority[t.Priority()]++
		if t.Status() == domain.StatusCompleted {
			summary.CompletedTasks++
		}
		if t.IsOverdue() {
			summary.OverdueTasks++
		}
	}
	if summary.TotalTasks > 0 {
		summary.CompletionPercentage = float64(summary.CompletedTasks) / float64(summary.TotalTasks) * 100
	}
	return summary, nil
}
