// Package command wraps repository mutations in reversible units and
// maintains a linear undo/redo history over them.
package command

import (
	"fmt"

	"tasktrack/internal/domain"
)

// Command is a reversible repository mutation. Execute runs the mutation and
// returns its result; Undo reverses it. Undo before a successful Execute is
// a silent no-op: undo is only ever invoked from a history the invoker
// controls, so there is nothing meaningful to report.
type Command interface {
	Execute() (any, error)
	Undo() error
}

// CreateTask constructs and saves a new task. Undo deletes the created task.
type CreateTask struct {
	repo      domain.TaskRepository
	params    domain.TaskParams
	createdID string
}

// NewCreateTask returns a command that creates a task from the given params.
func NewCreateTask(repo domain.TaskRepository, params domain.TaskParams) *CreateTask {
	return &CreateTask{repo: repo, params: params}
}

// Execute creates and saves the task, returning it.
func (c *CreateTask) Execute() (any, error) {
	task, err := domain.NewTask(c.params)
	if err != nil {
		return nil, err
	}
	if _, err := c.repo.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	c.createdID = task.ID()
	return task, nil
}

// Undo deletes the created task. A no-op if Execute never succeeded.
func (c *CreateTask) Undo() error {
	if c.createdID == "" {
		return nil
	}
	if _, err := c.repo.Delete(c.createdID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// UpdateTask loads a task, snapshots it, and applies a field-keyed map of
// changes. Undo restores the full pre-update snapshot — including fields the
// update never touched, so changes made by other commands between Execute
// and Undo are lost. That mirrors the snapshot semantics of the history this
// command lives in and is pinned by tests.
type UpdateTask struct {
	repo     domain.TaskRepository
	taskID   string
	changes  map[string]any
	snapshot *domain.Record
}

// NewUpdateTask returns a command that applies changes to the task.
// Unknown change keys are silently ignored.
func NewUpdateTask(repo domain.TaskRepository, taskID string, changes map[string]any) *UpdateTask {
	return &UpdateTask{repo: repo, taskID: taskID, changes: changes}
}

// Execute applies the changes and re-saves the task, returning it.
func (c *UpdateTask) Execute() (any, error) {
	task, err := c.repo.Get(c.taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, c.taskID)
	}
	snapshot := task.Record()
	c.snapshot = &snapshot
	if err := task.ApplyChanges(c.changes); err != nil {
		return nil, err
	}
	if _, err := c.repo.Save(task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	return task, nil
}

// Undo reconstructs the task from the pre-update snapshot and re-saves it.
func (c *UpdateTask) Undo() error {
	if c.snapshot == nil {
		return nil
	}
	restored, err := domain.FromRecord(*c.snapshot)
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	if _, err := c.repo.Save(restored); err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// DeleteTask removes a task, remembering its full value so Undo can
// re-insert it unchanged, version and audit log included.
type DeleteTask struct {
	repo    domain.TaskRepository
	taskID  string
	deleted *domain.Task
}

// NewDeleteTask returns a command that deletes the task.
func NewDeleteTask(repo domain.TaskRepository, taskID string) *DeleteTask {
	return &DeleteTask{repo: repo, taskID: taskID}
}

// Execute deletes the task, returning the repository's success flag.
func (c *DeleteTask) Execute() (any, error) {
	task, err := c.repo.Get(c.taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, c.taskID)
	}
	c.deleted = task
	ok, err := c.repo.Delete(c.taskID)
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return ok, nil
}

// Undo re-inserts the remembered task value under its original ID.
func (c *DeleteTask) Undo() error {
	if c.deleted == nil {
		return nil
	}
	if _, err := c.repo.Save(c.deleted); err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}
