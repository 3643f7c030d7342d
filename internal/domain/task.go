package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DependencyFinishToStart is the default dependency type: the target task
// must be completed before the dependent task should start.
const DependencyFinishToStart = "finish_to_start"

// Dependency is a directed, typed edge to another task. The target is a weak
// reference by ID, resolved through a TaskResolver at query time; a dangling
// ID is tolerated and never treated as an error.
type Dependency struct {
	TaskID    string    `json:"task_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Metadata holds free-form task annotations.
type Metadata struct {
	tags           []string
	customFields   map[string]any
	estimatedHours *float64
	actualHours    *float64
}

// AddTag adds a tag, normalized to lowercase and trimmed. Duplicates are ignored.
func (m *Metadata) AddTag(tag string) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return
	}
	for _, t := range m.tags {
		if t == tag {
			return
		}
	}
	m.tags = append(m.tags, tag)
}

// RemoveTag removes a tag if present.
func (m *Metadata) RemoveTag(tag string) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for i, t := range m.tags {
		if t == tag {
			m.tags = append(m.tags[:i], m.tags[i+1:]...)
			return
		}
	}
}

// Tags returns a copy of the tag list.
func (m *Metadata) Tags() []string {
	out := make([]string, len(m.tags))
	copy(out, m.tags)
	return out
}

// HasTag returns true if the tag is present.
func (m *Metadata) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range m.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SetCustomField stores an arbitrary key/value annotation.
func (m *Metadata) SetCustomField(key string, value any) {
	if m.customFields == nil {
		m.customFields = make(map[string]any)
	}
	m.customFields[key] = value
}

// CustomFields returns a copy of the custom field map.
func (m *Metadata) CustomFields() map[string]any {
	out := make(map[string]any, len(m.customFields))
	for k, v := range m.customFields {
		out[k] = v
	}
	return out
}

// SetEstimatedHours sets the estimated effort.
func (m *Metadata) SetEstimatedHours(h float64) { m.estimatedHours = &h }

// SetActualHours sets the recorded effort.
func (m *Metadata) SetActualHours(h float64) { m.actualHours = &h }

// EstimatedHours returns the estimated effort, or nil if unset.
func (m *Metadata) EstimatedHours() *float64 { return m.estimatedHours }

// ActualHours returns the recorded effort, or nil if unset.
func (m *Metadata) ActualHours() *float64 { return m.actualHours }

// TaskParams are the construction parameters for a task. Title is required;
// Priority defaults to medium when zero.
type TaskParams struct {
	Title       string
	Description string
	Priority    Priority
	AssigneeID  string
	DueDate     *time.Time
	ProjectID   string
}

// Task is the core trackable unit of work. It owns its identity, status,
// hierarchy links, dependency list and audit trail, and enforces transition
// legality and composite-completion rules itself.
//
// Fields guarded by invariants are unexported: status changes only through
// the state-machine operations, the title only through SetTitle, and the
// audit log, dependency list and subtask list only through their dedicated
// operations. Accessors return copies of owned sequences.
type Task struct {
	id           string
	title        string
	description  string
	priority     Priority
	status       Status
	assigneeID   string
	dueDate      *time.Time
	projectID    string
	metadata     Metadata
	dependencies []Dependency
	subtasks     []*Task
	subtaskIDs   []string // survives deserialization when children are not embedded
	parentTaskID string
	version      int
	auditLog     []AuditEntry
	createdAt    time.Time
	updatedAt    time.Time
	observers    []Notifier
}

// NewTask creates a task in the pending state with version 1 and an empty
// audit log. The title must have at least 3 significant characters after
// trimming.
func NewTask(p TaskParams) (*Task, error) {
	title, err := validateTitle(p.Title)
	if err != nil {
		return nil, err
	}
	priority := p.Priority
	if priority == 0 {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: invalid priority %d", ErrValidation, int(priority))
	}
	now := time.Now()
	return &Task{
		id:          uuid.NewString(),
		title:       title,
		description: p.Description,
		priority:    priority,
		status:      StatusPending,
		assigneeID:  p.AssigneeID,
		dueDate:     p.DueDate,
		projectID:   p.ProjectID,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if len(title) < 3 {
		return "", ErrTitleTooShort
	}
	return title, nil
}

// Accessors.

// ID returns the immutable task identifier.
func (t *Task) ID() string { return t.id }

// Title returns the task title.
func (t *Task) Title() string { return t.title }

// Description returns the task description.
func (t *Task) Description() string { return t.description }

// Priority returns the task priority.
func (t *Task) Priority() Priority { return t.priority }

// Status returns the current lifecycle status.
func (t *Task) Status() Status { return t.status }

// AssigneeID returns the assigned user ID, or "" if unassigned.
func (t *Task) AssigneeID() string { return t.assigneeID }

// DueDate returns the due date, or nil if unset.
func (t *Task) DueDate() *time.Time { return t.dueDate }

// ProjectID returns the project reference, or "" if unset.
func (t *Task) ProjectID() string { return t.projectID }

// ParentTaskID returns the owning parent's ID, or "" for a root task.
func (t *Task) ParentTaskID() string { return t.parentTaskID }

// Version returns the current entity version. It starts at 1 and increases
// by exactly 1 per audited action.
func (t *Task) Version() int { return t.version }

// CreatedAt returns the creation timestamp.
func (t *Task) CreatedAt() time.Time { return t.createdAt }

// UpdatedAt returns the last mutation timestamp.
func (t *Task) UpdatedAt() time.Time { return t.updatedAt }

// Metadata returns the task's metadata for reading and annotation.
func (t *Task) Metadata() *Metadata { return &t.metadata }

// AuditLog returns a copy of the audit trail.
func (t *Task) AuditLog() []AuditEntry {
	out := make([]AuditEntry, len(t.auditLog))
	copy(out, t.auditLog)
	return out
}

// Dependencies returns a copy of the dependency list.
func (t *Task) Dependencies() []Dependency {
	out := make([]Dependency, len(t.dependencies))
	copy(out, t.dependencies)
	return out
}

// Subtasks returns a copy of the subtask list. The elements are the owned
// child tasks themselves, not copies.
func (t *Task) Subtasks() []*Task {
	out := make([]*Task, len(t.subtasks))
	copy(out, t.subtasks)
	return out
}

// SubtaskIDs returns the IDs of the subtasks. For a deserialized task whose
// children were not reconstructed, the IDs recorded in the serialized form
// are returned instead.
func (t *Task) SubtaskIDs() []string {
	if len(t.subtasks) == 0 {
		out := make([]string, len(t.subtaskIDs))
		copy(out, t.subtaskIDs)
		return out
	}
	ids := make([]string, len(t.subtasks))
	for i, st := range t.subtasks {
		ids[i] = st.id
	}
	return ids
}

// Direct mutations. These refresh updatedAt but do not audit; audited
// changes go through the state-machine operations or a service-level action.

// SetTitle replaces the title after validation.
func (t *Task) SetTitle(title string) error {
	validated, err := validateTitle(title)
	if err != nil {
		return err
	}
	t.title = validated
	t.touch()
	return nil
}

// SetDescription replaces the description.
func (t *Task) SetDescription(desc string) {
	t.description = desc
	t.touch()
}

// SetPriority replaces the priority.
func (t *Task) SetPriority(p Priority) error {
	if !p.IsValid() {
		return fmt.Errorf("%w: invalid priority %d", ErrValidation, int(p))
	}
	t.priority = p
	t.touch()
	return nil
}

// SetAssignee replaces the assignee.
func (t *Task) SetAssignee(userID string) {
	t.assigneeID = userID
	t.touch()
}

// SetDueDate replaces the due date. Pass nil to clear it.
func (t *Task) SetDueDate(due *time.Time) {
	t.dueDate = due
	t.touch()
}

// SetProjectID replaces the project reference.
func (t *Task) SetProjectID(projectID string) {
	t.projectID = projectID
	t.touch()
}

// Observer management.

// AddObserver registers a notifier for change notifications.
func (t *Task) AddObserver(n Notifier) {
	for _, o := range t.observers {
		if o == n {
			return
		}
	}
	t.observers = append(t.observers, n)
}

// RemoveObserver unregisters a notifier.
func (t *Task) RemoveObserver(n Notifier) {
	for i, o := range t.observers {
		if o == n {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Task) notify(event, message string, data map[string]any) {
	for _, o := range t.observers {
		o.Notify(event, message, data)
	}
}

// State-machine operations. Each validates the transition before mutating,
// so a failed call leaves status, version and the audit log untouched.

func (t *Task) transitionTo(target Status) error {
	if !t.status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, t.status, target)
	}
	return nil
}

// StartWork moves the task to in_progress and assigns it to the user.
func (t *Task) StartWork(userID string) error {
	if err := t.transitionTo(StatusInProgress); err != nil {
		return err
	}
	t.status = StatusInProgress
	t.assigneeID = userID
	t.touch()
	t.Audit("start_work", userID, nil)
	t.notify("task_started", fmt.Sprintf("Task %q started", t.title), map[string]any{"task_id": t.id})
	return nil
}

// Complete marks the task as completed. It fails with ErrIncompleteSubtasks
// while any subtask is not completed, and with ErrInvalidTransition when the
// current status does not permit completion.
func (t *Task) Complete(userID string) error {
	for _, st := range t.subtasks {
		if st.status != StatusCompleted {
			return ErrIncompleteSubtasks
		}
	}
	if err := t.transitionTo(StatusCompleted); err != nil {
		return err
	}
	t.status = StatusCompleted
	t.touch()
	t.Audit("complete", userID, nil)
	t.notify("task_completed", fmt.Sprintf("Task %q completed", t.title), map[string]any{"task_id": t.id})
	return nil
}

// Cancel abandons the task, recording the reason in the audit trail.
func (t *Task) Cancel(userID, reason string) error {
	if err := t.transitionTo(StatusCancelled); err != nil {
		return err
	}
	t.status = StatusCancelled
	t.touch()
	t.Audit("cancel", userID, map[string]any{"reason": reason})
	t.notify("task_cancelled", fmt.Sprintf("Task %q cancelled", t.title), map[string]any{"task_id": t.id, "reason": reason})
	return nil
}

// EscalatePriority raises the priority by one step. At critical it is a
// no-op: no audit entry, no notification, no version bump.
func (t *Task) EscalatePriority(userID string) {
	if t.priority >= PriorityCritical {
		return
	}
	from := t.priority
	t.priority++
	t.touch()
	t.Audit("escalate_priority", userID, map[string]any{
		"from": from.String(),
		"to":   t.priority.String(),
	})
	t.notify("priority_escalated",
		fmt.Sprintf("Task %q priority escalated to %s", t.title, t.priority),
		map[string]any{"task_id": t.id, "priority": t.priority.String()})
}

// Audit appends an entry to the audit log and increments the version.
// The entry records the version the task had when the action happened.
func (t *Task) Audit(action, userID string, details map[string]any) {
	t.auditLog = append(t.auditLog, AuditEntry{
		Timestamp: time.Now(),
		Action:    action,
		UserID:    userID,
		Version:   t.version,
		Details:   details,
	})
	t.version++
}

func (t *Task) touch() {
	t.updatedAt = time.Now()
}

// Dependency management. Structural changes: they refresh updatedAt but do
// not audit or notify.

// AddDependency records a typed dependency on another task. An empty type
// defaults to finish_to_start.
func (t *Task) AddDependency(targetID, depType string) {
	if depType == "" {
		depType = DependencyFinishToStart
	}
	t.dependencies = append(t.dependencies, Dependency{
		TaskID:    targetID,
		Type:      depType,
		CreatedAt: time.Now(),
	})
	t.touch()
}

// RemoveDependency drops every dependency on the target task.
func (t *Task) RemoveDependency(targetID string) {
	kept := t.dependencies[:0]
	for _, d := range t.dependencies {
		if d.TaskID != targetID {
			kept = append(kept, d)
		}
	}
	t.dependencies = kept
	t.touch()
}

// CanStart reports whether every dependency target has completed. A target
// that cannot be resolved does not block. This is a read-only query;
// StartWork does not enforce it, callers decide whether to check.
func (t *Task) CanStart(resolver TaskResolver) bool {
	for _, d := range t.dependencies {
		target, err := resolver.Get(d.TaskID)
		if err != nil || target == nil {
			continue
		}
		if target.status != StatusCompleted {
			return false
		}
	}
	return true
}

// Subtask management (composite ownership).

// AddSubtask attaches a child task and sets its parent back-reference.
func (t *Task) AddSubtask(subtask *Task) {
	subtask.parentTaskID = t.id
	t.subtasks = append(t.subtasks, subtask)
	t.touch()
}

// RemoveSubtask detaches the child with the given ID, if present.
func (t *Task) RemoveSubtask(subtaskID string) {
	kept := t.subtasks[:0]
	for _, st := range t.subtasks {
		if st.id != subtaskID {
			kept = append(kept, st)
		}
	}
	t.subtasks = kept
	t.touch()
}

// CompletionPercentage returns the share of completed subtasks. Without
// subtasks it is 100 for a completed task and 0 otherwise; with subtasks the
// parent's own status is ignored.
func (t *Task) CompletionPercentage() float64 {
	if len(t.subtasks) == 0 {
		if t.status == StatusCompleted {
			return 100.0
		}
		return 0.0
	}
	completed := 0
	for _, st := range t.subtasks {
		if st.status == StatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(t.subtasks)) * 100
}

// IsOverdue returns true if the task has a due date in the past and is
// neither completed nor cancelled.
func (t *Task) IsOverdue() bool {
	if t.dueDate == nil {
		return false
	}
	if t.status == StatusCompleted || t.status == StatusCancelled {
		return false
	}
	return t.dueDate.Before(time.Now())
}

// DaysUntilDue returns the number of whole days until the due date, negative
// if overdue. The second return is false when no due date is set.
func (t *Task) DaysUntilDue() (int, bool) {
	if t.dueDate == nil {
		return 0, false
	}
	return int(math.Floor(time.Until(*t.dueDate).Hours() / 24)), true
}

// StateInfo returns the capability descriptor for the current status.
func (t *Task) StateInfo() StateInfo {
	return t.status.Info()
}

// ApplyChanges applies a field-keyed map of updates. Only known fields are
// applied; unknown keys are silently ignored. Recognized keys: title,
// description, priority, assignee_id, due_date, project_id. Values may be
// typed (Priority, *time.Time) or their string forms.
func (t *Task) ApplyChanges(changes map[string]any) error {
	for key, value := range changes {
		switch key {
		case "title":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("%w: title must be a string", ErrValidation)
			}
			if err := t.SetTitle(s); err != nil {
				return err
			}
		case "description":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("%w: description must be a string", ErrValidation)
			}
			t.SetDescription(s)
		case "priority":
			p, err := coercePriority(value)
			if err != nil {
				return err
			}
			if err := t.SetPriority(p); err != nil {
				return err
			}
		case "assignee_id":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("%w: assignee_id must be a string", ErrValidation)
			}
			t.SetAssignee(s)
		case "due_date":
			due, err := coerceDueDate(value)
			if err != nil {
				return err
			}
			t.SetDueDate(due)
		case "project_id":
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("%w: project_id must be a string", ErrValidation)
			}
			t.SetProjectID(s)
		}
	}
	return nil
}

func coercePriority(value any) (Priority, error) {
	switch v := value.(type) {
	case Priority:
		return v, nil
	case int:
		return Priority(v), nil
	case string:
		return ParsePriority(v)
	default:
		return 0, fmt.Errorf("%w: priority must be a Priority or its name", ErrValidation)
	}
}

func coerceDueDate(value any) (*time.Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *time.Time:
		return v, nil
	case time.Time:
		return &v, nil
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("%w: due_date must be RFC3339: %v", ErrValidation, err)
		}
		return &parsed, nil
	default:
		return nil, fmt.Errorf("%w: due_date must be a time or RFC3339 string", ErrValidation)
	}
}
