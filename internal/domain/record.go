package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is the serialized form of a task. Subtasks are referenced by ID
// only, even though they are embedded by ownership in memory: deserializing
// a record therefore reproduces every field except the subtask objects,
// which degrade to ID references.
type Record struct {
	ID           string             `json:"id" yaml:"id"`
	Title        string             `json:"title" yaml:"title"`
	Description  string             `json:"description" yaml:"description"`
	Priority     string             `json:"priority" yaml:"priority"`
	Status       string             `json:"status" yaml:"status"`
	AssigneeID   string             `json:"assignee_id,omitempty" yaml:"assignee_id,omitempty"`
	DueDate      *time.Time         `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	ProjectID    string             `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	CreatedAt    time.Time          `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" yaml:"updated_at"`
	Metadata     MetadataRecord     `json:"metadata" yaml:"metadata"`
	Dependencies []DependencyRecord `json:"dependencies" yaml:"dependencies"`
	SubtaskIDs   []string           `json:"subtask_ids" yaml:"subtask_ids"`
	ParentTaskID string             `json:"parent_task_id,omitempty" yaml:"parent_task_id,omitempty"`
	Version      int                `json:"version" yaml:"version"`
	AuditLog     []AuditEntry       `json:"audit_log" yaml:"audit_log"`
}

// MetadataRecord is the serialized form of task metadata.
type MetadataRecord struct {
	Tags           []string       `json:"tags" yaml:"tags"`
	CustomFields   map[string]any `json:"custom_fields,omitempty" yaml:"custom_fields,omitempty"`
	EstimatedHours *float64       `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	ActualHours    *float64       `json:"actual_hours,omitempty" yaml:"actual_hours,omitempty"`
}

// DependencyRecord is the serialized form of a dependency edge.
type DependencyRecord struct {
	TaskID string `json:"task_id" yaml:"task_id"`
	Type   string `json:"type" yaml:"type"`
}

// Record returns the serialized representation of the task.
func (t *Task) Record() Record {
	deps := make([]DependencyRecord, len(t.dependencies))
	for i, d := range t.dependencies {
		deps[i] = DependencyRecord{TaskID: d.TaskID, Type: d.Type}
	}
	return Record{
		ID:           t.id,
		Title:        t.title,
		Description:  t.description,
		Priority:     t.priority.String(),
		Status:       string(t.status),
		AssigneeID:   t.assigneeID,
		DueDate:      t.dueDate,
		ProjectID:    t.projectID,
		CreatedAt:    t.createdAt,
		UpdatedAt:    t.updatedAt,
		Metadata: MetadataRecord{
			Tags:           t.metadata.Tags(),
			CustomFields:   t.metadata.CustomFields(),
			EstimatedHours: t.metadata.estimatedHours,
			ActualHours:    t.metadata.actualHours,
		},
		Dependencies: deps,
		SubtaskIDs:   t.SubtaskIDs(),
		ParentTaskID: t.parentTaskID,
		Version:      t.version,
		AuditLog:     t.AuditLog(),
	}
}

// FromRecord reconstructs a task from its serialized form. Subtask objects
// are not rebuilt; only their IDs are carried over.
func FromRecord(r Record) (*Task, error) {
	title, err := validateTitle(r.Title)
	if err != nil {
		return nil, err
	}
	status, err := ParseStatus(r.Status)
	if err != nil {
		return nil, err
	}
	priority, err := ParsePriority(r.Priority)
	if err != nil {
		return nil, err
	}
	if r.ID == "" {
		return nil, fmt.Errorf("%w: missing task id", ErrValidation)
	}

	t := &Task{
		id:           r.ID,
		title:        title,
		description:  r.Description,
		priority:     priority,
		status:       status,
		assigneeID:   r.AssigneeID,
		dueDate:      r.DueDate,
		projectID:    r.ProjectID,
		parentTaskID: r.ParentTaskID,
		createdAt:    r.CreatedAt,
		updatedAt:    r.UpdatedAt,
		version:      r.Version,
	}
	if t.version < 1 {
		t.version = 1
	}
	for _, tag := range r.Metadata.Tags {
		t.metadata.AddTag(tag)
	}
	for k, v := range r.Metadata.CustomFields {
		t.metadata.SetCustomField(k, v)
	}
	t.metadata.estimatedHours = r.Metadata.EstimatedHours
	t.metadata.actualHours = r.Metadata.ActualHours
	for _, d := range r.Dependencies {
		t.dependencies = append(t.dependencies, Dependency{TaskID: d.TaskID, Type: d.Type})
	}
	t.subtaskIDs = append(t.subtaskIDs, r.SubtaskIDs...)
	t.auditLog = append(t.auditLog, r.AuditLog...)
	return t, nil
}

// Serialize encodes the task as JSON.
func (t *Task) Serialize() ([]byte, error) {
	data, err := json.Marshal(t.Record())
	if err != nil {
		return nil, fmt.Errorf("serialize task: %w", err)
	}
	return data, nil
}

// Deserialize decodes a JSON-encoded task. The round-trip law holds for
// every field except subtasks, which survive as IDs only.
func Deserialize(data []byte) (*Task, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse task: %w", err)
	}
	return FromRecord(r)
}
