package domain

import "time"

// AuditEntry is an immutable record of one state-changing action on a task.
// Version holds the task version at the time the entry was appended, so the
// entries of a task with version V carry versions 1..V-1 in order.
type AuditEntry struct {
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Action    string         `json:"action" yaml:"action"`
	UserID    string         `json:"user_id" yaml:"user_id"`
	Version   int            `json:"version" yaml:"version"`
	Details   map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}
