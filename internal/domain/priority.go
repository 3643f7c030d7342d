package domain

import (
	"fmt"
	"strings"
)

// Priority is the urgency level of a task. Values are totally ordered:
// a higher value means a more urgent task.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// AllPriorities returns all valid priorities in ascending order.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// String returns the lowercase name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// ParsePriority parses a priority name (case-insensitive) into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "critical":
		return PriorityCritical, nil
	default:
		return 0, fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
	}
}
