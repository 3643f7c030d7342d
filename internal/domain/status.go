package domain

import "fmt"

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"     // Created, nobody working on it yet
	StatusInProgress Status = "in_progress" // Someone is working on it
	StatusCompleted  Status = "completed"   // Work finished
	StatusCancelled  Status = "cancelled"   // Abandoned (Cancel records the reason)
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusInProgress,
		StatusCompleted,
		StatusCancelled,
	}
}

// transitions defines the allowed status transitions.
// Flow: pending → in_progress → completed
//
//	completed → in_progress (reopen)
//	cancelled → pending     (reactivate)
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusPending, StatusCancelled},
	StatusCompleted:  {StatusInProgress},
	StatusCancelled:  {StatusPending},
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// ParseStatus parses a status string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
	}
	return st, nil
}

// StateInfo describes what operations the current status permits.
// It is a pure lookup used by presentation layers; it has no side effects
// and does not consult subtasks or dependencies.
type StateInfo struct {
	CanStart           bool
	CanEdit            bool
	CanDelete          bool
	ProgressPercentage int
}

// stateInfos maps each status to its capability descriptor.
var stateInfos = map[Status]StateInfo{
	StatusPending:    {CanStart: true, CanEdit: true, CanDelete: true, ProgressPercentage: 0},
	StatusInProgress: {CanStart: false, CanEdit: true, CanDelete: false, ProgressPercentage: 50},
	StatusCompleted:  {CanStart: false, CanEdit: false, CanDelete: false, ProgressPercentage: 100},
	StatusCancelled:  {CanStart: false, CanEdit: false, CanDelete: true, ProgressPercentage: 0},
}

// Info returns the capability descriptor for the status.
func (s Status) Info() StateInfo {
	return stateInfos[s]
}
