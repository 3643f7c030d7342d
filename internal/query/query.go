// Package query composes ordered filter predicates and a single sort order
// over a task collection. It is a stateless transform: nothing here touches
// a repository, and input slices are never mutated.
package query

import (
	"slices"

	"tasktrack/internal/domain"
)

// SortStrategy orders a task collection. Implementations return a new slice.
type SortStrategy interface {
	Sort(tasks []*domain.Task) []*domain.Task
}

// FilterStrategy narrows a task collection. Implementations return a new slice.
type FilterStrategy interface {
	Filter(tasks []*domain.Task) []*domain.Task
}

// Processor applies its registered filters in registration order — each
// filter receives the previous filter's output — and then the active sort
// strategy. The default sort is by priority, descending.
type Processor struct {
	sort    SortStrategy
	filters []FilterStrategy
}

// NewProcessor returns a processor with the default priority sort and no filters.
func NewProcessor() *Processor {
	return &Processor{sort: ByPriority()}
}

// SetSort replaces the active sort strategy. A nil strategy is ignored.
func (p *Processor) SetSort(s SortStrategy) {
	if s != nil {
		p.sort = s
	}
}

// AddFilter appends a filter to the pipeline.
func (p *Processor) AddFilter(f FilterStrategy) {
	p.filters = append(p.filters, f)
}

// ClearFilters removes all registered filters.
func (p *Processor) ClearFilters() {
	p.filters = nil
}

// Process runs the filter pipeline and sorts the surviving tasks.
func (p *Processor) Process(tasks []*domain.Task) []*domain.Task {
	out := slices.Clone(tasks)
	for _, f := range p.filters {
		out = f.Filter(out)
	}
	return p.sort.Sort(out)
}

// Sort strategies.

type prioritySort struct{}

// ByPriority sorts by priority, highest first.
func ByPriority() SortStrategy { return prioritySort{} }

func (prioritySort) Sort(tasks []*domain.Task) []*domain.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b *domain.Task) int {
		return int(b.Priority()) - int(a.Priority())
	})
	return out
}

type dueDateSort struct{}

// ByDueDate sorts by due date, earliest first. Tasks without a due date
// order last.
func ByDueDate() SortStrategy { return dueDateSort{} }

func (dueDateSort) Sort(tasks []*domain.Task) []*domain.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b *domain.Task) int {
		ad, bd := a.DueDate(), b.DueDate()
		switch {
		case ad == nil && bd == nil:
			return 0
		case ad == nil:
			return 1
		case bd == nil:
			return -1
		case ad.Before(*bd):
			return -1
		case bd.Before(*ad):
			return 1
		default:
			return 0
		}
	})
	return out
}

// statusRank fixes the sort order of statuses; unrecognized statuses sort last.
var statusRank = map[domain.Status]int{
	domain.StatusInProgress: 1,
	domain.StatusPending:    2,
	domain.StatusCompleted:  3,
	domain.StatusCancelled:  4,
}

type statusSort struct{}

// ByStatus sorts by status rank: in progress, pending, completed, cancelled.
func ByStatus() SortStrategy { return statusSort{} }

func (statusSort) Sort(tasks []*domain.Task) []*domain.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b *domain.Task) int {
		return rankOf(a.Status()) - rankOf(b.Status())
	})
	return out
}

func rankOf(s domain.Status) int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return len(statusRank) + 1
}

// Filter strategies.

type overdueFilter struct{}

// Overdue keeps only overdue tasks.
func Overdue() FilterStrategy { return overdueFilter{} }

func (overdueFilter) Filter(tasks []*domain.Task) []*domain.Task {
	var out []*domain.Task
	for _, t := range tasks {
		if t.IsOverdue() {
			out = append(out, t)
		}
	}
	return out
}

type assigneeFilter struct {
	assigneeID string
}

// AssignedTo keeps only tasks assigned to the given user.
func AssignedTo(assigneeID string) FilterStrategy {
	return assigneeFilter{assigneeID: assigneeID}
}

func (f assigneeFilter) Filter(tasks []*domain.Task) []*domain.Task {
	var out []*domain.Task
	for _, t := range tasks {
		if t.AssigneeID() == f.assigneeID {
			out = append(out, t)
		}
	}
	return out
}

type minPriorityFilter struct {
	min domain.Priority
}

// PriorityAtLeast keeps tasks at or above the given priority (inclusive).
func PriorityAtLeast(min domain.Priority) FilterStrategy {
	return minPriorityFilter{min: min}
}

func (f minPriorityFilter) Filter(tasks []*domain.Task) []*domain.Task {
	var out []*domain.Task
	for _, t := range tasks {
		if t.Priority() >= f.min {
			out = append(out, t)
		}
	}
	return out
}
