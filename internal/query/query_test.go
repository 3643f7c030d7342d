package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/domain"
)

func makeTask(t *testing.T, title string, p domain.Priority) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(domain.TaskParams{Title: title, Priority: p})
	require.NoError(t, err)
	return task
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title()
	}
	return out
}

func TestByPriority(t *testing.T) {
	input := []*domain.Task{
		makeTask(t, "low task", domain.PriorityLow),
		makeTask(t, "critical task", domain.PriorityCritical),
		makeTask(t, "medium task", domain.PriorityMedium),
	}

	sorted := ByPriority().Sort(input)
	assert.Equal(t, []string{"critical task", "medium task", "low task"}, titles(sorted))
	// Input order is untouched.
	assert.Equal(t, "low task", input[0].Title())
}

func TestByDueDate_NilDatesLast(t *testing.T) {
	soon := time.Now().Add(time.Hour)
	later := time.Now().Add(48 * time.Hour)

	noDue := makeTask(t, "no due", domain.PriorityMedium)
	dueSoon := makeTask(t, "due soon", domain.PriorityMedium)
	dueSoon.SetDueDate(&soon)
	dueLater := makeTask(t, "due later", domain.PriorityMedium)
	dueLater.SetDueDate(&later)

	sorted := ByDueDate().Sort([]*domain.Task{noDue, dueLater, dueSoon})
	assert.Equal(t, []string{"due soon", "due later", "no due"}, titles(sorted))
}

func TestByStatus(t *testing.T) {
	pending := makeTask(t, "pending task", domain.PriorityMedium)

	active := makeTask(t, "active task", domain.PriorityMedium)
	require.NoError(t, active.StartWork("a"))

	done := makeTask(t, "done task", domain.PriorityMedium)
	require.NoError(t, done.StartWork("a"))
	require.NoError(t, done.Complete("a"))

	dropped := makeTask(t, "dropped task", domain.PriorityMedium)
	require.NoError(t, dropped.Cancel("a", ""))

	sorted := ByStatus().Sort([]*domain.Task{done, dropped, pending, active})
	assert.Equal(t, []string{"active task", "pending task", "done task", "dropped task"}, titles(sorted))
}

func TestProcessor_FiltersRunInOrderThenSort(t *testing.T) {
	past := time.Now().Add(-time.Hour)

	overdueHigh := makeTask(t, "overdue high", domain.PriorityHigh)
	overdueHigh.SetDueDate(&past)
	overdueHigh.SetAssignee("alice")

	overdueLow := makeTask(t, "overdue low", domain.PriorityLow)
	overdueLow.SetDueDate(&past)
	overdueLow.SetAssignee("alice")

	onTime := makeTask(t, "on time", domain.PriorityCritical)
	onTime.SetAssignee("alice")

	otherUser := makeTask(t, "other user", domain.PriorityCritical)
	otherUser.SetDueDate(&past)
	otherUser.SetAssignee("bob")

	p := NewProcessor()
	p.AddFilter(AssignedTo("alice"))
	p.AddFilter(Overdue())

	got := p.Process([]*domain.Task{overdueLow, onTime, otherUser, overdueHigh})
	assert.Equal(t, []string{"overdue high", "overdue low"}, titles(got))
}

func TestProcessor_DefaultSortIsPriority(t *testing.T) {
	low := makeTask(t, "low task", domain.PriorityLow)
	high := makeTask(t, "high task", domain.PriorityHigh)

	got := NewProcessor().Process([]*domain.Task{low, high})
	assert.Equal(t, []string{"high task", "low task"}, titles(got))
}

func TestProcessor_SetSortIgnoresNil(t *testing.T) {
	p := NewProcessor()
	p.SetSort(nil)

	low := makeTask(t, "low task", domain.PriorityLow)
	high := makeTask(t, "high task", domain.PriorityHigh)
	got := p.Process([]*domain.Task{low, high})
	assert.Equal(t, []string{"high task", "low task"}, titles(got))
}

func TestProcessor_ClearFilters(t *testing.T) {
	p := NewProcessor()
	p.AddFilter(AssignedTo("nobody"))
	p.ClearFilters()

	task := makeTask(t, "kept task", domain.PriorityMedium)
	got := p.Process([]*domain.Task{task})
	assert.Len(t, got, 1)
}

func TestPriorityAtLeast_Inclusive(t *testing.T) {
	tasks := []*domain.Task{
		makeTask(t, "low task", domain.PriorityLow),
		makeTask(t, "high task", domain.PriorityHigh),
		makeTask(t, "critical task", domain.PriorityCritical),
	}

	got := PriorityAtLeast(domain.PriorityHigh).Filter(tasks)
	assert.Equal(t, []string{"high task", "critical task"}, titles(got))
}
