package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/domain"
	"tasktrack/internal/testutil"
)

type fixture struct {
	repo     *testutil.MockTaskRepository
	notifier *testutil.RecordingNotifier
	perms    *Permissions
	svc      *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     testutil.NewMockTaskRepository(),
		notifier: &testutil.RecordingNotifier{},
		perms:    NewPermissions(),
	}
	f.perms.Grant("admin-user", "admin")
	f.svc = New(Deps{
		Tasks:    f.repo,
		Notifier: f.notifier,
		Perms:    f.perms,
	})
	return f
}

func (f *fixture) lastEvent(t *testing.T) testutil.RecordedEvent {
	t.Helper()
	require.NotEmpty(t, f.notifier.Events)
	return f.notifier.Events[len(f.notifier.Events)-1]
}

func TestTaskService_CreateTask(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "New feature"})
	require.NoError(t, err)
	assert.Equal(t, "New feature", task.Title())
	assert.Equal(t, 2, task.Version(), "creation is audited")

	event := f.lastEvent(t)
	assert.Equal(t, "task_created", event.Event)
	assert.Equal(t, task.ID(), event.Data["task_id"])
}

func TestTaskService_CreateTask_UrgentFactory(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.CreateTask("admin-user", "urgent", domain.TaskParams{Title: "Prod incident"})
	require.NoError(t, err)
	assert.Equal(t, "[URGENT] Prod incident", task.Title())
	assert.Equal(t, domain.PriorityHigh, task.Priority())
	require.NotNil(t, task.DueDate())
}

func TestTaskService_CreateTask_UnknownFactory(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTask("admin-user", "bogus", domain.TaskParams{Title: "Whatever task"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownFactory)
}

func TestTaskService_CreateTask_PermissionDenied(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTask("intern", "", domain.TaskParams{Title: "Denied task"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Zero(t, f.notifier.Count())
}

func TestTaskService_GetTask_Visibility(t *testing.T) {
	f := newFixture(t)
	f.perms.Grant("dev", "view_task")

	task, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "Scoped task", AssigneeID: "dev"})
	require.NoError(t, err)

	other, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "Someone else's", AssigneeID: "ops"})
	require.NoError(t, err)

	got, err := f.svc.GetTask("dev", task.ID())
	require.NoError(t, err)
	assert.Equal(t, task.ID(), got.ID())

	_, err = f.svc.GetTask("dev", other.ID())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	// Admins see everything.
	_, err = f.svc.GetTask("admin-user", other.ID())
	require.NoError(t, err)
}

func TestTaskService_GetTask_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetTask("admin-user", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskService_UpdateTask(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "Before update"})
	require.NoError(t, err)

	updated, err := f.svc.UpdateTask("admin-user", task.ID(), map[string]any{"title": "After update"})
	require.NoError(t, err)
	assert.Equal(t, "After update", updated.Title())
	assert.Equal(t, 3, updated.Version())

	log := updated.AuditLog()
	assert.Equal(t, "updated", log[len(log)-1].Action)
	assert.Equal(t, "task_updated", f.lastEvent(t).Event)
}

func TestTaskService_UpdateTask_OwnTasksOnly(t *testing.T) {
	f := newFixture(t)
	f.perms.Grant("dev", "update_task")

	task, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "Not yours", AssigneeID: "ops"})
	require.NoError(t, err)

	_, err = f.svc.UpdateTask("dev", task.ID(), map[string]any{"title": "Hijacked"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestTaskService_DeleteTask(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "Short lived"})
	require.NoError(t, err)

	ok, err := f.svc.DeleteTask("admin-user", task.ID())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "task_deleted", f.lastEvent(t).Event)
}

func TestTaskService_DeleteTask_BlockedByIncompleteSubtasks(t *testing.T) {
	f := newFixture(t)

	parent, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "Parent task"})
	require.NoError(t, err)
	child, err := domain.NewTask(domain.TaskParams{Title: "Child task"})
	require.NoError(t, err)
	parent.AddSubtask(child)

	_, err = f.svc.DeleteTask("admin-user", parent.ID())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := f.repo.Get(parent.ID())
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestTaskService_AssignTask(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "Handover task", AssigneeID: "alice"})
	require.NoError(t, err)

	assigned, err := f.svc.AssignTask("admin-user", task.ID(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", assigned.AssigneeID())

	log := assigned.AuditLog()
	entry := log[len(log)-1]
	assert.Equal(t, "assigned", entry.Action)
	assert.Equal(t, "alice", entry.Details["old_assignee"])
	assert.Equal(t, "bob", entry.Details["new_assignee"])
}

func TestTaskService_SearchTasks(t *testing.T) {
	f := newFixture(t)
	f.perms.Grant("dev", "view_task")

	past := time.Now().Add(-time.Hour)
	_, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{
		Title: "Dev overdue", AssigneeID: "dev", DueDate: &past, Priority: domain.PriorityLow,
	})
	require.NoError(t, err)
	_, err = f.svc.CreateTask("admin-user", "", domain.TaskParams{
		Title: "Dev current", AssigneeID: "dev", Priority: domain.PriorityHigh,
	})
	require.NoError(t, err)
	_, err = f.svc.CreateTask("admin-user", "", domain.TaskParams{
		Title: "Ops overdue", AssigneeID: "ops", DueDate: &past,
	})
	require.NoError(t, err)

	// Admin sees everything, sorted by priority.
	all, err := f.svc.SearchTasks("admin-user", domain.Criteria{}, "priority", nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Dev current", all[0].Title())

	// Non-admin results are scoped to the caller's tasks.
	scoped, err := f.svc.SearchTasks("dev", domain.Criteria{}, "priority", nil)
	require.NoError(t, err)
	require.Len(t, scoped, 2)

	// Named overdue filter on top of the scope.
	overdue, err := f.svc.SearchTasks("dev", domain.Criteria{}, "priority", []string{"overdue"})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "Dev overdue", overdue[0].Title())
}

func TestTaskService_UserDashboard(t *testing.T) {
	f := newFixture(t)

	past := time.Now().Add(-time.Hour)
	_, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "Pending one", AssigneeID: "dev"})
	require.NoError(t, err)

	active, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "Active one", AssigneeID: "dev", DueDate: &past})
	require.NoError(t, err)
	require.NoError(t, active.StartWork("dev"))

	done, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "Done one", AssigneeID: "dev"})
	require.NoError(t, err)
	require.NoError(t, done.StartWork("dev"))
	require.NoError(t, done.Complete("dev"))

	_, err = f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "Other user's", AssigneeID: "ops"})
	require.NoError(t, err)

	d, err := f.svc.UserDashboard("dev")
	require.NoError(t, err)
	assert.Equal(t, 3, d.TotalTasks)
	assert.Equal(t, 1, d.PendingTasks)
	assert.Equal(t, 1, d.InProgressTasks)
	assert.Equal(t, 1, d.CompletedTasks)
	assert.Equal(t, 1, d.OverdueTasks)
	require.NotEmpty(t, d.Recent)
	assert.LessOrEqual(t, len(d.Recent), 5)
}

func TestTaskService_SummarizeProject(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		task, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "Project task", ProjectID: "proj-1"})
		require.NoError(t, err)
		if i == 0 {
			require.NoError(t, task.StartWork("dev"))
			require.NoError(t, task.Complete("dev"))
		}
	}
	_, err := f.svc.CreateTask("admin-user", "", domain.TaskParams{Title: "Other project", ProjectID: "proj-2"})
	require.NoError(t, err)

	summary, err := f.svc.SummarizeProject("admin-user", "proj-1")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalTasks)
	assert.Equal(t, 1, summary.CompletedTasks)
	assert.InDelta(t, 33.3, summary.CompletionPercentage, 0.1)
	assert.Equal(t, 1, summary.ByStatus[domain.StatusCompleted])
	assert.Equal(t, 2, summary.ByStatus[domain.StatusPending])
	assert.Equal(t, 3, summary.ByPriority[domain.PriorityMedium])
}
