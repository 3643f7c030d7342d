package jsonstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/domain"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "tasks.json"))
	require.NoError(t, store.Initialize())
	return store
}

func newTask(t *testing.T, title string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(domain.TaskParams{Title: title})
	require.NoError(t, err)
	return task
}

func TestStore_Initialize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.json")
	store := New(path)

	assert.False(t, store.IsInitialized())
	require.NoError(t, store.Initialize())
	assert.True(t, store.IsInitialized())

	// Idempotent.
	require.NoError(t, store.Initialize())
}

func TestStore_UninitializedReadFails(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "tasks.json"))

	_, err := store.List()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestStore_SaveAndGet(t *testing.T) {
	store := newStore(t)
	task := newTask(t, "Persisted task")
	require.NoError(t, task.StartWork("alice"))

	_, err := store.Save(task)
	require.NoError(t, err)

	got, err := store.Get(task.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Persisted task", got.Title())
	assert.Equal(t, domain.StatusInProgress, got.Status())
	assert.Equal(t, 2, got.Version())
	assert.Len(t, got.AuditLog(), 1)

	missing, err := store.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_SubtasksPersistAsIDs(t *testing.T) {
	store := newStore(t)
	parent := newTask(t, "Parent task")
	child := newTask(t, "Child task")
	parent.AddSubtask(child)

	_, err := store.Save(parent)
	require.NoError(t, err)
	_, err = store.Save(child)
	require.NoError(t, err)

	got, err := store.Get(parent.ID())
	require.NoError(t, err)
	assert.Empty(t, got.Subtasks())
	assert.Equal(t, []string{child.ID()}, got.SubtaskIDs())
}

func TestStore_ListOrderIsStable(t *testing.T) {
	store := newStore(t)
	for _, title := range []string{"Task aaa", "Task bbb", "Task ccc"} {
		_, err := store.Save(newTask(t, title))
		require.NoError(t, err)
	}

	first, err := store.List()
	require.NoError(t, err)
	second, err := store.List()
	require.NoError(t, err)

	require.Len(t, first, 3)
	for i := range first {
		assert.Equal(t, first[i].ID(), second[i].ID())
	}
}

func TestStore_Delete(t *testing.T) {
	store := newStore(t)
	task := newTask(t, "Condemned task")
	_, err := store.Save(task)
	require.NoError(t, err)

	ok, err := store.Delete(task.ID())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Delete(task.ID())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_FindByCriteria(t *testing.T) {
	store := newStore(t)

	urgent := newTask(t, "Urgent work")
	urgent.Metadata().AddTag("urgent")
	_, err := store.Save(urgent)
	require.NoError(t, err)
	_, err = store.Save(newTask(t, "Routine work"))
	require.NoError(t, err)

	found, err := store.FindByCriteria(domain.Criteria{"tags": "urgent"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, urgent.ID(), found[0].ID())
}
