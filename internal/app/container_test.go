package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/domain"
	"tasktrack/internal/infra/memstore"
)

func TestNew_DefaultJSONStore(t *testing.T) {
	dir := t.TempDir()

	c, err := New(dir)
	require.NoError(t, err)
	defer c.Close()

	assert.FileExists(t, filepath.Join(dir, "tasktrack.json"))
	assert.Equal(t, "json", c.Config.Store.Type)
	assert.NotNil(t, c.Service)
	assert.NotNil(t, c.Invoker)

	// The configured default user holds admin.
	assert.True(t, c.Permissions.Allow(c.Config.Defaults.User, "anything"))
}

func TestNew_MemoryStoreFromConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasktrack.toml"), []byte(`
[store]
type = "memory"
`), 0o600))

	c, err := New(dir)
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Tasks.(*memstore.Store)
	assert.True(t, ok)
	assert.NoFileExists(t, filepath.Join(dir, "tasktrack.json"))
}

func TestContainer_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	c, err := New(dir)
	require.NoError(t, err)
	defer c.Close()

	user := c.Config.Defaults.User
	task, err := c.Service.CreateTask(user, "", domain.TaskParams{Title: "Wired together"})
	require.NoError(t, err)

	// The creation event reached the memory sink through the dispatcher.
	events := c.Events.Notifications()
	require.NotEmpty(t, events)
	assert.Equal(t, "task_created", events[0].Event)

	// A second container over the same directory sees the persisted task.
	c2, err := New(dir)
	require.NoError(t, err)
	defer c2.Close()

	got, err := c2.Tasks.Get(task.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Wired together", got.Title())
}
