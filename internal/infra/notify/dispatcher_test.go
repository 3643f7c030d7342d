package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct {
	calls int
}

func (s *failingSink) Deliver(Notification) error {
	s.calls++
	return errors.New("sink failure")
}

func TestDispatcher_SubscribeAndNotify(t *testing.T) {
	d := NewDispatcher(nil)
	created := &MemorySink{}
	everything := &MemorySink{}

	d.Subscribe("task_created", created)
	d.SubscribeAll(everything)

	d.Notify("task_created", "a task appeared", map[string]any{"task_id": "t1"})
	d.Notify("task_deleted", "a task vanished", nil)

	got := created.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, "task_created", got[0].Event)
	assert.Equal(t, "a task appeared", got[0].Message)
	assert.Equal(t, "t1", got[0].Data["task_id"])

	assert.Len(t, everything.Notifications(), 2)
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	d := NewDispatcher(nil)
	sink := &MemorySink{}

	d.Subscribe("task_created", sink)
	d.Unsubscribe("task_created", sink)
	d.Notify("task_created", "nobody listening", nil)

	assert.Empty(t, sink.Notifications())
}

func TestDispatcher_DuplicateSubscriptionIgnored(t *testing.T) {
	d := NewDispatcher(nil)
	sink := &MemorySink{}

	d.Subscribe("task_created", sink)
	d.Subscribe("task_created", sink)
	d.Notify("task_created", "once only", nil)

	assert.Len(t, sink.Notifications(), 1)
}

// A failing sink must not prevent delivery to the remaining sinks.
func TestDispatcher_FailureDoesNotBlockOthers(t *testing.T) {
	d := NewDispatcher(nil)
	bad := &failingSink{}
	good := &MemorySink{}

	d.Subscribe("task_created", bad)
	d.Subscribe("task_created", good)
	d.Notify("task_created", "still delivered", nil)

	assert.Equal(t, 1, bad.calls)
	assert.Len(t, good.Notifications(), 1)
}

func TestDispatcher_ConcurrentNotify(t *testing.T) {
	d := NewDispatcher(nil)
	sink := &MemorySink{}
	d.SubscribeAll(sink)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Notify("event", "concurrent delivery", nil)
		}()
	}
	wg.Wait()

	assert.Len(t, sink.Notifications(), 20)
}

func TestMemorySink_Reset(t *testing.T) {
	sink := &MemorySink{}
	require.NoError(t, sink.Deliver(Notification{Event: "e"}))
	sink.Reset()
	assert.Empty(t, sink.Notifications())
}
