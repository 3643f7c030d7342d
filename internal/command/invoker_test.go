package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCommand records execute/undo calls and fails on demand.
type fakeCommand struct {
	name     string
	execErr  error
	undoErr  error
	executed int
	undone   int
}

func (f *fakeCommand) Execute() (any, error) {
	if f.execErr != nil {
		return nil, f.execErr
	}
	f.executed++
	return f.name, nil
}

func (f *fakeCommand) Undo() error {
	if f.undoErr != nil {
		return f.undoErr
	}
	f.undone++
	return nil
}

func TestInvoker_ExecuteUndoRedo(t *testing.T) {
	inv := NewInvoker()
	a := &fakeCommand{name: "a"}
	b := &fakeCommand{name: "b"}

	assert.False(t, inv.CanUndo())
	assert.False(t, inv.CanRedo())

	result, err := inv.Execute(a)
	require.NoError(t, err)
	assert.Equal(t, "a", result)
	_, err = inv.Execute(b)
	require.NoError(t, err)

	assert.True(t, inv.CanUndo())
	assert.Equal(t, 1, inv.Cursor())

	ok, err := inv.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, b.undone)
	assert.True(t, inv.CanRedo())

	ok, err = inv.Redo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, b.executed)
	assert.False(t, inv.CanRedo())
}

func TestInvoker_UndoOnEmptyHistory(t *testing.T) {
	inv := NewInvoker()

	ok, err := inv.Undo()
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = inv.Redo()
	require.NoError(t, err)
	assert.False(t, ok)
}

// Executing a new command after an undo discards the forward branch.
func TestInvoker_ExecuteTruncatesRedoBranch(t *testing.T) {
	inv := NewInvoker()
	a := &fakeCommand{name: "a"}
	b := &fakeCommand{name: "b"}
	c := &fakeCommand{name: "c"}

	_, err := inv.Execute(a)
	require.NoError(t, err)
	_, err = inv.Execute(b)
	require.NoError(t, err)

	ok, err := inv.Undo()
	require.NoError(t, err)
	require.True(t, ok)

	_, err = inv.Execute(c)
	require.NoError(t, err)

	history := inv.History()
	require.Len(t, history, 2)
	assert.Same(t, a, history[0].(*fakeCommand))
	assert.Same(t, c, history[1].(*fakeCommand))
	assert.False(t, inv.CanRedo())
}

func TestInvoker_FailedExecuteNotRecorded(t *testing.T) {
	inv := NewInvoker()
	bad := &fakeCommand{name: "bad", execErr: errors.New("boom")}

	_, err := inv.Execute(bad)
	require.Error(t, err)
	assert.Empty(t, inv.History())
	assert.False(t, inv.CanUndo())
}

func TestInvoker_UndoErrorKeepsCursor(t *testing.T) {
	inv := NewInvoker()
	a := &fakeCommand{name: "a", undoErr: errors.New("cannot undo")}

	_, err := inv.Execute(a)
	require.NoError(t, err)

	ok, err := inv.Undo()
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, inv.Cursor())
	assert.True(t, inv.CanUndo())
}

func TestInvoker_RedoErrorRollsBackCursor(t *testing.T) {
	inv := NewInvoker()
	a := &fakeCommand{name: "a"}

	_, err := inv.Execute(a)
	require.NoError(t, err)
	ok, err := inv.Undo()
	require.NoError(t, err)
	require.True(t, ok)

	a.execErr = errors.New("replay failed")
	ok, err = inv.Redo()
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, -1, inv.Cursor())
	assert.True(t, inv.CanRedo())
}
