package command

// Invoker executes commands and records them in a strictly linear history
// with an undo/redo cursor. Executing a new command while the cursor is not
// at the tail permanently discards the forward branch.
//
// The invoker is single-writer: callers invoking it from multiple goroutines
// must synchronize externally. Command execution is caller-synchronous, so
// history order always matches real execution order.
type Invoker struct {
	history []Command
	cursor  int // index of the last applied command, -1 when none
}

// NewInvoker returns an empty invoker.
func NewInvoker() *Invoker {
	return &Invoker{cursor: -1}
}

// Execute runs the command and, on success, truncates any undone commands
// after the cursor, appends the command and advances the cursor. A failed
// command is not recorded.
func (inv *Invoker) Execute(cmd Command) (any, error) {
	result, err := cmd.Execute()
	if err != nil {
		return nil, err
	}
	inv.history = append(inv.history[:inv.cursor+1], cmd)
	inv.cursor++
	return result, nil
}

// Undo reverses the command at the cursor and moves the cursor back.
// Returns false with no error when there is nothing to undo. When the
// command's Undo fails the cursor stays put.
func (inv *Invoker) Undo() (bool, error) {
	if inv.cursor < 0 {
		return false, nil
	}
	if err := inv.history[inv.cursor].Undo(); err != nil {
		return false, err
	}
	inv.cursor--
	return true, nil
}

// Redo re-executes the command after the cursor and advances it. Returns
// false with no error when the cursor is already at the end of history.
// When re-execution fails the cursor is rolled back.
func (inv *Invoker) Redo() (bool, error) {
	if inv.cursor >= len(inv.history)-1 {
		return false, nil
	}
	inv.cursor++
	if _, err := inv.history[inv.cursor].Execute(); err != nil {
		inv.cursor--
		return false, err
	}
	return true, nil
}

// CanUndo reports whether an undo would do anything.
func (inv *Invoker) CanUndo() bool {
	return inv.cursor >= 0
}

// CanRedo reports whether a redo would do anything.
func (inv *Invoker) CanRedo() bool {
	return inv.cursor < len(inv.history)-1
}

// History returns a copy of the recorded command history.
func (inv *Invoker) History() []Command {
	out := make([]Command, len(inv.history))
	copy(out, inv.history)
	return out
}

// Cursor returns the index of the last applied command, -1 when none.
func (inv *Invoker) Cursor() int {
	return inv.cursor
}
