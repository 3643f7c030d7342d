package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tasktrack/internal/app"
	"tasktrack/internal/command"
	"tasktrack/internal/domain"
	"tasktrack/internal/query"
)

// tasksLoadedMsg carries a freshly loaded task list.
type tasksLoadedMsg struct {
	tasks []*domain.Task
	err   error
}

// actionDoneMsg reports the result of a task action.
type actionDoneMsg struct {
	status string
	err    error
}

// Model is the root bubbletea model for the task list.
type Model struct {
	container *app.Container
	user      string

	keys   KeyMap
	styles Styles
	help   help.Model

	tasks  []*domain.Task
	cursor int

	status string
	err    error

	width  int
	height int
}

// NewModel builds the TUI model around the application container.
func NewModel(c *app.Container, user string) Model {
	return Model{
		container: c,
		user:      user,
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		help:      help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadTasks
}

func (m Model) loadTasks() tea.Msg {
	tasks, err := m.container.Tasks.List()
	if err != nil {
		return tasksLoadedMsg{err: err}
	}
	proc := query.NewProcessor()
	proc.SetSort(query.ByStatus())
	return tasksLoadedMsg{tasks: proc.Process(tasks)}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tasksLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.tasks = msg.tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case actionDoneMsg:
		m.err = msg.err
		m.status = msg.status
		return m, m.loadTasks

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.status = ""
		return m, m.loadTasks

	case key.Matches(msg, m.keys.Start):
		return m, m.taskAction("started", func(t *domain.Task) error {
			return t.StartWork(m.user)
		})

	case key.Matches(msg, m.keys.Complete):
		return m, m.taskAction("completed", func(t *domain.Task) error {
			return t.Complete(m.user)
		})

	case key.Matches(msg, m.keys.Cancel):
		return m, m.taskAction("cancelled", func(t *domain.Task) error {
			return t.Cancel(m.user, "")
		})

	case key.Matches(msg, m.keys.Escalate):
		return m, m.taskAction("escalated", func(t *domain.Task) error {
			t.EscalatePriority(m.user)
			return nil
		})

	case key.Matches(msg, m.keys.Delete):
		task := m.selected()
		if task == nil {
			return m, nil
		}
		id := task.ID()
		return m, func() tea.Msg {
			_, err := m.container.Invoker.Execute(command.NewDeleteTask(m.container.Tasks, id))
			if err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{status: "deleted (u to undo)"}
		}

	case key.Matches(msg, m.keys.Undo):
		return m, func() tea.Msg {
			ok, err := m.container.Invoker.Undo()
			if err != nil {
				return actionDoneMsg{err: err}
			}
			if !ok {
				return actionDoneMsg{status: "nothing to undo"}
			}
			return actionDoneMsg{status: "undone"}
		}

	case key.Matches(msg, m.keys.Redo):
		return m, func() tea.Msg {
			ok, err := m.container.Invoker.Redo()
			if err != nil {
				return actionDoneMsg{err: err}
			}
			if !ok {
				return actionDoneMsg{status: "nothing to redo"}
			}
			return actionDoneMsg{status: "redone"}
		}
	}
	return m, nil
}

// taskAction runs an entity operation on the selected task and persists it.
func (m Model) taskAction(done string, op func(*domain.Task) error) tea.Cmd {
	task := m.selected()
	if task == nil {
		return nil
	}
	return func() tea.Msg {
		task.AddObserver(m.container.Notifier)
		if err := op(task); err != nil {
			return actionDoneMsg{err: err}
		}
		if _, err := m.container.Tasks.Save(task); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("%s: %s", done, task.Title())}
	}
}

func (m Model) selected() *domain.Task {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return nil
	}
	return m.tasks[m.cursor]
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("tasktrack"))
	b.WriteString("\n")

	if len(m.tasks) == 0 {
		b.WriteString(m.styles.HelpText.Render("No tasks. Create one with: tasktrack add <title>"))
		b.WriteString("\n")
	}

	for i, t := range m.tasks {
		cursor := "  "
		titleStyle := m.styles.TaskNormal
		if i == m.cursor {
			cursor = "> "
			titleStyle = m.styles.TaskSelected
		}

		id := m.styles.TaskID.Render(shortID(t.ID()))
		status := m.styles.StatusStyle(t.Status()).Render(fmt.Sprintf("%-11s", t.Status().Display()))
		title := titleStyle.Render(t.Title())

		line := fmt.Sprintf("%s%s  %s  %-8s  %s", cursor, id, status, t.Priority(), title)
		if t.IsOverdue() {
			line += "  " + m.styles.TaskOverdue.Render("overdue")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(m.styles.ErrorText.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.styles.StatusLine.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.HelpText.Render(m.help.View(m.keys)))
	return m.styles.App.Render(b.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run starts the TUI event loop.
func Run(c *app.Container, user string) error {
	p := tea.NewProgram(NewModel(c, user), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
