package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tasktrack/internal/app"
	"tasktrack/internal/domain"
)

func newAddCommand(c *app.Container) *cobra.Command {
	var (
		description string
		priority    string
		assignee    string
		due         string
		project     string
		factoryName string
	)

	cmd := &cobra.Command{
		Use:     "add <title>",
		Short:   "Create a new task",
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := domain.TaskParams{
				Title:       args[0],
				Description: description,
				AssigneeID:  assignee,
				ProjectID:   project,
			}
			if priority != "" {
				p, err := domain.ParsePriority(priority)
				if err != nil {
					return err
				}
				params.Priority = p
			}
			if due != "" {
				d, err := time.Parse(time.RFC3339, due)
				if err != nil {
					return fmt.Errorf("parse due date: %w", err)
				}
				params.DueDate = &d
			}

			task, err := c.Service.CreateTask(userID(cmd), factoryName, params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", shortID(task.ID()), task.Title())
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority (low|medium|high|critical)")
	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "assignee user ID")
	cmd.Flags().StringVar(&due, "due", "", "due date (RFC3339)")
	cmd.Flags().StringVar(&project, "project", "", "project ID")
	cmd.Flags().StringVarP(&factoryName, "factory", "f", "", "task factory (simple|urgent)")
	return cmd
}

func newListCommand(c *app.Container) *cobra.Command {
	var (
		status   string
		assignee string
		search   string
		overdue  bool
		sortBy   string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List tasks",
		GroupID: groupView,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria := domain.Criteria{}
			if status != "" {
				st, err := domain.ParseStatus(status)
				if err != nil {
					return err
				}
				criteria["status"] = st
			}
			if assignee != "" {
				criteria["assignee_id"] = assignee
			}
			if search != "" {
				criteria["title"] = search
			}

			var filters []string
			if overdue {
				filters = append(filters, "overdue")
			}

			tasks, err := c.Service.SearchTasks(userID(cmd), criteria, sortBy, filters)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found")
				return nil
			}
			for _, t := range tasks {
				line := fmt.Sprintf("%s  %-11s  %-8s  %s",
					shortID(t.ID()), t.Status().Display(), t.Priority(), t.Title())
				if t.IsOverdue() {
					line += "  (overdue)"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status")
	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "filter by assignee")
	cmd.Flags().StringVar(&search, "search", "", "filter by title substring")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "only overdue tasks")
	cmd.Flags().StringVar(&sortBy, "sort", "priority", "sort order (priority|due_date|status)")
	return cmd
}

func newShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Short:   "Show task details",
		GroupID: groupView,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			task, err := c.Service.GetTask(userID(cmd), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:        %s\n", task.ID())
			fmt.Fprintf(out, "Title:     %s\n", task.Title())
			if task.Description() != "" {
				fmt.Fprintf(out, "Desc:      %s\n", task.Description())
			}
			fmt.Fprintf(out, "Status:    %s\n", task.Status().Display())
			fmt.Fprintf(out, "Priority:  %s\n", task.Priority())
			if task.AssigneeID() != "" {
				fmt.Fprintf(out, "Assignee:  %s\n", task.AssigneeID())
			}
			if due := task.DueDate(); due != nil {
				fmt.Fprintf(out, "Due:       %s\n", due.Format(time.RFC3339))
			}
			if task.ProjectID() != "" {
				fmt.Fprintf(out, "Project:   %s\n", task.ProjectID())
			}
			fmt.Fprintf(out, "Version:   %d\n", task.Version())
			fmt.Fprintf(out, "Progress:  %.0f%%\n", task.CompletionPercentage())
			if deps := task.Dependencies(); len(deps) > 0 {
				fmt.Fprintln(out, "Dependencies:")
				for _, d := range deps {
					fmt.Fprintf(out, "  %s (%s)\n", shortID(d.TaskID), d.Type)
				}
			}
			if ids := task.SubtaskIDs(); len(ids) > 0 {
				fmt.Fprintln(out, "Subtasks:")
				for _, sid := range ids {
					fmt.Fprintf(out, "  %s\n", shortID(sid))
				}
			}
			if audit := task.AuditLog(); len(audit) > 0 {
				fmt.Fprintln(out, "History:")
				for _, e := range audit {
					fmt.Fprintf(out, "  v%d  %s  %s by %s\n",
						e.Version, e.Timestamp.Format("2006-01-02 15:04"), e.Action, e.UserID)
				}
			}
			return nil
		},
	}
}

// newStatusCommand builds a status-changing command around an entity operation.
func newStatusCommand(c *app.Container, use, short string, op func(task *domain.Task, user string) error) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <id>",
		Short:   short,
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			task, err := c.Tasks.Get(id)
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
			}
			task.AddObserver(c.Notifier)
			if err := op(task, userID(cmd)); err != nil {
				return err
			}
			if _, err := c.Tasks.Save(task); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", task.Status().Display(), task.Title())
			return nil
		},
	}
}

func newStartCommand(c *app.Container) *cobra.Command {
	return newStatusCommand(c, "start", "Start working on a task",
		func(task *domain.Task, user string) error { return task.StartWork(user) })
}

func newCompleteCommand(c *app.Container) *cobra.Command {
	return newStatusCommand(c, "complete", "Mark a task as completed",
		func(task *domain.Task, user string) error { return task.Complete(user) })
}

func newCancelCommand(c *app.Container) *cobra.Command {
	var reason string
	cmd := newStatusCommand(c, "cancel", "Cancel a task",
		func(task *domain.Task, user string) error { return task.Cancel(user, reason) })
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "cancellation reason")
	return cmd
}

func newEscalateCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "escalate <id>",
		Short:   "Raise a task's priority by one step",
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			task, err := c.Tasks.Get(id)
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
			}
			task.AddObserver(c.Notifier)
			task.EscalatePriority(userID(cmd))
			if _, err := c.Tasks.Save(task); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Priority: %s\n", task.Priority())
			return nil
		},
	}
}

func newAssignCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "assign <id> <user>",
		Short:   "Assign a task to a user",
		GroupID: groupTask,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			task, err := c.Service.AssignTask(userID(cmd), id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s\n", task.Title(), args[1])
			return nil
		},
	}
}

func newUpdateCommand(c *app.Container) *cobra.Command {
	var (
		title       string
		description string
		priority    string
		due         string
	)

	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Update task fields",
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}

			changes := map[string]any{}
			if cmd.Flags().Changed("title") {
				changes["title"] = title
			}
			if cmd.Flags().Changed("description") {
				changes["description"] = description
			}
			if cmd.Flags().Changed("priority") {
				changes["priority"] = priority
			}
			if cmd.Flags().Changed("due") {
				changes["due_date"] = due
			}
			if len(changes) == 0 {
				return fmt.Errorf("no fields to update")
			}

			task, err := c.Service.UpdateTask(userID(cmd), id, changes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (version %d)\n", task.Title(), task.Version())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "new priority")
	cmd.Flags().StringVar(&due, "due", "", "new due date (RFC3339)")
	return cmd
}

func newDeleteCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a task",
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveTaskID(c, args[0])
			if err != nil {
				return err
			}
			ok, err := c.Service.DeleteTask(userID(cmd), id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
			return nil
		},
	}
}

// shortID abbreviates a task UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
