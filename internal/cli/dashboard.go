package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tasktrack/internal/app"
	"tasktrack/internal/domain"
)

func newDashboardCommand(c *app.Container) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:     "dashboard",
		Short:   "Show a summary of your tasks",
		GroupID: groupView,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			user := userID(cmd)

			if project != "" {
				summary, err := c.Service.SummarizeProject(user, project)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Project %s\n", summary.ProjectID)
				fmt.Fprintf(out, "  Tasks:     %d\n", summary.TotalTasks)
				fmt.Fprintf(out, "  Completed: %d (%.0f%%)\n", summary.CompletedTasks, summary.CompletionPercentage)
				fmt.Fprintf(out, "  Overdue:   %d\n", summary.OverdueTasks)
				for _, st := range domain.AllStatuses() {
					if n := summary.ByStatus[st]; n > 0 {
						fmt.Fprintf(out, "  %-12s %d\n", st.Display()+":", n)
					}
				}
				return nil
			}

			d, err := c.Service.UserDashboard(user)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Tasks for %s\n", user)
			fmt.Fprintf(out, "  Total:       %d\n", d.TotalTasks)
			fmt.Fprintf(out, "  Pending:     %d\n", d.PendingTasks)
			fmt.Fprintf(out, "  In progress: %d\n", d.InProgressTasks)
			fmt.Fprintf(out, "  Completed:   %d\n", d.CompletedTasks)
			fmt.Fprintf(out, "  Overdue:     %d\n", d.OverdueTasks)
			if len(d.Recent) > 0 {
				fmt.Fprintln(out, "Recently updated:")
				for _, t := range d.Recent {
					fmt.Fprintf(out, "  %s  %-11s  %s\n", shortID(t.ID()), t.Status().Display(), t.Title())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "summarize a project instead")
	return cmd
}
