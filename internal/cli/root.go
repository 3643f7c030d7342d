// Package cli provides the command-line interface for tasktrack.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tasktrack/internal/app"
)

// Command group IDs.
const (
	groupTask = "task"
	groupView = "view"
	groupData = "data"
)

// NewRootCommand creates the root command for tasktrack. It receives the
// container for dependency injection and the version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "tasktrack",
		Short: "Task tracking CLI",
		Long: `tasktrack manages tasks with lifecycle states, priorities,
subtasks, dependencies and a full audit trail. Tasks live in a local
store (tasktrack.json by default); run "tasktrack tui" for the
interactive board with undo/redo.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultUser := "local"
	if c != nil {
		defaultUser = c.Config.Defaults.User
	}
	root.PersistentFlags().String("user", defaultUser, "acting user ID")

	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupView, Title: "View Commands:"},
		&cobra.Group{ID: groupData, Title: "Data Commands:"},
	)

	root.AddCommand(
		newAddCommand(c),
		newListCommand(c),
		newShowCommand(c),
		newStartCommand(c),
		newCompleteCommand(c),
		newCancelCommand(c),
		newEscalateCommand(c),
		newAssignCommand(c),
		newUpdateCommand(c),
		newDeleteCommand(c),
		newDashboardCommand(c),
		newExportCommand(c),
		newImportCommand(c),
		newTUICommand(c),
	)

	return root
}

// userID returns the acting user from the persistent flag.
func userID(cmd *cobra.Command) string {
	user, _ := cmd.Flags().GetString("user")
	return user
}

// resolveTaskID expands a task ID or unique ID prefix to a full ID.
func resolveTaskID(c *app.Container, idOrPrefix string) (string, error) {
	tasks, err := c.Tasks.List()
	if err != nil {
		return "", err
	}
	var matches []string
	for _, t := range tasks {
		if t.ID() == idOrPrefix {
			return idOrPrefix, nil
		}
		if strings.HasPrefix(t.ID(), idOrPrefix) {
			matches = append(matches, t.ID())
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no task with ID %s", idOrPrefix)
	default:
		return "", fmt.Errorf("ambiguous task ID prefix %s (%d matches)", idOrPrefix, len(matches))
	}
}
