package cli

import (
	"github.com/spf13/cobra"

	"tasktrack/internal/app"
	"tasktrack/internal/tui"
)

func newTUICommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "tui",
		Short:   "Open the interactive task browser",
		GroupID: groupView,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tui.Run(c, userID(cmd))
		},
	}
}
