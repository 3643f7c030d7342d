package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tasktrack/internal/app"
	"tasktrack/internal/domain"
)

// exportFile is the YAML document written by export and read by import.
type exportFile struct {
	Version int             `yaml:"version"`
	Tasks   []domain.Record `yaml:"tasks"`
}

const exportVersion = 1

func newExportCommand(c *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export all tasks as YAML",
		GroupID: groupData,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks, err := c.Tasks.List()
			if err != nil {
				return err
			}

			doc := exportFile{Version: exportVersion}
			for _, t := range tasks {
				doc.Tasks = append(doc.Tasks, t.Record())
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}

			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("encode tasks: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newImportCommand(c *app.Container) *cobra.Command {
	var skipExisting bool

	cmd := &cobra.Command{
		Use:     "import <file>",
		Short:   "Import tasks from a YAML export",
		GroupID: groupData,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			var doc exportFile
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("parse import file: %w", err)
			}
			if doc.Version > exportVersion {
				return fmt.Errorf("unsupported export version %d", doc.Version)
			}

			imported := 0
			skipped := 0
			for _, rec := range doc.Tasks {
				existing, err := c.Tasks.Get(rec.ID)
				if err != nil {
					return err
				}
				if existing != nil && skipExisting {
					skipped++
					continue
				}

				task, err := domain.FromRecord(rec)
				if err != nil {
					return fmt.Errorf("task %s: %w", rec.ID, err)
				}
				if _, err := c.Tasks.Save(task); err != nil {
					return err
				}
				imported++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d task(s)", imported)
			if skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), ", skipped %d existing", skipped)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "keep existing tasks instead of overwriting")
	return cmd
}
