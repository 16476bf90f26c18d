package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/nibzard/tasker-go/internal/store"
	"github.com/nibzard/tasker-go/internal/task"
)

type demoTask struct {
	title       string
	description string
	priority    task.Priority
	due         string
}

var demoTasks = []demoTask{
	{"Learn Go", "Work through a complete tutorial", task.PriorityHigh, "2025-02-01"},
	{"Groceries", "Buy bread, milk, eggs", task.PriorityNormal, ""},
	{"Team meeting", "Weekly sync at 2pm", task.PriorityCritical, "2025-01-15"},
	{"Read a book", "Finish the science fiction novel", task.PriorityLow, "2025-01-30"},
}

func newDemoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seed the demo file with example tasks",
		Long: "Replaces the demo file (demo_file, default demo_tasks.json) with four\n" +
			"example tasks, starts the first one and prints the result.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := a.cfg.DemoFile
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("reset demo file: %w", err)
			}

			st := store.Open(path, store.WithLogger(a.logger))
			var first int
			for _, d := range demoTasks {
				t, err := st.Create(d.title, d.description, d.priority, d.due)
				if err != nil {
					return err
				}
				if first == 0 {
					first = t.ID
				}
			}
			st.MarkInProgress(first)
			if err := st.Save(); err != nil {
				return err
			}

			a.printf("Demo tasks created in %s\n\n", path)
			for _, t := range st.List(store.Filter{}) {
				a.printf("  %s\n", t)
			}
			a.printf("\nTotal: %d tasks\n", st.Statistics().Total)
			return nil
		},
	}
}
