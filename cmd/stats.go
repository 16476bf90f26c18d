package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nibzard/tasker-go/internal/task"
)

func newStatsCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			st := a.openStore()
			stats := st.Statistics()
			if asJSON {
				return a.writeJSON(stats)
			}
			if stats.Total == 0 {
				a.printf("No tasks recorded.\n")
				return nil
			}

			a.printf("Total: %d\n\nBy status:\n", stats.Total)
			for _, s := range task.Statuses() {
				if n := stats.ByStatus[s]; n > 0 {
					a.printf("  %s: %d\n", s, n)
				}
			}
			a.printf("\nBy priority:\n")
			for _, p := range task.Priorities() {
				if n := stats.ByPriority[p]; n > 0 {
					a.printf("  %s: %d\n", p.Label(), n)
				}
			}
			if stats.Overdue > 0 {
				a.printf("\nOverdue: %d\n", stats.Overdue)
				for _, t := range st.Overdue() {
					a.printf("  %s\n", t)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statistics as JSON")
	return cmd
}
