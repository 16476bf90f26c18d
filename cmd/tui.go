package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nibzard/tasker-go/internal/ui"
)

func newTUICommand(a *app) *cobra.Command {
	var inline bool
	cmd := &cobra.Command{
		Use:     "tui",
		Aliases: []string{"menu"},
		Short:   "Launch the interactive terminal menu",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ui.RunTUI(cmd.Context(), a.openStore(),
				ui.WithDefaultPriority(a.defaultPriority()),
				ui.WithAltScreen(!inline),
			)
		},
	}
	cmd.Flags().BoolVar(&inline, "inline", false, "Render in the current screen instead of the alternate screen")
	return cmd
}
