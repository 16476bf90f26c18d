package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nibzard/tasker-go/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	var example bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if example {
				a.printf("%s", config.ExampleConfig())
				return nil
			}

			if len(a.sources.Files) == 0 {
				a.printf("# no config files found\n")
			}
			for _, f := range a.sources.Files {
				a.printf("# loaded %s\n", f)
			}
			for _, key := range config.Fields() {
				a.printf("%-16s = %-40q # %s\n", key, a.cfg.Value(key), a.sources.Sources[key])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&example, "example", false, "Print an example tasker.toml")
	return cmd
}
