package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/nibzard/tasker-go/internal/store"
)

// errDoctorFailed is returned when the tasks file does not validate.
var errDoctorFailed = errors.New("doctor checks failed")

func newDoctorCommand(a *app) *cobra.Command {
	var (
		schemaPath  string
		skipSchema  bool
		printSchema bool
	)
	cmd := &cobra.Command{
		Use:   "doctor [FILE]",
		Short: "Validate the tasks file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if printSchema {
				a.printf("%s", store.Schema())
				return nil
			}

			path := a.cfg.TasksFile
			if len(args) == 1 {
				path = args[0]
			}

			a.printf("tasker doctor\n=============\n\n")
			a.printf("Tasks file: %s\n", path)
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				a.printf("  OK: not created yet, the first change will create it\n")
				return nil
			}

			result, err := store.ValidateFile(path, store.ValidationOptions{
				SchemaPath: schemaPath,
				SkipSchema: skipSchema,
			})
			if err != nil {
				return err
			}
			if result.UsedSchema {
				a.printf("  Schema: checked\n")
			} else {
				a.printf("  Schema: skipped\n")
			}
			for _, w := range result.Warnings {
				a.printf("  WARN: %s\n", w)
			}
			for _, e := range result.Errors {
				a.printf("  ERROR: %s\n", e)
			}
			if !result.Valid {
				a.logger.Error("Tasks file is invalid", "path", path, "errors", len(result.Errors))
				return errDoctorFailed
			}
			a.printf("  OK\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Validate against this JSON Schema file instead of the built-in one")
	cmd.Flags().BoolVar(&skipSchema, "skip-schema", false, "Only run the checks the loader relies on (accepts legacy files)")
	cmd.Flags().BoolVar(&printSchema, "print-schema", false, "Print the built-in JSON Schema and exit")
	return cmd
}
