// Package cmd implements the CLI command structure for tasker.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nibzard/tasker-go/internal/config"
	"github.com/nibzard/tasker-go/internal/logging"
	"github.com/nibzard/tasker-go/internal/store"
	"github.com/nibzard/tasker-go/internal/task"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries the state shared by all commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg     *config.Config
	sources *config.ConfigWithSources
	logger  *log.Logger
}

// Run executes the tasker CLI with args, writing to the process streams.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCommand(&app{stdout: stdout, stderr: stderr})
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tasker",
		Short:         "tasker - a personal task tracker backed by a JSON file",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetVersionTemplate("tasker version {{.Version}}\n")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newAddCommand(a),
		newListCommand(a),
		newShowCommand(a),
		newEditCommand(a),
		newTransitionCommand(a, "done", "Mark a task as done", "Done", (*store.Store).MarkDone),
		newTransitionCommand(a, "start", "Mark a task as in progress", "In Progress", (*store.Store).MarkInProgress),
		newTransitionCommand(a, "cancel", "Cancel a task", "Cancelled", (*store.Store).Cancel),
		newTagCommand(a),
		newUntagCommand(a),
		newRemoveCommand(a),
		newStatsCommand(a),
		newDemoCommand(a),
		newTUICommand(a),
		newDoctorCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cws, err := config.LoadWithSources(cmd.Root().PersistentFlags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.sources = cws
	a.cfg = cws.Config

	a.logger = logging.FromConfig(a.stderr, a.cfg.LogLevel, a.cfg.LogFormat, a.cfg.LogTimestamps, a.cfg.LogCaller)
	a.logger.Debug("Config loaded", "tasks_file", a.cfg.TasksFile, "files", cws.Files)
	return nil
}

func (a *app) openStore() *store.Store {
	return store.Open(a.cfg.TasksFile, store.WithLogger(a.logger))
}

func (a *app) defaultPriority() task.Priority {
	return task.Priority(a.cfg.DefaultPriority)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			a.printf("tasker version %s\n", Version)
		},
	}
}

// notFoundError reports a missing task id.
type notFoundError struct {
	id int
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("task %d not found", e.id)
}

func (e *notFoundError) Unwrap() error {
	return store.ErrNotFound
}

func notFound(id int) error {
	return &notFoundError{id: id}
}

// parseID parses a task id argument.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid task id %q", store.ErrInvalidArgument, s)
	}
	return id, nil
}
