package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nibzard/tasker-go/internal/store"
	"github.com/nibzard/tasker-go/internal/task"
	"github.com/nibzard/tasker-go/internal/utils"
)

func newAddCommand(a *app) *cobra.Command {
	var (
		description string
		priority    string
		due         string
		tags        string
	)
	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p := a.defaultPriority()
			if priority != "" {
				parsed, err := task.ParsePriority(priority)
				if err != nil {
					return fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)
				}
				p = parsed
			}
			due = strings.TrimSpace(due)
			if err := store.ValidateDueDate(due); err != nil {
				return err
			}

			st := a.openStore()
			created, err := st.Create(strings.Join(args, " "), description, p, due)
			if err != nil {
				return err
			}
			for _, tag := range utils.SplitAndTrim(tags, ",") {
				st.AddTag(created.ID, tag)
			}
			created, _ = st.Get(created.ID)
			a.printf("Created %s\n", created)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: 1-4, P1-P4 or low|normal|high|critical (default from config)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "Comma-separated tags")
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	var (
		status   string
		priority string
		tag      string
		overdue  bool
		asJSON   bool
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, highest priority first",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			var f store.Filter
			if status != "" {
				s, err := task.ParseStatus(status)
				if err != nil {
					return fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)
				}
				f.Status = &s
			}
			if priority != "" {
				p, err := task.ParsePriority(priority)
				if err != nil {
					return fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)
				}
				f.Priority = &p
			}
			f.Tag = strings.TrimSpace(tag)

			tasks := a.openStore().List(f)
			if overdue {
				kept := tasks[:0]
				for _, t := range tasks {
					if t.IsOverdue() {
						kept = append(kept, t)
					}
				}
				tasks = kept
			}

			if asJSON {
				if tasks == nil {
					tasks = []task.Task{}
				}
				return a.writeJSON(tasks)
			}
			if len(tasks) == 0 {
				a.printf("No tasks found.\n")
				return nil
			}
			for _, t := range tasks {
				a.printTask(t, verbose)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (pending|in-progress|done|cancelled)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Filter by priority")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Filter by tag")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "Only overdue tasks")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print tasks as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show descriptions and tags")
	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, ok := a.openStore().Get(id)
			if !ok {
				return notFound(id)
			}
			a.printf("%s\n", t)
			a.printf("  Status:      %s\n", t.Status)
			a.printf("  Priority:    %s (%s)\n", t.Priority.Label(), t.Priority.Name())
			a.printf("  Created:     %s\n", t.CreatedAt)
			if t.DueDate != "" {
				a.printf("  Due:         %s\n", t.DueDate)
			}
			if t.Description != "" {
				a.printf("  Description: %s\n", t.Description)
			}
			if len(t.Tags) > 0 {
				a.printf("  Tags:        %s\n", strings.Join(t.Tags, ", "))
			}
			return nil
		},
	}
}

func newEditCommand(a *app) *cobra.Command {
	var (
		title       string
		description string
		priority    string
		status      string
		due         string
		tags        string
	)
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit the fields given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var u store.Update
			flags := cmd.Flags()
			if flags.Changed("title") {
				u.Title = &title
			}
			if flags.Changed("description") {
				u.Description = &description
			}
			if flags.Changed("priority") {
				p, err := task.ParsePriority(priority)
				if err != nil {
					return fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)
				}
				u.Priority = &p
			}
			if flags.Changed("status") {
				s, err := task.ParseStatus(status)
				if err != nil {
					return fmt.Errorf("%w: %v", store.ErrInvalidArgument, err)
				}
				u.Status = &s
			}
			if flags.Changed("due") {
				due = strings.TrimSpace(due)
				if err := store.ValidateDueDate(due); err != nil {
					return err
				}
				u.DueDate = &due
			}
			if flags.Changed("tags") {
				list := utils.Unique(utils.SplitAndTrim(tags, ","))
				u.Tags = &list
			}
			if u.IsEmpty() {
				return fmt.Errorf("%w: nothing to edit, pass at least one field flag", store.ErrInvalidArgument)
			}

			st := a.openStore()
			ok, err := st.Edit(id, u)
			if err != nil {
				return err
			}
			if !ok {
				return notFound(id)
			}
			t, _ := st.Get(id)
			a.printf("Updated %s\n", t)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority")
	cmd.Flags().StringVarP(&status, "status", "s", "", "New status")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD, empty clears it)")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "Replace tags (comma-separated, empty clears them)")
	return cmd
}

func newTransitionCommand(a *app, use, short, label string, fn func(*store.Store, int) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !fn(a.openStore(), id) {
				return notFound(id)
			}
			a.printf("Task #%d is now %s\n", id, label)
			return nil
		},
	}
}

func newTagCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tag ID TAG...",
		Short: "Add tags to a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.editTags(args, (*store.Store).AddTag)
		},
	}
}

func newUntagCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "untag ID TAG...",
		Short: "Remove tags from a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.editTags(args, (*store.Store).RemoveTag)
		},
	}
}

func (a *app) editTags(args []string, fn func(*store.Store, int, string) bool) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	st := a.openStore()
	if _, ok := st.Get(id); !ok {
		return notFound(id)
	}
	for _, tag := range args[1:] {
		if tag = strings.TrimSpace(tag); tag != "" {
			fn(st, id, tag)
		}
	}
	t, _ := st.Get(id)
	a.printf("Task #%d tags: %s\n", id, strings.Join(t.Tags, ", "))
	return nil
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !a.openStore().Delete(id) {
				return notFound(id)
			}
			a.printf("Deleted task #%d\n", id)
			return nil
		},
	}
}

func (a *app) printTask(t task.Task, verbose bool) {
	line := t.String()
	if t.DueDate != "" {
		line += " due " + t.DueDate
	}
	a.printf("  %s\n", line)
	if !verbose {
		return
	}
	if t.Description != "" {
		a.printf("      %s\n", t.Description)
	}
	if len(t.Tags) > 0 {
		a.printf("      tags: %s\n", strings.Join(t.Tags, ", "))
	}
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
