package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mauzec/tasktracker/internal/core"
	"github.com/spf13/cobra"
)

const invalidIDMessage = "Invalid input! Please enter a number."

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add TITLE [DESCRIPTION]",
		Short: "Add a new task",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := ""
			if len(args) == 2 {
				description = args[1]
			}
			t, err := a.tasks.AddTask(cmd.Context(), args[0], description)
			if t != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Task added successfully with ID %d.\n", t.ID)
			}
			return err
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "cli.delete"
			id, ok := parseID(cmd.OutOrStdout(), args[0])
			if !ok {
				return nil
			}
			deleted, err := a.tasks.DeleteTask(cmd.Context(), id)
			if deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "Success: Task deleted.")
			} else if err == nil {
				return core.NewTaskNotFoundError(id, op)
			}
			return err
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := parseID(cmd.OutOrStdout(), args[0])
			if !ok {
				return nil
			}
			t, err := a.tasks.GetTaskByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), t)
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change title and/or description; empty values are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "cli.update"
			id, ok := parseID(cmd.OutOrStdout(), args[0])
			if !ok {
				return nil
			}
			updated, err := a.tasks.UpdateTaskDetails(cmd.Context(), id, title, description)
			if updated {
				fmt.Fprintln(cmd.OutOrStdout(), "Task updated successfully.")
			} else if err == nil {
				return core.NewTaskNotFoundError(id, op)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task as DONE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "cli.done"
			id, ok := parseID(cmd.OutOrStdout(), args[0])
			if !ok {
				return nil
			}
			done, err := a.tasks.MarkTaskAsDone(cmd.Context(), id)
			if done {
				fmt.Fprintln(cmd.OutOrStdout(), "Status updated.")
			} else if err == nil {
				return core.NewTaskNotFoundError(id, op)
			}
			return err
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [TEXT...]",
		Short: "Find tasks whose title or description contains TEXT",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			ts, err := a.tasks.SearchTasks(cmd.Context(), text)
			if err != nil {
				return err
			}
			if len(ts) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No tasks found matching: %s\n", text)
				return nil
			}
			return a.render(cmd.OutOrStdout(), ts...)
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var sorted bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				ts  []*core.Task
				err error
			)
			if sorted {
				ts, err = a.tasks.GetTasksSortedByStatus(cmd.Context())
			} else {
				ts, err = a.tasks.GetAllTasks(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(ts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks available.")
				return nil
			}
			return a.render(cmd.OutOrStdout(), ts...)
		},
	}
	cmd.Flags().BoolVarP(&sorted, "sorted", "s", false, "Sort by status (NEW -> DONE)")
	return cmd
}

// parseID prints a message instead of failing on a non-numeric id.
func parseID(w io.Writer, raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		fmt.Fprintln(w, invalidIDMessage)
		return 0, false
	}
	return id, true
}
