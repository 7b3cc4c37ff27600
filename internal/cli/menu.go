package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mauzec/tasktracker/internal/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const menuText = `--- Main Menu ---
1. Add New Task
2. Delete Task
3. Get Task by ID
4. Update Task Details
5. Mark Task as DONE
6. Search Tasks
7. List All Tasks
8. List Tasks Sorted by Status
0. Exit
Enter your choice: `

// maxMenuLine bounds one line of menu input, pasted descriptions included.
const maxMenuLine = 1 << 20

type menu struct {
	*app
	ctx context.Context
	in  *bufio.Scanner
	out io.Writer
}

func (a *app) runMenu(cmd *cobra.Command, _ []string) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	in.Buffer(make([]byte, 0, 64*1024), maxMenuLine)
	m := &menu{
		app: a,
		ctx: cmd.Context(),
		in:  in,
		out: cmd.OutOrStdout(),
	}
	return m.loop()
}

// loop runs until the user picks 0 or input ends.
func (m *menu) loop() error {
	fmt.Fprintln(m.out, "Welcome to Migdal Todo List App!")
	for {
		fmt.Fprint(m.out, menuText)
		choice, ok := m.readLine()
		if !ok {
			fmt.Fprintln(m.out)
			return m.in.Err()
		}

		var err error
		switch strings.TrimSpace(choice) {
		case "1":
			err = m.addTask()
		case "2":
			err = m.deleteTask()
		case "3":
			err = m.getTask()
		case "4":
			err = m.updateTask()
		case "5":
			err = m.markDone()
		case "6":
			err = m.searchTasks()
		case "7":
			err = m.listTasks(false)
		case "8":
			err = m.listTasks(true)
		case "0":
			fmt.Fprintln(m.out, "Exiting... Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option. Please try again.")
		}
		if errors.Is(err, io.EOF) {
			return m.in.Err()
		}
		fmt.Fprintln(m.out)
	}
}

func (m *menu) readLine() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *menu) prompt(text string) (string, error) {
	fmt.Fprint(m.out, text)
	line, ok := m.readLine()
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

// readID returns ok == false after telling the user the input was not a number.
func (m *menu) readID(text string) (int, bool, error) {
	line, err := m.prompt(text)
	if err != nil {
		return 0, false, err
	}
	id, convErr := strconv.Atoi(strings.TrimSpace(line))
	if convErr != nil {
		fmt.Fprintln(m.out, invalidIDMessage)
		return 0, false, nil
	}
	return id, true, nil
}

// report prints err for the user. Storage warnings do not undo a success
// message printed before, so they come out as a warning line.
func (m *menu) report(err error) {
	if err == nil {
		return
	}
	appErr, ok := core.AsAppError(err)
	if !ok {
		m.logger.Error("unexpected error", zap.Error(err))
		fmt.Fprintln(m.out, "Error: internal error")
		return
	}
	if appErr.Code == core.ErrorCodeStorage {
		fmt.Fprintln(m.out, "Warning: "+appErr.PublicMessage())
		return
	}
	if appErr.Code == core.ErrorCodeInternal {
		m.logger.Error("operation failed", zap.String("op", appErr.Operation), zap.Error(err))
	}
	fmt.Fprintln(m.out, "Error: "+appErr.PublicMessage())
}

func (m *menu) notFound(id int) {
	fmt.Fprintf(m.out, "Error: Task with ID %d not found.\n", id)
}

func (m *menu) addTask() error {
	title, err := m.prompt("Enter Task Title: ")
	if err != nil {
		return err
	}
	description, err := m.prompt("Enter Task Description: ")
	if err != nil {
		return err
	}

	t, err := m.tasks.AddTask(m.ctx, title, description)
	if t != nil {
		fmt.Fprintln(m.out, "Task added successfully.")
	}
	m.report(err)
	return nil
}

func (m *menu) deleteTask() error {
	id, ok, err := m.readID("Enter ID to delete: ")
	if err != nil || !ok {
		return err
	}
	deleted, err := m.tasks.DeleteTask(m.ctx, id)
	if deleted {
		fmt.Fprintln(m.out, "Success: Task deleted.")
	} else if err == nil {
		m.notFound(id)
	}
	m.report(err)
	return nil
}

func (m *menu) getTask() error {
	id, ok, err := m.readID("Enter ID to view: ")
	if err != nil || !ok {
		return err
	}
	t, err := m.tasks.GetTaskByID(m.ctx, id)
	if core.HasCode(err, core.ErrorCodeNotFound) {
		m.notFound(id)
		return nil
	} else if err != nil {
		m.report(err)
		return nil
	}
	fmt.Fprintln(m.out, "Task Found:")
	m.report(m.render(m.out, t))
	return nil
}

func (m *menu) updateTask() error {
	id, ok, err := m.readID("Enter ID to update: ")
	if err != nil || !ok {
		return err
	}
	if _, err := m.tasks.GetTaskByID(m.ctx, id); err != nil {
		if core.HasCode(err, core.ErrorCodeNotFound) {
			m.notFound(id)
		} else {
			m.report(err)
		}
		return nil
	}

	fmt.Fprintln(m.out, "Enter new details (press Enter to keep current value):")
	title, err := m.prompt("New Title: ")
	if err != nil {
		return err
	}
	description, err := m.prompt("New Description: ")
	if err != nil {
		return err
	}

	updated, err := m.tasks.UpdateTaskDetails(m.ctx, id, title, description)
	if updated {
		fmt.Fprintln(m.out, "Task updated successfully.")
	}
	m.report(err)
	return nil
}

func (m *menu) markDone() error {
	id, ok, err := m.readID("Enter ID to mark as DONE: ")
	if err != nil || !ok {
		return err
	}
	done, err := m.tasks.MarkTaskAsDone(m.ctx, id)
	if done {
		fmt.Fprintln(m.out, "Status updated.")
	} else if err == nil {
		fmt.Fprintf(m.out, "Warning: Task with ID %d not found.\n", id)
	}
	m.report(err)
	return nil
}

func (m *menu) searchTasks() error {
	text, err := m.prompt("Enter text to search: ")
	if err != nil {
		return err
	}
	ts, err := m.tasks.SearchTasks(m.ctx, text)
	if err != nil {
		m.report(err)
		return nil
	}
	if len(ts) == 0 {
		fmt.Fprintln(m.out, "No tasks found matching: "+text)
		return nil
	}
	fmt.Fprintf(m.out, "Found %d tasks:\n", len(ts))
	m.report(m.render(m.out, ts...))
	return nil
}

func (m *menu) listTasks(sorted bool) error {
	var (
		ts     []*core.Task
		err    error
		header = "--- All Tasks ---"
	)
	if sorted {
		header = "--- Tasks Sorted by Status (NEW -> DONE) ---"
		ts, err = m.tasks.GetTasksSortedByStatus(m.ctx)
	} else {
		ts, err = m.tasks.GetAllTasks(m.ctx)
	}
	if err != nil {
		m.report(err)
		return nil
	}
	if len(ts) == 0 {
		fmt.Fprintln(m.out, "No tasks available.")
		return nil
	}
	fmt.Fprintln(m.out, header)
	m.report(m.render(m.out, ts...))
	return nil
}
