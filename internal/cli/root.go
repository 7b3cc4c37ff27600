// Package cli is the command-line front-end. It only talks to the task
// service and prints what it gets back.
package cli

import (
	"context"

	"github.com/mauzec/tasktracker/internal/config"
	"github.com/mauzec/tasktracker/internal/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type taskService interface {
	AddTask(ctx context.Context, title, description string) (*core.Task, error)
	DeleteTask(ctx context.Context, id int) (bool, error)
	GetTaskByID(ctx context.Context, id int) (*core.Task, error)
	GetAllTasks(ctx context.Context) ([]*core.Task, error)
	UpdateTaskDetails(ctx context.Context, id int, newTitle, newDescription string) (bool, error)
	MarkTaskAsDone(ctx context.Context, id int) (bool, error)
	SearchTasks(ctx context.Context, text string) ([]*core.Task, error)
	GetTasksSortedByStatus(ctx context.Context) ([]*core.Task, error)
}

type Options struct {
	Service      taskService
	Logger       *zap.Logger
	OutputFormat string
	Version      string
}

type app struct {
	tasks  taskService
	logger *zap.Logger
	format string
}

// NewRootCommand builds the command tree. Without a subcommand the root
// runs the interactive menu.
func NewRootCommand(opts Options) *cobra.Command {
	a := &app{
		tasks:  opts.Service,
		logger: opts.Logger,
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	format := opts.OutputFormat
	if format == "" {
		format = config.OutputTable
	}

	root := &cobra.Command{
		Use:   "tasktracker",
		Short: "Track personal tasks in a local file",
		Long: `tasktracker keeps a list of tasks with a title, a description and a status
(NEW, IN_PROGRESS, DONE). Run it without a command for the interactive menu.`,
		RunE:              a.runMenu,
		PersistentPreRunE: a.checkFormat,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           opts.Version,
	}
	root.PersistentFlags().StringVarP(&a.format, "output", "o", format, "Output format: table or yaml")

	root.AddCommand(
		a.addCmd(),
		a.deleteCmd(),
		a.getCmd(),
		a.updateCmd(),
		a.doneCmd(),
		a.searchCmd(),
		a.listCmd(),
	)
	return root
}

// Execute runs the command tree with args taken from os.Args.
func Execute(ctx context.Context, opts Options) error {
	return NewRootCommand(opts).ExecuteContext(ctx)
}

func (a *app) checkFormat(_ *cobra.Command, _ []string) error {
	const op = "cli.checkFormat"
	switch a.format {
	case config.OutputTable, config.OutputYAML:
		return nil
	}
	return core.NewTaskValidationError("unknown output format "+a.format, nil, op)
}
