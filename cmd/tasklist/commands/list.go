package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tasklist/internal/app/list"
	"github.com/slok/tasklist/internal/model"
	"github.com/slok/tasklist/internal/printer"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	statusFilter string
	format       string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List all tasks sorted by due date.")
	c.Cmd.Flag("status", "Filter by status (normal, completed, overdue, due-today).").StringVar(&c.statusFilter)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	// Parse status filter if provided.
	var statusFilter *model.TaskStatus
	if c.statusFilter != "" {
		status := model.TaskStatus(strings.ToLower(c.statusFilter))
		switch status {
		case model.TaskStatusNormal, model.TaskStatusCompleted, model.TaskStatusOverdue, model.TaskStatusDueToday:
			statusFilter = &status
		default:
			return fmt.Errorf("invalid status filter: %s (must be: normal, completed, overdue, due-today)", c.statusFilter)
		}
	}

	repo, closeRepo, err := c.rootCmd.loadStorage(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	tasks, err := repo.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("could not load tasks: %w", err)
	}

	svc, err := list.NewService(list.ServiceConfig{Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	view, err := svc.Run(ctx, list.Request{
		Tasks:        tasks,
		StatusFilter: statusFilter,
	})
	if err != nil {
		return fmt.Errorf("could not list tasks: %w", err)
	}

	// Print output.
	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintList(*view); err != nil {
		return fmt.Errorf("could not print list: %w", err)
	}

	return nil
}
