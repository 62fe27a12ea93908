package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tasklist/internal/app/add"
	"github.com/slok/tasklist/internal/model"
	"github.com/slok/tasklist/internal/printer"
)

type AddCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	description string
	date        string
}

// NewAddCommand returns the add command.
func NewAddCommand(rootCmd *RootCommand, app *kingpin.Application) *AddCommand {
	c := &AddCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("add", "Add a new task.")
	c.Cmd.Arg("description", "Task description.").Required().StringVar(&c.description)
	c.Cmd.Flag("date", "Due date (YYYY-MM-DD).").StringVar(&c.date)

	return c
}

func (c AddCommand) Name() string { return c.Cmd.FullCommand() }

func (c AddCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	if c.date != "" {
		if _, ok := model.ParseDate(c.date); !ok {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", c.date, model.ErrNotValid)
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

	svc, err := add.NewService(add.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, add.Request{
		Tasks:       tasks,
		Description: c.description,
		DueDate:     c.date,
	})
	if err != nil {
		return fmt.Errorf("could not add task: %w", err)
	}

	return printer.NewTablePrinter(c.rootCmd.Stdout).PrintTask(resp.Task)
}
