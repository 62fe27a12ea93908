package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tasklist/internal/app/complete"
	"github.com/slok/tasklist/internal/printer"
)

type CompleteCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id string
}

// NewCompleteCommand returns the complete command.
func NewCompleteCommand(rootCmd *RootCommand, app *kingpin.Application) *CompleteCommand {
	c := &CompleteCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("complete", "Toggle the completed state of a task.")
	c.Cmd.Arg("id", "Task ID.").Required().StringVar(&c.id)

	return c
}

func (c CompleteCommand) Name() string { return c.Cmd.FullCommand() }

func (c CompleteCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, closeRepo, err := c.rootCmd.loadStorage(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	tasks, err := repo.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("could not load tasks: %w", err)
	}

	svc, err := complete.NewService(complete.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	if _, err := svc.Run(ctx, complete.Request{Tasks: tasks, ID: c.id}); err != nil {
		return fmt.Errorf("could not complete task: %w", err)
	}

	return printer.NewTablePrinter(c.rootCmd.Stdout).PrintMessage(fmt.Sprintf("Task %s toggled", c.id))
}
