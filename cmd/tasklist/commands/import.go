package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tasklist/internal/app/taskimport"
	"github.com/slok/tasklist/internal/printer"
	storageio "github.com/slok/tasklist/internal/storage/io"
)

type ImportCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	path string
}

// NewImportCommand returns the import command.
func NewImportCommand(rootCmd *RootCommand, app *kingpin.Application) *ImportCommand {
	c := &ImportCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("import", "Append tasks from a YAML task list.")
	c.Cmd.Arg("file", "YAML task list path.").Required().StringVar(&c.path)

	return c
}

func (c ImportCommand) Name() string { return c.Cmd.FullCommand() }

func (c ImportCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	absPath, err := filepath.Abs(c.path)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", c.path, err)
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

	svc, err := taskimport.NewService(taskimport.ServiceConfig{
		Source:     storageio.NewTasksYAMLRepository(os.DirFS(filepath.Dir(absPath))),
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, taskimport.Request{Tasks: tasks, Path: filepath.Base(absPath)})
	if err != nil {
		return fmt.Errorf("could not import tasks: %w", err)
	}

	return printer.NewTablePrinter(c.rootCmd.Stdout).PrintMessage(fmt.Sprintf("Imported %d tasks", len(resp.Imported)))
}
