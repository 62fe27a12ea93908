package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/mark3labs/mcp-go/server"

	"github.com/slok/tasklist/internal/mcp"
)

// MCPCommand serves the task list as MCP tools over stdio.
type MCPCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	version string
}

// NewMCPCommand returns the mcp command.
func NewMCPCommand(rootCmd *RootCommand, app *kingpin.Application, version string) *MCPCommand {
	c := &MCPCommand{rootCmd: rootCmd, version: version}

	c.Cmd = app.Command("mcp", "Serve the task list as MCP tools over stdio.")

	return c
}

func (c MCPCommand) Name() string { return c.Cmd.FullCommand() }

func (c MCPCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, closeRepo, err := c.rootCmd.loadStorage(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	s, err := mcp.NewServer(mcp.ServerConfig{
		Repository: repo,
		Version:    c.version,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create mcp server: %w", err)
	}

	logger.Infof("serving MCP tools over stdio")

	err = server.NewStdioServer(s).Listen(ctx, c.rootCmd.Stdin, c.rootCmd.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server error: %w", err)
	}

	return nil
}
