package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/slok/tasklist/internal/app/add"
	"github.com/slok/tasklist/internal/app/complete"
	"github.com/slok/tasklist/internal/app/list"
	"github.com/slok/tasklist/internal/app/remove"
	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/model"
	"github.com/slok/tasklist/internal/storage"
)

// ServerConfig is the configuration for the MCP server.
type ServerConfig struct {
	Repository storage.Repository
	Version    string
	Now        func() time.Time
	// IDGenerator returns new task IDs, defaults to the add service default.
	IDGenerator func() string
	Logger      log.Logger
}

func (c *ServerConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Version == "" {
		c.Version = "dev"
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "mcp.Server"})
	return nil
}

type tools struct {
	repo        storage.Repository
	addSvc      *add.Service
	completeSvc *complete.Service
	removeSvc   *remove.Service
	listSvc     *list.Service
}

// NewServer creates a new MCP server exposing the task list as tools. Every
// tool call works on the durable collection.
func NewServer(cfg ServerConfig) (*server.MCPServer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	addSvc, err := add.NewService(add.ServiceConfig{Repository: cfg.Repository, IDGenerator: cfg.IDGenerator, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create add service: %w", err)
	}
	completeSvc, err := complete.NewService(complete.ServiceConfig{Repository: cfg.Repository, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create complete service: %w", err)
	}
	removeSvc, err := remove.NewService(remove.ServiceConfig{Repository: cfg.Repository, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create remove service: %w", err)
	}
	listSvc, err := list.NewService(list.ServiceConfig{Now: cfg.Now, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create list service: %w", err)
	}

	t := &tools{
		repo:        cfg.Repository,
		addSvc:      addSvc,
		completeSvc: completeSvc,
		removeSvc:   removeSvc,
		listSvc:     listSvc,
	}

	s := server.NewMCPServer("Task List", cfg.Version)

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks sorted by due date, undated tasks last."),
		mcp.WithString("status", mcp.Description("Filter by status (normal|completed|overdue|due-today)")),
	), t.listTasks)

	s.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Add a new pending task."),
		mcp.WithString("task", mcp.Description("Task description"), mcp.Required()),
		mcp.WithString("date", mcp.Description("Due date (YYYY-MM-DD)")),
	), t.addTask)

	s.AddTool(mcp.NewTool("toggle_task",
		mcp.WithDescription("Flip the completed flag of a task."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
	), t.toggleTask)

	s.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
	), t.deleteTask)

	return s, nil
}

type taskResult struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Status    string `json:"status,omitempty"`
}

func toolResultJSON(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(data))
}

func (t *tools) listTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks, err := t.repo.LoadTasks(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := list.Request{Tasks: tasks}
	if s := mcp.ParseString(request, "status", ""); s != "" {
		status := model.TaskStatus(s)
		switch status {
		case model.TaskStatusNormal, model.TaskStatusCompleted, model.TaskStatusOverdue, model.TaskStatusDueToday:
		default:
			return mcp.NewToolResultError(fmt.Sprintf("Unknown status '%s'", s)), nil
		}
		req.StatusFilter = &status
	}

	resp, err := t.listSvc.Run(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res := make([]taskResult, 0, len(resp.Items))
	for _, it := range resp.Items {
		res = append(res, taskResult{
			ID:        it.ID,
			Task:      it.Description,
			Date:      it.DueDate,
			Completed: it.Completed,
			Status:    string(it.Status),
		})
	}

	return toolResultJSON(map[string]any{"tasks": res}), nil
}

func (t *tools) addTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date := mcp.ParseString(request, "date", "")
	if date != "" {
		if _, ok := model.ParseDate(date); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid date '%s', expected YYYY-MM-DD", date)), nil
		}
	}

	tasks, err := t.repo.LoadTasks(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := t.addSvc.Run(ctx, add.Request{
		Tasks:       tasks,
		Description: mcp.ParseString(request, "task", ""),
		DueDate:     date,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return toolResultJSON(taskResult{
		ID:        resp.Task.ID,
		Task:      resp.Task.Description,
		Date:      resp.Task.DueDate,
		Completed: resp.Task.Completed,
	}), nil
}

func (t *tools) toggleTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(request, "id", "")

	tasks, err := t.repo.LoadTasks(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := t.completeSvc.Run(ctx, complete.Request{Tasks: tasks, ID: id}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Could not toggle task '%s': %s", id, err)), nil
	}

	return mcp.NewToolResultText("Task toggled successfully"), nil
}

func (t *tools) deleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(request, "id", "")

	tasks, err := t.repo.LoadTasks(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := t.removeSvc.Run(ctx, remove.Request{Tasks: tasks, ID: id}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Could not delete task '%s': %s", id, err)), nil
	}

	return mcp.NewToolResultText("Task deleted successfully"), nil
}
