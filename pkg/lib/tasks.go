package lib

import (
	"context"
	"fmt"

	"github.com/slok/tasklist/internal/app/add"
	"github.com/slok/tasklist/internal/app/alert"
	"github.com/slok/tasklist/internal/app/complete"
	"github.com/slok/tasklist/internal/app/list"
	"github.com/slok/tasklist/internal/app/remove"
	"github.com/slok/tasklist/internal/model"
)

// ListTasks returns the tasks sorted by due date, undated tasks last.
// Pass nil opts to list every task.
func (c *Client) ListTasks(ctx context.Context, opts *ListTasksOpts) ([]Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tasks, err := c.repo.LoadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load tasks: %w", err)
	}

	svc, err := list.NewService(list.ServiceConfig{Now: c.now, Logger: c.logger})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	view, err := svc.Run(ctx, list.Request{
		Tasks:        tasks,
		StatusFilter: toInternalStatusFilter(opts),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalItems(view.Items), nil
}

// AddTask appends a new pending task and returns it.
func (c *Client) AddTask(ctx context.Context, opts AddTaskOpts) (*Task, error) {
	if opts.DueDate != "" {
		if _, ok := model.ParseDate(opts.DueDate); !ok {
			return nil, fmt.Errorf("invalid due date %q: %w", opts.DueDate, ErrNotValid)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tasks, err := c.repo.LoadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load tasks: %w", err)
	}

	svc, err := add.NewService(add.ServiceConfig{Repository: c.repo, Logger: c.logger})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, add.Request{
		Tasks:       tasks,
		Description: opts.Description,
		DueDate:     opts.DueDate,
	})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalTask(resp.Task, c.now())
	return &result, nil
}

// ToggleTask flips the completed state of the task with the given ID.
func (c *Client) ToggleTask(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tasks, err := c.repo.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("could not load tasks: %w", err)
	}

	svc, err := complete.NewService(complete.ServiceConfig{Repository: c.repo, Logger: c.logger})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	_, err = svc.Run(ctx, complete.Request{Tasks: tasks, ID: id})
	return mapError(err)
}

// RemoveTask deletes the task with the given ID.
func (c *Client) RemoveTask(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tasks, err := c.repo.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("could not load tasks: %w", err)
	}

	svc, err := remove.NewService(remove.ServiceConfig{Repository: c.repo, Logger: c.logger})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	_, err = svc.Run(ctx, remove.Request{Tasks: tasks, ID: id})
	return mapError(err)
}

// DueToday returns a reminder for every task due today.
func (c *Client) DueToday(ctx context.Context) ([]Reminder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tasks, err := c.repo.LoadTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load tasks: %w", err)
	}

	svc, err := alert.NewService(alert.ServiceConfig{Now: c.now, Logger: c.logger})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	alerts := svc.Run(ctx, tasks)
	result := make([]Reminder, len(alerts))
	for i, a := range alerts {
		result[i] = Reminder{TaskID: a.TaskID, Message: a.Message}
	}
	return result, nil
}
