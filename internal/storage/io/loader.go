package io

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/slok/tasklist/internal/model"
)

// TasksYAMLRepository loads task lists from YAML files.
type TasksYAMLRepository struct {
	fs fs.FS
}

// NewTasksYAMLRepository creates a new YAML task list repository.
func NewTasksYAMLRepository(filesystem fs.FS) *TasksYAMLRepository {
	return &TasksYAMLRepository{fs: filesystem}
}

// GetTasks loads a task list from a YAML file. Returned tasks have no ID,
// the caller assigns them when adding to a collection.
func (r *TasksYAMLRepository) GetTasks(ctx context.Context, path string) ([]model.Task, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading tasks file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var list TaskList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := list.validate(); err != nil {
		return nil, fmt.Errorf("invalid task list: %w", err)
	}

	return list.toModel(), nil
}

// TaskList represents the YAML structure of a task list.
type TaskList struct {
	Tasks []Task `yaml:"tasks"`
}

// Task represents the YAML structure of a task.
type Task struct {
	Task      string `yaml:"task"`
	Date      string `yaml:"date"`
	Completed bool   `yaml:"completed"`
}

func (l TaskList) validate() error {
	for i, t := range l.Tasks {
		if strings.TrimSpace(t.Task) == "" {
			return fmt.Errorf("tasks[%d]: task is required", i)
		}
		if t.Date != "" {
			if _, ok := model.ParseDate(t.Date); !ok {
				return fmt.Errorf("tasks[%d]: invalid date %q, expected %s", i, t.Date, model.DateLayout)
			}
		}
	}
	return nil
}

func (l TaskList) toModel() []model.Task {
	tasks := make([]model.Task, 0, len(l.Tasks))
	for _, t := range l.Tasks {
		tasks = append(tasks, model.Task{
			Description: strings.TrimSpace(t.Task),
			DueDate:     strings.TrimSpace(t.Date),
			Completed:   t.Completed,
		})
	}
	return tasks
}
