package complete

import (
	"context"
	"fmt"
	"slices"

	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/model"
	"github.com/slok/tasklist/internal/storage"
)

// ServiceConfig is the configuration for the complete service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Complete"})
	return nil
}

// Service toggles the completion state of tasks.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new complete service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the complete request parameters.
type Request struct {
	// Tasks is the current collection.
	Tasks []model.Task
	// ID is the task ID as received, it is sanitized before matching.
	ID string
}

// Response is the result of toggling tasks.
type Response struct {
	Tasks   []model.Task
	Toggled int
}

// Run flips the completed flag of every task matching the ID and persists
// the collection. IDs are expected to be unique but every match is flipped.
// When nothing matches it returns an error wrapping model.ErrNotFound and
// nothing is persisted.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	id := model.SanitizeID(req.ID)
	if id == "" {
		return nil, fmt.Errorf("id is required: %w", model.ErrNotValid)
	}

	tasks := slices.Clone(req.Tasks)
	toggled := 0
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Completed = !tasks[i].Completed
			toggled++
		}
	}

	if toggled == 0 {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	if err := s.repo.SaveTasks(ctx, tasks); err != nil {
		return nil, fmt.Errorf("could not save tasks: %w", err)
	}

	s.logger.Infof("Toggled completion of task %s", id)

	return &Response{Tasks: tasks, Toggled: toggled}, nil
}
