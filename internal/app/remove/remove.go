package remove

import (
	"context"
	"fmt"

	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/model"
	"github.com/slok/tasklist/internal/storage"
)

// ServiceConfig is the configuration for the remove service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Remove"})

	return nil
}

// Service removes tasks from a collection.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new remove service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the remove request parameters.
type Request struct {
	// Tasks is the current collection.
	Tasks []model.Task
	// ID is the task ID as received, it is sanitized before matching.
	ID string
}

// Response is the result of removing tasks.
type Response struct {
	// Tasks is a fresh collection with the remaining tasks in their original order.
	Tasks   []model.Task
	Removed int
}

// Run removes every task matching the ID and persists the remaining ones.
// When nothing matches it returns an error wrapping model.ErrNotFound and
// the durable collection is not rewritten.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	id := model.SanitizeID(req.ID)
	if id == "" {
		return nil, fmt.Errorf("id is required: %w", model.ErrNotValid)
	}

	remaining := make([]model.Task, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		if t.ID != id {
			remaining = append(remaining, t)
		}
	}

	removed := len(req.Tasks) - len(remaining)
	if removed == 0 {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	if err := s.repo.SaveTasks(ctx, remaining); err != nil {
		return nil, fmt.Errorf("could not save tasks: %w", err)
	}

	s.logger.Infof("Removed %d task(s) with ID %s", removed, id)

	return &Response{Tasks: remaining, Removed: removed}, nil
}
