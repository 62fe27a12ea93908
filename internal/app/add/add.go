package add

import (
	"context"
	"crypto/rand"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/model"
	"github.com/slok/tasklist/internal/storage"
)

// ServiceConfig is the configuration for the add service.
type ServiceConfig struct {
	Repository storage.Repository
	// IDGenerator returns a new unique task ID, defaults to ULIDs.
	IDGenerator func() string
	Logger      log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.IDGenerator == nil {
		c.IDGenerator = func() string {
			return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String()
		}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Add"})
	return nil
}

// Service adds tasks to a collection.
type Service struct {
	repo   storage.Repository
	newID  func() string
	logger log.Logger
}

// NewService creates a new add service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		newID:  cfg.IDGenerator,
		logger: cfg.Logger,
	}, nil
}

// Request represents the add request parameters.
type Request struct {
	// Tasks is the current collection.
	Tasks       []model.Task
	Description string
	// DueDate is a calendar date, it can be empty.
	DueDate string
}

// Response is the result of adding a task.
type Response struct {
	// Tasks is the collection including the new task.
	Tasks []model.Task
	Task  model.Task
}

// Run appends a new pending task to the collection and persists it.
// A blank description returns an error wrapping model.ErrNotValid and
// leaves the collection untouched.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	task := model.Task{
		ID:          s.newID(),
		Description: strings.TrimSpace(req.Description),
		DueDate:     strings.TrimSpace(req.DueDate),
	}
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	tasks := append(slices.Clip(req.Tasks), task)
	if err := s.repo.SaveTasks(ctx, tasks); err != nil {
		return nil, fmt.Errorf("could not save tasks: %w", err)
	}

	s.logger.Infof("Added task %s due %q", task.ID, task.DueDate)

	return &Response{Tasks: tasks, Task: task}, nil
}
