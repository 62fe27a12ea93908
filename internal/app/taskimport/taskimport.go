package taskimport

import (
	"context"
	"crypto/rand"
	"fmt"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/model"
	"github.com/slok/tasklist/internal/storage"
)

// SourceRepository knows how to load a task list to import.
type SourceRepository interface {
	GetTasks(ctx context.Context, path string) ([]model.Task, error)
}

// ServiceConfig is the configuration for the import service.
type ServiceConfig struct {
	Source     SourceRepository
	Repository storage.Repository
	// IDGenerator returns a new unique task ID, defaults to ULIDs.
	IDGenerator func() string
	Logger      log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Source == nil {
		return fmt.Errorf("source repository is required")
	}
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.TaskImport"})
	return nil
}

// Service appends tasks loaded from a source to a collection.
type Service struct {
	source SourceRepository
	repo   storage.Repository
	newID  func() string
	logger log.Logger
}

// NewService creates a new import service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		source: cfg.Source,
		repo:   cfg.Repository,
		newID:  cfg.IDGenerator,
		logger: cfg.Logger,
	}, nil
}

// Request represents the import request parameters.
type Request struct {
	// Tasks is the current collection.
	Tasks []model.Task
	// Path is the source task list path.
	Path string
}

// Response is the result of an import.
type Response struct {
	Tasks    []model.Task
	Imported []model.Task
}

// Run loads the source task list, gives every task a fresh ID, appends them
// to the collection and persists it in a single save.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	loaded, err := s.source.GetTasks(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("could not load tasks to import: %w", err)
	}

	imported := make([]model.Task, 0, len(loaded))
	for _, t := range loaded {
		t.ID = s.newID()
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("invalid task %q: %w", t.Description, err)
		}
		imported = append(imported, t)
	}

	if len(imported) == 0 {
		s.logger.Infof("Nothing to import from %s", req.Path)
		return &Response{Tasks: req.Tasks, Imported: imported}, nil
	}

	tasks := append(slices.Clip(req.Tasks), imported...)
	if err := s.repo.SaveTasks(ctx, tasks); err != nil {
		return nil, fmt.Errorf("could not save tasks: %w", err)
	}

	s.logger.Infof("Imported %d tasks from %s", len(imported), req.Path)

	return &Response{Tasks: tasks, Imported: imported}, nil
}
