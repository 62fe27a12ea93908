package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	// Tasks is the initial collection.
	Tasks  []model.Task
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	tasks  []model.Task
	saves  int
	mu     sync.RWMutex
	logger log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		tasks:  slices.Clone(cfg.Tasks),
		logger: cfg.Logger,
	}, nil
}

// LoadTasks returns a copy of the stored collection.
func (r *Repository) LoadTasks(ctx context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, len(r.tasks))
	copy(tasks, r.tasks)

	return tasks, nil
}

// SaveTasks replaces the stored collection.
func (r *Repository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = slices.Clone(tasks)
	r.saves++
	r.logger.Debugf("Saved %d tasks in repository", len(tasks))

	return nil
}

// Saves returns how many times the collection has been saved.
func (r *Repository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.saves
}
