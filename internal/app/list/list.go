package list

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/model"
)

// ServiceConfig is the configuration for the list service.
type ServiceConfig struct {
	// Now returns the current time, used to know what today is.
	Now    func() time.Time
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Now == nil {
		c.Now = time.Now
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.List"})

	return nil
}

// Service builds the display view of a collection.
type Service struct {
	now    func() time.Time
	logger log.Logger
}

// NewService creates a new list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		now:    cfg.Now,
		logger: cfg.Logger,
	}, nil
}

// Request represents the list request parameters.
type Request struct {
	Tasks []model.Task
	// StatusFilter is an optional filter to only show tasks with this status.
	StatusFilter *model.TaskStatus
}

// Item is a task ready to be displayed.
type Item struct {
	model.Task
	Status model.TaskStatus
	// Overdue is never set on completed tasks.
	Overdue  bool
	DueToday bool
}

// Response is the display view of a collection.
type Response struct {
	Items []Item
	Today time.Time
}

// Run sorts the tasks by due date, undated last, and classifies them
// relative to today. The input collection order is not modified.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	today := s.now()

	sorted := model.SortByDueDate(req.Tasks)
	items := make([]Item, 0, len(sorted))
	for _, t := range sorted {
		status := t.StatusOn(today)
		if req.StatusFilter != nil && status != *req.StatusFilter {
			continue
		}
		items = append(items, Item{
			Task:     t,
			Status:   status,
			Overdue:  t.IsOverdueOn(today),
			DueToday: t.IsDueOn(today),
		})
	}

	s.logger.Debugf("listing %d of %d tasks", len(items), len(req.Tasks))

	return &Response{Items: items, Today: model.DateOf(today)}, nil
}
