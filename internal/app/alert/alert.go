package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/model"
)

// ServiceConfig is the configuration for the alert service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Alert"})
	return nil
}

// Service collects due today reminders.
type Service struct {
	now    func() time.Time
	logger log.Logger
}

// NewService creates a new alert service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		now:    cfg.Now,
		logger: cfg.Logger,
	}, nil
}

// Run returns a reminder for every task due today, in collection order.
func (s *Service) Run(ctx context.Context, tasks []model.Task) []model.Alert {
	today := s.now()

	alerts := []model.Alert{}
	for _, t := range tasks {
		if t.IsDueOn(today) {
			alerts = append(alerts, model.NewDueTodayAlert(t))
		}
	}

	if len(alerts) > 0 {
		s.logger.Debugf("%d tasks due today", len(alerts))
	}

	return alerts
}
