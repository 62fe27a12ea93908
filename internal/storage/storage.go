package storage

import (
	"context"

	"github.com/slok/tasklist/internal/model"
)

// Repository is the interface for task collection persistence. The whole
// collection is loaded and saved at once, in insertion order.
type Repository interface {
	LoadTasks(ctx context.Context) ([]model.Task, error)
	SaveTasks(ctx context.Context, tasks []model.Task) error
}
