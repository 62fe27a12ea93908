package lib

import (
	"errors"
	"time"

	"github.com/slok/tasklist/internal/app/list"
	"github.com/slok/tasklist/internal/model"
)

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when the input is not valid.
	ErrNotValid = errors.New("not valid")
)

// TaskStatus is the classification of a task relative to today.
type TaskStatus string

const (
	// TaskStatusNormal is a pending task that is not due yet or has no due date.
	TaskStatusNormal TaskStatus = "normal"
	// TaskStatusCompleted is a completed task, completion wins over any date.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusOverdue is a pending task whose due date is before today.
	TaskStatusOverdue TaskStatus = "overdue"
	// TaskStatusDueToday is a pending task due today.
	TaskStatusDueToday TaskStatus = "due-today"
)

// Task represents a task returned by the SDK.
//
// This is a read-only snapshot of the task at the time of the API call.
type Task struct {
	// ID is the unique identifier assigned at creation.
	ID string
	// Description is the task text.
	Description string
	// DueDate is the calendar due date (YYYY-MM-DD), empty when undated.
	DueDate string
	// Completed is true once the task has been toggled to done.
	Completed bool
	// Status is the classification relative to today.
	Status TaskStatus
}

// Reminder is a due today notice for a task.
type Reminder struct {
	TaskID  string
	Message string
}

// ListTasksOpts filters [Client.ListTasks].
type ListTasksOpts struct {
	// Status only lists tasks with this status when set.
	Status *TaskStatus
}

// AddTaskOpts are the options for [Client.AddTask].
type AddTaskOpts struct {
	// Description is required.
	Description string
	// DueDate is optional, in YYYY-MM-DD format.
	DueDate string
}

func fromInternalTask(t model.Task, now time.Time) Task {
	return Task{
		ID:          t.ID,
		Description: t.Description,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		Status:      TaskStatus(t.StatusOn(now)),
	}
}

func fromInternalItems(items []list.Item) []Task {
	result := make([]Task, len(items))
	for i, it := range items {
		result[i] = Task{
			ID:          it.ID,
			Description: it.Description,
			DueDate:     it.DueDate,
			Completed:   it.Completed,
			Status:      TaskStatus(it.Status),
		}
	}
	return result
}

func toInternalStatusFilter(opts *ListTasksOpts) *model.TaskStatus {
	if opts == nil || opts.Status == nil {
		return nil
	}
	s := model.TaskStatus(*opts.Status)
	return &s
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case errors.Is(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
