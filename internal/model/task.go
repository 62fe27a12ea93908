package model

import (
	"fmt"
	"html"
	"slices"
	"strings"
	"time"
)

// DateLayout is the calendar date layout used for task due dates.
const DateLayout = "2006-01-02"

// TaskStatus is the display classification of a task relative to a day.
type TaskStatus string

const (
	TaskStatusNormal    TaskStatus = "normal"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusOverdue   TaskStatus = "overdue"
	TaskStatusDueToday  TaskStatus = "due-today"
)

// farFuture is the sort key used for tasks without a usable due date.
var farFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// Task is a single to-do item.
type Task struct {
	ID          string
	Description string
	// DueDate is a calendar date in DateLayout format, it can be empty.
	DueDate   string
	Completed bool
}

// Validate checks the task can be created.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("description is required: %w", ErrNotValid)
	}
	return nil
}

// Due returns the parsed due date and true, or false when the task has no
// usable due date.
func (t Task) Due() (time.Time, bool) {
	return ParseDate(t.DueDate)
}

// IsDueOn returns true when the task due date is the same calendar day as day.
func (t Task) IsDueOn(day time.Time) bool {
	due, ok := t.Due()
	if !ok {
		return false
	}
	return due.Equal(DateOf(day))
}

// IsOverdueOn returns true when the task is not completed and its due date is
// strictly before day.
func (t Task) IsOverdueOn(day time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Due()
	if !ok {
		return false
	}
	return due.Before(DateOf(day))
}

// StatusOn classifies the task relative to day. Completed always wins so a
// completed task is never reported as overdue.
func (t Task) StatusOn(day time.Time) TaskStatus {
	switch {
	case t.Completed:
		return TaskStatusCompleted
	case t.IsOverdueOn(day):
		return TaskStatusOverdue
	case t.IsDueOn(day):
		return TaskStatusDueToday
	default:
		return TaskStatusNormal
	}
}

// SanitizeID normalizes a task ID received from user input, trimming it and
// neutralizing markup significant characters.
func SanitizeID(id string) string {
	return html.EscapeString(strings.TrimSpace(id))
}

// ParseDate parses a calendar date. Surrounding time information is ignored,
// so "2026-10-19T15:04:05Z" is the same day as "2026-10-19".
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(DateLayout) {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, s[:len(DateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// DateOf truncates t to its calendar date in t's location, expressed as UTC
// midnight so it can be compared with ParseDate results.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SortByDueDate returns a copy of tasks ordered by due date ascending. Tasks
// without a usable due date go last. Equal dates keep their relative order.
func SortByDueDate(tasks []Task) []Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b Task) int {
		return sortKey(a).Compare(sortKey(b))
	})
	return sorted
}

func sortKey(t Task) time.Time {
	due, ok := t.Due()
	if !ok {
		return farFuture
	}
	return due
}

// Alert is a reminder for a task due today.
type Alert struct {
	TaskID      string
	Description string
	Message     string
}

// NewDueTodayAlert returns the reminder for a task due today.
func NewDueTodayAlert(t Task) Alert {
	return Alert{
		TaskID:      t.ID,
		Description: t.Description,
		Message:     fmt.Sprintf("Reminder: Task '%s' is due today!", t.Description),
	}
}
