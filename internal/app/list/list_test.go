package list_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tasklist/internal/app/list"
	"github.com/slok/tasklist/internal/model"
)

var today = time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)

func newService(t *testing.T) *list.Service {
	t.Helper()
	svc, err := list.NewService(list.ServiceConfig{Now: func() time.Time { return today }})
	require.NoError(t, err)
	return svc
}

func TestService_Run(t *testing.T) {
	completedFilter := model.TaskStatusCompleted

	tests := map[string]struct {
		req      list.Request
		expItems []list.Item
	}{
		"An empty collection should return no items": {
			req:      list.Request{},
			expItems: []list.Item{},
		},

		"Tasks should be sorted and classified": {
			req: list.Request{Tasks: []model.Task{
				{ID: "undated", Description: "No date"},
				{ID: "future", Description: "Future", DueDate: "2026-11-01"},
				{ID: "today", Description: "Today", DueDate: "2026-10-19"},
				{ID: "late", Description: "Late", DueDate: "2026-10-01"},
				{ID: "late-done", Description: "Late but done", DueDate: "2026-09-01", Completed: true},
			}},
			expItems: []list.Item{
				{
					Task:   model.Task{ID: "late-done", Description: "Late but done", DueDate: "2026-09-01", Completed: true},
					Status: model.TaskStatusCompleted,
				},
				{
					Task:    model.Task{ID: "late", Description: "Late", DueDate: "2026-10-01"},
					Status:  model.TaskStatusOverdue,
					Overdue: true,
				},
				{
					Task:     model.Task{ID: "today", Description: "Today", DueDate: "2026-10-19"},
					Status:   model.TaskStatusDueToday,
					DueToday: true,
				},
				{
					Task:   model.Task{ID: "future", Description: "Future", DueDate: "2026-11-01"},
					Status: model.TaskStatusNormal,
				},
				{
					Task:   model.Task{ID: "undated", Description: "No date"},
					Status: model.TaskStatusNormal,
				},
			},
		},

		"A completed task due today should keep the due today flag": {
			req: list.Request{Tasks: []model.Task{
				{ID: "a", Description: "Done", DueDate: "2026-10-19", Completed: true},
			}},
			expItems: []list.Item{{
				Task:     model.Task{ID: "a", Description: "Done", DueDate: "2026-10-19", Completed: true},
				Status:   model.TaskStatusCompleted,
				DueToday: true,
			}},
		},

		"Status filter should only return matching tasks": {
			req: list.Request{
				Tasks: []model.Task{
					{ID: "a", Description: "Pending", DueDate: "2026-10-01"},
					{ID: "b", Description: "Done", Completed: true},
				},
				StatusFilter: &completedFilter,
			},
			expItems: []list.Item{{
				Task:   model.Task{ID: "b", Description: "Done", Completed: true},
				Status: model.TaskStatusCompleted,
			}},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			resp, err := newService(t).Run(context.Background(), test.req)
			require.NoError(err)
			assert.Equal(test.expItems, resp.Items)
			assert.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), resp.Today)
		})
	}
}

func TestService_RunOrderIsNonDecreasing(t *testing.T) {
	require := require.New(t)
	rnd := rand.New(rand.NewSource(42))
	svc := newService(t)

	for i := 0; i < 50; i++ {
		tasks := make([]model.Task, 0, 30)
		for j := 0; j < 30; j++ {
			tsk := model.Task{ID: string(rune('a' + j)), Description: "task"}
			if rnd.Intn(4) != 0 {
				tsk.DueDate = today.AddDate(0, 0, rnd.Intn(40)-20).Format(model.DateLayout)
			}
			tasks = append(tasks, tsk)
		}

		resp, err := svc.Run(context.Background(), list.Request{Tasks: tasks})
		require.NoError(err)
		require.Len(resp.Items, len(tasks))

		seenUndated := false
		var prev time.Time
		for _, item := range resp.Items {
			due, ok := item.Due()
			if !ok {
				seenUndated = true
				continue
			}
			require.False(seenUndated, "dated task after an undated one")
			require.False(due.Before(prev), "order is decreasing")
			prev = due
		}
	}
}
