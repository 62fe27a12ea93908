package lib_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tasklist/pkg/lib"
)

var today = time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)

// newTestClient creates a client with temp storage for test isolation.
func newTestClient(t *testing.T, storage lib.StorageType) *lib.Client {
	t.Helper()

	dir := t.TempDir()
	client, err := lib.New(context.Background(), lib.Config{
		Storage:   storage,
		TasksFile: filepath.Join(dir, "tasks.json"),
		DBPath:    filepath.Join(dir, "tasks.db"),
		Now:       func() time.Time { return today },
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestNew(t *testing.T) {
	_, err := lib.New(context.Background(), lib.Config{Storage: "postgres"})
	assert.ErrorIs(t, err, lib.ErrNotValid)
}

func TestAddTask(t *testing.T) {
	tests := map[string]struct {
		opts    lib.AddTaskOpts
		expTask lib.Task
		expErr  error
	}{
		"Adding a task due today should work.": {
			opts:    lib.AddTaskOpts{Description: "Buy milk", DueDate: "2026-10-19"},
			expTask: lib.Task{Description: "Buy milk", DueDate: "2026-10-19", Status: lib.TaskStatusDueToday},
		},

		"Adding an undated task should work.": {
			opts:    lib.AddTaskOpts{Description: "  Someday  "},
			expTask: lib.Task{Description: "Someday", Status: lib.TaskStatusNormal},
		},

		"Adding a task without description should fail.": {
			opts:   lib.AddTaskOpts{DueDate: "2026-10-19"},
			expErr: lib.ErrNotValid,
		},

		"Adding a task with a malformed date should fail.": {
			opts:   lib.AddTaskOpts{Description: "Buy milk", DueDate: "19/10/2026"},
			expErr: lib.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, lib.StorageFile)

			task, err := client.AddTask(context.Background(), test.opts)
			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, task.ID)
			test.expTask.ID = task.ID
			assert.Equal(t, test.expTask, *task)
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	for _, storage := range []lib.StorageType{lib.StorageFile, lib.StorageSQLite} {
		t.Run(string(storage), func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			ctx := context.Background()

			client := newTestClient(t, storage)

			a, err := client.AddTask(ctx, lib.AddTaskOpts{Description: "Later", DueDate: "2026-11-01"})
			require.NoError(err)
			b, err := client.AddTask(ctx, lib.AddTaskOpts{Description: "Undated"})
			require.NoError(err)
			c, err := client.AddTask(ctx, lib.AddTaskOpts{Description: "Buy milk", DueDate: "2026-10-19"})
			require.NoError(err)

			tasks, err := client.ListTasks(ctx, nil)
			require.NoError(err)
			require.Len(tasks, 3)
			assert.Equal([]string{c.ID, a.ID, b.ID}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})

			reminders, err := client.DueToday(ctx)
			require.NoError(err)
			assert.Equal([]lib.Reminder{{TaskID: c.ID, Message: "Reminder: Task 'Buy milk' is due today!"}}, reminders)

			require.NoError(client.ToggleTask(ctx, c.ID))
			completed := lib.TaskStatusCompleted
			tasks, err = client.ListTasks(ctx, &lib.ListTasksOpts{Status: &completed})
			require.NoError(err)
			require.Len(tasks, 1)
			assert.Equal(c.ID, tasks[0].ID)

			require.NoError(client.RemoveTask(ctx, b.ID))
			assert.ErrorIs(client.RemoveTask(ctx, b.ID), lib.ErrNotFound)
			assert.ErrorIs(client.ToggleTask(ctx, b.ID), lib.ErrNotFound)

			tasks, err = client.ListTasks(ctx, nil)
			require.NoError(err)
			assert.Len(tasks, 2)
		})
	}
}
