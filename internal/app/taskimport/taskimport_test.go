package taskimport_test

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/tasklist/internal/app/taskimport"
	"github.com/slok/tasklist/internal/model"
	storageio "github.com/slok/tasklist/internal/storage/io"
	"github.com/slok/tasklist/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	src := storageio.NewTasksYAMLRepository(fstest.MapFS{})

	tests := map[string]struct {
		config taskimport.ServiceConfig
		expErr bool
	}{
		"valid config": {
			config: taskimport.ServiceConfig{Source: src, Repository: &storagemock.MockRepository{}},
		},
		"missing source": {
			config: taskimport.ServiceConfig{Repository: &storagemock.MockRepository{}},
			expErr: true,
		},
		"missing repository": {
			config: taskimport.ServiceConfig{Source: src},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := taskimport.NewService(test.config)
			if test.expErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	fs := fstest.MapFS{
		"tasks.yaml": &fstest.MapFile{Data: []byte(`tasks:
  - task: Buy milk
    date: "2026-10-19"
  - task: Walk dog
    completed: true
`)},
		"empty.yaml": &fstest.MapFile{Data: []byte("tasks: []\n")},
		"bad.yaml":   &fstest.MapFile{Data: []byte("tasks:\n  - date: 2026-10-19\n")},
	}
	existing := []model.Task{{ID: "old", Description: "Existing"}}

	tests := map[string]struct {
		mockRepo    func(m *storagemock.MockRepository)
		req         taskimport.Request
		expTasks    []model.Task
		expImported int
		expErr      bool
	}{
		"Importing should append tasks with new IDs": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("SaveTasks", mock.Anything, mock.Anything).Once().Return(nil)
			},
			req: taskimport.Request{Tasks: existing, Path: "tasks.yaml"},
			expTasks: []model.Task{
				{ID: "old", Description: "Existing"},
				{ID: "id-1", Description: "Buy milk", DueDate: "2026-10-19"},
				{ID: "id-2", Description: "Walk dog", Completed: true},
			},
			expImported: 2,
		},

		"An empty source should not persist": {
			mockRepo:    func(m *storagemock.MockRepository) {},
			req:         taskimport.Request{Tasks: existing, Path: "empty.yaml"},
			expTasks:    existing,
			expImported: 0,
		},

		"An invalid source should fail": {
			mockRepo: func(m *storagemock.MockRepository) {},
			req:      taskimport.Request{Tasks: existing, Path: "bad.yaml"},
			expErr:   true,
		},

		"A missing source should fail": {
			mockRepo: func(m *storagemock.MockRepository) {},
			req:      taskimport.Request{Tasks: existing, Path: "missing.yaml"},
			expErr:   true,
		},

		"A save error should propagate": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("SaveTasks", mock.Anything, mock.Anything).Once().Return(fmt.Errorf("disk full"))
			},
			req:    taskimport.Request{Path: "tasks.yaml"},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mRepo := storagemock.NewMockRepository(t)
			test.mockRepo(mRepo)

			n := 0
			svc, err := taskimport.NewService(taskimport.ServiceConfig{
				Source:     storageio.NewTasksYAMLRepository(fs),
				Repository: mRepo,
				IDGenerator: func() string {
					n++
					return fmt.Sprintf("id-%d", n)
				},
			})
			require.NoError(err)

			resp, err := svc.Run(context.Background(), test.req)
			if test.expErr {
				assert.Error(err)
				return
			}

			require.NoError(err)
			assert.Equal(test.expTasks, resp.Tasks)
			assert.Len(resp.Imported, test.expImported)
		})
	}
}
