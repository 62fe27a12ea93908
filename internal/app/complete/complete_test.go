package complete_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/tasklist/internal/app/complete"
	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/model"
	"github.com/slok/tasklist/internal/storage/memory"
	"github.com/slok/tasklist/internal/storage/storagemock"
)

func TestNewService(t *testing.T) {
	_, err := complete.NewService(complete.ServiceConfig{})
	assert.Error(t, err)

	svc, err := complete.NewService(complete.ServiceConfig{Repository: &storagemock.MockRepository{}})
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestService_Run(t *testing.T) {
	tests := map[string]struct {
		mockRepo   func(m *storagemock.MockRepository)
		req        complete.Request
		expTasks   []model.Task
		expToggled int
		expErrIs   error
		expErr     bool
	}{
		"Toggling a pending task should complete it": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("SaveTasks", mock.Anything, []model.Task{
					{ID: "a", Description: "one", Completed: true},
					{ID: "b", Description: "two"},
				}).Once().Return(nil)
			},
			req: complete.Request{
				Tasks: []model.Task{{ID: "a", Description: "one"}, {ID: "b", Description: "two"}},
				ID:    "a",
			},
			expTasks:   []model.Task{{ID: "a", Description: "one", Completed: true}, {ID: "b", Description: "two"}},
			expToggled: 1,
		},

		"Toggling a completed task should reopen it": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("SaveTasks", mock.Anything, mock.Anything).Once().Return(nil)
			},
			req: complete.Request{
				Tasks: []model.Task{{ID: "a", Description: "one", Completed: true}},
				ID:    "a",
			},
			expTasks:   []model.Task{{ID: "a", Description: "one"}},
			expToggled: 1,
		},

		"Every matching task should be toggled": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("SaveTasks", mock.Anything, mock.Anything).Once().Return(nil)
			},
			req: complete.Request{
				Tasks: []model.Task{
					{ID: "dup", Description: "one"},
					{ID: "other", Description: "two"},
					{ID: "dup", Description: "three", Completed: true},
				},
				ID: "dup",
			},
			expTasks: []model.Task{
				{ID: "dup", Description: "one", Completed: true},
				{ID: "other", Description: "two"},
				{ID: "dup", Description: "three"},
			},
			expToggled: 2,
		},

		"The ID should be trimmed before matching": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("SaveTasks", mock.Anything, mock.Anything).Once().Return(nil)
			},
			req: complete.Request{
				Tasks: []model.Task{{ID: "a", Description: "one"}},
				ID:    "  a ",
			},
			expTasks:   []model.Task{{ID: "a", Description: "one", Completed: true}},
			expToggled: 1,
		},

		"An unknown ID should not persist": {
			mockRepo: func(m *storagemock.MockRepository) {},
			req: complete.Request{
				Tasks: []model.Task{{ID: "a", Description: "one"}},
				ID:    "missing",
			},
			expErr:   true,
			expErrIs: model.ErrNotFound,
		},

		"An empty ID should fail": {
			mockRepo: func(m *storagemock.MockRepository) {},
			req:      complete.Request{ID: "  "},
			expErr:   true,
			expErrIs: model.ErrNotValid,
		},

		"A save error should propagate": {
			mockRepo: func(m *storagemock.MockRepository) {
				m.On("SaveTasks", mock.Anything, mock.Anything).Once().Return(fmt.Errorf("disk full"))
			},
			req: complete.Request{
				Tasks: []model.Task{{ID: "a", Description: "one"}},
				ID:    "a",
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mRepo := storagemock.NewMockRepository(t)
			test.mockRepo(mRepo)

			svc, err := complete.NewService(complete.ServiceConfig{Repository: mRepo, Logger: log.Noop})
			require.NoError(err)

			original := slices.Clone(test.req.Tasks)
			resp, err := svc.Run(context.Background(), test.req)

			// The input collection is never mutated.
			assert.Equal(original, test.req.Tasks)

			if test.expErr {
				require.Error(err)
				if test.expErrIs != nil {
					assert.True(errors.Is(err, test.expErrIs))
				}
				return
			}

			require.NoError(err)
			assert.Equal(test.expTasks, resp.Tasks)
			assert.Equal(test.expToggled, resp.Toggled)
		})
	}
}

func TestService_RunTwiceRestoresState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	initial := []model.Task{
		{ID: "a", Description: "one", DueDate: "2026-10-19"},
		{ID: "b", Description: "two", Completed: true},
	}
	repo, err := memory.NewRepository(memory.RepositoryConfig{Tasks: initial})
	require.NoError(err)

	svc, err := complete.NewService(complete.ServiceConfig{Repository: repo})
	require.NoError(err)

	for _, id := range []string{"a", "b"} {
		resp1, err := svc.Run(ctx, complete.Request{Tasks: initial, ID: id})
		require.NoError(err)
		resp2, err := svc.Run(ctx, complete.Request{Tasks: resp1.Tasks, ID: id})
		require.NoError(err)

		assert.Equal(t, initial, resp2.Tasks)

		stored, err := repo.LoadTasks(ctx)
		require.NoError(err)
		assert.Equal(t, initial, stored)
	}
}
