package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockEnqueuer is a mock implementation of Enqueuer
type mockEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.tasks = append(m.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueMedia, Type: task.Type()}, nil
}

// mockRemover is a mock implementation of AssetRemover
type mockRemover struct {
	errs    map[string]error
	removed []string
}

func (m *mockRemover) Delete(ctx context.Context, id string) error {
	if err := m.errs[id]; err != nil {
		return err
	}
	m.removed = append(m.removed, id)
	return nil
}

func TestDispatcher_EnqueueMediaCleanup(t *testing.T) {
	tests := []struct {
		name          string
		ids           []string
		enqueueErr    error
		expectedTasks int
		expectedIDs   []string
		expectedError bool
	}{
		{
			name:          "success",
			ids:           []string{"a1", " ", "a2"},
			expectedTasks: 1,
			expectedIDs:   []string{"a1", "a2"},
		},
		{
			name:          "nothing to clean",
			ids:           []string{"", " "},
			expectedTasks: 0,
		},
		{
			name:          "enqueue failure",
			ids:           []string{"a1"},
			enqueueErr:    errors.New("redis down"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockEnqueuer{err: tt.enqueueErr}
			dispatcher := NewDispatcher(client, zap.NewNop())

			err := dispatcher.EnqueueMediaCleanup(context.Background(), tt.ids, "course deleted")

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, client.tasks, tt.expectedTasks)
			if tt.expectedTasks > 0 {
				task := client.tasks[0]
				assert.Equal(t, TypeMediaCleanup, task.Type())
				var payload MediaCleanupPayload
				require.NoError(t, json.Unmarshal(task.Payload(), &payload))
				assert.Equal(t, tt.expectedIDs, payload.AssetIDs)
				assert.Equal(t, "course deleted", payload.Reason)
			}
		})
	}
}

func TestCleanupHandler_ProcessTask(t *testing.T) {
	tests := []struct {
		name          string
		errs          map[string]error
		expectedError bool
		expectRemoved []string
	}{
		{
			name:          "all removed",
			expectRemoved: []string{"a1", "a2"},
		},
		{
			name:          "missing asset counts as removed",
			errs:          map[string]error{"a1": errors.New("media asset not found")},
			expectRemoved: []string{"a2"},
		},
		{
			name:          "storage failure retries",
			errs:          map[string]error{"a2": errors.New("permission denied")},
			expectedError: true,
			expectRemoved: []string{"a1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remover := &mockRemover{errs: tt.errs}
			handler := NewCleanupHandler(remover, zap.NewNop())
			task, err := NewMediaCleanupTask([]string{"a1", "a2"}, "test")
			require.NoError(t, err)

			err = handler.ProcessTask(context.Background(), task)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectRemoved, remover.removed)
		})
	}
}

func TestCleanupHandler_ProcessTask_BadPayload(t *testing.T) {
	handler := NewCleanupHandler(&mockRemover{}, zap.NewNop())

	err := handler.ProcessTask(context.Background(), asynq.NewTask(TypeMediaCleanup, []byte("{")))

	assert.ErrorIs(t, err, asynq.SkipRetry)
}

// mockFinder is a mock implementation of OrphanFinder
type mockFinder struct {
	ids    []string
	err    error
	before time.Time
	limit  int
}

func (m *mockFinder) FindOrphans(ctx context.Context, before time.Time, limit int) ([]string, error) {
	m.before = before
	m.limit = limit
	return m.ids, m.err
}

// mockCleanupEnqueuer is a mock implementation of CleanupEnqueuer
type mockCleanupEnqueuer struct {
	ids []string
	err error
}

func (m *mockCleanupEnqueuer) EnqueueMediaCleanup(ctx context.Context, assetIDs []string, reason string) error {
	if m.err != nil {
		return m.err
	}
	m.ids = append(m.ids, assetIDs...)
	return nil
}

func TestOrphanSweeper_Sweep(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		finder        *mockFinder
		enqueuer      *mockCleanupEnqueuer
		expectedCount int
		expectedError bool
	}{
		{
			name:          "queues orphans",
			finder:        &mockFinder{ids: []string{"a1", "a2"}},
			enqueuer:      &mockCleanupEnqueuer{},
			expectedCount: 2,
		},
		{
			name:          "no orphans",
			finder:        &mockFinder{},
			enqueuer:      &mockCleanupEnqueuer{},
			expectedCount: 0,
		},
		{
			name:          "finder error",
			finder:        &mockFinder{err: errors.New("database error")},
			enqueuer:      &mockCleanupEnqueuer{},
			expectedError: true,
		},
		{
			name:          "enqueue error",
			finder:        &mockFinder{ids: []string{"a1"}},
			enqueuer:      &mockCleanupEnqueuer{err: errors.New("redis down")},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweeper := NewOrphanSweeper(tt.finder, tt.enqueuer, 24*time.Hour, zap.NewNop())
			sweeper.now = func() time.Time { return now }

			count, err := sweeper.Sweep(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
				assert.Zero(t, count)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCount, count)
			assert.Equal(t, now.Add(-24*time.Hour), tt.finder.before)
			assert.Equal(t, defaultSweepBatch, tt.finder.limit)
			assert.Len(t, tt.enqueuer.ids, tt.expectedCount)
		})
	}
}
