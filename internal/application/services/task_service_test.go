package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
	"github.com/taskmaster/planner/internal/ports"
	"github.com/taskmaster/planner/internal/ports/portstest"
)

func strPtr(s string) *string { return &s }

func newTaskService(t *testing.T) (*TaskService, *portstest.TaskRepository) {
	t.Helper()
	repo := portstest.NewTaskRepository()
	return NewTaskService(repo, logger.NewNop(), metrics.New()), repo
}

func TestTaskServiceCreateTask(t *testing.T) {
	svc, repo := newTaskService(t)
	ctx := context.Background()
	userID := uuid.New()
	date := entities.Date(2024, time.June, 10)

	t.Run("without time", func(t *testing.T) {
		task, err := svc.CreateTask(ctx, userID, date, ports.CreateTaskRequest{Title: "Standup"})
		require.NoError(t, err)
		assert.Equal(t, userID, task.UserID)
		assert.Equal(t, date, task.Date)
		assert.Nil(t, task.Time)
		assert.False(t, task.Completed)
	})

	t.Run("with time", func(t *testing.T) {
		task, err := svc.CreateTask(ctx, userID, date, ports.CreateTaskRequest{Title: "Review", Time: "09:00", Description: "PRs"})
		require.NoError(t, err)
		require.NotNil(t, task.Time)
		assert.Equal(t, entities.TimeOfDay{Hour: 9}, *task.Time)
		assert.Equal(t, "PRs", task.Description)
	})

	t.Run("malformed time is ignored", func(t *testing.T) {
		task, err := svc.CreateTask(ctx, userID, date, ports.CreateTaskRequest{Title: "Lunch", Time: "noonish"})
		require.NoError(t, err)
		assert.Nil(t, task.Time)
	})

	t.Run("empty title creates nothing", func(t *testing.T) {
		before := repo.Len()
		task, err := svc.CreateTask(ctx, userID, date, ports.CreateTaskRequest{Description: "no title"})
		assert.ErrorIs(t, err, entities.ErrTitleRequired)
		assert.Nil(t, task)
		assert.Equal(t, before, repo.Len())
	})
}

func TestTaskServiceToggleTask(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()
	userID := uuid.New()

	task, err := svc.CreateTask(ctx, userID, entities.Date(2024, time.June, 10), ports.CreateTaskRequest{Title: "Standup"})
	require.NoError(t, err)

	toggled, err := svc.ToggleTask(ctx, userID, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = svc.ToggleTask(ctx, userID, task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	stored, err := svc.GetTask(ctx, userID, task.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)
}

func TestTaskServiceUpdateTask(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()
	userID := uuid.New()
	date := entities.Date(2024, time.June, 10)

	create := func(t *testing.T) *entities.Task {
		t.Helper()
		task, err := svc.CreateTask(ctx, userID, date, ports.CreateTaskRequest{Title: "Standup", Description: "daily", Time: "09:00"})
		require.NoError(t, err)
		return task
	}

	t.Run("only description", func(t *testing.T) {
		task := create(t)
		updated, err := svc.UpdateTask(ctx, userID, task.ID, ports.EditTaskRequest{Description: strPtr("weekly")})
		require.NoError(t, err)

		stored, err := svc.GetTask(ctx, userID, updated.ID)
		require.NoError(t, err)
		assert.Equal(t, "Standup", stored.Title)
		assert.Equal(t, "weekly", stored.Description)
		assert.Equal(t, &entities.TimeOfDay{Hour: 9}, stored.Time)
		assert.Equal(t, date, stored.Date)
	})

	t.Run("all fields", func(t *testing.T) {
		task := create(t)
		_, err := svc.UpdateTask(ctx, userID, task.ID, ports.EditTaskRequest{
			Title:       strPtr("Retro"),
			Description: strPtr(""),
			Time:        strPtr("16:30"),
		})
		require.NoError(t, err)

		stored, err := svc.GetTask(ctx, userID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Retro", stored.Title)
		assert.Empty(t, stored.Description)
		assert.Equal(t, &entities.TimeOfDay{Hour: 16, Minute: 30}, stored.Time)
	})

	t.Run("empty title and malformed time keep values", func(t *testing.T) {
		task := create(t)
		_, err := svc.UpdateTask(ctx, userID, task.ID, ports.EditTaskRequest{Title: strPtr(""), Time: strPtr("later")})
		require.NoError(t, err)

		stored, err := svc.GetTask(ctx, userID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Standup", stored.Title)
		assert.Equal(t, &entities.TimeOfDay{Hour: 9}, stored.Time)
	})
}

func TestTaskServiceDeleteTask(t *testing.T) {
	svc, repo := newTaskService(t)
	ctx := context.Background()
	userID := uuid.New()

	task, err := svc.CreateTask(ctx, userID, entities.Date(2024, time.June, 10), ports.CreateTaskRequest{Title: "Standup"})
	require.NoError(t, err)

	deleted, err := svc.DeleteTask(ctx, userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Date, deleted.Date)
	assert.Zero(t, repo.Len())

	_, err = svc.DeleteTask(ctx, userID, task.ID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestTaskServiceOwnership(t *testing.T) {
	svc, repo := newTaskService(t)
	ctx := context.Background()
	owner, intruder := uuid.New(), uuid.New()

	task, err := svc.CreateTask(ctx, owner, entities.Date(2024, time.June, 10), ports.CreateTaskRequest{Title: "Private"})
	require.NoError(t, err)

	_, err = svc.ToggleTask(ctx, intruder, task.ID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)

	_, err = svc.UpdateTask(ctx, intruder, task.ID, ports.EditTaskRequest{Title: strPtr("Mine now")})
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)

	_, err = svc.DeleteTask(ctx, intruder, task.ID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)

	stored, err := svc.GetTask(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", stored.Title)
	assert.False(t, stored.Completed)
	assert.Equal(t, 1, repo.Len())
}
