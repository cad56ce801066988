package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
	"github.com/taskmaster/planner/internal/ports"
)

// TaskService handles task mutations. Every operation is scoped to the
// owning user; tasks of other users are reported as ErrTaskNotFound.
type TaskService struct {
	taskRepo ports.TaskRepository
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, logger *logger.Logger, m *metrics.Metrics) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger.WithComponent("task"),
		metrics:  m,
	}
}

// CreateTask adds a task on date. An empty title creates nothing and
// yields ErrTitleRequired. A time that does not parse is dropped and the
// task is created unscheduled.
func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, date time.Time, req ports.CreateTaskRequest) (*entities.Task, error) {
	if req.Title == "" {
		return nil, entities.ErrTitleRequired
	}

	task := &entities.Task{
		UserID:      userID,
		Date:        date,
		Title:       req.Title,
		Description: req.Description,
		Time:        s.parseTime(req.Time),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.metrics.RecordTaskMutation(metrics.ActionCreate)
	s.logger.LogUserAction(userID.String(), "task_created", map[string]interface{}{
		"task_id": task.ID,
		"date":    task.Date.Format(entities.DateLayout),
	})

	return task, nil
}

// GetTask retrieves one of the user's tasks
func (s *TaskService) GetTask(ctx context.Context, userID uuid.UUID, id int64) (*entities.Task, error) {
	task, err := s.taskRepo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, s.notFound(err, userID, id)
	}
	return task, nil
}

// ToggleTask flips the completion flag
func (s *TaskService) ToggleTask(ctx context.Context, userID uuid.UUID, id int64) (*entities.Task, error) {
	task, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	task.Toggle()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, s.notFound(err, userID, id)
	}

	s.metrics.RecordTaskMutation(metrics.ActionToggle)
	s.logger.LogUserAction(userID.String(), "task_toggled", map[string]interface{}{
		"task_id":   id,
		"completed": task.Completed,
	})

	return task, nil
}

// UpdateTask applies the supplied fields. A nil or empty title keeps the
// current one, a nil description keeps the current one, and a time is
// only changed when it is supplied and parses. The date never changes.
func (s *TaskService) UpdateTask(ctx context.Context, userID uuid.UUID, id int64, req ports.EditTaskRequest) (*entities.Task, error) {
	task, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != "" {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Time != nil {
		if tod := s.parseTime(*req.Time); tod != nil {
			task.Time = tod
		}
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, s.notFound(err, userID, id)
	}

	s.metrics.RecordTaskMutation(metrics.ActionEdit)
	s.logger.LogUserAction(userID.String(), "task_updated", map[string]interface{}{
		"task_id": id,
	})

	return task, nil
}

// DeleteTask removes the task and returns it as it was before deletion.
func (s *TaskService) DeleteTask(ctx context.Context, userID uuid.UUID, id int64) (*entities.Task, error) {
	task, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Delete(ctx, id, userID); err != nil {
		return nil, s.notFound(err, userID, id)
	}

	s.metrics.RecordTaskMutation(metrics.ActionDelete)
	s.logger.LogUserAction(userID.String(), "task_deleted", map[string]interface{}{
		"task_id": id,
	})

	return task, nil
}

func (s *TaskService) parseTime(value string) *entities.TimeOfDay {
	if value == "" {
		return nil
	}
	tod, err := entities.ParseTimeOfDay(value)
	if err != nil {
		s.logger.Debugw("Ignoring malformed task time", "value", value)
		return nil
	}
	return &tod
}

func (s *TaskService) notFound(err error, userID uuid.UUID, id int64) error {
	if errors.Is(err, entities.ErrTaskNotFound) {
		s.logger.LogSecurityEvent("task_not_found_for_user", userID.String(), "", map[string]interface{}{
			"task_id": id,
		})
		return entities.ErrTaskNotFound
	}
	return fmt.Errorf("task %d: %w", id, err)
}
